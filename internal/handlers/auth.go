package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskboard-dev/taskboard/internal/apperrors"
	"github.com/taskboard-dev/taskboard/internal/auth"
	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/utils"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

func userResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Avatar: user.Avatar,
	}
}

func Register(ctx *gin.Context) {
	var body RegisterRequest
	if err := ctx.BindJSON(&body); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	if _, err := userRepo().FindByEmail(ctx, body.Email); err == nil {
		respondError(ctx, http.StatusBadRequest, "Email already exists")
		return
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		respondAppError(ctx, body.Email, err)
		return
	}

	passwordHash, err := auth.HashPassword(body.Password)
	if err != nil {
		log.Printf("hash password endpoint=%s err=%v", ctx.FullPath(), err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := models.User{
		Email:        body.Email,
		PasswordHash: passwordHash,
		Name:         body.Name,
	}

	if err := userRepo().Create(ctx, &user); err != nil {
		respondAppError(ctx, body.Email, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		log.Printf("generate token endpoint=%s user_id=%s err=%v", ctx.FullPath(), user.ID, err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"token": token, "user": userResponse(&user)})
}

func Login(ctx *gin.Context) {
	var body LoginRequest
	if err := ctx.BindJSON(&body); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	user, err := userRepo().FindByEmail(ctx, body.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(ctx, http.StatusBadRequest, "Invalid email or password")
			return
		}
		respondAppError(ctx, body.Email, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, body.Password) {
		respondError(ctx, http.StatusBadRequest, "Invalid email or password")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		log.Printf("generate token endpoint=%s user_id=%s err=%v", ctx.FullPath(), user.ID, err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"token": token, "user": userResponse(user)})
}

// Verify runs behind RequireAuth, so a resolved user id is guaranteed.
func Verify(ctx *gin.Context) {
	userID := utils.ResolveUserID(ctx, "")

	user, err := userRepo().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(ctx, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"user": userResponse(user)})
}

// Logout is stateless: tokens are opaque and expire on their own, so the
// server only acknowledges and the client discards its copy.
func Logout(ctx *gin.Context) {
	respondOK(ctx, http.StatusOK, gin.H{"message": "Logged out successfully"})
}
