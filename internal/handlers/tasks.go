package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/repository"
	"github.com/taskboard-dev/taskboard/internal/utils"
)

type TaskRequest struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
	DueTime     string `json:"due_time"`
}

// TaskPatch distinguishes absent fields from empty ones; only supplied
// fields reach the repository.
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Category    *string `json:"category"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
	DueTime     *string `json:"due_time"`
}

func (p TaskPatch) toMap() map[string]interface{} {
	patch := make(map[string]interface{})
	if p.Title != nil {
		patch["title"] = *p.Title
	}
	if p.Description != nil {
		patch["description"] = *p.Description
	}
	if p.Priority != nil {
		patch["priority"] = *p.Priority
	}
	if p.Category != nil {
		patch["category"] = *p.Category
	}
	if p.Status != nil {
		patch["status"] = *p.Status
	}
	if p.DueDate != nil {
		patch["due_date"] = *p.DueDate
	}
	if p.DueTime != nil {
		patch["due_time"] = *p.DueTime
	}
	return patch
}

func CreateTask(ctx *gin.Context) {
	var body TaskRequest
	if err := ctx.BindJSON(&body); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	userID := utils.ResolveUserID(ctx, body.UserID)

	task := models.Task{
		ID:          body.ID,
		UserID:      userID,
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		Category:    body.Category,
		Status:      body.Status,
		DueDate:     body.DueDate,
		DueTime:     body.DueTime,
	}

	if err := taskRepo().Create(ctx, &task); err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"task": task})
}

func ListTasks(ctx *gin.Context) {
	userID := utils.ResolveUserID(ctx, "")

	opts := repository.TaskListOptions{
		Status:          ctx.Query("status"),
		WithAttachments: ctx.Query("withAttachments") == "true",
	}

	tasks, err := taskRepo().ListByUser(ctx, userID, opts)
	if err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"tasks": tasks})
}

func GetTask(ctx *gin.Context) {
	task, err := taskRepo().FindByID(ctx, ctx.Param("id"))
	if err != nil {
		respondAppError(ctx, utils.ResolveUserID(ctx, ""), err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"task": task})
}

func UpdateTask(ctx *gin.Context) {
	var body TaskPatch
	if err := ctx.BindJSON(&body); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	userID := utils.ResolveUserID(ctx, "")

	task, err := taskRepo().Update(ctx, ctx.Param("id"), body.toMap())
	if err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"task": task})
}

func DeleteTask(ctx *gin.Context) {
	userID := utils.ResolveUserID(ctx, "")

	if err := taskRepo().Delete(ctx, ctx.Param("id")); err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"message": "Task deleted"})
}

func TaskStats(ctx *gin.Context) {
	userID := ctx.Param("userId")

	stats, err := taskRepo().Stats(ctx, userID)
	if err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"stats": stats})
}

func TasksInRange(ctx *gin.Context) {
	userID := ctx.Param("userId")
	from := ctx.Query("from")
	to := ctx.Query("to")

	if from == "" || to == "" {
		respondError(ctx, http.StatusBadRequest, "from and to are required")
		return
	}

	tasks, err := taskRepo().ListInRange(ctx, userID, from, to)
	if err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"tasks": tasks})
}
