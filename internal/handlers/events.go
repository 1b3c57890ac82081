package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/utils"
)

type EventRequest struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Type          string `json:"type"`
	Subtype       string `json:"subtype"`
	Color         string `json:"color"`
	Location      string `json:"location"`
	AllDay        bool   `json:"all_day"`
	Recurring     bool   `json:"recurring"`
	RecurringType string `json:"recurring_type"`
}

type EventPatch struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Date          *string `json:"date"`
	Time          *string `json:"time"`
	Type          *string `json:"type"`
	Subtype       *string `json:"subtype"`
	Color         *string `json:"color"`
	Location      *string `json:"location"`
	AllDay        *bool   `json:"all_day"`
	Recurring     *bool   `json:"recurring"`
	RecurringType *string `json:"recurring_type"`
}

func (p EventPatch) toMap() map[string]interface{} {
	patch := make(map[string]interface{})
	if p.Title != nil {
		patch["title"] = *p.Title
	}
	if p.Description != nil {
		patch["description"] = *p.Description
	}
	if p.Date != nil {
		patch["date"] = *p.Date
	}
	if p.Time != nil {
		patch["time"] = *p.Time
	}
	if p.Type != nil {
		patch["type"] = *p.Type
	}
	if p.Subtype != nil {
		patch["subtype"] = *p.Subtype
	}
	if p.Color != nil {
		patch["color"] = *p.Color
	}
	if p.Location != nil {
		patch["location"] = *p.Location
	}
	if p.AllDay != nil {
		patch["all_day"] = *p.AllDay
	}
	if p.Recurring != nil {
		patch["recurring"] = *p.Recurring
	}
	if p.RecurringType != nil {
		patch["recurring_type"] = *p.RecurringType
	}
	return patch
}

func CreateEvent(ctx *gin.Context) {
	var body EventRequest
	if err := ctx.BindJSON(&body); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	userID := utils.ResolveUserID(ctx, body.UserID)

	event := models.Event{
		ID:            body.ID,
		UserID:        userID,
		Title:         body.Title,
		Description:   body.Description,
		Date:          body.Date,
		Time:          body.Time,
		Type:          body.Type,
		Subtype:       body.Subtype,
		Color:         body.Color,
		Location:      body.Location,
		AllDay:        body.AllDay,
		Recurring:     body.Recurring,
		RecurringType: body.RecurringType,
	}

	if err := eventRepo().Create(ctx, &event); err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"event": event})
}

func ListEvents(ctx *gin.Context) {
	userID := utils.ResolveUserID(ctx, "")

	events, err := eventRepo().ListByUser(ctx, userID)
	if err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"events": events})
}

// EventsByDate serves the calendar view for one day.
func EventsByDate(ctx *gin.Context) {
	userID := ctx.Param("userId")

	events, err := eventRepo().ListByDate(ctx, userID, ctx.Query("date"))
	if err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"events": events})
}

func GetEvent(ctx *gin.Context) {
	event, err := eventRepo().FindByID(ctx, ctx.Param("id"))
	if err != nil {
		respondAppError(ctx, utils.ResolveUserID(ctx, ""), err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"event": event})
}

func UpdateEvent(ctx *gin.Context) {
	var body EventPatch
	if err := ctx.BindJSON(&body); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	userID := utils.ResolveUserID(ctx, "")

	event, err := eventRepo().Update(ctx, ctx.Param("id"), body.toMap())
	if err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"event": event})
}

func DeleteEvent(ctx *gin.Context) {
	userID := utils.ResolveUserID(ctx, "")

	if err := eventRepo().Delete(ctx, ctx.Param("id")); err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"message": "Event deleted"})
}
