package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskboard-dev/taskboard/internal/apperrors"
	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/utils"
)

// EventRepository handles CRUD for calendar events.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

var eventUpsertColumns = []string{
	"user_id", "title", "description", "date", "time", "type", "subtype",
	"color", "location", "all_day", "recurring", "recurring_type", "updated_at",
}

// Create inserts an event; like task creation it is an upsert keyed on id
// so retries are idempotent. Date is normalized to its calendar prefix
// before writing.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return validationErr("title is required")
	}
	event.Date = utils.DateOnly(strings.TrimSpace(event.Date))
	if event.Date == "" {
		return validationErr("date is required")
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.UserID == "" {
		event.UserID = models.DefaultUserID
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(eventUpsertColumns),
	}).Create(event).Error
	if err != nil {
		return queryErr("create event", err)
	}

	var stored models.Event
	if err := r.db.WithContext(ctx).First(&stored, "id = ?", event.ID).Error; err != nil {
		return queryErr("create event", err)
	}
	*event = stored

	return nil
}

func (r *EventRepository) ListByUser(ctx context.Context, userID string) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date, time").
		Find(&events).Error
	if err != nil {
		return nil, queryErr("list events", err)
	}
	return events, nil
}

// ListByDate returns the user's events for one calendar day. The stored
// date may carry a timestamp suffix depending on the driver, so matching
// is on the date prefix.
func (r *EventRepository) ListByDate(ctx context.Context, userID, date string) ([]models.Event, error) {
	date = utils.DateOnly(strings.TrimSpace(date))
	if date == "" {
		return nil, validationErr("date is required")
	}

	events, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Event, 0, len(events))
	for _, e := range events {
		if utils.DateOnly(e.Date) == date {
			matched = append(matched, e)
		}
	}

	return matched, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, queryErr("find event", err)
	}
	return &event, nil
}

// Update applies only the supplied fields and refreshes updated_at.
func (r *EventRepository) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Event, error) {
	if title, ok := patch["title"].(string); ok {
		title = strings.TrimSpace(title)
		if title == "" {
			return nil, validationErr("title is required")
		}
		patch["title"] = title
	}
	if date, ok := patch["date"].(string); ok {
		date = utils.DateOnly(strings.TrimSpace(date))
		if date == "" {
			return nil, validationErr("date is required")
		}
		patch["date"] = date
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}

	patch["updated_at"] = time.Now()

	if err := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Updates(patch).Error; err != nil {
		return nil, queryErr("update event", err)
	}

	return r.FindByID(ctx, id)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Event{})
	if res.Error != nil {
		return queryErr("delete event", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete event: %w", apperrors.ErrNotFound)
	}
	return nil
}
