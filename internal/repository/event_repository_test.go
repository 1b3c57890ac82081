package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/taskboard-dev/taskboard/internal/apperrors"
	"github.com/taskboard-dev/taskboard/internal/models"
)

func mustCreateEvent(t *testing.T, repo *EventRepository, event models.Event) models.Event {
	t.Helper()

	if err := repo.Create(context.Background(), &event); err != nil {
		t.Fatalf("failed to prepare event: %v", err)
	}
	return event
}

func TestCreateEventDefaults(t *testing.T) {
	t.Parallel()

	repo := NewEventRepository(newTestDB(t))

	event := mustCreateEvent(t, repo, models.Event{Title: "standup", Date: "2025-08-31"})

	if event.ID == "" {
		t.Error("expected a generated id")
	}
	if event.UserID != models.DefaultUserID {
		t.Errorf("expected user_id %q, got %q", models.DefaultUserID, event.UserID)
	}
}

func TestCreateEventValidation(t *testing.T) {
	t.Parallel()

	repo := NewEventRepository(newTestDB(t))

	if err := repo.Create(context.Background(), &models.Event{Date: "2025-08-31"}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected ErrValidation for missing title, got %v", err)
	}
	if err := repo.Create(context.Background(), &models.Event{Title: "x"}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected ErrValidation for missing date, got %v", err)
	}
}

// A timestamp-suffixed date, as the postgres driver can return, must be
// normalized to its calendar prefix on write.
func TestCreateEventNormalizesDate(t *testing.T) {
	t.Parallel()

	repo := NewEventRepository(newTestDB(t))

	event := mustCreateEvent(t, repo, models.Event{Title: "launch", Date: "2025-08-31T04:00:00.000Z"})

	if event.Date != "2025-08-31" {
		t.Errorf("expected normalized date, got %q", event.Date)
	}
}

// The calendar query must find an event whether the stored value is a bare
// date or a full timestamp.
func TestListByDateToleratesTimestamps(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	repo := NewEventRepository(database)

	plain := mustCreateEvent(t, repo, models.Event{Title: "plain", Date: "2025-08-31"})
	suffixed := mustCreateEvent(t, repo, models.Event{Title: "suffixed", Date: "2025-08-31"})
	mustCreateEvent(t, repo, models.Event{Title: "other day", Date: "2025-09-01"})

	// Simulate a driver that reads the date column back as a timestamp.
	err := database.Model(&models.Event{}).
		Where("id = ?", suffixed.ID).
		Update("date", "2025-08-31T04:00:00.000Z").Error
	if err != nil {
		t.Fatalf("failed to rewrite date: %v", err)
	}

	events, err := repo.ListByDate(context.Background(), models.DefaultUserID, "2025-08-31")
	if err != nil {
		t.Fatalf("ListByDate returned error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	found := map[string]bool{}
	for _, e := range events {
		found[e.ID] = true
	}
	if !found[plain.ID] || !found[suffixed.ID] {
		t.Errorf("expected both events for the day, got %+v", events)
	}
}

func TestCreateEventIdempotentUpsert(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	repo := NewEventRepository(database)

	mustCreateEvent(t, repo, models.Event{ID: "E1", Title: "first", Date: "2025-08-31"})
	second := mustCreateEvent(t, repo, models.Event{ID: "E1", Title: "second", Date: "2025-09-01"})

	var count int64
	if err := database.Model(&models.Event{}).Where("id = ?", "E1").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one row, got %d", count)
	}
	if second.Title != "second" || second.Date != "2025-09-01" {
		t.Errorf("expected second call's fields, got %+v", second)
	}
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	t.Parallel()

	repo := NewEventRepository(newTestDB(t))

	event := mustCreateEvent(t, repo, models.Event{Title: "movable", Date: "2025-08-31"})

	updated, err := repo.Update(context.Background(), event.ID, map[string]interface{}{
		"date":      "2025-09-05",
		"recurring": true,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Date != "2025-09-05" || !updated.Recurring {
		t.Errorf("unexpected update result: %+v", updated)
	}

	if err := repo.Delete(context.Background(), event.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := repo.Delete(context.Background(), event.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
