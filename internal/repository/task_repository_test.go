package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskboard-dev/taskboard/internal/apperrors"
	"github.com/taskboard-dev/taskboard/internal/models"
)

func TestCreateTaskDefaults(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	task := mustCreateTask(t, repo, models.Task{Title: "Buy milk"})

	if task.ID == "" {
		t.Error("expected a generated id")
	}
	if task.UserID != models.DefaultUserID {
		t.Errorf("expected user_id %q, got %q", models.DefaultUserID, task.UserID)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("expected priority medium, got %q", task.Priority)
	}
	if task.Category != models.DefaultCategory {
		t.Errorf("expected category personal, got %q", task.Category)
	}
	if task.Status != models.StatusTodo {
		t.Errorf("expected status todo, got %q", task.Status)
	}
	if task.CreatedAt.After(task.UpdatedAt) {
		t.Errorf("created_at %v is after updated_at %v", task.CreatedAt, task.UpdatedAt)
	}
}

func TestCreateTaskEmptyTitle(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	err := repo.Create(context.Background(), &models.Task{Title: "   "})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateTaskInvalidStatus(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	err := repo.Create(context.Background(), &models.Task{Title: "x", Status: "done"})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateTaskComputesDueDatetime(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	task := mustCreateTask(t, repo, models.Task{Title: "dentist", DueDate: "2025-09-01", DueTime: "09:30"})

	if task.DueDatetime == nil {
		t.Fatal("expected due_datetime to be computed")
	}
	if task.DueDatetime.Hour() != 9 || task.DueDatetime.Minute() != 30 {
		t.Errorf("unexpected due_datetime %v", task.DueDatetime)
	}

	bare := mustCreateTask(t, repo, models.Task{Title: "no due"})
	if bare.DueDatetime != nil {
		t.Errorf("expected nil due_datetime, got %v", bare.DueDatetime)
	}

	// A date without a time stores a null due_datetime, not midnight.
	dateOnly := mustCreateTask(t, repo, models.Task{Title: "someday", DueDate: "2025-09-01"})
	if dateOnly.DueDatetime != nil {
		t.Errorf("expected nil due_datetime for date-only task, got %v", dateOnly.DueDatetime)
	}
	stored, err := repo.FindByID(context.Background(), dateOnly.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if stored.DueDatetime != nil {
		t.Errorf("expected null due_datetime stored, got %v", stored.DueDatetime)
	}
}

// Retrying a create with the same id must leave exactly one row whose
// fields match the second call.
func TestCreateTaskIdempotentUpsert(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	repo := NewTaskRepository(database)

	first := mustCreateTask(t, repo, models.Task{ID: "T1", Title: "first title"})
	second := mustCreateTask(t, repo, models.Task{ID: "T1", Title: "second title", Priority: models.PriorityHigh})

	var count int64
	if err := database.Model(&models.Task{}).Where("id = ?", "T1").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one row, got %d", count)
	}

	if second.Title != "second title" || second.Priority != models.PriorityHigh {
		t.Errorf("expected second call's fields, got %+v", second)
	}
	if second.CreatedAt.After(second.UpdatedAt) {
		t.Errorf("created_at %v is after updated_at %v", second.CreatedAt, second.UpdatedAt)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on retry: %v vs %v", first.CreatedAt, second.CreatedAt)
	}
}

func TestListByUserScoping(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	mustCreateTask(t, repo, models.Task{Title: "mine", UserID: "alice"})
	mustCreateTask(t, repo, models.Task{Title: "theirs", UserID: "bob"})
	mustCreateTask(t, repo, models.Task{Title: "anon"})

	tasks, err := repo.ListByUser(context.Background(), "alice", TaskListOptions{})
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}

	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.UserID != "alice" {
			t.Errorf("task %s leaked across users: user_id=%q", task.ID, task.UserID)
		}
	}
}

func TestListByUserOrderAndStatusFilter(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	older := time.Now().Add(-time.Hour)
	mustCreateTask(t, repo, models.Task{Title: "old", CreatedAt: older})
	mustCreateTask(t, repo, models.Task{Title: "new", Status: models.StatusProgress})

	tasks, err := repo.ListByUser(context.Background(), models.DefaultUserID, TaskListOptions{})
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Title != "new" {
		t.Fatalf("expected newest first, got %+v", tasks)
	}

	// An unknown status yields an empty list, not an error.
	none, err := repo.ListByUser(context.Background(), models.DefaultUserID, TaskListOptions{Status: "archived"})
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no tasks for unknown status, got %d", len(none))
	}

	progress, err := repo.ListByUser(context.Background(), models.DefaultUserID, TaskListOptions{Status: models.StatusProgress})
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(progress) != 1 || progress[0].Title != "new" {
		t.Fatalf("expected the in-progress task, got %+v", progress)
	}
}

func TestListByUserWithAttachments(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	taskRepo := NewTaskRepository(database)
	fileRepo := NewFileRepository(database)
	attRepo := NewAttachmentRepository(database)

	task := mustCreateTask(t, taskRepo, models.Task{Title: "with file"})
	plain := mustCreateTask(t, taskRepo, models.Task{Title: "without file"})
	file := mustCreateFile(t, fileRepo, models.File{OriginalName: "doc.pdf"})

	if err := attRepo.Add(context.Background(), task.ID, file.ID); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	tasks, err := taskRepo.ListByUser(context.Background(), models.DefaultUserID, TaskListOptions{WithAttachments: true})
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}

	for _, got := range tasks {
		switch got.ID {
		case task.ID:
			if len(got.Attachments) != 1 || got.Attachments[0].ID != file.ID {
				t.Errorf("expected one attachment, got %+v", got.Attachments)
			}
		case plain.ID:
			if got.Attachments == nil || len(got.Attachments) != 0 {
				t.Errorf("expected empty attachment list, got %+v", got.Attachments)
			}
		}
	}
}

func TestUpdateTaskPartialPatch(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	task := mustCreateTask(t, repo, models.Task{Title: "initial", Description: "keep me"})

	time.Sleep(10 * time.Millisecond)

	updated, err := repo.Update(context.Background(), task.ID, map[string]interface{}{
		"status": models.StatusProgress,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.Status != models.StatusProgress {
		t.Errorf("expected status progress, got %q", updated.Status)
	}
	if updated.Description != "keep me" {
		t.Errorf("patch clobbered description: %q", updated.Description)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Errorf("expected updated_at %v after created_at %v", updated.UpdatedAt, updated.CreatedAt)
	}
}

func TestUpdateTaskRecomputesDueDatetime(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	task := mustCreateTask(t, repo, models.Task{Title: "due", DueDate: "2025-09-01", DueTime: "09:00"})

	updated, err := repo.Update(context.Background(), task.ID, map[string]interface{}{
		"due_time": "17:45",
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.DueDatetime == nil || updated.DueDatetime.Hour() != 17 {
		t.Errorf("expected recomputed due_datetime, got %v", updated.DueDatetime)
	}

	// Clearing the time drops the combined timestamp back to null.
	cleared, err := repo.Update(context.Background(), task.ID, map[string]interface{}{
		"due_time": "",
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if cleared.DueDatetime != nil {
		t.Errorf("expected null due_datetime after clearing time, got %v", cleared.DueDatetime)
	}
}

func TestUpdateTaskValidation(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))
	task := mustCreateTask(t, repo, models.Task{Title: "valid"})

	if _, err := repo.Update(context.Background(), task.ID, map[string]interface{}{"status": "bogus"}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected ErrValidation for bad status, got %v", err)
	}
	if _, err := repo.Update(context.Background(), task.ID, map[string]interface{}{"title": " "}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected ErrValidation for empty title, got %v", err)
	}
	if _, err := repo.Update(context.Background(), "missing", map[string]interface{}{"title": "x"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// Deleting a task removes its attachment links but never the file rows.
func TestDeleteTaskCascadesLinks(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	taskRepo := NewTaskRepository(database)
	fileRepo := NewFileRepository(database)
	attRepo := NewAttachmentRepository(database)

	task := mustCreateTask(t, taskRepo, models.Task{Title: "doomed"})
	file := mustCreateFile(t, fileRepo, models.File{OriginalName: "doc.pdf"})

	if err := attRepo.Add(context.Background(), task.ID, file.ID); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if err := taskRepo.Delete(context.Background(), task.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	var links int64
	if err := database.Model(&models.TaskAttachment{}).Where("task_id = ?", task.ID).Count(&links).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if links != 0 {
		t.Errorf("expected 0 links after delete, got %d", links)
	}

	if _, err := fileRepo.FindByID(context.Background(), file.ID); err != nil {
		t.Errorf("file should survive task delete, got %v", err)
	}

	if err := taskRepo.Delete(context.Background(), task.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

// Stats must agree with grouping the full listing by status.
func TestStatsMatchListing(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	mustCreateTask(t, repo, models.Task{Title: "a"})
	mustCreateTask(t, repo, models.Task{Title: "b", Status: models.StatusProgress})
	mustCreateTask(t, repo, models.Task{Title: "c", Status: models.StatusProgress})
	mustCreateTask(t, repo, models.Task{Title: "d", Status: models.StatusCompleted})
	mustCreateTask(t, repo, models.Task{Title: "other user", UserID: "someone-else"})

	stats, err := repo.Stats(context.Background(), models.DefaultUserID)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}

	tasks, err := repo.ListByUser(context.Background(), models.DefaultUserID, TaskListOptions{})
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}

	grouped := map[string]int64{
		models.StatusTodo:      0,
		models.StatusProgress:  0,
		models.StatusCompleted: 0,
	}
	for _, task := range tasks {
		grouped[task.Status]++
	}

	for status, want := range grouped {
		if stats[status] != want {
			t.Errorf("stats[%s] = %d, want %d", status, stats[status], want)
		}
	}
}

func TestListInRangeInclusive(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	mustCreateTask(t, repo, models.Task{Title: "before", DueDate: "2025-08-30"})
	mustCreateTask(t, repo, models.Task{Title: "start", DueDate: "2025-08-31"})
	mustCreateTask(t, repo, models.Task{Title: "end", DueDate: "2025-09-02"})
	mustCreateTask(t, repo, models.Task{Title: "after", DueDate: "2025-09-03"})
	mustCreateTask(t, repo, models.Task{Title: "no due date"})

	tasks, err := repo.ListInRange(context.Background(), models.DefaultUserID, "2025-08-31", "2025-09-02")
	if err != nil {
		t.Fatalf("ListInRange returned error: %v", err)
	}

	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "start" || tasks[1].Title != "end" {
		t.Errorf("unexpected range result: %+v", tasks)
	}
}

// Duplicate cleanup keeps the newest task per (user_id, title).
func TestCleanupDuplicates(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	repo := NewTaskRepository(database)

	now := time.Now()
	mustCreateTask(t, repo, models.Task{ID: "old", Title: "dup", CreatedAt: now.Add(-2 * time.Hour)})
	mustCreateTask(t, repo, models.Task{ID: "mid", Title: "dup", CreatedAt: now.Add(-time.Hour)})
	keep := mustCreateTask(t, repo, models.Task{ID: "new", Title: "dup", CreatedAt: now})
	mustCreateTask(t, repo, models.Task{ID: "unique", Title: "solo", CreatedAt: now})
	mustCreateTask(t, repo, models.Task{ID: "other", Title: "dup", UserID: "someone-else", CreatedAt: now})

	removed, err := repo.CleanupDuplicates(context.Background())
	if err != nil {
		t.Fatalf("CleanupDuplicates returned error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	remaining, err := repo.ListByUser(context.Background(), models.DefaultUserID, TaskListOptions{})
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining tasks, got %d", len(remaining))
	}

	if _, err := repo.FindByID(context.Background(), keep.ID); err != nil {
		t.Errorf("newest duplicate should survive, got %v", err)
	}

	// The other user's same-titled task is untouched.
	if _, err := repo.FindByID(context.Background(), "other"); err != nil {
		t.Errorf("other user's task should survive, got %v", err)
	}
}
