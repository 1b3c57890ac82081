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

// TaskRepository handles CRUD for tasks and their attachment links.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskListOptions narrows GetUserTasks. An unknown Status yields an empty
// list, not an error.
type TaskListOptions struct {
	Status          string
	WithAttachments bool
}

// taskUpsertColumns are the columns refreshed when a create collides with
// an existing id. created_at is deliberately excluded so retried creates
// keep timestamps monotonic.
var taskUpsertColumns = []string{
	"user_id", "title", "description", "priority", "category",
	"status", "due_date", "due_time", "due_datetime", "updated_at",
}

// Create inserts a task, filling defaults and computing due_datetime. It
// is an upsert keyed on id: a client retrying a create with the same id
// updates the existing row instead of failing, which makes partial-write
// retries safe. The stored row is read back into task.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return validationErr("title is required")
	}
	if task.Status != "" && !models.ValidStatus(task.Status) {
		return validationErr("invalid status %q", task.Status)
	}

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.UserID == "" {
		task.UserID = models.DefaultUserID
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Category == "" {
		task.Category = models.DefaultCategory
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	task.DueDatetime = utils.CombineDueDatetime(task.DueDate, task.DueTime)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(taskUpsertColumns),
	}).Create(task).Error
	if err != nil {
		return queryErr("create task", err)
	}

	// Read back the canonical row so the caller sees server-assigned
	// timestamps, including the original created_at on a retried create.
	var stored models.Task
	if err := r.db.WithContext(ctx).First(&stored, "id = ?", task.ID).Error; err != nil {
		return queryErr("create task", err)
	}
	*task = stored

	return nil
}

// ListByUser returns the user's tasks ordered newest first.
func (r *TaskRepository) ListByUser(ctx context.Context, userID string, opts TaskListOptions) ([]models.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}

	var tasks []models.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, queryErr("list tasks", err)
	}

	if opts.WithAttachments {
		if err := r.loadAttachments(ctx, tasks); err != nil {
			return nil, err
		}
	}

	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, queryErr("find task", err)
	}
	return &task, nil
}

// Update applies only the supplied fields and refreshes updated_at.
// Returns the updated row, or ErrNotFound if no row matched.
func (r *TaskRepository) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Task, error) {
	if title, ok := patch["title"].(string); ok {
		title = strings.TrimSpace(title)
		if title == "" {
			return nil, validationErr("title is required")
		}
		patch["title"] = title
	}
	if status, ok := patch["status"].(string); ok && !models.ValidStatus(status) {
		return nil, validationErr("invalid status %q", status)
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// due_datetime follows whichever of date/time changed.
	if _, dateOk := patch["due_date"]; dateOk || hasKey(patch, "due_time") {
		dueDate := current.DueDate
		dueTime := current.DueTime
		if v, ok := patch["due_date"].(string); ok {
			dueDate = v
		}
		if v, ok := patch["due_time"].(string); ok {
			dueTime = v
		}
		patch["due_datetime"] = utils.CombineDueDatetime(dueDate, dueTime)
	}

	patch["updated_at"] = time.Now()

	if err := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(patch).Error; err != nil {
		return nil, queryErr("update task", err)
	}

	return r.FindByID(ctx, id)
}

// Delete removes the task and any attachment links referencing it. File
// rows survive. Links go first so a failed task delete leaves at worst
// orphan links for the sweep, never a task without its cleanup.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("task_id = ?", id).Delete(&models.TaskAttachment{}).Error; err != nil {
		return queryErr("delete task attachments", err)
	}

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return queryErr("delete task", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete task: %w", apperrors.ErrNotFound)
	}

	return nil
}

// Stats returns per-status counts for the user, with all three statuses
// present even when zero.
func (r *TaskRepository) Stats(ctx context.Context, userID string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("status, count(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, queryErr("task stats", err)
	}

	stats := map[string]int64{
		models.StatusTodo:      0,
		models.StatusProgress:  0,
		models.StatusCompleted: 0,
	}
	for _, row := range rows {
		stats[row.Status] = row.Count
	}

	return stats, nil
}

// ListInRange returns tasks whose due_date falls in [from, to] inclusive.
// ISO dates compare correctly as strings.
func (r *TaskRepository) ListInRange(ctx context.Context, userID, from, to string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND due_date <> '' AND due_date >= ? AND due_date <= ?", userID, from, to).
		Order("due_date").
		Find(&tasks).Error
	if err != nil {
		return nil, queryErr("tasks in range", err)
	}
	return tasks, nil
}

// CleanupDuplicates groups tasks by (user_id, title), keeps the newest of
// each group and deletes the rest, links included. Invoked only by the
// operator command.
func (r *TaskRepository) CleanupDuplicates(ctx context.Context) (int, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Order("user_id, title, created_at DESC, id DESC").
		Find(&tasks).Error
	if err != nil {
		return 0, queryErr("cleanup duplicates", err)
	}

	seen := make(map[string]bool)
	var stale []string
	for _, t := range tasks {
		key := t.UserID + "\x00" + t.Title
		if seen[key] {
			stale = append(stale, t.ID)
			continue
		}
		seen[key] = true
	}

	if len(stale) == 0 {
		return 0, nil
	}

	if err := r.db.WithContext(ctx).Where("task_id IN ?", stale).Delete(&models.TaskAttachment{}).Error; err != nil {
		return 0, queryErr("cleanup duplicates", err)
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", stale).Delete(&models.Task{}).Error; err != nil {
		return 0, queryErr("cleanup duplicates", err)
	}

	return len(stale), nil
}

// loadAttachments fills task.Attachments through the link table in two
// IN queries instead of a per-task join.
func (r *TaskRepository) loadAttachments(ctx context.Context, tasks []models.Task) error {
	ids := make([]string, 0, len(tasks))
	for i := range tasks {
		tasks[i].Attachments = []models.File{}
		ids = append(ids, tasks[i].ID)
	}
	if len(ids) == 0 {
		return nil
	}

	var links []models.TaskAttachment
	if err := r.db.WithContext(ctx).Where("task_id IN ?", ids).Find(&links).Error; err != nil {
		return queryErr("load attachments", err)
	}
	if len(links) == 0 {
		return nil
	}

	fileIDs := make([]string, 0, len(links))
	for _, l := range links {
		fileIDs = append(fileIDs, l.FileID)
	}

	var files []models.File
	if err := r.db.WithContext(ctx).Where("id IN ?", fileIDs).Find(&files).Error; err != nil {
		return queryErr("load attachments", err)
	}

	filesByID := make(map[string]models.File, len(files))
	for _, f := range files {
		filesByID[f.ID] = f
	}

	byTask := make(map[string][]models.File)
	for _, l := range links {
		if f, ok := filesByID[l.FileID]; ok {
			byTask[l.TaskID] = append(byTask[l.TaskID], f)
		}
	}

	for i := range tasks {
		if attached, ok := byTask[tasks[i].ID]; ok {
			tasks[i].Attachments = attached
		}
	}

	return nil
}

func hasKey(m map[string]interface{}, key string) bool {
	_, ok := m[key]
	return ok
}
