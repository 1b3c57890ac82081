package syncclient

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/utils"
)

// Model is the client-side task/event collection. Every mutation follows
// the same protocol: optimistic local apply (memory + mirror), server
// write, then reconcile server-assigned fields on success or roll back on
// failure. Failed creates are the one exception to rollback: the record
// stays, flagged pending, and the next mutation of the same id re-issues
// the create.
type Model struct {
	mu     sync.Mutex
	client *Client
	mirror *Mirror
	logger *log.Logger

	tasks  map[string]models.Task
	events map[string]models.Event

	pendingTasks  map[string]bool
	pendingEvents map[string]bool

	// idLocks serializes server writes per (entity, id); mutations to
	// different records proceed concurrently.
	idLocks map[string]*sync.Mutex
}

func NewModel(client *Client, mirrorPath string, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}

	m := &Model{
		client:        client,
		mirror:        NewMirror(mirrorPath, logger),
		logger:        logger,
		tasks:         make(map[string]models.Task),
		events:        make(map[string]models.Event),
		pendingTasks:  make(map[string]bool),
		pendingEvents: make(map[string]bool),
		idLocks:       make(map[string]*sync.Mutex),
	}

	snap := m.mirror.Load()
	for _, t := range snap.Tasks {
		m.tasks[t.ID] = t
	}
	for _, e := range snap.Events {
		m.events[e.ID] = e
	}

	return m
}

// Load replaces both collections with the server's view. It is called on
// startup and after bulk mutations; duplicates are logged, never merged
// away. On error the current (mirrored) state is kept.
func (m *Model) Load(ctx context.Context) error {
	tasks, err := m.client.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	events, err := m.client.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.tasks = make(map[string]models.Task, len(tasks))
	titles := make(map[string]int)
	for _, t := range tasks {
		m.tasks[t.ID] = t
		titles[t.Title]++
	}
	for title, n := range titles {
		if n > 1 {
			m.logger.Printf("duplicate task title=%q count=%d", title, n)
		}
	}

	m.events = make(map[string]models.Event, len(events))
	for _, e := range events {
		m.events[e.ID] = e
	}

	m.pendingTasks = make(map[string]bool)
	m.pendingEvents = make(map[string]bool)
	m.idLocks = make(map[string]*sync.Mutex)

	m.saveLocked()
	return nil
}

// Tasks returns the collection ordered newest first.
func (m *Model) Tasks() []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Events returns the collection ordered by date.
func (m *Model) Events() []models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := utils.DateOnly(out[i].Date), utils.DateOnly(out[j].Date)
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CreateTask applies the task locally, then writes it to the server. On
// failure the record is kept and flagged pending; the error still
// surfaces so the caller can show it.
func (m *Model) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.UserID == "" {
		task.UserID = m.client.UserID
	}

	m.mu.Lock()
	m.tasks[task.ID] = task
	m.saveLocked()
	m.mu.Unlock()

	unlock := m.lockID("task", task.ID)
	defer unlock()

	stored, err := m.client.CreateTask(ctx, task)
	if err != nil {
		m.mu.Lock()
		m.pendingTasks[task.ID] = true
		m.mu.Unlock()
		return task, fmt.Errorf("create task: %w", err)
	}

	m.reconcileTask(task.ID, stored)
	return stored, nil
}

// UpdateTask applies the patch locally and pushes it to the server. If
// the record's create never landed, the merged record is re-created
// instead; the server upsert makes that yield one row, not two.
func (m *Model) UpdateTask(ctx context.Context, id string, patch map[string]interface{}) (models.Task, error) {
	m.mu.Lock()
	prev, ok := m.tasks[id]
	if !ok {
		m.mu.Unlock()
		return models.Task{}, fmt.Errorf("task %s not in collection", id)
	}
	pending := m.pendingTasks[id]
	next := prev
	applyTaskPatch(&next, patch)
	m.tasks[id] = next
	m.saveLocked()
	m.mu.Unlock()

	unlock := m.lockID("task", id)
	defer unlock()

	if pending {
		stored, err := m.client.CreateTask(ctx, next)
		if err != nil {
			// Still offline: keep the merged record pending.
			return next, fmt.Errorf("retry create task: %w", err)
		}
		m.reconcileTask(id, stored)
		return stored, nil
	}

	stored, err := m.client.UpdateTask(ctx, id, patch)
	if err != nil {
		m.rollbackTask(id, prev)
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}

	m.reconcileTask(id, stored)
	return stored, nil
}

// DeleteTask removes the record locally and on the server. Deleting a
// pending record needs no server call; a server-side NotFound means the
// delete already converged.
func (m *Model) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	prev, ok := m.tasks[id]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	pending := m.pendingTasks[id]
	delete(m.tasks, id)
	delete(m.pendingTasks, id)
	m.saveLocked()
	m.mu.Unlock()

	if pending {
		m.dropIDLock("task", id)
		return nil
	}

	unlock := m.lockID("task", id)
	defer unlock()

	if err := m.client.DeleteTask(ctx, id); err != nil {
		if reqErr, ok := err.(*RequestError); ok && reqErr.Status == 404 {
			m.dropIDLock("task", id)
			return nil
		}
		m.mu.Lock()
		m.tasks[id] = prev
		m.saveLocked()
		m.mu.Unlock()
		return fmt.Errorf("delete task: %w", err)
	}

	m.dropIDLock("task", id)
	return nil
}

// MoveTask changes a task's status (any column to any column) and then
// reloads, since a drag is a bulk-visible mutation.
func (m *Model) MoveTask(ctx context.Context, id, status string) error {
	if _, err := m.UpdateTask(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return err
	}
	return m.Load(ctx)
}

// CreateEvent mirrors CreateTask for the calendar collection.
func (m *Model) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.UserID == "" {
		event.UserID = m.client.UserID
	}

	m.mu.Lock()
	m.events[event.ID] = event
	m.saveLocked()
	m.mu.Unlock()

	unlock := m.lockID("event", event.ID)
	defer unlock()

	stored, err := m.client.CreateEvent(ctx, event)
	if err != nil {
		m.mu.Lock()
		m.pendingEvents[event.ID] = true
		m.mu.Unlock()
		return event, fmt.Errorf("create event: %w", err)
	}

	m.reconcileEvent(event.ID, stored)
	return stored, nil
}

func (m *Model) UpdateEvent(ctx context.Context, id string, patch map[string]interface{}) (models.Event, error) {
	m.mu.Lock()
	prev, ok := m.events[id]
	if !ok {
		m.mu.Unlock()
		return models.Event{}, fmt.Errorf("event %s not in collection", id)
	}
	pending := m.pendingEvents[id]
	next := prev
	applyEventPatch(&next, patch)
	m.events[id] = next
	m.saveLocked()
	m.mu.Unlock()

	unlock := m.lockID("event", id)
	defer unlock()

	if pending {
		stored, err := m.client.CreateEvent(ctx, next)
		if err != nil {
			return next, fmt.Errorf("retry create event: %w", err)
		}
		m.reconcileEvent(id, stored)
		return stored, nil
	}

	stored, err := m.client.UpdateEvent(ctx, id, patch)
	if err != nil {
		m.mu.Lock()
		m.events[id] = prev
		m.saveLocked()
		m.mu.Unlock()
		return models.Event{}, fmt.Errorf("update event: %w", err)
	}

	m.reconcileEvent(id, stored)
	return stored, nil
}

func (m *Model) DeleteEvent(ctx context.Context, id string) error {
	m.mu.Lock()
	prev, ok := m.events[id]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	pending := m.pendingEvents[id]
	delete(m.events, id)
	delete(m.pendingEvents, id)
	m.saveLocked()
	m.mu.Unlock()

	if pending {
		m.dropIDLock("event", id)
		return nil
	}

	unlock := m.lockID("event", id)
	defer unlock()

	if err := m.client.DeleteEvent(ctx, id); err != nil {
		if reqErr, ok := err.(*RequestError); ok && reqErr.Status == 404 {
			m.dropIDLock("event", id)
			return nil
		}
		m.mu.Lock()
		m.events[id] = prev
		m.saveLocked()
		m.mu.Unlock()
		return fmt.Errorf("delete event: %w", err)
	}

	m.dropIDLock("event", id)
	return nil
}

// EventsOn returns the cached events for one calendar day, tolerating
// timestamp-suffixed dates from the server.
func (m *Model) EventsOn(date string) []models.Event {
	date = utils.DateOnly(date)

	out := []models.Event{}
	for _, e := range m.Events() {
		if utils.DateOnly(e.Date) == date {
			out = append(out, e)
		}
	}
	return out
}

func (m *Model) reconcileTask(localID string, stored models.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if stored.ID != localID {
		delete(m.tasks, localID)
	}
	m.tasks[stored.ID] = stored
	delete(m.pendingTasks, localID)
	m.saveLocked()
}

func (m *Model) rollbackTask(id string, prev models.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tasks[id] = prev
	m.saveLocked()
}

func (m *Model) reconcileEvent(localID string, stored models.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if stored.ID != localID {
		delete(m.events, localID)
	}
	m.events[stored.ID] = stored
	delete(m.pendingEvents, localID)
	m.saveLocked()
}

// saveLocked mirrors the collections; callers hold m.mu.
func (m *Model) saveLocked() {
	snap := Snapshot{Tasks: []models.Task{}, Events: []models.Event{}}
	for _, t := range m.tasks {
		snap.Tasks = append(snap.Tasks, t)
	}
	for _, e := range m.events {
		snap.Events = append(snap.Events, e)
	}
	m.mirror.Save(snap)
}

func (m *Model) lockID(kind, id string) func() {
	key := kind + ":" + id

	m.mu.Lock()
	l, ok := m.idLocks[key]
	if !ok {
		l = &sync.Mutex{}
		m.idLocks[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// dropIDLock forgets the per-id mutex for a removed record so the map
// does not grow for the lifetime of the Model. A goroutine still holding
// the old mutex keeps its pointer; later callers get a fresh one, which
// is safe because the record is already gone from the collection.
func (m *Model) dropIDLock(kind, id string) {
	m.mu.Lock()
	delete(m.idLocks, kind+":"+id)
	m.mu.Unlock()
}

func applyTaskPatch(t *models.Task, patch map[string]interface{}) {
	for key, value := range patch {
		s, _ := value.(string)
		switch key {
		case "title":
			t.Title = s
		case "description":
			t.Description = s
		case "priority":
			t.Priority = s
		case "category":
			t.Category = s
		case "status":
			t.Status = s
		case "due_date":
			t.DueDate = s
		case "due_time":
			t.DueTime = s
		}
	}
}

func applyEventPatch(e *models.Event, patch map[string]interface{}) {
	for key, value := range patch {
		switch key {
		case "title":
			e.Title, _ = value.(string)
		case "description":
			e.Description, _ = value.(string)
		case "date":
			e.Date, _ = value.(string)
		case "time":
			e.Time, _ = value.(string)
		case "type":
			e.Type, _ = value.(string)
		case "subtype":
			e.Subtype, _ = value.(string)
		case "color":
			e.Color, _ = value.(string)
		case "location":
			e.Location, _ = value.(string)
		case "all_day":
			e.AllDay, _ = value.(bool)
		case "recurring":
			e.Recurring, _ = value.(bool)
		case "recurring_type":
			e.RecurringType, _ = value.(string)
		}
	}
}
