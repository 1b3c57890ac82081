// Package syncclient keeps an in-memory collection of tasks and events
// consistent with the server. Mutations apply optimistically, mirror to a
// local file, and reconcile against the server response; a failed create
// is kept locally and retried on the next mutation of the same record,
// which is safe because server creates are upserts keyed on the
// client-generated id.
package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/taskboard-dev/taskboard/internal/models"
)

// Client is the thin HTTP layer under the Model.
type Client struct {
	BaseURL    string
	Token      string
	UserID     string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		UserID:     models.DefaultUserID,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// RequestError carries the server's status and error string; any non-2xx
// response becomes one.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Task    *models.Task    `json:"task"`
	Tasks   []models.Task   `json:"tasks"`
	Event   *models.Event   `json:"event"`
	Events  []models.Event  `json:"events"`
	Stats   map[string]int64 `json:"stats"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		message := env.Error
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, &RequestError{Status: resp.StatusCode, Message: message}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}

	return &env, nil
}

func (c *Client) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/tasks", task)
	if err != nil {
		return models.Task{}, err
	}
	if env.Task == nil {
		return models.Task{}, fmt.Errorf("server response missing task")
	}
	return *env.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch map[string]interface{}) (models.Task, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), patch)
	if err != nil {
		return models.Task{}, err
	}
	if env.Task == nil {
		return models.Task{}, fmt.Errorf("server response missing task")
	}
	return *env.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/tasks?userId="+url.QueryEscape(c.UserID), nil)
	if err != nil {
		return nil, err
	}
	return env.Tasks, nil
}

func (c *Client) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/events", event)
	if err != nil {
		return models.Event{}, err
	}
	if env.Event == nil {
		return models.Event{}, fmt.Errorf("server response missing event")
	}
	return *env.Event, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, patch map[string]interface{}) (models.Event, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/events/"+url.PathEscape(id), patch)
	if err != nil {
		return models.Event{}, err
	}
	if env.Event == nil {
		return models.Event{}, fmt.Errorf("server response missing event")
	}
	return *env.Event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(id), nil)
	return err
}

// TaskStats fetches the per-column counts for the client's user.
func (c *Client) TaskStats(ctx context.Context) (map[string]int64, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/tasks/stats/"+url.PathEscape(c.UserID), nil)
	if err != nil {
		return nil, err
	}
	return env.Stats, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]models.Event, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/events?userId="+url.QueryEscape(c.UserID), nil)
	if err != nil {
		return nil, err
	}
	return env.Events, nil
}
