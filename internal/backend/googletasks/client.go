// Package googletasks implements service.TaskStore using the Google Tasks API.
//
// Each chat user gets a dedicated task list titled "taskchat:<user>" in the
// authenticated Google account, so users never see each other's tasks.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskchat/internal/config"
	"taskchat/internal/service"
)

const (
	// ListPrefix prefixes the title of every per-user task list.
	ListPrefix = "taskchat:"

	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted = "completed"
)

// errAuth is returned when the stored token is no longer accepted.
var errAuth = fmt.Errorf("token expired or revoked (run: taskchat login): %w", service.ErrUnauthorized)

// Client implements service.TaskStore using Google Tasks API.
type Client struct {
	svc *tasks.Service

	mu    sync.Mutex
	lists map[string]string // user -> task list ID
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Create token source that auto-refreshes
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client and options
// (for testing against a local endpoint).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, lists: make(map[string]string)}, nil
}

// listTitle returns the title of userID's task list.
func listTitle(userID string) string {
	return ListPrefix + userID
}

// listID finds userID's task list, creating it when create is set.
// Returns "" if the list does not exist and create is false.
func (c *Client) listID(ctx context.Context, userID string, create bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.lists[userID]; ok {
		return id, nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	title := listTitle(userID)
	var id string
	err := c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, l := range resp.Items {
			if l.Title == title && id == "" {
				id = l.Id
			}
		}
		return nil
	})
	if err != nil {
		return "", wrapError(err)
	}

	if id == "" {
		if !create {
			return "", nil
		}
		list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: title}).Context(ctx).Do()
		if err != nil {
			return "", wrapError(err)
		}
		id = list.Id
	}

	c.lists[userID] = id
	return id, nil
}

// fetchTasks returns every task in a list, completed and hidden included,
// sorted by position.
func (c *Client) fetchTasks(ctx context.Context, listID string) ([]*tasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var items []*tasks.Task
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowDeleted(false).
		ShowHidden(true).
		Pages(ctx, func(resp *tasks.Tasks) error {
			items = append(items, resp.Items...)
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})
	return items, nil
}

func toTask(userID string, t *tasks.Task) service.Task {
	updated, _ := time.Parse(time.RFC3339, t.Updated)
	return service.Task{
		ID:          t.Id,
		UserID:      userID,
		Title:       t.Title,
		Description: t.Notes,
		Completed:   t.Status == statusCompleted,
		// The API exposes no creation time.
		UpdatedAt: updated,
	}
}

// CreateTask appends a task to the end of the user's list.
func (c *Client) CreateTask(ctx context.Context, userID, title, description string) (service.Task, error) {
	listID, err := c.listID(ctx, userID, true)
	if err != nil {
		return service.Task{}, err
	}

	existing, err := c.fetchTasks(ctx, listID)
	if err != nil {
		return service.Task{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := c.svc.Tasks.Insert(listID, &tasks.Task{Title: title, Notes: description}).Context(ctx)
	if n := len(existing); n > 0 {
		call = call.Previous(existing[n-1].Id)
	}
	created, err := call.Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return toTask(userID, created), nil
}

// ListTasks returns the user's tasks in list order.
func (c *Client) ListTasks(ctx context.Context, userID string) ([]service.Task, error) {
	listID, err := c.listID(ctx, userID, false)
	if err != nil || listID == "" {
		return nil, err
	}

	items, err := c.fetchTasks(ctx, listID)
	if err != nil {
		return nil, err
	}

	result := make([]service.Task, 0, len(items))
	for _, t := range items {
		result = append(result, toTask(userID, t))
	}
	return result, nil
}

// UpdateTask patches title and completion. A completed task is never
// reopened: Completed=false is not sent.
func (c *Client) UpdateTask(ctx context.Context, userID, taskID string, upd service.TaskUpdate) (service.Task, error) {
	listID, err := c.listID(ctx, userID, false)
	if err != nil {
		return service.Task{}, err
	}
	if listID == "" {
		return service.Task{}, service.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	patch := &tasks.Task{}
	if upd.Title != nil {
		patch.Title = *upd.Title
	}
	if upd.Completed != nil && *upd.Completed {
		patch.Status = statusCompleted
	}

	var t *tasks.Task
	if patch.Title == "" && patch.Status == "" {
		t, err = c.svc.Tasks.Get(listID, taskID).Context(ctx).Do()
	} else {
		t, err = c.svc.Tasks.Patch(listID, taskID, patch).Context(ctx).Do()
	}
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return toTask(userID, t), nil
}

// DeleteTask deletes a task from the user's list.
func (c *Client) DeleteTask(ctx context.Context, userID, taskID string) (bool, error) {
	listID, err := c.listID(ctx, userID, false)
	if err != nil || listID == "" {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	err = c.svc.Tasks.Delete(listID, taskID).Context(ctx).Do()
	if errors.Is(wrapError(err), service.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, wrapError(err)
	}
	return true, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return errAuth
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errAuth
		case http.StatusNotFound:
			return service.ErrNotFound
		}
	}
	return err
}
