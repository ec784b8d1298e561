// Package googletasks implements remote.Service using the Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/config"
	"todo/internal/remote"
)

const (
	// PageSize is the number of items requested per API page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	// dueSuffix turns a calendar date into the RFC 3339 timestamp the API
	// expects; the API ignores the time portion of due dates.
	dueSuffix = "T00:00:00.000Z"
)

// Client implements remote.Service using Google Tasks API.
type Client struct {
	svc *tasks.Service
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	// Load OAuth client config
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes automatically
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))
	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ResolveList finds a list by name (case-insensitive, trimmed).
func (c *Client) ResolveList(ctx context.Context, name string) (remote.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	nameLower := strings.ToLower(name)

	var matches []remote.TaskList
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if strings.ToLower(strings.TrimSpace(list.Title)) == nameLower {
				matches = append(matches, remote.TaskList{ID: list.Id, Title: list.Title})
			}
		}
		return nil
	})
	if err != nil {
		return remote.TaskList{}, wrapError(err)
	}

	switch len(matches) {
	case 0:
		return remote.TaskList{}, fmt.Errorf("list %s: %w", name, remote.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return remote.TaskList{}, fmt.Errorf("%w: %s", remote.ErrAmbiguous, name)
	}
}

// CreateList creates a new task list.
func (c *Client) CreateList(ctx context.Context, name string) (remote.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: name}).Context(ctx).Do()
	if err != nil {
		return remote.TaskList{}, wrapError(err)
	}
	return remote.TaskList{ID: list.Id, Title: list.Title}, nil
}

// ListTasks returns every task of a list, completed and hidden included,
// sorted by position.
func (c *Client) ListTasks(ctx context.Context, listID string) ([]remote.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []remote.Task
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, remote.Task{
					ID:       t.Id,
					Title:    t.Title,
					Due:      dueDate(t.Due),
					Status:   t.Status,
					Position: t.Position,
				})
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}

	// Positions are zero-padded, so string order is list order.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result, nil
}

// CreateTask inserts a task at the top of the list.
func (c *Client) CreateTask(ctx context.Context, listID string, t remote.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	body := &tasks.Task{Title: t.Title, Status: t.Status}
	if body.Status == "" {
		body.Status = remote.StatusNeedsAction
	}
	if t.Due != "" {
		body.Due = t.Due + dueSuffix
	}

	if _, err := c.svc.Tasks.Insert(listID, body).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, listID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(listID, taskID).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// dueDate keeps the calendar date of an RFC 3339 due timestamp.
func dueDate(due string) string {
	if len(due) < len("2006-01-02") {
		return ""
	}
	return due[:len("2006-01-02")]
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for timeout
	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: todo login)")
	}

	// Check for not found
	if strings.Contains(errStr, "404") {
		return remote.ErrNotFound
	}

	return err
}
