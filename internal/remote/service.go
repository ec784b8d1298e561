package remote

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a list or task does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous is returned when a list name matches more than one list.
	ErrAmbiguous = errors.New("ambiguous list name")
)

// Service is the remote task backend.
// Commands never import the Google SDK directly.
type Service interface {
	// ResolveList finds a list by name (case-insensitive, trimmed).
	// Returns ErrNotFound or ErrAmbiguous.
	ResolveList(ctx context.Context, name string) (TaskList, error)

	// CreateList creates a new task list.
	CreateList(ctx context.Context, name string) (TaskList, error)

	// ListTasks returns every task of a list, completed included, in list order.
	ListTasks(ctx context.Context, listID string) ([]Task, error)

	// CreateTask inserts a task at the top of a list.
	CreateTask(ctx context.Context, listID string, t Task) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, listID, taskID string) error
}
