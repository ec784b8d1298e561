// Package remote defines the backend-agnostic interface to the task service
// the local list is mirrored to.
package remote

// Task is a task as stored remotely.
type Task struct {
	ID       string
	Title    string
	Due      string // YYYY-MM-DD or empty
	Status   string // StatusNeedsAction or StatusCompleted
	Position string
}

// Task statuses.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// TaskList is a remote task list.
type TaskList struct {
	ID    string
	Title string
}
