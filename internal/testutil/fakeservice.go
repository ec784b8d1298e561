// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"todo/internal/remote"
)

// FakeService is an in-memory implementation of remote.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	lists  []remote.TaskList
	tasks  map[string][]remote.Task // listID -> tasks, top first
	nextID int

	// Error injection for testing
	ResolveListErr error
	CreateListErr  error
	ListTasksErr   error
	CreateTaskErr  error
	DeleteTaskErr  error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{tasks: make(map[string][]remote.Task)}
}

// AddList adds a list to the fake service.
func (f *FakeService) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, remote.TaskList{ID: id, Title: title})
	if f.tasks[id] == nil {
		f.tasks[id] = nil
	}
}

// AddTask appends a task to the bottom of a list.
func (f *FakeService) AddTask(listID string, t remote.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = f.newID()
	}
	if t.Status == "" {
		t.Status = remote.StatusNeedsAction
	}
	f.tasks[listID] = append(f.tasks[listID], t)
}

// Lists returns a copy of all lists.
func (f *FakeService) Lists() []remote.TaskList {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]remote.TaskList, len(f.lists))
	copy(out, f.lists)
	return out
}

// Tasks returns a copy of a list's tasks, top first.
func (f *FakeService) Tasks(listID string) []remote.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]remote.Task, len(f.tasks[listID]))
	copy(out, f.tasks[listID])
	return out
}

// newID must be called with f.mu held.
func (f *FakeService) newID() string {
	f.nextID++
	return fmt.Sprintf("r%d", f.nextID)
}

// ResolveList implements remote.Service.
func (f *FakeService) ResolveList(ctx context.Context, name string) (remote.TaskList, error) {
	if f.ResolveListErr != nil {
		return remote.TaskList{}, f.ResolveListErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	nameLower := strings.ToLower(strings.TrimSpace(name))

	var matches []remote.TaskList
	for _, l := range f.lists {
		if strings.ToLower(strings.TrimSpace(l.Title)) == nameLower {
			matches = append(matches, l)
		}
	}

	switch len(matches) {
	case 0:
		return remote.TaskList{}, remote.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return remote.TaskList{}, remote.ErrAmbiguous
	}
}

// CreateList implements remote.Service.
func (f *FakeService) CreateList(ctx context.Context, name string) (remote.TaskList, error) {
	if f.CreateListErr != nil {
		return remote.TaskList{}, f.CreateListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	// Generate a simple ID
	id := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	list := remote.TaskList{ID: id, Title: name}
	f.lists = append(f.lists, list)
	f.tasks[id] = nil
	return list, nil
}

// ListTasks implements remote.Service.
func (f *FakeService) ListTasks(ctx context.Context, listID string) ([]remote.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	tasks, ok := f.tasks[listID]
	if !ok {
		return nil, remote.ErrNotFound
	}
	out := make([]remote.Task, len(tasks))
	copy(out, tasks)
	return out, nil
}

// CreateTask implements remote.Service. Like the real API it inserts at the top.
func (f *FakeService) CreateTask(ctx context.Context, listID string, t remote.Task) error {
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[listID]; !ok {
		return remote.ErrNotFound
	}
	t.ID = f.newID()
	f.tasks[listID] = append([]remote.Task{t}, f.tasks[listID]...)
	return nil
}

// DeleteTask implements remote.Service.
func (f *FakeService) DeleteTask(ctx context.Context, listID, taskID string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks, ok := f.tasks[listID]
	if !ok {
		return remote.ErrNotFound
	}

	for i, t := range tasks {
		if t.ID == taskID {
			f.tasks[listID] = append(tasks[:i], tasks[i+1:]...)
			return nil
		}
	}
	return remote.ErrNotFound
}
