package remote

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"todo/internal/task"
)

// DeleteConcurrency bounds parallel DeleteTask calls while clearing a list.
const DeleteConcurrency = 4

// Mirror copies whole task lists between the local store and a remote list.
type Mirror struct {
	svc    Service
	list   string
	logger *zap.Logger
}

// NewMirror returns a Mirror for the remote list named list.
func NewMirror(svc Service, list string, logger *zap.Logger) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{svc: svc, list: list, logger: logger}
}

// Push replaces the remote list's content with tasks, creating the list if
// needed. Returns the number of tasks written.
func (m *Mirror) Push(ctx context.Context, tasks []task.Task) (int, error) {
	list, err := m.svc.ResolveList(ctx, m.list)
	if errors.Is(err, ErrNotFound) {
		m.logger.Debug("creating remote list", zap.String("list", m.list))
		list, err = m.svc.CreateList(ctx, m.list)
	}
	if err != nil {
		return 0, err
	}

	existing, err := m.svc.ListTasks(ctx, list.ID)
	if err != nil {
		return 0, err
	}
	// Deletes are independent; creates below are not, since each one
	// lands at the top of the list.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DeleteConcurrency)
	for _, t := range existing {
		g.Go(func() error {
			if err := m.svc.DeleteTask(gctx, list.ID, t.ID); err != nil {
				return fmt.Errorf("failed to clear remote task %q: %w", t.Title, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	// CreateTask inserts at the top, so walk backwards to keep local order.
	for i := len(tasks) - 1; i >= 0; i-- {
		if err := m.svc.CreateTask(ctx, list.ID, toRemote(tasks[i])); err != nil {
			return len(tasks) - 1 - i, fmt.Errorf("failed to push task %q: %w", tasks[i].Text, err)
		}
	}

	m.logger.Debug("pushed tasks",
		zap.String("list", list.Title),
		zap.Int("deleted", len(existing)),
		zap.Int("tasks", len(tasks)))
	return len(tasks), nil
}

// Pull returns the remote list's tasks in local form, in list order.
func (m *Mirror) Pull(ctx context.Context) ([]task.Task, error) {
	list, err := m.svc.ResolveList(ctx, m.list)
	if err != nil {
		return nil, err
	}
	remoteTasks, err := m.svc.ListTasks(ctx, list.ID)
	if err != nil {
		return nil, err
	}

	out := make([]task.Task, 0, len(remoteTasks))
	for _, rt := range remoteTasks {
		out = append(out, fromRemote(rt))
	}
	m.logger.Debug("pulled tasks", zap.String("list", list.Title), zap.Int("tasks", len(out)))
	return out, nil
}

func toRemote(t task.Task) Task {
	status := StatusNeedsAction
	if t.Completed {
		status = StatusCompleted
	}
	return Task{Title: t.Text, Due: t.Deadline, Status: status}
}

func fromRemote(rt Task) task.Task {
	return task.Task{
		Text:      rt.Title,
		Deadline:  rt.Due,
		Completed: rt.Status == StatusCompleted,
	}
}
