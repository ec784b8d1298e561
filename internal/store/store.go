// Package store owns the ordered task list, validates every write, and
// mirrors the full list into durable storage after each mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo/internal/storage"
	"todo/internal/task"
)

// DefaultKey is the storage key holding the serialized list.
const DefaultKey = "tasks"

// Store is the single source of truth for the task list.
type Store struct {
	mu        sync.Mutex
	tasks     []task.Task
	backend   storage.Storage
	key       string
	now       func() time.Time
	newID     func() string
	logger    *zap.Logger
	listeners []func()
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides the source of "today" used for deadline validation.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how new task ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates an empty Store persisting into backend.
// Call Load to restore previously saved state.
func New(backend storage.Storage, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers fn to be called after every successful persist.
// fn runs synchronously, after the store's lock is released.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load replaces the in-memory list with the persisted one.
// A missing key leaves the list empty. Undecodable data returns
// task.ErrCorruptState and leaves the list as it was.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Store) load(ctx context.Context) error {
	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotExist) {
		s.tasks = nil
		s.logger.Debug("no persisted tasks", zap.String("key", s.key))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	var loaded []task.Task
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("%w: %v", task.ErrCorruptState, err)
	}

	// Records written before ids existed get one now; the next save keeps it.
	for i := range loaded {
		if loaded[i].ID == "" {
			loaded[i].ID = s.newID()
		}
	}
	s.tasks = loaded
	s.logger.Debug("loaded tasks", zap.String("key", s.key), zap.Int("tasks", len(loaded)))
	return nil
}

// Save writes the full current list to storage.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	list := s.tasks
	if list == nil {
		list = []task.Task{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	s.logger.Debug("saved tasks", zap.String("key", s.key), zap.Int("tasks", len(list)))
	return nil
}

// Tasks returns a copy of the list in display order.
func (s *Store) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Now returns the store's current time, the reference for deadline checks.
func (s *Store) Now() time.Time { return s.now() }

// Get returns the task with the given id.
func (s *Store) Get(id string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: %s", task.ErrNotFound, id)
	}
	return s.tasks[i], nil
}

// At returns the task at 1-based position in the unfiltered list.
func (s *Store) At(position int) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if position < 1 || position > len(s.tasks) {
		return task.Task{}, fmt.Errorf("%w: position %d", task.ErrNotFound, position)
	}
	return s.tasks[position-1], nil
}

// Add validates and appends a new, uncompleted task.
func (s *Store) Add(ctx context.Context, text, deadline string) (task.Task, error) {
	text = strings.TrimSpace(text)
	deadline = strings.TrimSpace(deadline)
	if err := task.ValidateText(text); err != nil {
		return task.Task{}, err
	}
	if err := task.ValidateDeadline(deadline, s.now()); err != nil {
		return task.Task{}, err
	}

	t := task.Task{ID: s.newID(), Text: text, Deadline: deadline}
	err := s.mutate(ctx, func() error {
		s.tasks = append(s.tasks, t)
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// Delete removes the task with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func() error {
		i := s.indexOf(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", task.ErrNotFound, id)
		}
		next := make([]task.Task, 0, len(s.tasks)-1)
		next = append(next, s.tasks[:i]...)
		s.tasks = append(next, s.tasks[i+1:]...)
		return nil
	})
}

// UpdateText replaces a task's text after validating it.
// On failure nothing changes and nothing is persisted.
func (s *Store) UpdateText(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if err := task.ValidateText(text); err != nil {
		return err
	}
	return s.mutateTask(ctx, id, func(t *task.Task) { t.Text = text })
}

// UpdateDeadline replaces a task's deadline after validating it.
// An empty deadline clears it.
func (s *Store) UpdateDeadline(ctx context.Context, id, deadline string) error {
	deadline = strings.TrimSpace(deadline)
	if err := task.ValidateDeadline(deadline, s.now()); err != nil {
		return err
	}
	return s.mutateTask(ctx, id, func(t *task.Task) { t.Deadline = deadline })
}

// ToggleCompleted flips a task's completion flag.
func (s *Store) ToggleCompleted(ctx context.Context, id string) error {
	return s.mutateTask(ctx, id, func(t *task.Task) { t.Completed = !t.Completed })
}

// Replace swaps in a whole list, e.g. one pulled from a remote mirror.
// Text is validated; deadlines are kept as recorded since imported history
// may legitimately lie in the past. Records without an id get one.
func (s *Store) Replace(ctx context.Context, tasks []task.Task) error {
	next := make([]task.Task, len(tasks))
	for i, t := range tasks {
		t.Text = strings.TrimSpace(t.Text)
		if err := task.ValidateText(t.Text); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		if t.ID == "" {
			t.ID = s.newID()
		}
		next[i] = t
	}
	return s.mutate(ctx, func() error {
		s.tasks = next
		return nil
	})
}

func (s *Store) mutateTask(ctx context.Context, id string, fn func(*task.Task)) error {
	return s.mutate(ctx, func() error {
		i := s.indexOf(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", task.ErrNotFound, id)
		}
		fn(&s.tasks[i])
		return nil
	})
}

// mutate applies fn, persists, and notifies listeners. If fn or the persist
// fails the list is restored, so memory never drifts from storage.
func (s *Store) mutate(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	prev := make([]task.Task, len(s.tasks))
	copy(prev, s.tasks)

	if err := fn(); err != nil {
		s.tasks = prev
		s.mu.Unlock()
		return err
	}
	if err := s.save(ctx); err != nil {
		s.tasks = prev
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
