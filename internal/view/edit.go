package view

import (
	"context"
	"errors"
	"strings"
	"sync"

	"todo/internal/task"
)

// Field names the editable part of a row.
type Field int

const (
	FieldText Field = iota
	FieldDeadline
)

func (f Field) String() string {
	if f == FieldDeadline {
		return "deadline"
	}
	return "text"
}

// EditState is the state of one edit session.
type EditState int

const (
	Viewing EditState = iota
	Editing
)

type editKey struct {
	id    string
	field Field
}

// Edit is an in-progress edit of one field of one task.
//
// Commit is safe to call more than once: after the first successful (or
// abandoning) call the session is Viewing and later calls do nothing.
type Edit struct {
	view *View
	key  editKey

	commitMu sync.Mutex

	mu    sync.Mutex
	state EditState
	value string
}

// BeginEdit puts a row's field into edit mode, seeding the value with the
// field's current content. If that field is already being edited the existing
// session is returned.
func (v *View) BeginEdit(id string, field Field) (*Edit, error) {
	t, err := v.src.Get(id)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	key := editKey{id, field}
	if e, ok := v.edits[key]; ok {
		return e, nil
	}
	e := &Edit{view: v, key: key, state: Editing}
	if field == FieldDeadline {
		e.value = t.Deadline
	} else {
		e.value = t.Text
	}
	v.edits[key] = e
	return e, nil
}

// Editing reports whether the given field of a task is in edit mode.
func (v *View) Editing(id string, field Field) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.edits[editKey{id, field}]
	return ok
}

// ID returns the id of the task being edited.
func (e *Edit) ID() string { return e.key.id }

// Field returns the field being edited.
func (e *Edit) Field() Field { return e.key.field }

// State returns the current state.
func (e *Edit) State() EditState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Value returns the current input value.
func (e *Edit) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// SetValue replaces the input value. Ignored once the session has ended.
func (e *Edit) SetValue(value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Editing {
		e.value = value
	}
}

// Commit writes the value through the store.
//
// The session is Viewing before the store is called, so listeners that
// render on change see the persisted row, not the input. On a validation
// error it goes back to Editing with the entered value kept, and the error
// is returned so the caller can re-focus the input. If the task vanished
// the session stays ended and task.ErrNotFound is returned.
func (e *Edit) Commit(ctx context.Context) error {
	// Serializes exits; e.mu stays free so store listeners can render.
	e.commitMu.Lock()
	defer e.commitMu.Unlock()

	if e.State() != Editing {
		return nil
	}

	value := strings.TrimSpace(e.Value())
	e.finish()

	var err error
	if e.key.field == FieldDeadline {
		err = e.view.src.UpdateDeadline(ctx, e.key.id, value)
	} else {
		err = e.view.src.UpdateText(ctx, e.key.id, value)
	}
	if err != nil && !errors.Is(err, task.ErrNotFound) {
		e.reopen()
	}
	return err
}

// Cancel leaves edit mode without writing anything.
func (e *Edit) Cancel() {
	e.commitMu.Lock()
	defer e.commitMu.Unlock()
	e.finish()
}

func (e *Edit) finish() {
	e.mu.Lock()
	e.state = Viewing
	e.mu.Unlock()

	e.view.mu.Lock()
	if e.view.edits[e.key] == e {
		delete(e.view.edits, e.key)
	}
	e.view.mu.Unlock()
}

// reopen puts a finished session back into edit mode. If another session
// took the slot meanwhile, e stays Editing but unregistered.
func (e *Edit) reopen() {
	e.mu.Lock()
	e.state = Editing
	e.mu.Unlock()

	e.view.mu.Lock()
	if _, taken := e.view.edits[e.key]; !taken {
		e.view.edits[e.key] = e
	}
	e.view.mu.Unlock()
}
