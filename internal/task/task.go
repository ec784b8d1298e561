// Package task defines the to-do record and the rules a record must satisfy
// when it is written.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MinTextLen is the shortest accepted task text, in characters.
	MinTextLen = 3

	// MaxTextLen is the longest accepted task text, in characters.
	MaxTextLen = 255

	// DateLayout is the calendar date format used for deadlines.
	DateLayout = "2006-01-02"
)

var (
	// ErrInvalidTextLength is returned when text is not 3-255 characters long.
	ErrInvalidTextLength = errors.New("must be 3-255 characters long")

	// ErrInvalidDeadline is returned when a deadline is before today or unparseable.
	ErrInvalidDeadline = errors.New("date must be today or in the future")

	// ErrNotFound is returned when no task matches an id or position.
	ErrNotFound = errors.New("task not found")

	// ErrCorruptState is returned when persisted data cannot be decoded.
	ErrCorruptState = errors.New("persisted task list is corrupt")
)

// Task is a single to-do entry.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Deadline  string `json:"deadline"` // DateLayout or empty
	Completed bool   `json:"completed"`
}

// ValidateText checks the length of already-trimmed text.
func ValidateText(text string) error {
	n := utf8.RuneCountInString(text)
	if n < MinTextLen || n > MaxTextLen {
		return ErrInvalidTextLength
	}
	return nil
}

// ValidateDeadline checks that deadline is empty or a date on or after the
// calendar day of now. Time of day is ignored on both sides.
func ValidateDeadline(deadline string, now time.Time) error {
	if deadline == "" {
		return nil
	}
	d, err := ParseDate(deadline, now.Location())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDeadline, err)
	}
	if d.Before(Today(now)) {
		return ErrInvalidDeadline
	}
	return nil
}

// ParseDate parses a DateLayout string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

// Today truncates now to midnight of its calendar day.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
