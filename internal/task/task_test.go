package task_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"todo/internal/task"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{"empty", "", false},
		{"two chars", "ab", false},
		{"three chars", "abc", true},
		{"max", strings.Repeat("x", 255), true},
		{"too long", strings.Repeat("x", 256), false},
		{"multibyte counts runes", "żółw", true},
		{"two multibyte runes", "żó", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := task.ValidateText(tt.text)
			if tt.ok && err != nil {
				t.Errorf("expected %q to be valid, got %v", tt.text, err)
			}
			if !tt.ok && !errors.Is(err, task.ErrInvalidTextLength) {
				t.Errorf("expected ErrInvalidTextLength for %q, got %v", tt.text, err)
			}
		})
	}
}

func TestValidateDeadline(t *testing.T) {
	now := time.Date(2026, 10, 14, 18, 30, 0, 0, time.Local)

	tests := []struct {
		name     string
		deadline string
		ok       bool
	}{
		{"empty", "", true},
		{"today", "2026-10-14", true},
		{"tomorrow", "2026-10-15", true},
		{"yesterday", "2026-10-13", false},
		{"last year", "2025-12-31", false},
		{"garbage", "next tuesday", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := task.ValidateDeadline(tt.deadline, now)
			if tt.ok && err != nil {
				t.Errorf("expected %q to be valid, got %v", tt.deadline, err)
			}
			if !tt.ok && !errors.Is(err, task.ErrInvalidDeadline) {
				t.Errorf("expected ErrInvalidDeadline for %q, got %v", tt.deadline, err)
			}
		})
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2026, 10, 14, 23, 59, 59, 0, time.UTC)
	got := task.Today(now)
	want := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
