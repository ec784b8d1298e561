package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"todo/internal/exitcode"
	"todo/internal/storage/memstore"
	"todo/internal/store"
)

func TestParseTaskNumber(t *testing.T) {
	tests := []struct {
		args    []string
		want    int
		wantErr string
	}{
		{[]string{"1"}, 1, ""},
		{[]string{" 42 "}, 42, ""},
		{[]string{"007"}, 7, ""},
		{nil, 0, "task number required"},
		{[]string{""}, 0, "invalid task number: "},
		{[]string{"a1"}, 0, "invalid task number: a1"},
		{[]string{"1.5"}, 0, "invalid task number: 1.5"},
		{[]string{"+3"}, 0, "invalid task number: +3"},
	}

	for _, tt := range tests {
		got, err := ParseTaskNumber(tt.args)
		if tt.wantErr != "" {
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("ParseTaskNumber(%q): expected error %q, got %v", tt.args, tt.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTaskNumber(%q): unexpected error %v", tt.args, err)
		}
		if got != tt.want {
			t.Errorf("ParseTaskNumber(%q) = %d, want %d", tt.args, got, tt.want)
		}
	}

	if _, err := ParseTaskNumber(nil); !errors.Is(err, ErrTaskNumberRequired) {
		t.Errorf("expected ErrTaskNumberRequired, got %v", err)
	}
}

func TestResolveTask(t *testing.T) {
	s := store.New(memstore.New())
	added, err := s.Add(context.Background(), "Buy milk", "")
	if err != nil {
		t.Fatal(err)
	}

	var errOut bytes.Buffer
	got, _, ok := resolveTask(s, []string{"1"}, &errOut)
	if !ok || got.ID != added.ID {
		t.Errorf("expected task %s, got %+v (ok=%v)", added.ID, got, ok)
	}

	errOut.Reset()
	_, code, ok := resolveTask(s, []string{"2"}, &errOut)
	if ok || code != exitcode.UserError {
		t.Errorf("expected failure with code %d, got ok=%v code=%d", exitcode.UserError, ok, code)
	}
	if errOut.String() != "error: task number out of range: 2\n" {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}
