package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"todo/internal/exitcode"
	"todo/internal/store"
	"todo/internal/task"
)

// ErrTaskNumberRequired indicates no task number was provided.
var ErrTaskNumberRequired = errors.New("task number required")

// ParseTaskNumber parses the 1-based task number from the first argument.
func ParseTaskNumber(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskNumberRequired
	}
	ref := strings.TrimSpace(args[0])
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid task number: %s", args[0])
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid task number: %s", args[0])
	}
	return n, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// resolveTask parses a task number and looks it up, reporting failures.
// ok is false when an error was already written.
func resolveTask(s *store.Store, args []string, errOut io.Writer) (t task.Task, code int, ok bool) {
	num, err := ParseTaskNumber(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return task.Task{}, exitcode.UserError, false
	}
	t, err = s.At(num)
	if err != nil {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
		return task.Task{}, exitcode.UserError, false
	}
	return t, exitcode.Success, true
}
