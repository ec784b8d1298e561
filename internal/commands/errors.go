package commands

import (
	"errors"
	"fmt"
	"io"

	"todo/internal/exitcode"
	"todo/internal/remote"
	"todo/internal/task"
)

// reportError writes err to errOut and returns the matching exit code.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, task.ErrInvalidTextLength),
		errors.Is(err, task.ErrInvalidDeadline):
		fmt.Fprintf(errOut, "error: %v\n", rootCause(err))
		return exitcode.UserError
	case errors.Is(err, task.ErrNotFound):
		fmt.Fprintln(errOut, "error: task not found")
		return exitcode.UserError
	case errors.Is(err, remote.ErrNotFound):
		fmt.Fprintln(errOut, "error: remote list not found")
		return exitcode.UserError
	case errors.Is(err, remote.ErrAmbiguous):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// rootCause strips wrapping from validation errors so users see the rule,
// not the parser detail.
func rootCause(err error) error {
	for _, sentinel := range []error{task.ErrInvalidTextLength, task.ErrInvalidDeadline} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}
