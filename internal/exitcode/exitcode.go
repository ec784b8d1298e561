// Package exitcode defines the process exit codes of the todo CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError covers bad arguments, failed validation and unknown tasks.
	UserError = 1

	// AuthError covers invalid config and missing or rejected credentials.
	AuthError = 2

	// BackendError covers storage, API and network failures.
	BackendError = 3
)
