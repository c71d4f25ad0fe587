// Package exitcode defines exit codes for the CLI.
package exitcode

// Process exit codes. Chat replies that merely explain a problem to the
// user (unknown task, ambiguous title) still exit with Success.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments, flags, config or conversation ids.
	UserError = 1

	// AuthError indicates missing or rejected Google credentials.
	AuthError = 2

	// BackendError indicates a store, API or network failure.
	BackendError = 3
)
