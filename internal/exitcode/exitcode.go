// Package exitcode defines exit codes for the CLI.
package exitcode

import "tick/internal/apperr"

// Exit codes.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, not found, no project).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// For maps an error code to an exit code. The empty code is success.
func For(code apperr.Code) int {
	switch code {
	case "":
		return Success
	case apperr.NotFound, apperr.InvalidRequest, apperr.NoProject:
		return UserError
	case apperr.AuthRequired, apperr.AuthExpired, apperr.AuthFlowFailed, apperr.ConfigError:
		return AuthError
	default:
		return BackendError
	}
}
