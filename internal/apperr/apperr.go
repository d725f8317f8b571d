// Package apperr defines the stable error taxonomy shared by every layer of the CLI.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

// Code is a machine-readable error code. Values are stable and appear in JSON output.
type Code string

const (
	// AuthRequired means no token is stored (run: tick init).
	AuthRequired Code = "AUTH_REQUIRED"

	// AuthExpired means the server rejected the token (401/403).
	AuthExpired Code = "AUTH_EXPIRED"

	// NotFound means the remote resource does not exist.
	NotFound Code = "NOT_FOUND"

	// InvalidRequest covers bad arguments and 4xx responses other than 401/403/404/429.
	InvalidRequest Code = "INVALID_REQUEST"

	// RateLimited means the server answered 429.
	RateLimited Code = "RATE_LIMITED"

	// ServerError covers 5xx and unexpected statuses.
	ServerError Code = "SERVER_ERROR"

	// NetworkError covers connection failures and timeouts.
	NetworkError Code = "NETWORK_ERROR"

	// DecodeError means a 2xx response body could not be decoded.
	DecodeError Code = "DECODE_ERROR"

	// NoProject means no project was given and no default is configured.
	NoProject Code = "NO_PROJECT"

	// AuthFlowFailed means the OAuth authorization flow did not produce a token.
	AuthFlowFailed Code = "AUTH_FLOW_FAILED"

	// ConfigError means the local config or token file could not be read or written.
	ConfigError Code = "CONFIG_ERROR"
)

// Codes lists every code in a stable order.
var Codes = []Code{
	AuthRequired, AuthExpired, NotFound, InvalidRequest, RateLimited, ServerError,
	NetworkError, DecodeError, NoProject, AuthFlowFailed, ConfigError,
}

// Error is a classified failure.
type Error struct {
	Code    Code
	Message string

	// Details is optional structured context rendered alongside the message.
	Details map[string]any

	// RetryAfter is the server-supplied retry hint for RateLimited. Zero if absent.
	RetryAfter time.Duration

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that wraps err. The message is "msg: err".
func Wrap(code Code, err error, msg string) *Error {
	m := msg
	if err != nil {
		m = fmt.Sprintf("%s: %v", msg, err)
	}
	return &Error{Code: code, Message: m, Err: err}
}

// WithDetail returns e with key set in Details.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// CodeOf classifies err. Unclassified errors are reported as ServerError.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	if ae, ok := As(err); ok {
		return ae.Code
	}
	return ServerError
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
