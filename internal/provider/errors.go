package provider

import (
	"errors"
	"fmt"
)

// Error codes for normalized provider failures.
const (
	CodeBadRequest  = "bad_request"
	CodeAuth        = "auth_failed"
	CodeRateLimited = "rate_limit"
	CodeQuota       = "quota_exceeded"
	CodeServerError = "server_error"
	CodeTimeout     = "timeout"
	CodeNetwork     = "network"
	CodeBreakerOpen = "breaker_open"
	CodeExhausted   = "credentials_exhausted"
	CodeBadResponse = "bad_response"
)

// ErrNoCredentials is returned by New when the configuration carries no
// usable credential. Fatal to construction only, never per-request.
var ErrNoCredentials = errors.New("no provider credentials configured")

// Error is the single error shape callers see for any provider failure:
// HTTP errors, timeouts, network errors, and quota or rate exhaustion.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("provider: %s", e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// IsRetryable reports whether a later, fresh request could plausibly
// succeed.
func (e *Error) IsRetryable() bool {
	switch e.Code {
	case CodeRateLimited, CodeTimeout, CodeNetwork, CodeServerError, CodeBreakerOpen:
		return true
	default:
		return false
	}
}

func newError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}
