package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks. Always
// recoverable by caller correction; never retried automatically.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnbalancedEntry blocks posting of a journal whose debit and credit sides differ.
var ErrUnbalancedEntry = errors.New("journal entry is not balanced")

// ErrMissingCounterparty blocks voucher creation when neither a party nor a
// target account is supplied.
var ErrMissingCounterparty = errors.New("voucher requires a party or a target account")

// ErrInvalidTransition blocks cheque state changes that the lifecycle does not allow.
var ErrInvalidTransition = errors.New("cheque state transition not allowed")

// ErrSystemAccountNotConfigured means a required accounting role has no account
// bound to it. Fatal for the operation; must be raised before any write.
var ErrSystemAccountNotConfigured = errors.New("system account not configured")

// ErrTransitionConflict signals a concurrent modification detected by the
// optimistic status check. Callers should reread and retry.
var ErrTransitionConflict = errors.New("record was modified concurrently")

// ErrConflict indicates the operation contradicts the current state of the
// resource (e.g. reversing an already reversed journal).
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrInternal is a generic internal failure surfaced when nothing more
// specific applies.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level failure with an HTTP-ish status code and a
// stable message. Repositories return these for persistence faults so the
// cause is surfaced verbatim without automatic retry.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a transient persistence failure that a
// bounded backoff retry may resolve. Validation-class sentinels are never
// retryable.
func IsRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrUnbalancedEntry),
		errors.Is(err, ErrMissingCounterparty),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrSystemAccountNotConfigured),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrConflict):
		return false
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code >= 500
	}
	return false
}
