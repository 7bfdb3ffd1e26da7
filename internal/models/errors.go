package models

import (
	"errors"
	"fmt"
)

// Kind sentinels. Services wrap these in an *AppError carrying the affected
// resource; handlers match with errors.Is and map the kind straight to an
// HTTP status instead of inspecting message text.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("resource conflict")
	ErrValidation       = errors.New("invalid input data")
	ErrInternal         = errors.New("internal server error")
)

// Authentication sentinels. These cross the service boundary as-is; the
// handler maps all of them to 401 without exposing which check failed.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenMalformed     = errors.New("token is malformed")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

// AppError tags a failure with its kind and the resource it concerns.
type AppError struct {
	Kind     error // one of the sentinels above
	Resource string
	Detail   string
}

func (e *AppError) Error() string {
	msg := e.Kind.Error()
	if e.Resource != "" {
		msg = e.Resource + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap lets errors.Is(err, models.ErrNotFound) and friends work on wrapped
// AppErrors anywhere in the call chain.
func (e *AppError) Unwrap() error { return e.Kind }

// NotFoundError reports that the named resource does not exist (or is not
// visible to the caller, which is deliberately indistinguishable).
func NotFoundError(resource string) error {
	return &AppError{Kind: ErrNotFound, Resource: resource}
}

// PermissionError reports a failed view/edit check on the named resource.
func PermissionError(resource string) error {
	return &AppError{Kind: ErrPermissionDenied, Resource: resource}
}

// ConflictError reports a uniqueness or lock conflict.
func ConflictError(resource, detail string) error {
	return &AppError{Kind: ErrConflict, Resource: resource, Detail: detail}
}

// ValidationError reports malformed input that slipped past the boundary.
func ValidationError(detail string) error {
	return &AppError{Kind: ErrValidation, Detail: detail}
}

// InternalError wraps an unexpected failure without leaking its cause to the
// client; the original error stays available for logging at the call site.
func InternalError(resource string, err error) error {
	if err == nil {
		return &AppError{Kind: ErrInternal, Resource: resource}
	}
	return &AppError{Kind: ErrInternal, Resource: resource, Detail: fmt.Sprintf("%v", err)}
}
