// Package apperrors defines the error taxonomy shared by the catalog service,
// the reconciliation jobs and the HTTP layer.
package apperrors

import (
	"database/sql"
	"database/sql/driver"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Kind classifies an error for callers.
type Kind string

const (
	KindNotFound            Kind = "NOT_FOUND"
	KindInvalidArgument     Kind = "INVALID_ARGUMENT"
	KindConstraintViolation Kind = "CONSTRAINT_VIOLATION"
	KindStoreUnavailable    Kind = "STORE_UNAVAILABLE"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindForbidden           Kind = "FORBIDDEN"
	KindInternal            Kind = "INTERNAL"
)

// Error is an application error with a kind, a user-facing message and an optional cause.
type Error struct {
	kind    Kind
	message string
	cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the error classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// Message returns the user-friendly error message
func (e *Error) Message() string {
	return e.message
}

// HTTPCode returns the HTTP status code for the error kind.
func (e *Error) HTTPCode() int {
	switch e.kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindConstraintViolation:
		return http.StatusConflict
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, cause error, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{kind: kind, message: msg, cause: cause}
}

// NotFound reports that no visible entity matches.
func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, nil, format, args...)
}

// InvalidArgument reports a malformed identifier or filter.
func InvalidArgument(format string, args ...any) *Error {
	return newError(KindInvalidArgument, nil, format, args...)
}

// ConstraintViolation reports a write that would break a uniqueness or reference rule.
func ConstraintViolation(cause error, format string, args ...any) *Error {
	return newError(KindConstraintViolation, cause, format, args...)
}

// StoreUnavailable reports that the backing store cannot be reached.
func StoreUnavailable(cause error) *Error {
	return newError(KindStoreUnavailable, errors.WithStack(cause), "store unavailable")
}

// Unauthorized reports missing or invalid credentials.
func Unauthorized(format string, args ...any) *Error {
	return newError(KindUnauthorized, nil, format, args...)
}

// Forbidden reports an authenticated caller without the required role.
func Forbidden(format string, args ...any) *Error {
	return newError(KindForbidden, nil, format, args...)
}

// Internal wraps an unexpected failure.
func Internal(cause error, message string) *Error {
	return newError(KindInternal, errors.WithStack(cause), "%s", message)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FromStore classifies an error returned by the database layer. Errors that
// are already classified are returned unchanged.
func FromStore(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("%s", message)
	case IsUnavailable(err):
		return StoreUnavailable(err)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return ConstraintViolation(err, "%s", message)
	}
	return Internal(err, message)
}

// IsUnavailable reports whether err indicates lost connectivity to the store.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var opErr *net.OpError
	if stderrors.As(err, &opErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "broken pipe")
}
