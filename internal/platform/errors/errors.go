package apperrors

import (
	"errors"
	"fmt"
)

// Kinds. Every *Error unwraps to exactly one of these.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrPrecondition = errors.New("precondition failed")
	ErrInternal     = errors.New("internal error")
)

const (
	CodeInvalidStatus        = "INVALID_STATUS"
	CodeInvalidDate          = "INVALID_DATE"
	CodeInvalidTimezone      = "INVALID_TIMEZONE"
	CodeInvalidRating        = "INVALID_RATING"
	CodeInvalidProgress      = "INVALID_PROGRESS"
	CodeInvalidBook          = "INVALID_BOOK"
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodePagesRequired        = "PAGES_REQUIRED"
	CodeTemporalConflict     = "TEMPORAL_CONFLICT"
	CodeConfirmationRequired = "ARCHIVE_CONFIRMATION_REQUIRED"
	CodeThresholdRange       = "THRESHOLD_RANGE"
	CodeSessionArchived      = "SESSION_ARCHIVED"
	CodeNoActiveSession      = "NO_ACTIVE_SESSION"
	CodeNoCompletedReads     = "NO_COMPLETED_READS"
	CodeActiveSessionExists  = "ACTIVE_SESSION_EXISTS"
	CodeDuplicate            = "DUPLICATE"
	CodeNotFound             = "NOT_FOUND"
	CodeStorage              = "STORAGE"
)

var (
	ErrNoActiveSession     = &Error{Kind: ErrInvalidInput, Code: CodeNoActiveSession, Message: "no active session"}
	ErrActiveSessionExists = &Error{Kind: ErrConflict, Code: CodeActiveSessionExists, Message: "active session already exists"}
)

// Error is a domain error. Field names the offending input, Ref the
// conflicting record when there is one.
type Error struct {
	Kind    error
	Code    string
	Field   string
	Ref     string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	out := []error{e.Kind}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Is matches two *Error values by code, so wrapped copies of the package
// level sentinels still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

func Validation(code, field, format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidInput, Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

func NotFound(what, id string) *Error {
	return &Error{Kind: ErrNotFound, Code: CodeNotFound, Ref: id, Message: fmt.Sprintf("%s %q not found", what, id)}
}

func Conflict(code, format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Precondition(code, format string, args ...any) *Error {
	return &Error{Kind: ErrPrecondition, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected storage failure. Domain errors pass through
// untouched.
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return err
	}
	return &Error{Kind: ErrInternal, Code: CodeStorage, Message: op, Err: err}
}

// KindOf reports which kind err belongs to, defaulting to ErrInternal.
func KindOf(err error) error {
	for _, kind := range []error{ErrInvalidInput, ErrNotFound, ErrConflict, ErrPrecondition} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
