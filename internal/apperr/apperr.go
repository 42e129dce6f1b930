// Package apperr holds the error taxonomy returned by the booking engine.
// Callers branch on Kind to pick a response and on the sentinel values with
// errors.Is to render a specific message.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindSystem Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "system"
	}
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) ErrorCode() string { return e.Code }

// Is matches on Code so a detailed error still compares equal to its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// With returns a copy of e carrying a more specific message.
func (e *Error) With(format string, args ...any) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	FieldNotFound   = newError(KindNotFound, "FIELD_NOT_FOUND", "field not found")
	UserNotFound    = newError(KindNotFound, "USER_NOT_FOUND", "user not found")
	BookingNotFound = newError(KindNotFound, "BOOKING_NOT_FOUND", "booking not found")
	RuleNotFound    = newError(KindNotFound, "RULE_NOT_FOUND", "schedule rule not found")

	InvalidTimeWindow       = newError(KindValidation, "INVALID_TIME_WINDOW", "open time must be before close time")
	InvalidTimeBlocks       = newError(KindValidation, "INVALID_TIME_BLOCKS", "time blocks must lie within the schedule window")
	InvalidRecurrenceConfig = newError(KindValidation, "INVALID_RECURRENCE_CONFIG", "invalid recurrence configuration")
	InvalidInput            = newError(KindValidation, "INVALID_INPUT", "invalid input")

	AlreadyCancelled  = newError(KindConflict, "ALREADY_CANCELLED", "booking already cancelled")
	NotPending        = newError(KindConflict, "NOT_PENDING", "booking is not in pending status")
	NotCancellable    = newError(KindConflict, "NOT_CANCELLABLE", "booking can no longer be cancelled")
	FieldNotAvailable = newError(KindConflict, "FIELD_NOT_AVAILABLE", "field is not available for the requested time")

	Unauthorized = newError(KindUnauthorized, "UNAUTHORIZED", "not allowed to perform this action")

	SystemError = newError(KindSystem, "SYSTEM_ERROR", "system error")
)

// System wraps an unexpected infrastructure failure.
func System(err error) *Error {
	return &Error{Kind: KindSystem, Code: SystemError.Code, Message: SystemError.Message, Err: err}
}

// KindOf classifies err. Anything that is not an *Error is a system failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindSystem
}
