package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error that leaves a component wraps exactly one of them.
var (
	// ErrValidation covers bad user input and out-of-context submissions.
	// It is always recoverable with a corrective prompt.
	ErrValidation = errors.New("validation failed")

	// ErrIntegrity covers duplicate registrations and mutations against
	// missing records. It is logged and otherwise treated as a no-op.
	ErrIntegrity = errors.New("integrity violation")

	// ErrUpstream covers the membership oracle and the notification sink.
	ErrUpstream = errors.New("upstream unavailable")

	// ErrPersistence covers an unreachable or failing ledger store.
	ErrPersistence = errors.New("persistence failure")
)

// Error carries the kind, the failing operation and an optional message
// that is safe to show to the user.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Validation(op, msg string) error {
	return &Error{Kind: ErrValidation, Op: op, Msg: msg}
}

func Integrity(op, msg string) error {
	return &Error{Kind: ErrIntegrity, Op: op, Msg: msg}
}

func Upstream(op string, err error) error {
	return &Error{Kind: ErrUpstream, Op: op, Err: err}
}

func Persistence(op string, err error) error {
	return &Error{Kind: ErrPersistence, Op: op, Err: err}
}

func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsIntegrity(err error) bool   { return errors.Is(err, ErrIntegrity) }
func IsUpstream(err error) bool    { return errors.Is(err, ErrUpstream) }
func IsPersistence(err error) bool { return errors.Is(err, ErrPersistence) }

// UserMessage returns the corrective text of a validation error, or "" when
// err is not a validation error or carries no message.
func UserMessage(err error) string {
	if !IsValidation(err) {
		return ""
	}
	var msgErr interface{ UserMessage() string }
	if errors.As(err, &msgErr) {
		return msgErr.UserMessage()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return ""
}
