package entangld

import (
	"fmt"
)

// ErrKind is the error taxonomy returned by Store operations.
type ErrKind string

const (
	KindInvalidArgument ErrKind = "invalid_argument"
	KindAlreadyAttached ErrKind = "already_attached"
	KindNotFound        ErrKind = "not_found"
	KindPartialFailure  ErrKind = "partial_failure"
	KindConflictingMount ErrKind = "conflicting_mount"
	KindTypeError       ErrKind = "type_error"
	KindProtocolError   ErrKind = "protocol_error"
	KindMissingContext  ErrKind = "missing_context"
)

// StoreError is the typed error every Store operation returns on
// failure: a Kind-tagged struct with an Unwrap so callers can use
// errors.Is/errors.As against the sentinels below, or switch on Kind
// directly.
type StoreError struct {
	Kind ErrKind
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("entangld: %s: %s", e.Op, e.Kind)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path=%q)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	sentinel, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return sentinel.Kind != "" && sentinel.Kind == e.Kind
}

func newErr(kind ErrKind, op string, path string, err error) *StoreError {
	return &StoreError{Kind: kind, Op: op, Path: path, Err: err}
}

// Sentinels for errors.Is comparisons, e.g. errors.Is(err, ErrNotFound).
var (
	ErrInvalidArgument  = &StoreError{Kind: KindInvalidArgument}
	ErrAlreadyAttached  = &StoreError{Kind: KindAlreadyAttached}
	ErrNotFound         = &StoreError{Kind: KindNotFound}
	ErrPartialFailure   = &StoreError{Kind: KindPartialFailure}
	ErrConflictingMount = &StoreError{Kind: KindConflictingMount}
	ErrTypeError        = &StoreError{Kind: KindTypeError}
	ErrProtocolError    = &StoreError{Kind: KindProtocolError}
	ErrMissingContext   = &StoreError{Kind: KindMissingContext}
)
