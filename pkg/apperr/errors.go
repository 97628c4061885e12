// Package apperr defines the error kinds shared by validators, services and
// the HTTP layer. Callers compare with errors.Is against the sentinel values.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInvalidFormat        Kind = "InvalidFormat"
	KindInvalidChecksum      Kind = "InvalidChecksum"
	KindNonPositiveArea      Kind = "NonPositiveArea"
	KindAreaSumExceedsTotal  Kind = "AreaSumExceedsTotal"
	KindDuplicateTaxID       Kind = "DuplicateTaxId"
	KindNotFound             Kind = "NotFound"
	KindReconciliationFailed Kind = "ReconciliationFailed"
	KindInvalidInput         Kind = "InvalidInput"
)

// Sentinels for errors.Is. Any *Error with the same Kind matches.
var (
	ErrInvalidFormat        = &Error{Kind: KindInvalidFormat}
	ErrInvalidChecksum      = &Error{Kind: KindInvalidChecksum}
	ErrNonPositiveArea      = &Error{Kind: KindNonPositiveArea}
	ErrAreaSumExceedsTotal  = &Error{Kind: KindAreaSumExceedsTotal}
	ErrDuplicateTaxID       = &Error{Kind: KindDuplicateTaxID}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrReconciliationFailed = &Error{Kind: KindReconciliationFailed}
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
)

type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a NotFound error for the named entity.
func NotFound(entity string, id uint) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %d not found", entity, id)}
}

// ReconciliationFailed wraps a storage failure hit while applying a plan.
func ReconciliationFailed(err error) *Error {
	return &Error{Kind: KindReconciliationFailed, Message: "could not apply changes", Err: err}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// FieldOf returns the field named by the first *Error in err's chain.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// IsValidation reports whether err was produced by input validation and
// therefore carries no partial state.
func IsValidation(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	switch k {
	case KindInvalidFormat, KindInvalidChecksum, KindNonPositiveArea,
		KindAreaSumExceedsTotal, KindInvalidInput:
		return true
	}
	return false
}
