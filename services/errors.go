package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fashionmart/storefront-api/repository"
)

// ErrorKind classifies a service failure
type ErrorKind string

const (
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindUnauthorized        ErrorKind = "UNAUTHORIZED"
	KindValidation          ErrorKind = "VALIDATION_ERROR"
	KindInsufficientStock   ErrorKind = "INSUFFICIENT_STOCK"
	KindEmptyCart           ErrorKind = "EMPTY_CART"
	KindDuplicateReview     ErrorKind = "DUPLICATE_REVIEW"
	KindConcurrencyConflict ErrorKind = "CONCURRENCY_CONFLICT"
	KindPersistence         ErrorKind = "PERSISTENCE_FAILURE"
	KindAlreadyExists       ErrorKind = "ALREADY_EXISTS"
)

// Error is a classified service failure. Message is safe to show to the
// caller; Err holds the underlying cause for logging.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Kind sentinels for errors.Is
var (
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized}
	ErrValidation          = &Error{Kind: KindValidation}
	ErrInsufficientStock   = &Error{Kind: KindInsufficientStock}
	ErrEmptyCart           = &Error{Kind: KindEmptyCart}
	ErrDuplicateReview     = &Error{Kind: KindDuplicateReview}
	ErrConcurrencyConflict = &Error{Kind: KindConcurrencyConflict}
	ErrPersistence         = &Error{Kind: KindPersistence}
	ErrAlreadyExists       = &Error{Kind: KindAlreadyExists}
)

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func persistenceError(message string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// KindOf returns the kind of err, or PERSISTENCE_FAILURE for unclassified errors
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindPersistence
}

// passThrough keeps classified errors as they are. A guarded write that lost
// a race becomes CONCURRENCY_CONFLICT and a timeout is reported as such;
// anything else is wrapped as a persistence failure with the given message.
func passThrough(err error, message string) error {
	var svcErr *Error
	switch {
	case errors.As(err, &svcErr):
		return err
	case errors.Is(err, repository.ErrConflict):
		return &Error{Kind: KindConcurrencyConflict, Message: "the record was modified concurrently", Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return persistenceError(message+": timed out", err)
	}
	return persistenceError(message, err)
}
