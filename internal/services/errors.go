package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/store"
)

// Kind classifies a service failure. Handlers map it to an HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindAuthz
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindAuthz:
		return "authz"
	case KindNotFound:
		return "not_found"
	}
	return "internal"
}

// Error is the error type every service returns. Message is safe to show to
// the caller; Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinels below by kind, so errors.Is(err, ErrNotFound)
// holds for any not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrAuth       = &Error{Kind: KindAuth}
	ErrAuthz      = &Error{Kind: KindAuthz}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrInternal   = &Error{Kind: KindInternal}
)

const invalidCredentials = "invalid email or password"

func validationError(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func conflictError(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func authError(msg string) error {
	return &Error{Kind: KindAuth, Message: msg}
}

func authzError(msg string) error {
	return &Error{Kind: KindAuthz, Message: msg}
}

func notFoundError(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func internalError(op string, err error) error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// storeError translates a store failure for the resource named by what.
func storeError(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return notFoundError(what + " not found")
	case errors.Is(err, store.ErrDuplicate):
		return conflictError(what + " already exists")
	}
	return internalError("failed to access "+what, err)
}

// KindOf reports the kind of err, treating foreign errors as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
