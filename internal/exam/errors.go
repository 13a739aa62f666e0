package exam

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an operation failure. Handlers map kinds onto HTTP
// statuses; the store never leaks raw SQL errors past this package.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindForbidden  Kind = "forbidden"
	KindInternal   Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.Message + ": " + e.err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error without exposing its text to
// callers that only look at Kind/Message.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, err: err}
}

// KindOf returns the classification of err, or KindInternal for
// anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// storeErr translates a store write failure. Unique-constraint
// violations become conflicts; everything else stays internal.
// Substring matching keeps this portable across the sqlite and pgx
// drivers.
func storeErr(err error, onConflict string) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return Wrap(KindConflict, err, onConflict)
	}
	return Wrap(KindInternal, err, "store operation failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique constraint failed") || // sqlite
		strings.Contains(s, "sqlstate 23505") || // pgx
		strings.Contains(s, "duplicate key value") // postgres message
}
