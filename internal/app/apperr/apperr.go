// Package apperr classifies link store failures so the HTTP layer can map them
// to status codes without inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	Internal Kind = iota
	Validation
	InvalidID
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Internal:
		return "Internal"
	case Validation:
		return "Validation"
	case InvalidID:
		return "InvalidID"
	case NotFound:
		return "NotFound"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Error carries the failing operation, its kind and, for validation failures,
// one message per violated field rule.
type Error struct {
	Op      string
	Kind    Kind
	Err     error
	Details []string
}

// E wraps err with an operation name and kind. A nil err stays nil.
func E(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Invalid builds a Validation error from the collected rule violations.
func Invalid(op string, details ...string) error {
	return &Error{
		Op:      op,
		Kind:    Validation,
		Err:     errors.New("validation failed"),
		Details: details,
	}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of the outermost *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// DetailsOf returns the validation messages attached to err, if any.
func DetailsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}
