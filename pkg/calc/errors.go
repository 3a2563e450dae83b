package calc

import (
	"errors"
	"fmt"
)

// Kind classifies a calculator failure.
type Kind string

// Error kinds. Every failure reported by Parse or Evaluate carries exactly one.
const (
	KindInvalidTokenCount Kind = "InvalidTokenCount"
	KindInvalidOperator   Kind = "InvalidOperator"
	KindInvalidNumber     Kind = "InvalidNumber"
	KindDivisionByZero    Kind = "DivisionByZero"
	KindOutOfBounds       Kind = "OutOfBounds"
)

// Error is a classified calculator failure. Count is set for
// KindInvalidTokenCount, Token for KindInvalidOperator and KindInvalidNumber.
type Error struct {
	Kind  Kind
	Count int
	Token string
}

// Sentinels for use with errors.Is. Matching compares the kind only.
var (
	ErrInvalidTokenCount = &Error{Kind: KindInvalidTokenCount}
	ErrInvalidOperator   = &Error{Kind: KindInvalidOperator}
	ErrInvalidNumber     = &Error{Kind: KindInvalidNumber}
	ErrDivisionByZero    = &Error{Kind: KindDivisionByZero}
	ErrOutOfBounds       = &Error{Kind: KindOutOfBounds}
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidTokenCount:
		return fmt.Sprintf("invalid count: %d", e.Count)
	case KindInvalidOperator:
		return fmt.Sprintf("invalid operator: %s", e.Token)
	case KindInvalidNumber:
		return fmt.Sprintf("invalid number: %s", e.Token)
	case KindDivisionByZero:
		return "division by zero"
	case KindOutOfBounds:
		return "out of bounds"
	default:
		return fmt.Sprintf("calc error (kind=%s)", e.Kind)
	}
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of a calculator error, or "" if err is not one.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// Common error constructors.

// NewInvalidTokenCountError creates an InvalidTokenCount error.
func NewInvalidTokenCountError(count int) *Error {
	return &Error{Kind: KindInvalidTokenCount, Count: count}
}

// NewInvalidOperatorError creates an InvalidOperator error.
func NewInvalidOperatorError(token string) *Error {
	return &Error{Kind: KindInvalidOperator, Token: token}
}

// NewInvalidNumberError creates an InvalidNumber error.
func NewInvalidNumberError(token string) *Error {
	return &Error{Kind: KindInvalidNumber, Token: token}
}

// NewDivisionByZeroError creates a DivisionByZero error.
func NewDivisionByZeroError() *Error {
	return &Error{Kind: KindDivisionByZero}
}

// NewOutOfBoundsError creates an OutOfBounds error.
func NewOutOfBoundsError() *Error {
	return &Error{Kind: KindOutOfBounds}
}
