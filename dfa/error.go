package dfa

import (
	"errors"
	"fmt"
)

// ErrGuardedProduct indicates a Product (intersect/diff) operand has a
// precondition-guarded transition competing with — or standing in for —
// an unconditional one on the same byte. Product construction is a purely
// structural combination of two automata and has no way to evaluate a
// runtime precondition, so this case is rejected rather than silently
// resolved by always taking one arm (grounded on spec.md §9's own
// observation that action/precondition preservation under a product is
// not well-defined in general).
var ErrGuardedProduct = errors.New("dfa: product construction does not support precondition-guarded transitions")

// Kind identifies a boolean combination performed by Product.
type Kind uint8

const (
	Intersect Kind = iota
	Difference
)

func (k Kind) String() string {
	if k == Intersect {
		return "intersect"
	}
	return "difference"
}

// ProductError wraps a Product construction failure with the pair of
// states it was combining.
type ProductError struct {
	Kind Kind
	A, B StateID
	Err  error
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("dfa: product(%s) failed at (a=%d, b=%d): %v", e.Kind, e.A, e.B, e.Err)
}

func (e *ProductError) Unwrap() error { return e.Err }
