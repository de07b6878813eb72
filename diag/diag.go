// Package diag renders compiler and runtime diagnostics: compile-time
// ambiguity reports (two token rules that can match the same input with
// no declared priority to break the tie) and a runtime error describing a
// rejected input — grounded on the teacher's dfa/lazy.DFAError
// Kind/Message/Cause shape.
package diag

import (
	"fmt"

	"github.com/coregx/rxmachine/internal/simdbytes"
)

// Kind classifies a diagnostic.
type Kind uint8

const (
	// Ambiguous indicates two rules match the same input with equal
	// length and no declared priority difference (spec.md §8's
	// "Unambiguous" tokenizer mode).
	Ambiguous Kind = iota
	// NoFinalByte indicates a Final action annotation has no statically
	// determinable last byte in its sub-pattern.
	NoFinalByte
	// UnknownPrecondition indicates an unresolved precondition name.
	UnknownPrecondition
)

func (k Kind) String() string {
	switch k {
	case Ambiguous:
		return "Ambiguous"
	case NoFinalByte:
		return "NoFinalByte"
	case UnknownPrecondition:
		return "UnknownPrecondition"
	default:
		return fmt.Sprintf("UnknownKind(%d)", k)
	}
}

// CompileError is a structured compile-time diagnostic.
type CompileError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *CompileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CompileError) Unwrap() error { return e.Cause }

// AmbiguityError names the two rules that collide on the same input and
// carries a minimal witness input demonstrating the collision, per
// spec.md §7.
type AmbiguityError struct {
	RuleA, RuleB string
	Witness      []byte
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("ambiguous match: rule %q and rule %q both match %q with no priority to break the tie",
		e.RuleA, e.RuleB, e.Witness)
}

// RuntimeError describes why a matcher rejected an input at a given
// position: the set of bytes that would have been accepted there, the
// trailing context already consumed, and the offset of the failure.
type RuntimeError struct {
	Position  int
	LastBytes []byte
	ValidNext []byte
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("no transition for input at position %d (preceded by %q); valid next bytes: %q",
		e.Position, e.LastBytes, e.ValidNext)
}

// lastN returns up to n trailing bytes of data ending at pos (exclusive),
// for RuntimeError's context window.
func lastN(data []byte, pos, n int) []byte {
	start := pos - n
	if start < 0 {
		start = 0
	}
	if pos > len(data) {
		pos = len(data)
	}
	return data[start:pos]
}

// NewRuntimeError builds a RuntimeError describing a rejection at pos,
// rendering up to contextLen preceding bytes and the valid-next-byte set
// validNext, kept in the order the caller gives it (it is not sorted here).
func NewRuntimeError(data []byte, pos, contextLen int, validNext []byte) *RuntimeError {
	return &RuntimeError{
		Position:  pos,
		LastBytes: lastN(data, pos, contextLen),
		ValidNext: validNext,
	}
}

// LineAt returns the full line of data containing pos (delimited by '\n'
// or the buffer's edges), for rendering a RuntimeError against a large
// multi-line input without printing the whole buffer. Uses simdbytes for
// the forward scan to the line's end.
func LineAt(data []byte, pos int) []byte {
	if pos < 0 {
		pos = 0
	}
	if pos > len(data) {
		pos = len(data)
	}

	start := pos
	for start > 0 && data[start-1] != '\n' {
		start--
	}

	end := pos
	if rel := simdbytes.IndexByte(data[pos:], '\n'); rel >= 0 {
		end = pos + rel
	} else {
		end = len(data)
	}

	return data[start:end]
}
