package diag

import (
	"strings"
	"testing"
)

func TestAmbiguityErrorMessage(t *testing.T) {
	err := &AmbiguityError{RuleA: "ident", RuleB: "keyword_if", Witness: []byte("if")}
	msg := err.Error()
	if !strings.Contains(msg, "ident") || !strings.Contains(msg, "keyword_if") || !strings.Contains(msg, "if") {
		t.Fatalf("unexpected message: %s", msg)
	}
}

func TestNewRuntimeErrorWindow(t *testing.T) {
	data := []byte("hello world")
	err := NewRuntimeError(data, 7, 3, []byte("abc"))
	if string(err.LastBytes) != "o w" {
		t.Fatalf("LastBytes = %q, want \"o w\"", err.LastBytes)
	}
	if err.Position != 7 {
		t.Fatalf("Position = %d, want 7", err.Position)
	}
}

func TestNewRuntimeErrorClampsAtStart(t *testing.T) {
	data := []byte("ab")
	err := NewRuntimeError(data, 1, 10, nil)
	if string(err.LastBytes) != "a" {
		t.Fatalf("LastBytes = %q, want \"a\"", err.LastBytes)
	}
}

func TestLineAtFindsContainingLine(t *testing.T) {
	data := []byte("first line\nsecond line\nthird line")
	line := LineAt(data, 15) // inside "second line"
	if string(line) != "second line" {
		t.Fatalf("LineAt = %q, want %q", line, "second line")
	}
}

func TestLineAtLastLineHasNoTrailingNewline(t *testing.T) {
	data := []byte("a\nb\nlast")
	line := LineAt(data, len(data)-1)
	if string(line) != "last" {
		t.Fatalf("LineAt = %q, want %q", line, "last")
	}
}

func TestCompileErrorUnwrap(t *testing.T) {
	cause := &AmbiguityError{RuleA: "a", RuleB: "b"}
	err := &CompileError{Kind: Ambiguous, Message: "compile failed", Cause: cause}
	if err.Unwrap() != cause {
		t.Fatal("expected Unwrap to return the wrapped cause")
	}
}
