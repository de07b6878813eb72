package compiler

import (
	"errors"
	"testing"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/ast"
	"github.com/coregx/rxmachine/diag"
)

func TestCompilePlainPattern(t *testing.T) {
	n := ast.Concat(ast.Byte('a'), ast.Rep1(ast.ByteRange('0', '9')))
	m, warnings, err := Compile(n, action.NewRegistry(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if m.Start == 0 {
		t.Fatal("expected non-dead start state")
	}

	accepts := func(input string) bool {
		cur := m.Start
		for i := 0; i < len(input); i++ {
			st := m.State(cur)
			if st == nil {
				return false
			}
			next := uint32(0)
			found := false
			for _, e := range st.Edges {
				if input[i] >= e.Lo && input[i] <= e.Hi {
					next = e.Target
					found = true
					break
				}
			}
			if !found {
				return false
			}
			cur = next
		}
		st := m.State(cur)
		return st != nil && st.Accept
	}

	if !accepts("a1") {
		t.Fatal("expected a1 to match")
	}
	if !accepts("a123") {
		t.Fatal("expected a123 to match")
	}
	if accepts("a") {
		t.Fatal("expected bare a to be rejected (Rep1 requires at least one digit)")
	}
	if accepts("1") {
		t.Fatal("expected leading digit without a to be rejected")
	}
}

func TestCompileIntersection(t *testing.T) {
	// Both operands must accept for the product to accept: anything
	// starting with 'a' AND anything ending with 'z', over a 2-byte alphabet.
	left := ast.Concat(ast.Byte('a'), ast.Rep(ast.AltAll(ast.Byte('a'), ast.Byte('z'))))
	right := ast.Concat(ast.Rep(ast.AltAll(ast.Byte('a'), ast.Byte('z'))), ast.Byte('z'))
	n := ast.Intersect(left, right)

	m, _, err := Compile(n, action.NewRegistry(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	accepts := func(input string) bool {
		cur := m.Start
		for i := 0; i < len(input); i++ {
			st := m.State(cur)
			if st == nil {
				return false
			}
			found := false
			for _, e := range st.Edges {
				if input[i] >= e.Lo && input[i] <= e.Hi {
					cur = e.Target
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		st := m.State(cur)
		return st != nil && st.Accept
	}

	if !accepts("az") {
		t.Fatal("expected az (starts with a, ends with z) to match")
	}
	if accepts("za") {
		t.Fatal("expected za (starts with z) to be rejected")
	}
	if accepts("aa") {
		t.Fatal("expected aa (does not end with z) to be rejected")
	}
}

func TestCompileRejectsNestedProduct(t *testing.T) {
	inner := ast.Intersect(ast.Byte('a'), ast.Byte('b'))
	n := ast.Diff(inner, ast.Byte('c'))
	_, _, err := Compile(n, action.NewRegistry(), DefaultOptions())
	if err == nil {
		t.Fatal("expected error for And/Diff nested inside another product operand")
	}
}

// TestCompilePopulatesPrefilter confirms Compile attaches the pattern's
// extracted required literal prefix to the resulting Machine (spec.md
// §4.11's Machine.Prefilter accelerator metadata).
func TestCompilePopulatesPrefilter(t *testing.T) {
	n := ast.Concat(ast.Byte('h'), ast.Byte('i'), ast.Rep(ast.Byte('!')))
	m, _, err := Compile(n, action.NewRegistry(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if m.Prefilter == nil || m.Prefilter.IsEmpty() {
		t.Fatal("expected a non-empty Prefilter for a pattern with a required literal prefix")
	}
	if string(m.Prefilter.Get(0).Bytes) != "hi" {
		t.Fatalf("expected Prefilter literal \"hi\", got %q", m.Prefilter.Get(0).Bytes)
	}
}

// TestCompileNoPrefilterWithoutRequiredLiteral confirms a pattern with no
// provable required prefix (starts with Rep) leaves Prefilter nil rather
// than a misleading empty-but-non-nil Seq.
func TestCompileNoPrefilterWithoutRequiredLiteral(t *testing.T) {
	n := ast.Concat(ast.Rep(ast.Byte('a')), ast.Byte('b'))
	m, _, err := Compile(n, action.NewRegistry(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if m.Prefilter != nil {
		t.Fatal("expected nil Prefilter when no required literal prefix can be proven")
	}
}

func TestCompileValidatesOptions(t *testing.T) {
	_, _, err := Compile(ast.Byte('a'), action.NewRegistry(), Options{Alphabet: AlphabetLevel(99)})
	if err == nil {
		t.Fatal("expected validation error for unknown AlphabetLevel")
	}
}

// TestCompileUnambiguousRejectsColliding pins down spec.md §8 scenario 6:
// alt(re"ab", re"ab") — two distinct rules with no declared priority
// difference, both matching "ab" — fails under Unambiguous.
func TestCompileUnambiguousRejectsColliding(t *testing.T) {
	reg := action.NewRegistry()
	left := ast.OnFinal(reg, ast.Concat(ast.Byte('a'), ast.Byte('b')), "left")
	right := ast.OnFinal(reg, ast.Concat(ast.Byte('a'), ast.Byte('b')), "right")
	n := ast.Alt(left, right)

	opts := DefaultOptions()
	opts.Unambiguous = true
	_, _, err := Compile(n, reg, opts)
	if err == nil {
		t.Fatal("expected ambiguity error for colliding same-priority rules")
	}
	var ambErr *diag.AmbiguityError
	if !errors.As(err, &ambErr) {
		t.Fatalf("expected *diag.AmbiguityError, got %T: %v", err, err)
	}
	if string(ambErr.Witness) != "ab" {
		t.Fatalf("expected witness %q, got %q", "ab", ambErr.Witness)
	}
}

// TestCompileAmbiguousModeAcceptsColliding confirms the same pattern
// compiles fine with Unambiguous left off — ambiguity resolves silently
// via action.List.Sorted's priority/declaration-order tie-break.
func TestCompileAmbiguousModeAcceptsColliding(t *testing.T) {
	reg := action.NewRegistry()
	left := ast.OnFinal(reg, ast.Concat(ast.Byte('a'), ast.Byte('b')), "left")
	right := ast.OnFinal(reg, ast.Concat(ast.Byte('a'), ast.Byte('b')), "right")
	n := ast.Alt(left, right)

	_, _, err := Compile(n, reg, DefaultOptions())
	if err != nil {
		t.Fatalf("expected ambiguous-mode compile to succeed, got %v", err)
	}
}
