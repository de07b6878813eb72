package nfa

import (
	"errors"
	"testing"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/ast"
	"github.com/coregx/rxmachine/byteset"
)

// run walks n's NFA on input, keeping the whole set of live states: at each
// step it follows every byte-transition that accepts the byte from any
// live state, then takes the epsilon closure, and finally reports whether
// the Final state is in the set. It is a minimal set simulator good enough
// to exercise Compile's structural correctness without pulling in package
// dfa.
func run(t *testing.T, n *NFA, input []byte) bool {
	t.Helper()
	current := n.EpsilonClosure([]StateID{n.Start})
	for _, b := range input {
		var next []StateID
		for _, id := range current {
			st := n.State(id)
			if st.Kind == StateByteSet && st.Set.Contains(b) {
				next = append(next, st.Next)
			}
		}
		if len(next) == 0 {
			return false
		}
		current = n.EpsilonClosure(next)
	}
	return n.ContainsFinal(current)
}

func TestCompileSymbolMatchesSingleByte(t *testing.T) {
	c := NewCompiler(action.NewRegistry())
	n, err := c.Compile(ast.Byte('a'))
	if err != nil {
		t.Fatal(err)
	}
	if !run(t, n, []byte("a")) {
		t.Fatal("expected match on \"a\"")
	}
	if run(t, n, []byte("b")) {
		t.Fatal("did not expect match on \"b\"")
	}
	if run(t, n, []byte("aa")) {
		t.Fatal("did not expect match on \"aa\"")
	}
}

func TestCompileConcat(t *testing.T) {
	c := NewCompiler(action.NewRegistry())
	n, err := c.Compile(ast.Concat(ast.Byte('a'), ast.Byte('b'), ast.Byte('c')))
	if err != nil {
		t.Fatal(err)
	}
	if !run(t, n, []byte("abc")) {
		t.Fatal("expected match on \"abc\"")
	}
	if run(t, n, []byte("ab")) {
		t.Fatal("did not expect match on \"ab\"")
	}
}

func TestCompileAlt(t *testing.T) {
	c := NewCompiler(action.NewRegistry())
	n, err := c.Compile(ast.Alt(ast.Byte('a'), ast.Byte('b')))
	if err != nil {
		t.Fatal(err)
	}
	if !run(t, n, []byte("a")) || !run(t, n, []byte("b")) {
		t.Fatal("expected match on both \"a\" and \"b\"")
	}
	if run(t, n, []byte("c")) {
		t.Fatal("did not expect match on \"c\"")
	}
}

func TestCompileRepZeroOrMore(t *testing.T) {
	c := NewCompiler(action.NewRegistry())
	n, err := c.Compile(ast.Rep(ast.Byte('a')))
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"", "a", "aaaa"} {
		if !run(t, n, []byte(s)) {
			t.Fatalf("expected match on %q", s)
		}
	}
	if run(t, n, []byte("aab")) {
		t.Fatal("did not expect match on \"aab\"")
	}
}

func TestCompileOptAndRep1(t *testing.T) {
	c := NewCompiler(action.NewRegistry())
	n, err := c.Compile(ast.Opt(ast.Byte('a')))
	if err != nil {
		t.Fatal(err)
	}
	if !run(t, n, []byte("")) || !run(t, n, []byte("a")) {
		t.Fatal("opt should match \"\" and \"a\"")
	}
	if run(t, n, []byte("aa")) {
		t.Fatal("opt should not match \"aa\"")
	}

	c2 := NewCompiler(action.NewRegistry())
	n2, err := c2.Compile(ast.Rep1(ast.Byte('a')))
	if err != nil {
		t.Fatal(err)
	}
	if run(t, n2, []byte("")) {
		t.Fatal("rep1 should not match \"\"")
	}
	if !run(t, n2, []byte("a")) || !run(t, n2, []byte("aaa")) {
		t.Fatal("rep1 should match one-or-more a's")
	}
}

func TestCompileActionsAttachToFinalByte(t *testing.T) {
	reg := action.NewRegistry()
	reg.Declare("saw_b", 0)
	n := ast.OnFinal(reg, ast.Concat(ast.Byte('a'), ast.Byte('b')), "saw_b")

	c := NewCompiler(reg)
	m, err := c.Compile(n)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for i := range m.States {
		st := &m.States[i]
		if st.Kind == StateByteSet && st.Set.Contains('b') {
			for _, a := range st.Actions {
				if a.Name == "saw_b" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatal("expected \"saw_b\" final action on the 'b' transition")
	}
}

func TestCompileFinalActionWarnsWithNoLastByte(t *testing.T) {
	reg := action.NewRegistry()
	reg.Declare("done", 0)
	n := ast.OnFinal(reg, ast.Rep(ast.Byte('a')), "done")

	c := NewCompiler(reg)
	if _, err := c.Compile(n); err != nil {
		t.Fatal(err)
	}
	if len(c.Warnings()) == 0 {
		t.Fatal("expected a warning: rep() has no statically determinable last byte")
	}
}

func TestCompileEnterActionOnByteSetEntry(t *testing.T) {
	reg := action.NewRegistry()
	reg.Declare("start", 0)
	n := ast.OnEnter(reg, ast.Byte('a'), "start")

	c := NewCompiler(reg)
	m, err := c.Compile(n)
	if err != nil {
		t.Fatal(err)
	}
	entry := m.State(m.Start)
	if entry.Kind != StateByteSet {
		t.Fatalf("expected entry to be ByteSet, got %v", entry.Kind)
	}
	found := false
	for _, a := range entry.Actions {
		if a.Name == "start" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected \"start\" enter action on the byteset entry state")
	}
}

func TestCompileUnknownPreconditionErrors(t *testing.T) {
	reg := action.NewRegistry()
	n := ast.When(ast.Byte('a'), "never_declared")

	c := NewCompiler(reg)
	_, err := c.Compile(n)
	if !errors.Is(err, ErrUnknownPrecondition) {
		t.Fatalf("expected ErrUnknownPrecondition, got %v", err)
	}
}

func TestCompileRejectsNestedProduct(t *testing.T) {
	nested := ast.Concat(ast.Intersect(ast.Byte('a'), ast.Byte('a')), ast.Byte('b'))
	c := NewCompiler(action.NewRegistry())
	_, err := c.Compile(nested)
	if !errors.Is(err, ErrNestedProduct) {
		t.Fatalf("expected ErrNestedProduct, got %v", err)
	}
}

func TestCompileTopLevelProductDetected(t *testing.T) {
	n := ast.Intersect(ast.Byte('a'), ast.Byte('a'))
	if !IsProductNode(n) {
		t.Fatal("expected IsProductNode(Intersect(...)) to be true")
	}
}

func TestCompileSymbolSetOperations(t *testing.T) {
	c := NewCompiler(action.NewRegistry())
	n, err := c.Compile(ast.MustSymbol(byteset.RangeSet('0', '9')))
	if err != nil {
		t.Fatal(err)
	}
	if !run(t, n, []byte("5")) {
		t.Fatal("expected digit range to match '5'")
	}
	if run(t, n, []byte("x")) {
		t.Fatal("did not expect digit range to match 'x'")
	}
}
