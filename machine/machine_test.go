package machine

import (
	"testing"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/ast"
	"github.com/coregx/rxmachine/dfa"
	"github.com/coregx/rxmachine/dfamin"
	"github.com/coregx/rxmachine/nfa"
)

func buildMachine(t *testing.T, n ast.Node) *Machine {
	t.Helper()
	reg := action.NewRegistry()
	nf, err := nfa.NewCompiler(reg).Compile(n)
	if err != nil {
		t.Fatal(err)
	}
	d, err := dfa.NewBuilder(nf).Build()
	if err != nil {
		t.Fatal(err)
	}
	return FromDFA(dfamin.Minimize(d))
}

func run(m *Machine, input []byte) bool {
	cur := m.Start
	for _, b := range input {
		st := m.State(cur)
		if st == nil {
			return false
		}
		found := false
		for _, e := range st.Edges {
			if b >= e.Lo && b <= e.Hi && e.Precond == "" {
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

func TestFromDFAStartsAtOne(t *testing.T) {
	m := buildMachine(t, ast.Byte('a'))
	if m.Start != 1 {
		t.Fatalf("Start = %d, want 1", m.Start)
	}
	for _, st := range m.States {
		if st.ID == DeadState {
			t.Fatal("no state should be renumbered to the reserved DeadState sentinel")
		}
	}
}

func TestFromDFAPreservesLanguage(t *testing.T) {
	m := buildMachine(t, ast.Concat(ast.Byte('a'), ast.Rep(ast.Byte('b'))))
	for _, s := range []string{"a", "ab", "abbb"} {
		if !run(m, []byte(s)) {
			t.Fatalf("expected %q to match", s)
		}
	}
	if run(m, []byte("b")) {
		t.Fatal("did not expect \"b\" to match")
	}
}

func TestAlphabetReportsUsedBytes(t *testing.T) {
	m := buildMachine(t, ast.ByteRange('a', 'c'))
	alphabet := m.Alphabet()
	if !alphabet.Contains('a') || !alphabet.Contains('c') {
		t.Fatal("expected alphabet to include the full matched range")
	}
	if alphabet.Contains('z') {
		t.Fatal("did not expect alphabet to include an untouched byte")
	}
}
