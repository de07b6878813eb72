package literal

import (
	"testing"

	"github.com/coregx/rxmachine/ast"
	"github.com/coregx/rxmachine/byteset"
)

func bytesOf(seq *Seq) []string {
	out := make([]string, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		out[i] = string(seq.Get(i).Bytes)
	}
	return out
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

func literalNode(s string) ast.Node {
	nodes := make([]ast.Node, len(s))
	for i, c := range []byte(s) {
		nodes[i] = ast.Byte(c)
	}
	return ast.Concat(nodes...)
}

func TestExtractPrefixesLiteral(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(literalNode("hello"))
	if seq.Len() != 1 || string(seq.Get(0).Bytes) != "hello" {
		t.Fatalf("got %v, want [hello]", bytesOf(seq))
	}
	if !seq.Get(0).Complete {
		t.Fatal("expected literal to be marked complete")
	}
}

func TestExtractPrefixesAlternation(t *testing.T) {
	e := New(DefaultConfig())
	n := ast.Alt(literalNode("foo"), literalNode("bar"))
	seq := e.ExtractPrefixes(n)
	got := bytesOf(seq)
	if !contains(got, "foo") || !contains(got, "bar") || seq.Len() != 2 {
		t.Fatalf("got %v, want [foo bar]", got)
	}
}

func TestExtractPrefixesStopsAtRep(t *testing.T) {
	e := New(DefaultConfig())
	n := ast.Concat(literalNode("hello"), ast.Rep(ast.ByteRange('a', 'z')))
	seq := e.ExtractPrefixes(n)
	if seq.Len() != 1 || string(seq.Get(0).Bytes) != "hello" {
		t.Fatalf("got %v, want [hello]", bytesOf(seq))
	}
	if seq.Get(0).Complete {
		t.Fatal("expected prefix before a Rep to be marked incomplete")
	}
}

func TestExtractPrefixesNoneWhenOptionalFirst(t *testing.T) {
	e := New(DefaultConfig())
	n := ast.Concat(ast.Opt(ast.Byte('a')), literalNode("bc"))
	seq := e.ExtractPrefixes(n)
	if !seq.IsEmpty() {
		t.Fatalf("got %v, want empty (a? has no required prefix)", bytesOf(seq))
	}
}

func TestExtractPrefixesExpandsSmallClass(t *testing.T) {
	e := New(DefaultConfig())
	n := ast.Concat(ast.MustSymbol(byteset.Of('a', 'b', 'c')), literalNode("x"))
	seq := e.ExtractPrefixes(n)
	got := bytesOf(seq)
	for _, want := range []string{"ax", "bx", "cx"} {
		if !contains(got, want) {
			t.Fatalf("got %v, want to contain %q", got, want)
		}
	}
}

func TestExtractPrefixesRejectsLargeClass(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxClassSize = 2
	e := New(cfg)
	n := ast.Concat(ast.ByteRange('a', 'z'), literalNode("x"))
	seq := e.ExtractPrefixes(n)
	if !seq.IsEmpty() {
		t.Fatalf("got %v, want empty (class too large to expand)", bytesOf(seq))
	}
}

func TestExtractSuffixesLiteral(t *testing.T) {
	e := New(DefaultConfig())
	seq := e.ExtractSuffixes(literalNode("world"))
	if seq.Len() != 1 || string(seq.Get(0).Bytes) != "world" {
		t.Fatalf("got %v, want [world]", bytesOf(seq))
	}
}

func TestExtractSuffixesStopsAtClass(t *testing.T) {
	e := New(DefaultConfig())
	n := ast.Concat(ast.ByteRange('a', 'z'), literalNode("end"))
	seq := e.ExtractSuffixes(n)
	if seq.Len() != 1 || string(seq.Get(0).Bytes) != "end" {
		t.Fatalf("got %v, want [end]", bytesOf(seq))
	}
	if seq.Get(0).Complete {
		t.Fatal("expected suffix preceded by a class to be marked incomplete")
	}
}

func TestExtractInnerFindsMiddleLiteral(t *testing.T) {
	e := New(DefaultConfig())
	n := ast.Concat(ast.Rep(ast.ByteRange('a', 'z')), literalNode("mid"), ast.Rep(ast.ByteRange('a', 'z')))
	seq := e.ExtractInner(n)
	if seq.IsEmpty() {
		t.Fatal("expected to find an inner literal")
	}
	if seq.Get(0).Complete {
		t.Fatal("inner literals should always be marked incomplete")
	}
}

func TestExtractPrefixesIgnoresProductNodes(t *testing.T) {
	e := New(DefaultConfig())
	n := ast.Intersect(literalNode("ab"), literalNode("ab"))
	seq := e.ExtractPrefixes(n)
	if !seq.IsEmpty() {
		t.Fatalf("got %v, want empty (And/Diff resolved at the DFA level, not here)", bytesOf(seq))
	}
}
