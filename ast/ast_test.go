package ast

import (
	"errors"
	"reflect"
	"testing"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/byteset"
)

func TestSymbolRejectsEmptySet(t *testing.T) {
	_, err := Symbol(byteset.Empty())
	if !errors.Is(err, ErrEmptySymbol) {
		t.Fatalf("expected ErrEmptySymbol, got %v", err)
	}
}

func TestConcatEmptyLaw(t *testing.T) {
	r := Byte('a')
	if !reflect.DeepEqual(Concat(r, Empty()), r) {
		t.Fatal("concat(R, Empty) must equal R")
	}
	if !reflect.DeepEqual(Concat(Empty(), r), r) {
		t.Fatal("concat(Empty, R) must equal R")
	}
}

func TestConcatFlattensNestedUnannotated(t *testing.T) {
	inner := Concat(Byte('a'), Byte('b'))
	outer := Concat(inner, Byte('c'))
	c, ok := outer.(ConcatNode)
	if !ok {
		t.Fatalf("expected ConcatNode, got %T", outer)
	}
	if len(c.Children) != 3 {
		t.Fatalf("expected flattened 3 children, got %d", len(c.Children))
	}
}

func TestConcatDoesNotFlattenAnnotatedChild(t *testing.T) {
	reg := action.NewRegistry()
	inner := OnEnter(reg, Concat(Byte('a'), Byte('b')), "mark")
	outer := Concat(inner, Byte('c'))
	c, ok := outer.(ConcatNode)
	if !ok {
		t.Fatalf("expected ConcatNode, got %T", outer)
	}
	if len(c.Children) != 2 {
		t.Fatalf("annotated child must not be flattened away, got %d children", len(c.Children))
	}
}

func TestRepOfEmptyIsEmpty(t *testing.T) {
	if !reflect.DeepEqual(Rep(Empty()), Empty()) {
		t.Fatal("rep(Empty) must equal Empty")
	}
}

func TestUTF8Expansion(t *testing.T) {
	// 'π' (U+03C0) encodes to the two bytes 0xCF 0x80.
	n := UTF8('π')
	c, ok := n.(ConcatNode)
	if !ok || len(c.Children) != 2 {
		t.Fatalf("expected a 2-byte concat expansion, got %#v", n)
	}
	first := c.Children[0].(SymbolNode)
	second := c.Children[1].(SymbolNode)
	if !first.Set.Contains(0xCF) || !second.Set.Contains(0x80) {
		t.Fatal("UTF8('π') should expand to bytes 0xCF 0x80")
	}
}

func TestAnnotationsAreImmutable(t *testing.T) {
	reg := action.NewRegistry()
	base := Byte('x')
	annotated := OnEnter(reg, base, "enter_x")

	if !base.Annotation().IsEmpty() {
		t.Fatal("annotating a node must not mutate the original")
	}
	if annotated.Annotation().IsEmpty() {
		t.Fatal("the returned node should carry the new annotation")
	}
}

func TestWhenSetsPrecondition(t *testing.T) {
	n := When(Byte('a'), "is_ascii")
	if n.Annotation().Precond != "is_ascii" {
		t.Fatalf("precondition = %q, want is_ascii", n.Annotation().Precond)
	}
}

func TestOptAndRep1(t *testing.T) {
	a := Byte('a')
	opt := Opt(a)
	if _, ok := opt.(AltNode); !ok {
		t.Fatalf("Opt should build an AltNode, got %T", opt)
	}
	rep1 := Rep1(a)
	if _, ok := rep1.(ConcatNode); !ok {
		t.Fatalf("Rep1 should build a ConcatNode, got %T", rep1)
	}
}
