// Package ast defines the regex algebra: a small tagged tree of
// constructors (Symbol, Concat, Alt, Rep, And, Diff, Empty) annotated with
// action hooks and an optional precondition name.
//
// Nodes are immutable. Annotating a node (OnEnter, OnFinal, OnExit, OnAll,
// When) never mutates the receiver — it returns a new node value with the
// annotation installed, so a sub-AST shared by several parents is always
// safe to annotate independently at each use site.
package ast

import (
	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/byteset"
)

// Annotation holds the four positional action-name sets and the optional
// precondition spec.md §3 attaches to an AST node:
//
//   - Enter fires on the epsilon edge (or every entry edge) into the node's
//     sub-language.
//   - Final fires on the last consumed byte of a match of the sub-language,
//     when such a byte is determinable.
//   - Exit fires on the first byte after the sub-language's match (or at
//     end of input, if the match is still live there).
//   - All fires on every byte consumed while inside the sub-language.
//   - Precond names a boolean guard evaluated before entering the
//     sub-language; a node carries at most one.
type Annotation struct {
	Enter, Final, Exit, All action.List
	Precond                 string
}

// IsEmpty reports whether the annotation carries no actions and no
// precondition (the common case for most nodes).
func (a Annotation) IsEmpty() bool {
	return len(a.Enter) == 0 && len(a.Final) == 0 && len(a.Exit) == 0 &&
		len(a.All) == 0 && a.Precond == ""
}

// Node is any node of the regex algebra. The interface is closed to the
// types defined in this package (Symbol, Concat, Alt, Rep, And, Diff,
// Empty) — there is no exported way to implement Node outside this
// package, mirroring the sealed-sum-type shape of spec.md's Regex AST.
type Node interface {
	// Annotation returns the action/precondition annotation attached to
	// this node, or the zero Annotation if none.
	Annotation() Annotation

	// withAnnotation returns a copy of this node carrying ann. Used by the
	// package-level OnEnter/OnFinal/OnExit/OnAll/When builders.
	withAnnotation(Annotation) Node

	sealed()
}

// SymbolNode matches any single byte in Set. Set is guaranteed non-empty
// by construction (see Symbol in builder.go).
type SymbolNode struct {
	ann Annotation
	Set byteset.Set
}

func (n SymbolNode) Annotation() Annotation { return n.ann }
func (n SymbolNode) withAnnotation(a Annotation) Node {
	n.ann = a
	return n
}
func (SymbolNode) sealed() {}

// ConcatNode matches its children in order, one after another.
// Children is canonicalized right-associatively and flattened at
// construction (see Concat in builder.go): a Concat's own children never
// include another un-annotated ConcatNode.
type ConcatNode struct {
	ann      Annotation
	Children []Node
}

func (n ConcatNode) Annotation() Annotation { return n.ann }
func (n ConcatNode) withAnnotation(a Annotation) Node {
	n.ann = a
	return n
}
func (ConcatNode) sealed() {}

// AltNode matches Left or Right. Order is preserved (not commuted) so
// priority-based disambiguation (spec.md §4.4) can use declaration order
// as a tie-break.
type AltNode struct {
	ann         Annotation
	Left, Right Node
}

func (n AltNode) Annotation() Annotation { return n.ann }
func (n AltNode) withAnnotation(a Annotation) Node {
	n.ann = a
	return n
}
func (AltNode) sealed() {}

// RepNode matches Inner zero or more times (Kleene star).
type RepNode struct {
	ann   Annotation
	Inner Node
}

func (n RepNode) Annotation() Annotation { return n.ann }
func (n RepNode) withAnnotation(a Annotation) Node {
	n.ann = a
	return n
}
func (RepNode) sealed() {}

// AndNode matches the intersection of the languages of Left and Right.
type AndNode struct {
	ann         Annotation
	Left, Right Node
}

func (n AndNode) Annotation() Annotation { return n.ann }
func (n AndNode) withAnnotation(a Annotation) Node {
	n.ann = a
	return n
}
func (AndNode) sealed() {}

// DiffNode matches strings in Left's language that are not in Right's.
type DiffNode struct {
	ann         Annotation
	Left, Right Node
}

func (n DiffNode) Annotation() Annotation { return n.ann }
func (n DiffNode) withAnnotation(a Annotation) Node {
	n.ann = a
	return n
}
func (DiffNode) sealed() {}

// EmptyNode matches only the empty string.
type EmptyNode struct {
	ann Annotation
}

func (n EmptyNode) Annotation() Annotation { return n.ann }
func (n EmptyNode) withAnnotation(a Annotation) Node {
	n.ann = a
	return n
}
func (EmptyNode) sealed() {}
