package ast

import (
	"errors"
	"fmt"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/byteset"
)

// Sentinel errors, in the style of nfa/error.go: callers can match with
// errors.Is even though the concrete error is a *BuildError.
var (
	// ErrEmptySymbol indicates Symbol was constructed with an empty byte
	// set, which spec.md §3 forbids: "Symbol's byte set is non-empty".
	ErrEmptySymbol = errors.New("ast: symbol byte set must not be empty")
)

// BuildError wraps a builder-time AST construction failure.
type BuildError struct {
	Op  string
	Err error
}

func (e *BuildError) Error() string { return fmt.Sprintf("ast: %s: %v", e.Op, e.Err) }
func (e *BuildError) Unwrap() error { return e.Err }

var emptyNode = EmptyNode{}

// Empty returns the node matching only the empty string.
func Empty() Node { return emptyNode }

// isEmpty reports whether n is (structurally) the Empty node with no
// annotation — used by Rep and Concat to apply the canonicalizations
// spec.md §3 requires.
func isEmpty(n Node) bool {
	e, ok := n.(EmptyNode)
	return ok && e.ann.IsEmpty()
}

// Symbol returns a node matching any single byte in s. Panics via a
// returned error is not idiomatic for a builder chain, so Symbol instead
// returns (Node, error); MustSymbol panics for callers building literals
// they know are non-empty.
func Symbol(s byteset.Set) (Node, error) {
	if s.IsEmpty() {
		return nil, &BuildError{Op: "Symbol", Err: ErrEmptySymbol}
	}
	return SymbolNode{Set: s}, nil
}

// MustSymbol is like Symbol but panics on error. Intended for literals
// known at compile time to be non-empty (e.g. Byte, ByteRange, Char).
func MustSymbol(s byteset.Set) Node {
	n, err := Symbol(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Byte returns the node matching exactly the single byte b.
func Byte(b byte) Node { return MustSymbol(byteset.One(b)) }

// ByteRange returns the node matching any byte in [lo, hi].
func ByteRange(lo, hi byte) Node { return MustSymbol(byteset.RangeSet(lo, hi)) }

// Char returns the node matching the single ASCII character c.
func Char(c byte) Node { return Byte(c) }

// UTF8 returns the node matching the UTF-8 encoding of the Unicode code
// point r, expanded to a fixed sequence of byte literals at construction
// time (spec.md §4.2: "UTF-8-encoded code point (expanded to a sequence
// of byte literals)").
func UTF8(r rune) Node {
	buf := make([]byte, 0, 4)
	buf = appendUTF8(buf, r)
	nodes := make([]Node, len(buf))
	for i, b := range buf {
		nodes[i] = Byte(b)
	}
	return Concat(nodes...)
}

// appendUTF8 encodes r as UTF-8 without importing unicode/utf8's rune
// validation machinery — the compiler treats code points as raw byte
// sequences (spec.md §1 Non-goals: no Unicode-aware semantics beyond raw
// UTF-8 bytes), so a minimal, direct encoder is all this needs.
func appendUTF8(buf []byte, r rune) []byte {
	switch {
	case r < 0x80:
		return append(buf, byte(r))
	case r < 0x800:
		return append(buf,
			byte(0xC0|r>>6),
			byte(0x80|r&0x3F))
	case r < 0x10000:
		return append(buf,
			byte(0xE0|r>>12),
			byte(0x80|(r>>6)&0x3F),
			byte(0x80|r&0x3F))
	default:
		return append(buf,
			byte(0xF0|r>>18),
			byte(0x80|(r>>12)&0x3F),
			byte(0x80|(r>>6)&0x3F),
			byte(0x80|r&0x3F))
	}
}

// Concat returns the node matching each of nodes in sequence. It
// canonicalizes right-associatively and flattens nested, un-annotated
// Concat children so that the AST never carries a redundant layer of
// concatenation (spec.md §3: "Concat is right-associative canonicalized").
// concat(R, Empty) == R and concat(Empty, R) == R (spec.md §8 algebra law).
func Concat(nodes ...Node) Node {
	var flat []Node
	for _, n := range nodes {
		if isEmpty(n) {
			continue
		}
		if c, ok := n.(ConcatNode); ok && c.ann.IsEmpty() {
			flat = append(flat, c.Children...)
			continue
		}
		flat = append(flat, n)
	}
	switch len(flat) {
	case 0:
		return Empty()
	case 1:
		return flat[0]
	default:
		return ConcatNode{Children: flat}
	}
}

// Alt returns the node matching a or b, preferring a on ambiguous input
// when a caller's disambiguation policy consults declaration order
// (spec.md §4.4). alt(R, R) is language-equivalent to R but is NOT
// collapsed structurally — the AST preserves the two branches so that
// distinct action annotations on each arm still fire independently.
func Alt(a, b Node) Node {
	return AltNode{Left: a, Right: b}
}

// AltAll folds Alt over nodes in order, left to right.
func AltAll(nodes ...Node) Node {
	if len(nodes) == 0 {
		return Empty()
	}
	out := nodes[0]
	for _, n := range nodes[1:] {
		out = Alt(out, n)
	}
	return out
}

// Rep returns the node matching Inner zero or more times. rep(Empty) ==
// Empty (spec.md §3 invariant and §8 law).
func Rep(inner Node) Node {
	if isEmpty(inner) {
		return Empty()
	}
	return RepNode{Inner: inner}
}

// Opt returns the node matching Inner zero or one times: alt(inner,
// Empty).
func Opt(inner Node) Node { return Alt(inner, Empty()) }

// Rep1 returns the node matching Inner one or more times:
// concat(inner, rep(inner)).
func Rep1(inner Node) Node { return Concat(inner, Rep(inner)) }

// Intersect returns the node matching the intersection of a's and b's
// languages.
func Intersect(a, b Node) Node { return AndNode{Left: a, Right: b} }

// Diff returns the node matching strings in a's language that are not in
// b's.
func Diff(a, b Node) Node { return DiffNode{Left: a, Right: b} }

// Negate returns the node matching every byte string NOT matched by a,
// implemented as the difference of "any sequence" and a, per spec.md
// §4.2.
func Negate(a Node) Node {
	return Diff(Rep(MustSymbol(byteset.All())), a)
}

// OnEnter returns a copy of n with names appended (via reg) to its Enter
// action list.
func OnEnter(reg *action.Registry, n Node, names ...string) Node {
	ann := n.Annotation()
	ann.Enter = ann.Enter.Merge(declareAll(reg, names))
	return n.withAnnotation(ann)
}

// OnFinal returns a copy of n with names appended to its Final action
// list.
func OnFinal(reg *action.Registry, n Node, names ...string) Node {
	ann := n.Annotation()
	ann.Final = ann.Final.Merge(declareAll(reg, names))
	return n.withAnnotation(ann)
}

// OnExit returns a copy of n with names appended to its Exit action list.
func OnExit(reg *action.Registry, n Node, names ...string) Node {
	ann := n.Annotation()
	ann.Exit = ann.Exit.Merge(declareAll(reg, names))
	return n.withAnnotation(ann)
}

// OnAll returns a copy of n with names appended to its All action list.
func OnAll(reg *action.Registry, n Node, names ...string) Node {
	ann := n.Annotation()
	ann.All = ann.All.Merge(declareAll(reg, names))
	return n.withAnnotation(ann)
}

// When returns a copy of n guarded by the named precondition. A node may
// carry at most one precondition; calling When again replaces it.
func When(n Node, precond string) Node {
	ann := n.Annotation()
	ann.Precond = precond
	return n.withAnnotation(ann)
}

func declareAll(reg *action.Registry, names []string) action.List {
	out := make(action.List, len(names))
	for i, name := range names {
		out[i] = reg.New(name)
	}
	return out
}
