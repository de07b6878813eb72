package nfa

import (
	"fmt"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/ast"
)

// maxRecursionDepth bounds the AST recursion during compilation, mirroring
// the teacher's MaxRecursionDepth guard against pathological or cyclic
// trees (our AST is acyclic by construction, but a sufficiently deep
// Concat/Alt chain built programmatically could still blow the Go stack).
const maxRecursionDepth = 4096

// Fragment is a single-entry, single-exit piece of NFA under construction.
// Exit is always the StateID of a dangling StateEpsilon state whose Next is
// InvalidState until the caller wires in whatever follows — the classic
// Thompson "patch" technique, adapted to an append-only state arena by
// mutating the placeholder in place instead of keeping a separate patch
// list (grounded on the teacher's nfa.Builder, which already addresses
// states by a stable arena index so in-place patching is safe before
// Build() frees the slice).
type Fragment struct {
	Entry StateID
	Exit  StateID
}

// Compiler performs Thompson-style construction of an *NFA from an
// ast.Node, attaching the AST's action/precondition annotations to the
// constructed edges per spec.md §4.3.
type Compiler struct {
	b        *Builder
	reg      *action.Registry
	warnings []string
	depth    int
}

// NewCompiler returns a Compiler that validates precondition names against
// reg.
func NewCompiler(reg *action.Registry) *Compiler {
	return &Compiler{b: NewBuilder(), reg: reg}
}

// Warnings returns any non-fatal diagnostics accumulated during Compile
// (e.g. a Final action with no statically determinable last byte).
func (c *Compiler) Warnings() []string { return c.warnings }

func (c *Compiler) warn(msg string) { c.warnings = append(c.warnings, msg) }

// Compile builds the complete NFA for root. root must not contain a nested
// AndNode/DiffNode (intersection/difference is a whole-pattern operator
// only — see ErrNestedProduct); callers that need intersection/difference
// semantics should detect an AndNode/DiffNode root themselves (via
// IsProductNode) and drive DFA-level product construction (package dfa)
// instead of calling Compile directly on such a root.
func (c *Compiler) Compile(root ast.Node) (*NFA, error) {
	if containsProductNode(root, true) {
		return nil, &CompileError{Context: "root", Err: ErrNestedProduct}
	}
	frag, err := c.compileNode(root)
	if err != nil {
		return nil, err
	}
	match := c.b.AddMatch()
	c.patchExit(frag.Exit, match)
	return c.b.Build(frag.Entry, match), nil
}

// IsProductNode reports whether n is an AndNode or DiffNode.
func IsProductNode(n ast.Node) bool {
	switch n.(type) {
	case ast.AndNode, ast.DiffNode:
		return true
	default:
		return false
	}
}

// containsProductNode walks n looking for an AndNode/DiffNode. atRoot
// exempts the immediate root from the check, since Compile's caller is
// expected to special-case a product root itself.
func containsProductNode(n ast.Node, atRoot bool) bool {
	if !atRoot && IsProductNode(n) {
		return true
	}
	switch t := n.(type) {
	case ast.ConcatNode:
		for _, ch := range t.Children {
			if containsProductNode(ch, false) {
				return true
			}
		}
	case ast.AltNode:
		return containsProductNode(t.Left, false) || containsProductNode(t.Right, false)
	case ast.RepNode:
		return containsProductNode(t.Inner, false)
	case ast.AndNode:
		return containsProductNode(t.Left, false) || containsProductNode(t.Right, false)
	case ast.DiffNode:
		return containsProductNode(t.Left, false) || containsProductNode(t.Right, false)
	}
	return false
}

// patchExit rewrites the dangling exit state's Next to target, completing
// whatever fragment produced it.
func (c *Compiler) patchExit(exit, target StateID) {
	c.b.states[exit].Next = target
}

// compileNode builds the fully annotated fragment for n: first the bare
// structural fragment (compileStructure), then — when n carries a
// non-empty Annotation — the five attachment rules of spec.md §4.3.
func (c *Compiler) compileNode(n ast.Node) (Fragment, error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > maxRecursionDepth {
		return Fragment{}, &CompileError{Context: "recursion", Err: fmt.Errorf("exceeded max recursion depth %d", maxRecursionDepth)}
	}

	ann := n.Annotation()
	rangeStart := c.b.NumStates()
	base, err := c.compileStructure(n)
	if err != nil {
		return Fragment{}, err
	}
	if ann.IsEmpty() {
		return base, nil
	}
	if ann.Precond != "" && c.reg != nil && !c.reg.HasPrecondition(ann.Precond) {
		return Fragment{}, &CompileError{Context: "precondition " + ann.Precond, Err: ErrUnknownPrecondition}
	}

	// Rule: Final actions attach to every byte-transition whose target is
	// this fragment's (raw) exit state. When none exists — e.g. a Rep
	// fragment whose only path to Exit is a zero-iteration epsilon skip —
	// warn rather than error, per spec.md §9's resolved open question.
	if len(ann.Final) > 0 {
		found := false
		for id := rangeStart; id < c.b.NumStates(); id++ {
			st := &c.b.states[id]
			if st.Kind == StateByteSet && st.Next == base.Exit {
				st.Actions = st.Actions.Merge(ann.Final)
				found = true
			}
		}
		if !found {
			c.warn(fmt.Sprintf("final action(s) %v have no statically determinable last byte", ann.Final.Names()))
		}
	}

	// Rule: All actions attach to every byte-transition created anywhere
	// within this fragment's subtree.
	if len(ann.All) > 0 {
		for id := rangeStart; id < c.b.NumStates(); id++ {
			st := &c.b.states[id]
			if st.Kind == StateByteSet {
				st.Actions = st.Actions.Merge(ann.All)
			}
		}
	}

	// Rule: Exit actions fire leaving the fragment's sub-language, not
	// entering it, so they must not land on the edge that reaches this
	// exit state (that edge consumes the match's *last* byte, the same
	// transition Final already occupies). They're recorded on
	// ExitActions instead; package dfa's subset construction attaches
	// them to every edge leaving the resulting DFA state (the first byte
	// after the match) and to that state's EOFActions (end of input with
	// the match still live).
	if len(ann.Exit) > 0 {
		ex := &c.b.states[base.Exit]
		ex.ExitActions = ex.ExitActions.Merge(ann.Exit)
	}

	// Rule: Enter actions/precondition attach to the edge(s) emerging from
	// the fragment's entry state. This always uses the "no single
	// predecessor epsilon edge" fallback branch of spec.md §4.3 — well
	// defined for every entry Kind our constructor produces (ByteSet,
	// Epsilon, Split), so a dedicated wrapping junction state is
	// unnecessary.
	if len(ann.Enter) > 0 || ann.Precond != "" {
		en := &c.b.states[base.Entry]
		switch en.Kind {
		case StateSplit:
			en.LeftActions = en.LeftActions.Merge(ann.Enter)
			en.RightActions = en.RightActions.Merge(ann.Enter)
			en.LeftPrecond = ann.Precond
			en.RightPrecond = ann.Precond
		default: // StateByteSet, StateEpsilon
			en.Actions = en.Actions.Merge(ann.Enter)
			en.Precond = ann.Precond
		}
	}

	return base, nil
}

// compileStructure builds the unannotated Thompson fragment for n's
// structural kind, recursing into children via compileNode so each
// child's own annotation is honored.
func (c *Compiler) compileStructure(n ast.Node) (Fragment, error) {
	switch t := n.(type) {
	case ast.EmptyNode:
		return c.compileEmpty()
	case ast.SymbolNode:
		return c.compileSymbol(t)
	case ast.ConcatNode:
		return c.compileConcat(t)
	case ast.AltNode:
		return c.compileAlt(t)
	case ast.RepNode:
		return c.compileRep(t)
	case ast.AndNode:
		return Fragment{}, &CompileError{Context: "And", Err: ErrNestedProduct}
	case ast.DiffNode:
		return Fragment{}, &CompileError{Context: "Diff", Err: ErrNestedProduct}
	default:
		return Fragment{}, &CompileError{Err: fmt.Errorf("unknown ast.Node type %T", n)}
	}
}

// compileEmpty builds the trivial fragment matching only the empty string:
// a single dangling epsilon edge from entry straight to exit.
func (c *Compiler) compileEmpty() (Fragment, error) {
	exit := c.b.AddEpsilon(InvalidState)
	entry := c.b.AddEpsilon(InvalidState)
	c.patchExit(entry, exit)
	return Fragment{Entry: entry, Exit: exit}, nil
}

// compileSymbol builds the fragment matching exactly one byte from set:
// entry IS the byte-consuming state itself, Next left dangling as exit.
func (c *Compiler) compileSymbol(s ast.SymbolNode) (Fragment, error) {
	exit := c.b.AddEpsilon(InvalidState)
	entry := c.b.AddByteSet(s.Set, exit)
	return Fragment{Entry: entry, Exit: exit}, nil
}

// compileConcat chains each child's fragment into the next by patching
// each predecessor's exit to the successor's entry.
func (c *Compiler) compileConcat(t ast.ConcatNode) (Fragment, error) {
	if len(t.Children) == 0 {
		return c.compileEmpty()
	}
	first, err := c.compileNode(t.Children[0])
	if err != nil {
		return Fragment{}, err
	}
	prevExit := first.Exit
	for _, child := range t.Children[1:] {
		frag, err := c.compileNode(child)
		if err != nil {
			return Fragment{}, err
		}
		c.patchExit(prevExit, frag.Entry)
		prevExit = frag.Exit
	}
	return Fragment{Entry: first.Entry, Exit: prevExit}, nil
}

// compileAlt builds a fresh Split entry branching into each arm, and a
// fresh shared exit that both arms' exits are patched to converge on.
func (c *Compiler) compileAlt(t ast.AltNode) (Fragment, error) {
	left, err := c.compileNode(t.Left)
	if err != nil {
		return Fragment{}, err
	}
	right, err := c.compileNode(t.Right)
	if err != nil {
		return Fragment{}, err
	}
	entry := c.b.AddSplit(left.Entry, right.Entry)
	exit := c.b.AddEpsilon(InvalidState)
	c.patchExit(left.Exit, exit)
	c.patchExit(right.Exit, exit)
	return Fragment{Entry: entry, Exit: exit}, nil
}

// compileRep builds zero-or-more repetition: a Split entry that either
// enters the body (looping back to itself) or skips straight to exit.
func (c *Compiler) compileRep(t ast.RepNode) (Fragment, error) {
	inner, err := c.compileNode(t.Inner)
	if err != nil {
		return Fragment{}, err
	}
	exit := c.b.AddEpsilon(InvalidState)
	entry := c.b.AddSplit(inner.Entry, exit)
	c.patchExit(inner.Exit, entry)
	return Fragment{Entry: entry, Exit: exit}, nil
}
