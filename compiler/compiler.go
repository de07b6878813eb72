// Package compiler is the top-level entry point: ast.Node + action.Registry
// in, *machine.Machine out, driving NFA construction (package nfa), subset
// construction (package dfa), minimization (package dfamin), and dense
// renumbering (package machine) in sequence.
package compiler

import (
	"fmt"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/ast"
	"github.com/coregx/rxmachine/dfa"
	"github.com/coregx/rxmachine/dfamin"
	"github.com/coregx/rxmachine/diag"
	"github.com/coregx/rxmachine/literal"
	"github.com/coregx/rxmachine/machine"
	"github.com/coregx/rxmachine/nfa"
)

// AlphabetLevel selects how aggressively the byte alphabet is reduced
// before determinization.
type AlphabetLevel uint8

const (
	// AlphabetAuto computes equivalence classes from the pattern
	// (package byteset.Builder) — the default and, almost always, the
	// right choice.
	AlphabetAuto AlphabetLevel = iota
	// AlphabetIdentity disables reduction (one class per byte value),
	// useful when debugging a generated machine against raw byte values.
	AlphabetIdentity
)

// Options configures Compile.
type Options struct {
	// Unambiguous rejects a machine where some state and byte (or end of
	// input) has two distinctly named, equally prioritized actions
	// competing to fire — package dfa's FindAmbiguity walks the compiled
	// DFA for exactly this after construction, returning a witness input
	// via *diag.AmbiguityError. A single pattern with one Final action is
	// never ambiguous in this sense; this matters once several rules are
	// combined under one registry, e.g. package tokenize's alternation of
	// per-rule Final markers sharing default priority.
	Unambiguous bool
	// Optimize runs dfamin.Minimize. Disabling it is occasionally useful
	// for inspecting the unminimized subset-construction output.
	Optimize bool
	Alphabet AlphabetLevel
}

// DefaultOptions returns the recommended Options: minimization on,
// ambiguity checking off (a single pattern has no competing rules to be
// ambiguous against), automatic alphabet reduction.
func DefaultOptions() Options {
	return Options{Optimize: true, Alphabet: AlphabetAuto}
}

// Validate reports a configuration error, if any.
func (o Options) Validate() error {
	if o.Alphabet != AlphabetAuto && o.Alphabet != AlphabetIdentity {
		return fmt.Errorf("compiler: unknown AlphabetLevel %d", o.Alphabet)
	}
	return nil
}

// ErrUnsupportedNesting is returned when root (or any other call to
// Compile) contains an AndNode/DiffNode nested inside another operator —
// see nfa.ErrNestedProduct.
var ErrUnsupportedNesting = nfa.ErrNestedProduct

// Compile builds the complete *machine.Machine for root. An AndNode/DiffNode
// root is handled specially: each operand is compiled independently to a
// DFA and combined via dfa.Product, since spec.md §9's resolved open
// question rules out NFA-level intersection/difference.
func Compile(root ast.Node, reg *action.Registry, opts Options) (*machine.Machine, []string, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	var d *dfa.DFA
	var warnings []string
	var err error

	switch t := root.(type) {
	case ast.AndNode:
		d, warnings, err = compileProduct(t.Left, t.Right, dfa.Intersect, reg)
	case ast.DiffNode:
		d, warnings, err = compileProduct(t.Left, t.Right, dfa.Difference, reg)
	default:
		d, warnings, err = compilePlain(root, reg)
	}
	if err != nil {
		return nil, warnings, err
	}

	if opts.Optimize {
		d = dfamin.Minimize(d)
	}

	if opts.Unambiguous {
		if amb := dfa.FindAmbiguity(d); amb != nil {
			return nil, warnings, &diag.AmbiguityError{RuleA: amb.ActionA, RuleB: amb.ActionB, Witness: amb.Witness}
		}
	}

	m := machine.FromDFA(d)
	if prefix := literal.New(literal.DefaultConfig()).ExtractPrefixes(root); !prefix.IsEmpty() {
		m.Prefilter = prefix
	}
	return m, warnings, nil
}

func compilePlain(root ast.Node, reg *action.Registry) (*dfa.DFA, []string, error) {
	c := nfa.NewCompiler(reg)
	n, err := c.Compile(root)
	if err != nil {
		return nil, c.Warnings(), fmt.Errorf("compiler: nfa construction failed: %w", err)
	}
	d, err := dfa.NewBuilder(n).Build()
	if err != nil {
		return nil, c.Warnings(), fmt.Errorf("compiler: subset construction failed: %w", err)
	}
	return d, c.Warnings(), nil
}

func compileProduct(left, right ast.Node, kind dfa.Kind, reg *action.Registry) (*dfa.DFA, []string, error) {
	if nfa.IsProductNode(left) || nfa.IsProductNode(right) {
		return nil, nil, fmt.Errorf("compiler: intersection/difference operands must not themselves be And/Diff: %w", ErrUnsupportedNesting)
	}
	ld, lw, err := compilePlain(left, reg)
	if err != nil {
		return nil, lw, err
	}
	rd, rw, err := compilePlain(right, reg)
	warnings := append(lw, rw...)
	if err != nil {
		return nil, warnings, err
	}
	d, err := dfa.Product(ld, rd, kind)
	if err != nil {
		return nil, warnings, fmt.Errorf("compiler: product construction failed: %w", err)
	}
	return d, warnings, nil
}
