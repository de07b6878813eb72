// Package dfa converts an *nfa.NFA into a deterministic automaton via
// eager subset construction, and combines two DFAs via product
// construction for intersection/difference.
//
// Unlike the teacher's dfa/lazy package, which materializes states on
// demand during a live search, this package always builds the complete
// reachable state graph up front: the whole alphabet and NFA here are
// static and finite (there is no live input stream driving discovery), so
// eager construction terminates and lets package dfamin operate on a
// complete graph.
package dfa

import (
	"sort"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/byteset"
	"github.com/coregx/rxmachine/nfa"
)

// StateID identifies a DFA state by its index into DFA.States.
type StateID uint32

// InvalidState is returned where no valid StateID applies.
const InvalidState StateID = 0xFFFFFFFF

// Edge is one outgoing byte-range transition of a State. Several Edges may
// share an overlapping [Lo, Hi] range when Precond is non-empty: such
// edges are guarded alternatives, evaluated in the order they appear
// (Edges is sorted with precondition-guarded edges before the unconditional
// catch-all for the same range), and the emitter (package emit) renders
// them as successive "if precond" checks falling through to the next.
type Edge struct {
	Lo, Hi  byte
	Target  StateID
	Actions action.List
	Precond string
}

// State is one node of the DFA. NFASet records the sorted NFA state IDs
// this DFA state represents, the classic subset-construction "config",
// which Build reads to compute the state's outgoing edges. Package dfamin
// compares states by their edges and does not carry NFASet over.
type State struct {
	ID         StateID
	NFASet     []nfa.StateID
	Accept     bool
	Edges      []Edge
	EOFActions action.List

	// ExitActions holds any ast.OnExit annotation whose sub-language ends
	// in this configuration. It is already folded into EOFActions (Exit
	// fires at end of input too); Build additionally merges it onto every
	// Edge leaving this state, since Exit fires "on the first byte after
	// the match" (spec.md §4.3), not on the edge that reached this state.
	ExitActions action.List
}

// DFA is a complete, eagerly constructed deterministic automaton.
type DFA struct {
	States       []State
	Start        StateID
	StartActions action.List // actions fired crossing epsilon edges before the first byte is consumed
	Classes      byteset.Classes
}

// State returns the state with the given ID.
func (d *DFA) State(id StateID) *State { return &d.States[id] }

// sortedUnique returns a new, ascending, duplicate-free copy of ids.
func sortedUnique(ids []nfa.StateID) []nfa.StateID {
	out := append([]nfa.StateID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 0
	for i, id := range out {
		if i == 0 || id != out[i-1] {
			out[n] = id
			n++
		}
	}
	return out[:n]
}
