// Package nfa implements Thompson-style construction of an epsilon-NFA
// from a regex AST (package ast), preserving the AST's action and
// precondition annotations on the constructed edges.
//
// This package only builds NFAs; NFA->DFA subset construction lives in
// package dfa, and DFA minimization in package dfamin. Execution (search)
// is not a concern of this package — by design, the only thing ever done
// with an NFA here is convert it to a DFA.
package nfa

import (
	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/byteset"
)

// StateID uniquely identifies an NFA state. A 32-bit integer keeps state
// sets compact for the subset-construction worklists in package dfa.
type StateID uint32

// InvalidState is returned where no valid StateID applies.
const InvalidState StateID = 0xFFFFFFFF

// StateKind identifies which fields of a State are meaningful.
type StateKind uint8

const (
	// StateMatch is the unique accepting state. Only a StateMatch state is
	// accepting (spec.md §3 invariant).
	StateMatch StateKind = iota

	// StateByteSet consumes one byte from Set and transitions to Next.
	StateByteSet

	// StateSplit is a two-way epsilon branch (Left, Right), used for
	// alternation and repetition. Each branch carries its own action
	// list/precondition since the two arms of an Alt can be annotated
	// independently.
	StateSplit

	// StateEpsilon is a single epsilon transition to Next, optionally
	// carrying actions/precondition (used for Enter-action attachment
	// points and fragment sequencing).
	StateEpsilon

	// StateFail is a dead state with no outgoing transitions.
	StateFail
)

func (k StateKind) String() string {
	switch k {
	case StateMatch:
		return "Match"
	case StateByteSet:
		return "ByteSet"
	case StateSplit:
		return "Split"
	case StateEpsilon:
		return "Epsilon"
	case StateFail:
		return "Fail"
	default:
		return "Unknown"
	}
}

// State is one node of the NFA multigraph. Which fields are meaningful
// depends on Kind; see the StateKind constants.
type State struct {
	ID   StateID
	Kind StateKind

	// StateByteSet
	Set     byteset.Set
	Next    StateID
	Actions action.List
	Precond string

	// ExitActions holds a StateEpsilon state's ast.OnExit annotation,
	// kept apart from Actions because it fires on a different transition:
	// Actions (and Final/Enter/All) fire on the edge *entering* this
	// configuration, but Exit fires "on the first byte after the match,
	// or at end of input if the match is still live" (spec.md §4.3) —
	// i.e. on whatever edge *leaves* this configuration, or as an
	// end-of-input action if none does. Package dfa's closeWithActions
	// keeps this separate from the merged Actions list for exactly that
	// reason.
	ExitActions action.List

	// StateSplit: two independent epsilon edges, each separately
	// annotated so the two arms of an Alt/Rep can carry distinct actions.
	Left, Right  StateID
	LeftActions  action.List
	RightActions action.List
	LeftPrecond  string
	RightPrecond string
}

// NFA is an arena of States plus a distinguished start and final state.
// States are addressed by index into the arena (their StateID), following
// Design Notes §9 ("store states in an arena... use integer indices for
// transitions").
type NFA struct {
	States []State
	Start  StateID
	Final  StateID
}

// State returns the state with the given ID.
func (n *NFA) State(id StateID) *State { return &n.States[id] }

// EpsilonClosure computes the set of states reachable from seeds via
// epsilon transitions only (StateEpsilon and StateSplit edges). It returns
// the state IDs alone; action lists and preconditions along the way are
// not collected here (package dfa's closeWithActions does that). The
// returned slice lists states in the order a depth-first stack pops them,
// with a map as the visited set.
func (n *NFA) EpsilonClosure(seeds []StateID) []StateID {
	visited := make(map[StateID]bool, len(seeds)*2)
	var order []StateID
	var stack []StateID
	for _, s := range seeds {
		if !visited[s] {
			visited[s] = true
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)
		st := n.State(id)
		switch st.Kind {
		case StateEpsilon:
			if !visited[st.Next] {
				visited[st.Next] = true
				stack = append(stack, st.Next)
			}
		case StateSplit:
			if !visited[st.Left] {
				visited[st.Left] = true
				stack = append(stack, st.Left)
			}
			if !visited[st.Right] {
				visited[st.Right] = true
				stack = append(stack, st.Right)
			}
		}
	}
	return order
}

// ContainsFinal reports whether the final (accepting) state is a member
// of the given state-ID set.
func (n *NFA) ContainsFinal(ids []StateID) bool {
	for _, id := range ids {
		if id == n.Final {
			return true
		}
	}
	return false
}
