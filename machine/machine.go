// Package machine renumbers a minimized *dfa.DFA into the compact,
// dense form ready for code emission (package emit): states numbered from
// 1, with state 0 reserved as the error/dead sentinel per spec.md §3, and
// outgoing edges grouped into runs sharing an identical
// (target, actions, precond) — the same run-length compaction technique
// the teacher applies to its byte-class slot tables.
package machine

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/byteset"
	"github.com/coregx/rxmachine/dfa"
	"github.com/coregx/rxmachine/literal"
)

// DeadState is the reserved sentinel: "no valid transition", rendered by
// the emitter as the match-failure/error path.
const DeadState uint32 = 0

// Edge is one outgoing, densely renumbered transition run.
type Edge struct {
	Lo, Hi  byte
	Target  uint32
	Actions action.List
	Precond string
}

// State is one densely numbered node of the Machine.
type State struct {
	ID         uint32
	Accept     bool
	Edges      []Edge
	EOFActions action.List
}

// Machine is the final, emitter-ready form of a compiled pattern.
type Machine struct {
	States       []State
	Start        uint32
	StartActions action.List
	Classes      byteset.Classes

	// Prefilter holds the literal byte sequences package literal proved
	// every match of the compiled pattern must begin with, or nil if none
	// could be proven. It is accelerator metadata only: a caller may scan
	// for Prefilter ahead of running the Machine to skip input that
	// cannot possibly match, but the Machine itself remains the sole
	// source of truth for whether a given input matches.
	Prefilter *literal.Seq

	// LiteralIndex is an optional Aho-Corasick automaton built over a
	// set of literals known to cover every accepting path (populated by
	// package tokenize when every combined rule contributes a required
	// literal). Like Prefilter, it never substitutes for running the
	// Machine — it is offered as a candidate fast path for a caller that
	// wants to skip straight to the next plausible match start.
	LiteralIndex *ahocorasick.Automaton
}

// State returns the state with the given dense ID, or nil for DeadState.
func (m *Machine) State(id uint32) *State {
	if id == DeadState {
		return nil
	}
	return &m.States[id-1]
}

// Alphabet reports the byte universe actually used by any transition.
// Package emit does not call it.
func (m *Machine) Alphabet() byteset.Set {
	var s byteset.Set
	for _, st := range m.States {
		for _, e := range st.Edges {
			s = s.Union(byteset.RangeSet(e.Lo, e.Hi))
		}
	}
	return s
}

// FromDFA renumbers d densely starting at 1, reserving 0 as DeadState.
// d is expected to already have unreachable states dropped (package
// dfamin does this as part of Minimize).
func FromDFA(d *dfa.DFA) *Machine {
	renumber := make(map[dfa.StateID]uint32, len(d.States))
	renumber[d.Start] = 1
	next := uint32(2)
	for id := range d.States {
		sid := dfa.StateID(id)
		if sid == d.Start {
			continue
		}
		renumber[sid] = next
		next++
	}

	states := make([]State, len(d.States))
	for id := range d.States {
		sid := dfa.StateID(id)
		src := d.State(sid)
		dense := renumber[sid]
		edges := make([]Edge, len(src.Edges))
		for i, e := range src.Edges {
			edges[i] = Edge{Lo: e.Lo, Hi: e.Hi, Target: renumber[e.Target], Actions: e.Actions, Precond: e.Precond}
		}
		states[dense-1] = State{ID: dense, Accept: src.Accept, Edges: edges, EOFActions: src.EOFActions}
	}

	return &Machine{States: states, Start: 1, StartActions: d.StartActions, Classes: d.Classes}
}
