package nfa

import (
	"github.com/coregx/rxmachine/byteset"
	"github.com/coregx/rxmachine/internal/conv"
)

// Builder constructs an NFA incrementally, one state at a time. This
// provides full control over construction and is what Compiler uses
// internally, but it is also exported for callers that want to bypass the
// AST entirely and build an NFA by hand.
//
// Grounded on the teacher's nfa.Builder: states are appended to an arena
// and addressed by their append-index, so every Add* method returns a
// fresh, monotonically increasing StateID.
type Builder struct {
	states []State
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{states: make([]State, 0, 16)}
}

func (b *Builder) add(s State) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	s.ID = id
	b.states = append(b.states, s)
	return id
}

// AddMatch adds the unique accepting state and returns its ID.
func (b *Builder) AddMatch() StateID {
	return b.add(State{Kind: StateMatch})
}

// AddFail adds a dead state with no outgoing transitions.
func (b *Builder) AddFail() StateID {
	return b.add(State{Kind: StateFail})
}

// AddByteSet adds a state that consumes one byte from set and transitions
// to next.
func (b *Builder) AddByteSet(set byteset.Set, next StateID) StateID {
	return b.add(State{Kind: StateByteSet, Set: set, Next: next})
}

// AddEpsilon adds a state with a single, unconditional epsilon transition
// to next.
func (b *Builder) AddEpsilon(next StateID) StateID {
	return b.add(State{Kind: StateEpsilon, Next: next})
}

// AddSplit adds a state with two independent epsilon transitions, to left
// and right.
func (b *Builder) AddSplit(left, right StateID) StateID {
	return b.add(State{Kind: StateSplit, Left: left, Right: right})
}

// Build finalizes the arena into an NFA with the given start state. final
// must be the StateID of a StateMatch state previously added with
// AddMatch.
func (b *Builder) Build(start, final StateID) *NFA {
	return &NFA{States: b.states, Start: start, Final: final}
}

// NumStates returns the number of states added so far.
func (b *Builder) NumStates() int { return len(b.states) }
