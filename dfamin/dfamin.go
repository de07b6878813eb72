// Package dfamin minimizes a *dfa.DFA by partition refinement.
//
// No package in the teacher repo minimizes DFAs — its lazy states are
// materialized on demand and never merged — so this package's core
// algorithm is grounded on the *general* equivalence-class-by-signature
// technique the teacher already applies to bytes (nfa.ByteClasses /
// CompositeSequenceDFA.buildByteClasses), here applied to DFA *states*
// instead: two states are equivalent iff they agree on acceptance, EOF
// actions, and — for every byte class — which partition (not raw state)
// their transition lands in, with the same actions and precondition.
package dfamin

import (
	"sort"

	"github.com/coregx/rxmachine/dfa"
)

// Minimize returns an equivalent DFA with the fewest possible states.
// Unreachable states are dropped first (a depth-first walk from d.Start),
// then partitions are refined until stable.
func Minimize(d *dfa.DFA) *dfa.DFA {
	reachable := reachableStates(d)
	classes := d.Classes
	reps := classes.Representatives()

	// Initial partition: states grouped by (accept, eofActions-signature).
	partition := make(map[int]int, len(reachable))
	sigToBlock := make(map[string]int)
	nextBlock := 0
	for _, id := range reachable {
		st := d.State(id)
		sig := initialSignature(st)
		b, ok := sigToBlock[sig]
		if !ok {
			b = nextBlock
			nextBlock++
			sigToBlock[sig] = b
		}
		partition[int(id)] = b
	}

	for {
		sigToBlock = make(map[string]int)
		newPartition := make(map[int]int, len(partition))
		changed := false
		nextBlock = 0
		for _, id := range reachable {
			st := d.State(id)
			sig := refinedSignature(st, reps, partition)
			b, ok := sigToBlock[sig]
			if !ok {
				b = nextBlock
				nextBlock++
				sigToBlock[sig] = b
			}
			newPartition[int(id)] = b
			if b != partition[int(id)] {
				changed = true
			}
		}
		partition = newPartition
		if !changed {
			break
		}
	}

	return buildMinimized(d, reachable, partition)
}

func reachableStates(d *dfa.DFA) []dfa.StateID {
	visited := make(map[dfa.StateID]bool)
	var order []dfa.StateID
	stack := []dfa.StateID{d.Start}
	visited[d.Start] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)
		for _, e := range d.State(id).Edges {
			if !visited[e.Target] {
				visited[e.Target] = true
				stack = append(stack, e.Target)
			}
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	return order
}
