package dfamin

import (
	"strconv"
	"strings"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/dfa"
)

func actionsSig(l action.List) string {
	sorted := l.Sorted()
	var b strings.Builder
	for _, a := range sorted {
		b.WriteString(a.Name)
		b.WriteByte('@')
		b.WriteString(strconv.Itoa(a.Priority))
		b.WriteByte(';')
	}
	return b.String()
}

// initialSignature groups states by (accept, eofActions) — the coarsest
// partition consistent with minimization's invariant: two states can only
// be equivalent if they agree on whether the match is already complete.
func initialSignature(st *dfa.State) string {
	var b strings.Builder
	if st.Accept {
		b.WriteByte('1')
	} else {
		b.WriteByte('0')
	}
	b.WriteByte('|')
	b.WriteString(actionsSig(st.EOFActions))
	return b.String()
}

// applicableEdges returns every edge (in declared order — guarded
// alternatives first, unconditional catch-all last) whose range covers b.
func applicableEdges(st *dfa.State, b byte) []dfa.Edge {
	var out []dfa.Edge
	for _, e := range st.Edges {
		if b >= e.Lo && b <= e.Hi {
			out = append(out, e)
		}
	}
	return out
}

// refinedSignature builds a string distinguishing st from any other state
// that disagrees, for some representative byte, on which *partition* (not
// raw state) its applicable edges target, with what actions/precondition.
func refinedSignature(st *dfa.State, reps []byte, partition map[int]int) string {
	var b strings.Builder
	b.WriteString(initialSignature(st))
	for _, rb := range reps {
		b.WriteByte('#')
		edges := applicableEdges(st, rb)
		for _, e := range edges {
			b.WriteString(strconv.Itoa(partition[int(e.Target)]))
			b.WriteByte(':')
			b.WriteString(e.Precond)
			b.WriteByte(':')
			b.WriteString(actionsSig(e.Actions))
			b.WriteByte(',')
		}
	}
	return b.String()
}

// buildMinimized constructs the quotient automaton: one DFA state per
// partition block, with edges rewritten to target blocks instead of raw
// states. The representative used for each block's own Edges/EOFActions is
// simply the first reachable state assigned to it — all states in a block
// are signature-identical by construction, so any member works.
func buildMinimized(d *dfa.DFA, reachable []dfa.StateID, partition map[int]int) *dfa.DFA {
	blockRep := make(map[int]dfa.StateID)
	for _, id := range reachable {
		b := partition[int(id)]
		if _, ok := blockRep[b]; !ok {
			blockRep[b] = id
		}
	}

	numBlocks := 0
	for _, b := range partition {
		if b+1 > numBlocks {
			numBlocks = b + 1
		}
	}

	startBlock := partition[int(d.Start)]
	newStates := make([]dfa.State, numBlocks)
	for b := 0; b < numBlocks; b++ {
		rep, ok := blockRep[b]
		if !ok {
			continue
		}
		src := d.State(rep)
		edges := make([]dfa.Edge, len(src.Edges))
		for i, e := range src.Edges {
			edges[i] = dfa.Edge{
				Lo:      e.Lo,
				Hi:      e.Hi,
				Target:  dfa.StateID(partition[int(e.Target)]),
				Actions: e.Actions,
				Precond: e.Precond,
			}
		}
		newStates[b] = dfa.State{
			ID:         dfa.StateID(b),
			Accept:     src.Accept,
			Edges:      edges,
			EOFActions: src.EOFActions,
		}
	}

	return &dfa.DFA{
		States:       newStates,
		Start:        dfa.StateID(startBlock),
		StartActions: d.StartActions,
		Classes:      d.Classes,
	}
}
