package dfa

import (
	"strconv"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/byteset"
	"github.com/coregx/rxmachine/internal/conv"
	"github.com/coregx/rxmachine/internal/sparse"
	"github.com/coregx/rxmachine/nfa"
)

// Builder performs eager subset construction from an *nfa.NFA. Grounded on
// the teacher's dfa/lazy.Builder and nfa.CompositeSequenceDFA (byte-class
// driven determinization), but — since the whole alphabet and NFA here are
// static and finite rather than driven by a live input stream — Build
// walks every reachable configuration up front instead of materializing
// states lazily on first visit.
type Builder struct {
	n       *nfa.NFA
	classes byteset.Classes
	states  []State
	index   map[string]StateID
}

// NewBuilder returns a Builder for n, computing the byte-equivalence-class
// alphabet (package byteset) by observing every ByteSet state's transition
// set up front.
func NewBuilder(n *nfa.NFA) *Builder {
	cb := byteset.NewBuilder()
	for i := range n.States {
		st := &n.States[i]
		if st.Kind == nfa.StateByteSet {
			cb.ObserveSet(st.Set)
		}
	}
	return &Builder{n: n, classes: cb.Build(), index: make(map[string]StateID)}
}

// closeWithActions computes the epsilon-closure of seeds (internal/sparse
// SparseSet-backed visited set, grounded on the teacher's internal/sparse
// package) along with the merged action list attached to every epsilon
// edge crossed getting there — the Enter/Final/All annotations that were
// attached directly to a StateEpsilon/StateSplit edge by
// nfa.Compiler.compileNode surface here. ExitActions is returned
// separately: those actions belong to the resulting configuration's
// *outgoing* transitions and EOFActions, not to the edge used to reach it
// (see nfa.State.ExitActions).
func (b *Builder) closeWithActions(seeds []nfa.StateID) (ids []nfa.StateID, acts action.List, exitActs action.List) {
	visited := sparse.NewSparseSet(uint32(len(b.n.States)))
	var order []nfa.StateID
	var stack []nfa.StateID
	push := func(id nfa.StateID) {
		if !visited.Contains(uint32(id)) {
			visited.Insert(uint32(id))
			stack = append(stack, id)
		}
	}
	for _, s := range seeds {
		push(s)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)
		st := b.n.State(id)
		switch st.Kind {
		case nfa.StateEpsilon:
			acts = acts.Merge(st.Actions)
			exitActs = exitActs.Merge(st.ExitActions)
			push(st.Next)
		case nfa.StateSplit:
			if !visited.Contains(uint32(st.Left)) {
				acts = acts.Merge(st.LeftActions)
			}
			push(st.Left)
			if !visited.Contains(uint32(st.Right)) {
				acts = acts.Merge(st.RightActions)
			}
			push(st.Right)
		}
	}
	return sortedUnique(order), acts, exitActs
}

func stateKey(ids []nfa.StateID) string {
	buf := make([]byte, 0, len(ids)*6)
	for _, id := range ids {
		buf = strconv.AppendUint(buf, uint64(id), 10)
		buf = append(buf, ',')
	}
	return string(buf)
}

// getOrCreate returns the (possibly freshly created) DFA state for
// configuration ids. eofActions is the Enter/Final/All set fired crossing
// into this configuration, also valid if input ends here; pendingExit is
// an Exit annotation whose sub-language ends in this configuration — it
// is merged into EOFActions (Exit also fires at end of input) and kept on
// the state separately so Build can later attach it to every edge leaving
// this state (Exit fires on the first byte after the match).
func (b *Builder) getOrCreate(ids []nfa.StateID, eofActions, pendingExit action.List) (StateID, bool) {
	k := stateKey(ids)
	if id, ok := b.index[k]; ok {
		return id, false
	}
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{
		ID:          id,
		NFASet:      ids,
		Accept:      b.n.ContainsFinal(ids),
		EOFActions:  eofActions.Merge(pendingExit),
		ExitActions: pendingExit,
	})
	b.index[k] = id
	return id, true
}

// byteGroup accumulates, for one equivalence-class representative byte,
// the NFA ByteSet transitions sharing a precondition.
type byteGroup struct {
	precond string
	targets []nfa.StateID
	actions action.List
}

// Build computes the full reachable DFA state graph from n.Start.
func (b *Builder) Build() (*DFA, error) {
	startIDs, startActs, startExit := b.closeWithActions([]nfa.StateID{b.n.Start})
	startID, _ := b.getOrCreate(startIDs, startActs, startExit)

	reps := b.classes.Representatives()
	worklist := []StateID{startID}
	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]
		ids := b.states[cur].NFASet

		perRep := make([][]Edge, len(reps))
		for ri, rb := range reps {
			var order []string
			groups := make(map[string]*byteGroup)
			for _, id := range ids {
				st := b.n.State(id)
				if st.Kind != nfa.StateByteSet || !st.Set.Contains(rb) {
					continue
				}
				g, ok := groups[st.Precond]
				if !ok {
					g = &byteGroup{precond: st.Precond}
					groups[st.Precond] = g
					order = append(order, st.Precond)
				}
				g.targets = append(g.targets, st.Next)
				g.actions = g.actions.Merge(st.Actions)
			}
			var ordered []*byteGroup
			for _, p := range order {
				if p != "" {
					ordered = append(ordered, groups[p])
				}
			}
			if g, ok := groups[""]; ok {
				ordered = append(ordered, g)
			}

			edges := make([]Edge, 0, len(ordered))
			for _, g := range ordered {
				closedIDs, closeActs, closeExit := b.closeWithActions(g.targets)
				target, isNew := b.getOrCreate(closedIDs, closeActs, closeExit)
				if isNew {
					worklist = append(worklist, target)
				}
				edges = append(edges, Edge{
					Lo:      rb,
					Hi:      rb,
					Target:  target,
					Actions: g.actions.Merge(closeActs).Sorted(),
					Precond: g.precond,
				})
			}
			perRep[ri] = edges
		}

		b.states[cur].Edges = mergeRanges(reps, perRep)

		// Exit actions pending on cur's own configuration fire leaving it,
		// i.e. on every edge cur has just been given — the first byte
		// after whatever sub-language ended here (already folded into
		// EOFActions by getOrCreate for the end-of-input case).
		if pending := b.states[cur].ExitActions; len(pending) > 0 {
			for i := range b.states[cur].Edges {
				b.states[cur].Edges[i].Actions = b.states[cur].Edges[i].Actions.Merge(pending).Sorted()
			}
		}
	}

	return &DFA{States: b.states, Start: startID, StartActions: startActs, Classes: b.classes}, nil
}

// classRange returns the contiguous byte span [lo, hi] of the equivalence
// class whose representative is reps[i] — valid because byteset.Classes
// assigns classes in ascending byte order, so every class is a contiguous
// run (see byteset.Builder.Build).
func classRange(reps []byte, i int) (lo, hi byte) {
	lo = reps[i]
	if i+1 < len(reps) {
		return lo, reps[i+1] - 1
	}
	return lo, 0xFF
}

// edgesEqual reports whether two representatives' edge lists describe
// identical behavior (same ordered guarded alternatives), letting
// mergeRanges fold adjacent classes into one wider byte range.
func edgesEqual(a, b []Edge) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Target != b[i].Target || a[i].Precond != b[i].Precond || !a[i].Actions.Equal(b[i].Actions) {
			return false
		}
	}
	return true
}

// mergeRanges folds consecutive equivalence classes with identical
// outgoing behavior into single, wider-range Edges, so a state with few
// distinct behaviors emits few Edge entries regardless of alphabet size.
func mergeRanges(reps []byte, perRep [][]Edge) []Edge {
	var out []Edge
	i := 0
	for i < len(reps) {
		j := i
		for j+1 < len(reps) && edgesEqual(perRep[i], perRep[j+1]) {
			j++
		}
		lo, _ := classRange(reps, i)
		_, hi := classRange(reps, j)
		for _, e := range perRep[i] {
			out = append(out, Edge{Lo: lo, Hi: hi, Target: e.Target, Actions: e.Actions, Precond: e.Precond})
		}
		i = j + 1
	}
	return out
}
