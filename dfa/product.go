package dfa

import (
	"strconv"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/byteset"
	"github.com/coregx/rxmachine/internal/conv"
)

// pair identifies one (a-state, b-state) configuration of the product
// worklist. bAlive is false once the b operand has no transition left to
// follow (e.g. a Difference right-hand side that rejected outright) — from
// that point on b never re-enters the picture, so its StateID is not
// meaningful and must not be dereferenced.
type pair struct {
	a, b   StateID
	bAlive bool
}

func pairKey(p pair) string {
	if !p.bAlive {
		return strconv.FormatUint(uint64(p.a), 10) + ":-"
	}
	return strconv.FormatUint(uint64(p.a), 10) + ":" + strconv.FormatUint(uint64(p.b), 10)
}

// unconditionalEdge returns the edge covering byte bt on s, provided s has
// no competing precondition-guarded edge over that byte — Product has no
// way to evaluate a runtime precondition (see ErrGuardedProduct).
func unconditionalEdge(s *State, bt byte) (e *Edge, guarded bool) {
	for i := range s.Edges {
		edge := &s.Edges[i]
		if bt < edge.Lo || bt > edge.Hi {
			continue
		}
		if edge.Precond != "" {
			return nil, true
		}
		e = edge
	}
	return e, false
}

// Product combines a and b via synchronized product construction,
// grounded on the teacher's nfa.CompositeSequenceDFA configSet/worklist
// shape, generalized from NFA-state-set pairs to DFA-state pairs. The
// combined alphabet is the common refinement of a's and b's byte-class
// boundaries (package byteset), so a single representative byte speaks
// for the same behavior in both operands.
func Product(a, b *DFA, kind Kind) (*DFA, error) {
	cb := byteset.NewBuilder()
	observeClasses(cb, a)
	observeClasses(cb, b)
	classes := cb.Build()
	reps := classes.Representatives()

	var states []State
	index := make(map[string]StateID)
	var worklist []StateID
	pairOf := make(map[StateID]pair)

	startPair := pair{a: a.Start, b: b.Start, bAlive: true}
	startID := StateID(conv.IntToUint32(len(states)))
	states = append(states, State{ID: startID, Accept: accepts(kind, a.State(a.Start).Accept, b.State(b.Start).Accept)})
	index[pairKey(startPair)] = startID
	pairOf[startID] = startPair
	worklist = append(worklist, startID)

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]
		p := pairOf[cur]
		as := a.State(p.a)
		var bs *State
		if p.bAlive {
			bs = b.State(p.b)
		}

		var edges []Edge
		for _, rb := range reps {
			ae, aGuarded := unconditionalEdge(as, rb)
			var be *Edge
			var bGuarded bool
			if p.bAlive {
				be, bGuarded = unconditionalEdge(bs, rb)
			}
			if aGuarded || bGuarded {
				return nil, &ProductError{Kind: kind, A: p.a, B: p.b, Err: ErrGuardedProduct}
			}
			aTarget, aOK := targetOf(ae)
			bTarget, bOK := targetOf(be)
			if kind == Intersect && !(aOK && bOK) {
				continue
			}
			if kind == Difference && !aOK {
				continue
			}
			next := pair{a: aTarget, b: bTarget, bAlive: bOK}
			key := pairKey(next)
			target, ok := index[key]
			if !ok {
				aAccept := a.State(aTarget).Accept
				bAccept := bOK && b.State(bTarget).Accept
				target = StateID(conv.IntToUint32(len(states)))
				states = append(states, State{ID: target, Accept: accepts(kind, aAccept, bAccept)})
				index[key] = target
				pairOf[target] = next
				worklist = append(worklist, target)
			}
			var acts action.List
			if ae != nil {
				acts = acts.Merge(ae.Actions)
			}
			if be != nil {
				acts = acts.Merge(be.Actions)
			}
			edges = append(edges, Edge{Lo: rb, Hi: rb, Target: target, Actions: acts.Sorted()})
		}
		states[cur].Edges = mergeRangesEdges(reps, edges)
	}

	return &DFA{States: states, Start: startID, Classes: classes}, nil
}

func observeClasses(cb *byteset.Builder, d *DFA) {
	var inner byteset.Builder
	for i := range d.States {
		for _, e := range d.States[i].Edges {
			inner.Observe(e.Lo, e.Hi)
		}
	}
	cb.Merge(&inner)
}

func targetOf(e *Edge) (StateID, bool) {
	if e == nil {
		return InvalidState, false
	}
	return e.Target, true
}

func accepts(kind Kind, a, b bool) bool {
	if kind == Intersect {
		return a && b
	}
	return a && !b
}

// mergeRangesEdges is mergeRanges specialized for a flat per-representative
// edge slice (Product emits at most one edge per representative, unlike
// Builder.Build's guarded-alternative lists).
func mergeRangesEdges(reps []byte, flat []Edge) []Edge {
	perRep := make([][]Edge, len(reps))
	byByte := make(map[byte]Edge, len(flat))
	for _, e := range flat {
		byByte[e.Lo] = e
	}
	for i, rb := range reps {
		if e, ok := byByte[rb]; ok {
			perRep[i] = []Edge{e}
		}
	}
	return mergeRanges(reps, perRep)
}
