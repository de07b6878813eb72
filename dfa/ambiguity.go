package dfa

import "github.com/coregx/rxmachine/action"

// Ambiguity names two distinct, equal-priority actions that compete to
// fire on the same transition out of the same DFA state, with Witness
// holding the input (from Start) that reaches that transition — spec.md
// §4.4's "no two distinct final-marker actions of different tokens share
// the same accepting byte" violated.
type Ambiguity struct {
	ActionA, ActionB string
	Witness          []byte
}

// conflict returns the first two distinct action names tied at l's
// highest priority, if any. A tie at the top priority means
// Action.Priority alone cannot pick a winner — List.Sorted would still
// fall back to declaration order, but spec.md §4.4's Unambiguous mode
// treats that fallback itself as the defect being rejected.
func conflict(l action.List) (a, b string, ok bool) {
	if len(l) < 2 {
		return "", "", false
	}
	best := l[0].Priority
	for _, x := range l[1:] {
		if x.Priority > best {
			best = x.Priority
		}
	}
	var names []string
	seen := make(map[string]bool)
	for _, x := range l {
		if x.Priority == best && !seen[x.Name] {
			seen[x.Name] = true
			names = append(names, x.Name)
		}
	}
	if len(names) < 2 {
		return "", "", false
	}
	return names[0], names[1], true
}

type ambiguityItem struct {
	id   StateID
	path []byte
}

// FindAmbiguity performs a breadth-first search over d from Start,
// extending the witness by one byte per edge crossed, and returns the
// first state/byte where two distinctly named, equally prioritized
// actions compete — a shortest counterexample, per spec.md §7's "minimal
// witness input". Returns nil when d is unambiguous.
func FindAmbiguity(d *DFA) *Ambiguity {
	if a, b, ok := conflict(d.StartActions); ok {
		return &Ambiguity{ActionA: a, ActionB: b}
	}

	visited := make(map[StateID]bool)
	queue := []ambiguityItem{{d.Start, nil}}
	visited[d.Start] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		st := d.State(cur.id)

		if a, b, ok := conflict(st.EOFActions); ok {
			return &Ambiguity{ActionA: a, ActionB: b, Witness: cur.path}
		}
		for _, e := range st.Edges {
			witness := append(append([]byte(nil), cur.path...), e.Lo)
			if a, b, ok := conflict(e.Actions); ok {
				return &Ambiguity{ActionA: a, ActionB: b, Witness: witness}
			}
			if !visited[e.Target] {
				visited[e.Target] = true
				queue = append(queue, ambiguityItem{e.Target, witness})
			}
		}
	}
	return nil
}
