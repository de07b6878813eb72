// Package action provides named, prioritized actions and precondition
// names attached to regex-algebra transitions.
//
// Actions and preconditions are user-opaque identifiers: this package and
// every downstream package (nfa, dfa, machine, emit) treat a name as a
// string key and a priority as a sort key. Nothing in the compiler
// interprets what an action does — that is the caller's concern, resolved
// only at code-emission time (see package emit).
package action

import "sort"

// Action is a named, priority-bearing hook attached to a transition.
// When two actions compete to fire on the same transition, the one with
// the larger Priority wins; ties are broken by declaration order (the
// order in which the Action values were produced), never by name.
type Action struct {
	Name     string
	Priority int

	// seq is the registry-assigned declaration order, used only for
	// stable tie-breaking. Zero value means "no registry", which sorts
	// before any registered action; List.Sorted requires every action it
	// handles to come from the same Registry to get meaningful ordering.
	seq int
}

// List is an ordered sequence of actions attached to a single transition.
type List []Action

// Sorted returns a copy of l ordered by (priority descending, then
// declaration order ascending) — the total order spec.md §4.4/§8 requires
// for resolving which actions fire, and in what order, on a transition.
func (l List) Sorted() List {
	out := make(List, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// Names returns just the action names, in l's existing order.
func (l List) Names() []string {
	names := make([]string, len(l))
	for i, a := range l {
		names[i] = a.Name
	}
	return names
}

// Merge returns a new List containing every action in l and t, preserving
// l's actions before t's (used when combining action lists carried along
// multiple NFA edges that collapse into one DFA transition).
func (l List) Merge(t List) List {
	out := make(List, 0, len(l)+len(t))
	out = append(out, l...)
	out = append(out, t...)
	return out
}

// Equal reports whether l and t contain the same actions in the same
// order — used by the minimizer to compare transition signatures.
func (l List) Equal(t List) bool {
	if len(l) != len(t) {
		return false
	}
	for i := range l {
		if l[i] != t[i] {
			return false
		}
	}
	return true
}

// Registry assigns a stable declaration order to actions produced during
// one compilation. It is local to a single compile: per Design Notes §9,
// there is no process-wide action registry, so two independent
// compilations never interfere with each other's priority tie-breaking.
type Registry struct {
	priorities    map[string]int
	preconditions map[string]bool
	seq           int
}

// NewRegistry returns an empty, compile-local action/precondition
// registry.
func NewRegistry() *Registry {
	return &Registry{
		priorities:    make(map[string]int),
		preconditions: make(map[string]bool),
	}
}

// Declare registers name with the given priority (overwriting any prior
// priority for the same name) and returns an Action carrying this
// registry's next declaration-order sequence number.
func (r *Registry) Declare(name string, priority int) Action {
	r.priorities[name] = priority
	r.seq++
	return Action{Name: name, Priority: priority, seq: r.seq}
}

// DeclarePrecondition registers name as a valid precondition identifier.
func (r *Registry) DeclarePrecondition(name string) {
	r.preconditions[name] = true
}

// HasPrecondition reports whether name was declared via
// DeclarePrecondition.
func (r *Registry) HasPrecondition(name string) bool {
	return r.preconditions[name]
}

// New returns an Action for an already-declared name, with a fresh
// declaration-order sequence number (the same action name may be attached
// at several annotation sites; each site gets its own tie-break slot).
func (r *Registry) New(name string) Action {
	priority := r.priorities[name]
	r.seq++
	return Action{Name: name, Priority: priority, seq: r.seq}
}
