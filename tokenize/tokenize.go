// Package tokenize composes several named patterns into one tokenizer:
// given [(name, regex)] it yields a sequence of (start, length, rule index)
// spans over an input buffer, per spec.md §6's tokenizer contract.
//
// Disambiguation follows spec.md §4.4/§8: the longest match starting at a
// position wins; among rules that complete a match of the same length, the
// one declared last (highest index) wins. A span where no rule matches at
// all becomes a length-1 error token with Index 0.
package tokenize

import (
	"fmt"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/ast"
	"github.com/coregx/rxmachine/compiler"
	"github.com/coregx/rxmachine/diag"
	"github.com/coregx/rxmachine/literal"
	"github.com/coregx/rxmachine/machine"
)

// errorContextLen bounds how many preceding bytes a rejected token's
// diag.RuntimeError renders (diag.NewRuntimeError's contextLen).
const errorContextLen = 16

// Rule names one alternative of a tokenizer: Name is used only in error
// messages, Pattern is the regex-algebra node matching its lexeme.
type Rule struct {
	Name    string
	Pattern ast.Node
}

// Token is one span of the tokenized input. Start is a 1-based byte offset
// per spec.md §6; Index is the 1-based position of the rule that matched,
// or 0 for an error token covering a single unmatched byte. Err is set only
// on an error token, rendering the position and the bytes that would have
// started a valid rule there.
type Token struct {
	Start  int
	Length int
	Index  int
	Err    *diag.RuntimeError
}

// Tokenizer is a compiled, ready-to-run combination of Rules.
type Tokenizer struct {
	rules    []Rule
	m        *machine.Machine
	marker   map[string]int
	warnings []string
}

func markerName(i int) string { return fmt.Sprintf("tokenize:accept:%d", i) }

// Compile builds a Tokenizer matching whichever of rules applies at each
// position. Rules are combined left to right with ast.Alt, each wrapped in
// its own ast.OnFinal marker so the compiled machine can report which rule
// completed a match on a given transition.
func Compile(rules []Rule) (*Tokenizer, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("tokenize: at least one rule is required")
	}

	reg := action.NewRegistry()
	marker := make(map[string]int, len(rules))
	var combined ast.Node
	for i, r := range rules {
		name := markerName(i + 1)
		marker[name] = i + 1
		annotated := ast.OnFinal(reg, r.Pattern, name)
		if combined == nil {
			combined = annotated
		} else {
			combined = ast.Alt(combined, annotated)
		}
	}

	m, warnings, err := compiler.Compile(combined, reg, compiler.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("tokenize: compile: %w", err)
	}
	m.LiteralIndex = buildLiteralIndex(rules)

	return &Tokenizer{rules: rules, m: m, marker: marker, warnings: warnings}, nil
}

// buildLiteralIndex builds an Aho-Corasick prefilter over every rule's
// required literal prefix, but only when each rule contributes at least
// one: a rule with no provable literal (e.g. starting with Rep) would make
// the automaton useless as a "can this possibly match" filter, since it
// could never rule any input out.
func buildLiteralIndex(rules []Rule) *ahocorasick.Automaton {
	ext := literal.New(literal.DefaultConfig())
	var lits []literal.Literal
	for _, r := range rules {
		seq := ext.ExtractPrefixes(r.Pattern)
		if seq.IsEmpty() {
			return nil
		}
		for i := 0; i < seq.Len(); i++ {
			lits = append(lits, seq.Get(i))
		}
	}
	return literal.AutomatonFor(literal.NewSeq(lits...))
}

// Warnings returns any compile-time warnings surfaced for the combined
// pattern (e.g. an unreachable Final annotation) — a non-empty result means
// the rule set may be ambiguous in a way that cannot be diagnosed further
// until a specific input exercises it.
func (t *Tokenizer) Warnings() []string { return t.warnings }

// Tokenize scans data end to end, applying maximal munch at each position:
// the combined machine runs forward for as long as some rule's transition
// still fires, recording the longest match it sees and (on ties) the
// highest-indexed rule that completed it. A position where no rule ever
// matches produces a single-byte error token (Index 0) and advances by one
// byte, matching spec.md §8's "unmatched spans... surfaced as token_index
// = 0" requirement.
func (t *Tokenizer) Tokenize(data []byte) []Token {
	var tokens []Token
	pos := 0
	for pos < len(data) {
		length, idx := t.longestMatch(data, pos)
		if length == 0 {
			rerr := diag.NewRuntimeError(data, pos, errorContextLen, t.validNextBytes())
			tokens = append(tokens, Token{Start: pos + 1, Length: 1, Index: 0, Err: rerr})
			pos++
			continue
		}
		tokens = append(tokens, Token{Start: pos + 1, Length: length, Index: idx})
		pos += length
	}
	return tokens
}

func (t *Tokenizer) longestMatch(data []byte, start int) (length int, ruleIndex int) {
	cur := t.m.Start
	for i := start; i < len(data); i++ {
		st := t.m.State(cur)
		if st == nil {
			break
		}
		e, ok := findEdge(st, data[i])
		if !ok {
			break
		}
		cur = e.Target
		if idx := bestMarkedRule(t.marker, e.Actions); idx > 0 {
			l := i - start + 1
			if l > length || (l == length && idx > ruleIndex) {
				length, ruleIndex = l, idx
			}
		}
	}
	return length, ruleIndex
}

// validNextBytes expands every unguarded edge out of the combined
// machine's start state into its constituent bytes, for diag.RuntimeError's
// "what would have been accepted here" rendering.
func (t *Tokenizer) validNextBytes() []byte {
	st := t.m.State(t.m.Start)
	if st == nil {
		return nil
	}
	var out []byte
	for _, e := range st.Edges {
		if e.Precond != "" {
			continue
		}
		for b := int(e.Lo); b <= int(e.Hi); b++ {
			out = append(out, byte(b))
		}
	}
	return out
}

// findEdge finds the outgoing edge of st covering byte b. Edges guarded by
// a precondition are skipped: Tokenizer has no precondition oracle to
// consult, so a guarded edge is treated as never satisfied.
func findEdge(st *machine.State, b byte) (machine.Edge, bool) {
	for _, e := range st.Edges {
		if e.Precond != "" {
			continue
		}
		if b >= e.Lo && b <= e.Hi {
			return e, true
		}
	}
	return machine.Edge{}, false
}

func bestMarkedRule(marker map[string]int, actions action.List) int {
	best := 0
	for _, a := range actions {
		if idx, ok := marker[a.Name]; ok && idx > best {
			best = idx
		}
	}
	return best
}
