package literal

import "github.com/coregx/ahocorasick"

// AutomatonFor builds an Aho-Corasick automaton over seq's literal bytes,
// for use as a prefilter ahead of a compiled machine: when seq holds many
// complete literals (a large alternation's extracted prefixes, say), the
// automaton scans a haystack in one O(n) pass and reports the first
// matching literal's span, letting a tokenizer skip straight past input
// the machine could never accept. Returns nil if seq is empty or building
// fails (the caller falls back to running the machine directly).
func AutomatonFor(seq *Seq) *ahocorasick.Automaton {
	if seq.IsEmpty() {
		return nil
	}
	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		if len(lit.Bytes) == 0 {
			continue
		}
		builder.AddPattern(lit.Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return auto
}
