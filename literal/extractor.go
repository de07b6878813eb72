// Package literal extracts required literal byte sequences from a compiled
// pattern's ast.Node for prefilter acceleration: a tokenizer or matcher can
// scan for these literals with Aho-Corasick (see AutomatonFor) before
// running the full machine, skipping input that cannot possibly match.
package literal

import (
	"github.com/coregx/rxmachine/ast"
	"github.com/coregx/rxmachine/byteset"
)

// ExtractorConfig bounds the cost of extraction on pathological patterns.
type ExtractorConfig struct {
	// MaxLiterals caps the number of literals a single extraction may
	// produce; alternations with many branches are truncated rather than
	// left to grow unbounded.
	MaxLiterals int
	// MaxLiteralLen caps the length of any single extracted literal.
	MaxLiteralLen int
	// MaxClassSize caps how large a SymbolNode's byte set may be before
	// extraction gives up expanding it (an [a-z]-sized class is not worth
	// expanding into 26 single-byte literals).
	MaxClassSize int
	// CrossProductLimit caps the intermediate literal count during
	// cross-product expansion across a Concat's children.
	CrossProductLimit int
}

// DefaultConfig returns the recommended ExtractorConfig.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:       64,
		MaxLiteralLen:     64,
		MaxClassSize:      10,
		CrossProductLimit: 250,
	}
}

const maxExtractDepth = 100

// Extractor extracts literal sequences from a compiled ast.Node.
type Extractor struct {
	config ExtractorConfig
}

// New creates an Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns literals that every match of n must begin with.
// Returns an empty Seq if no such literal can be proven (e.g. n starts with
// a RepNode, or with an AltNode where one branch has no required prefix).
func (e *Extractor) ExtractPrefixes(n ast.Node) *Seq {
	return e.extractPrefixes(n, 0)
}

func (e *Extractor) extractPrefixes(n ast.Node, depth int) *Seq {
	if depth > maxExtractDepth {
		return NewSeq()
	}
	switch v := n.(type) {
	case ast.SymbolNode:
		return e.expandSymbol(v, true)
	case ast.ConcatNode:
		return e.extractPrefixesConcat(v.Children, depth)
	case ast.AltNode:
		return e.mergeAlt(e.extractPrefixes(v.Left, depth+1), e.extractPrefixes(v.Right, depth+1))
	default:
		// RepNode (zero-or-more has no required prefix), AndNode/DiffNode
		// (product semantics are resolved at the DFA level, not here),
		// EmptyNode: none of these contribute a required prefix literal.
		return NewSeq()
	}
}

// extractPrefixesConcat walks children left to right, cross-multiplying the
// accumulated literal set with each child's contribution until a
// non-expandable child is hit.
func (e *Extractor) extractPrefixesConcat(children []ast.Node, depth int) *Seq {
	if len(children) == 0 {
		return NewSeq()
	}
	crossLimit := e.config.CrossProductLimit
	if crossLimit <= 0 {
		crossLimit = 250
	}

	acc := NewSeq(NewLiteral(nil, true))
	for _, child := range children {
		if !e.hasAnyExact(acc) {
			break
		}
		contribution := e.concatSubContribution(child, depth)
		if contribution == nil {
			e.markAllInexact(acc)
			break
		}
		acc.CrossForward(contribution)
		if acc.Len() > crossLimit || acc.Len() > e.config.MaxLiterals {
			acc = e.handleCrossProductOverflow(acc)
			break
		}
		e.enforceMaxLiteralLen(acc)
	}

	if acc.Len() == 1 && len(acc.Get(0).Bytes) == 0 {
		return NewSeq()
	}
	return acc
}

// concatSubContribution returns child's contribution to a Concat's
// cross-product, or nil if child cannot be expanded (wildcard-like:
// Rep, And, Diff).
func (e *Extractor) concatSubContribution(child ast.Node, depth int) *Seq {
	switch v := child.(type) {
	case ast.SymbolNode:
		expanded := e.expandSymbol(v, true)
		if expanded.IsEmpty() {
			return nil // class too large to expand
		}
		return expanded
	case ast.EmptyNode:
		return NewSeq(NewLiteral(nil, true)) // matching "" leaves the accumulator unchanged
	case ast.AltNode:
		return e.mergeAltContribution(v, depth)
	default:
		return nil
	}
}

func (e *Extractor) mergeAlt(left, right *Seq) *Seq {
	if left.IsEmpty() || right.IsEmpty() {
		return NewSeq()
	}
	var lits []Literal
	for i := 0; i < left.Len(); i++ {
		lits = append(lits, left.Get(i))
	}
	for i := 0; i < right.Len(); i++ {
		lits = append(lits, right.Get(i))
		if len(lits) >= e.config.MaxLiterals {
			break
		}
	}
	return NewSeq(lits...)
}

func (e *Extractor) mergeAltContribution(alt ast.AltNode, depth int) *Seq {
	left := e.extractPrefixes(alt.Left, depth+1)
	right := e.extractPrefixes(alt.Right, depth+1)
	if left.IsEmpty() || right.IsEmpty() {
		return nil
	}
	return e.mergeAlt(left, right)
}

// hasAnyExact returns true if at least one literal in s is Complete.
func (e *Extractor) hasAnyExact(s *Seq) bool {
	for i := 0; i < s.Len(); i++ {
		if s.Get(i).Complete {
			return true
		}
	}
	return false
}

func (e *Extractor) markAllInexact(s *Seq) {
	for i := range s.literals {
		s.literals[i].Complete = false
	}
}

func (e *Extractor) enforceMaxLiteralLen(s *Seq) {
	for i := range s.literals {
		if len(s.literals[i].Bytes) > e.config.MaxLiteralLen {
			s.literals[i].Bytes = s.literals[i].Bytes[:e.config.MaxLiteralLen]
			s.literals[i].Complete = false
		}
	}
}

// handleCrossProductOverflow truncates to a fixed fingerprint length,
// deduplicates and marks everything inexact once a cross-product exceeds
// its limit, matching the Aho-Corasick automaton's own fingerprint size.
func (e *Extractor) handleCrossProductOverflow(s *Seq) *Seq {
	s.KeepFirstBytes(4)
	e.markAllInexact(s)
	s.Dedup()
	if s.Len() > e.config.MaxLiterals {
		s.literals = s.literals[:e.config.MaxLiterals]
	}
	return s
}

// ExtractSuffixes returns literals that every match of n must end with.
func (e *Extractor) ExtractSuffixes(n ast.Node) *Seq {
	return e.extractSuffixes(n, 0)
}

func (e *Extractor) extractSuffixes(n ast.Node, depth int) *Seq {
	if depth > maxExtractDepth {
		return NewSeq()
	}
	switch v := n.(type) {
	case ast.SymbolNode:
		return e.expandSymbol(v, false)
	case ast.ConcatNode:
		return e.extractSuffixesConcat(v.Children, depth)
	case ast.AltNode:
		return e.mergeAlt(e.extractSuffixes(v.Left, depth+1), e.extractSuffixes(v.Right, depth+1))
	default:
		return NewSeq()
	}
}

// extractSuffixesConcat walks children right to left, prepending each
// preceding child's byte value onto the accumulated suffix set. Extension
// only continues while the preceding child is a single-byte SymbolNode
// (the literal-exactness analog); any wider class or structural node stops
// the walk and marks the accumulated suffixes inexact.
func (e *Extractor) extractSuffixesConcat(children []ast.Node, depth int) *Seq {
	if len(children) == 0 {
		return NewSeq()
	}
	lastIdx := len(children) - 1
	suffixes := e.extractSuffixes(children[lastIdx], depth+1)
	if suffixes.IsEmpty() {
		return NewSeq()
	}

	for i := lastIdx - 1; i >= 0; i-- {
		sym, ok := children[i].(ast.SymbolNode)
		b, single := singleByte(sym.Set)
		if !ok || !single {
			e.markAllInexact(suffixes)
			return suffixes
		}

		lits := make([]Literal, suffixes.Len())
		for j := 0; j < suffixes.Len(); j++ {
			lit := suffixes.Get(j)
			newBytes := make([]byte, 0, len(lit.Bytes)+1)
			newBytes = append(newBytes, b)
			newBytes = append(newBytes, lit.Bytes...)
			if len(newBytes) > e.config.MaxLiteralLen {
				newBytes = newBytes[len(newBytes)-e.config.MaxLiteralLen:]
			}
			lits[j] = NewLiteral(newBytes, lit.Complete)
		}
		suffixes = NewSeq(lits...)
		if suffixes.Len() > e.config.MaxLiterals {
			return suffixes
		}
	}
	return suffixes
}

// ExtractInner returns any literal required somewhere in a match of n,
// regardless of position — useful when neither a prefix nor a suffix can
// be proven (e.g. ".*foo.*"-shaped patterns). Literals are always marked
// incomplete since their surrounding context is unknown.
func (e *Extractor) ExtractInner(n ast.Node) *Seq {
	return e.extractInner(n, 0)
}

func (e *Extractor) extractInner(n ast.Node, depth int) *Seq {
	if depth > maxExtractDepth {
		return NewSeq()
	}
	switch v := n.(type) {
	case ast.SymbolNode:
		s := e.expandSymbol(v, true)
		e.markAllInexact(s)
		return s
	case ast.ConcatNode:
		for _, child := range v.Children {
			if seq := e.extractInner(child, depth+1); !seq.IsEmpty() {
				return seq
			}
		}
		return NewSeq()
	case ast.AltNode:
		return e.mergeAlt(e.extractInner(v.Left, depth+1), e.extractInner(v.Right, depth+1))
	default:
		return NewSeq()
	}
}

// expandSymbol expands a SymbolNode's byte set to individual literals, or
// returns an empty Seq if the set is larger than MaxClassSize. forPrefix
// is accepted but not used: every expanded literal is one byte long, so
// there is nothing to truncate in either direction.
func (e *Extractor) expandSymbol(n ast.SymbolNode, forPrefix bool) *Seq {
	if n.Set.Size() > e.config.MaxClassSize {
		return NewSeq()
	}
	var lits []Literal
	for _, r := range n.Set.Ranges() {
		for b := int(r.Lo); b <= int(r.Hi); b++ {
			lits = append(lits, NewLiteral([]byte{byte(b)}, true))
			if len(lits) >= e.config.MaxLiterals {
				return NewSeq(lits...)
			}
		}
	}
	_ = forPrefix
	return NewSeq(lits...)
}

// singleByte returns the one member of s and true, or (0, false) if s does
// not contain exactly one byte.
func singleByte(s byteset.Set) (byte, bool) {
	if s.Size() != 1 {
		return 0, false
	}
	ranges := s.Ranges()
	return ranges[0].Lo, true
}
