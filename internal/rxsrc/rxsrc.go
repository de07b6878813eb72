// Package rxsrc is the small rule-source front end for cmd/regexc. It is
// not a regex parser: it drives the same ast package builder functions a
// Go caller would (Byte, ByteRange, Concat, Alt, Rep, Rep1, Opt) from a
// line-oriented token stream, one named rule definition per line, so the
// CLI has something to read without taking on regex-syntax parsing, which
// is out of this module's scope.
//
// Grammar, one rule per line:
//
//	rule := IDENT '=' expr
//	expr  := concat ('|' concat)*
//	concat:= postfix+
//	postfix := atom ('*' | '+' | '?')?
//	atom  := CHAR | CHAR '-' CHAR | '(' expr ')' | IDENT
//
// CHAR is a single-quoted byte literal ('a', '\n', '\'', '\\'). IDENT
// preceding a line's '=' defines a rule; an IDENT used as an atom
// references a rule already defined earlier in the source.
package rxsrc

import (
	"fmt"
	"strings"

	"github.com/coregx/rxmachine/ast"
)

// ParseError reports a failure at a specific source line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("rxsrc: line %d: %s", e.Line, e.Message)
}

// Parse reads src and returns every defined rule by name, plus the order
// in which they were defined (so callers can default to "the last rule"
// when none is named explicitly).
func Parse(src string) (rules map[string]ast.Node, order []string, err error) {
	rules = make(map[string]ast.Node)
	for i, rawLine := range strings.Split(src, "\n") {
		lineNo := i + 1
		line := stripComment(rawLine)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, body, ok := strings.Cut(line, "=")
		if !ok {
			return nil, nil, &ParseError{Line: lineNo, Message: "expected \"name = expr\""}
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, nil, &ParseError{Line: lineNo, Message: "empty rule name"}
		}
		if !isIdent(name) {
			return nil, nil, &ParseError{Line: lineNo, Message: fmt.Sprintf("invalid rule name %q", name)}
		}

		toks, err := lex(body)
		if err != nil {
			return nil, nil, &ParseError{Line: lineNo, Message: err.Error()}
		}
		p := &parser{toks: toks, rules: rules}
		node, err := p.parseExpr()
		if err != nil {
			return nil, nil, &ParseError{Line: lineNo, Message: err.Error()}
		}
		if p.pos != len(p.toks) {
			return nil, nil, &ParseError{Line: lineNo, Message: "unexpected trailing input"}
		}

		rules[name] = node
		order = append(order, name)
	}
	if len(rules) == 0 {
		return nil, nil, fmt.Errorf("rxsrc: source defines no rules")
	}
	return rules, order, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
