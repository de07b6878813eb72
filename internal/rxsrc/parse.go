package rxsrc

import (
	"fmt"

	"github.com/coregx/rxmachine/ast"
)

type parser struct {
	toks  []token
	pos   int
	rules map[string]ast.Node
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *parser) parseExpr() (ast.Node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokPipe {
			break
		}
		p.pos++
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = ast.Alt(left, right)
	}
	return left, nil
}

func (p *parser) parseConcat() (ast.Node, error) {
	var nodes []ast.Node
	for {
		t, ok := p.peek()
		if !ok || t.kind == tokPipe || t.kind == tokRParen {
			break
		}
		n, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("expected an expression")
	}
	return ast.Concat(nodes...), nil
}

func (p *parser) parsePostfix() (ast.Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	t, ok := p.peek()
	if !ok {
		return atom, nil
	}
	switch t.kind {
	case tokStar:
		p.pos++
		return ast.Rep(atom), nil
	case tokPlus:
		p.pos++
		return ast.Rep1(atom), nil
	case tokQuestion:
		p.pos++
		return ast.Opt(atom), nil
	default:
		return atom, nil
	}
}

func (p *parser) parseAtom() (ast.Node, error) {
	t, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	switch t.kind {
	case tokChar:
		lo := t.lit[0]
		if next, ok := p.peek(); ok && next.kind == tokDash {
			p.pos++
			hi, ok := p.next()
			if !ok || hi.kind != tokChar {
				return nil, fmt.Errorf("expected a char literal after '-'")
			}
			return ast.ByteRange(lo, hi.lit[0]), nil
		}
		return ast.Byte(lo), nil

	case tokIdent:
		n, ok := p.rules[t.lit]
		if !ok {
			return nil, fmt.Errorf("undefined rule %q", t.lit)
		}
		return n, nil

	case tokLParen:
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closing, ok := p.next()
		if !ok || closing.kind != tokRParen {
			return nil, fmt.Errorf("expected closing ')'")
		}
		return n, nil

	default:
		return nil, fmt.Errorf("unexpected token in expression")
	}
}
