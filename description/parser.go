package description

import (
	"strconv"
	"strings"

	"github.com/yaep-go/yaep"
	"github.com/yaep-go/yaep/grammar"
)

// Parse compiles a textual grammar description into a prepared
// grammar.Grammar. strict is passed through to Grammar.Prepare.
func Parse(name, src string, strict bool) (*grammar.Grammar, error) {
	toks, err := tokenStream(src)
	if err != nil {
		return nil, yaep.NewError(yaep.DescriptionSyntaxError, "lexing grammar description: %v", err)
	}
	p := &parser{toks: toks, g: grammar.New(name)}
	if err := p.run(); err != nil {
		return nil, err
	}
	if err := p.g.Prepare(strict); err != nil {
		return nil, err
	}
	return p.g, nil
}

type parser struct {
	toks []tok
	pos  int
	g    *grammar.Grammar
}

func (p *parser) peek() tok {
	if p.pos >= len(p.toks) {
		return tok{}
	}
	return p.toks[p.pos]
}

func (p *parser) next() tok {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *parser) expect(id int, what string) (tok, error) {
	if p.atEnd() || p.peek().id != id {
		return tok{}, yaep.NewError(yaep.DescriptionParseError, "expected %s at token %d, got %q", what, p.pos, p.peek().lexeme)
	}
	return p.next(), nil
}

func (p *parser) run() error {
	var startName string
	for !p.atEnd() {
		switch p.peek().id {
		case tokPercentToken:
			if err := p.parseTokenDecl(); err != nil {
				return err
			}
		case tokPercentStart:
			p.next()
			start, err := p.expect(tokID, "start symbol name")
			if err != nil {
				return err
			}
			startName = start.lexeme // applied after the rules, once the nonterminal exists
		case tokID:
			if err := p.parseRule(); err != nil {
				return err
			}
		default:
			return yaep.NewError(yaep.DescriptionParseError, "unexpected token %q at position %d", p.peek().lexeme, p.pos)
		}
	}
	if startName != "" {
		if err := p.g.SetStart(startName); err != nil {
			return err
		}
	}
	return nil
}

// parseTokenDecl handles "%token NAME CODE ;".
func (p *parser) parseTokenDecl() error {
	p.next()
	name, err := p.expect(tokID, "terminal name")
	if err != nil {
		return err
	}
	num, err := p.expect(tokNum, "terminal code")
	if err != nil {
		return err
	}
	code, convErr := strconv.Atoi(num.lexeme)
	if convErr != nil {
		return yaep.NewError(yaep.DescriptionSyntaxError, "invalid terminal code %q: %v", num.lexeme, convErr)
	}
	if _, err := p.g.AddTerminal(name.lexeme, code); err != nil {
		return err
	}
	if p.peek().id == tokSemi {
		p.next()
	}
	return nil
}

// parseRule handles "LHS -> RHS1 RHS2 ... { Translation } | RHS... ;",
// one or more alternatives separated by '|' and terminated by ';'.
func (p *parser) parseRule() error {
	lhs, err := p.expect(tokID, "rule left-hand side")
	if err != nil {
		return err
	}
	if _, err := p.expect(tokArrow, "'->'"); err != nil {
		return err
	}
	for {
		rhs, translation, err := p.parseAlternative()
		if err != nil {
			return err
		}
		if _, err := p.g.AddRule(lhs.lexeme, rhs, translation); err != nil {
			return err
		}
		if p.peek().id == tokBar {
			p.next()
			continue
		}
		break
	}
	if p.peek().id == tokSemi {
		p.next()
	}
	return nil
}

func (p *parser) parseAlternative() ([]string, grammar.TranslationSpec, error) {
	var rhs []string
	for p.peek().id == tokID || p.peek().id == tokString {
		t := p.next()
		rhs = append(rhs, strings.Trim(t.lexeme, `"`))
	}
	var translation grammar.TranslationSpec
	if p.peek().id == tokLBrace {
		spec, err := p.parseTranslation()
		if err != nil {
			return nil, nil, err
		}
		translation = spec
	}
	return rhs, translation, nil
}

// parseTranslation handles "{ Name(i, j, ...) }" -> grammar.Anode, or
// "{ i }" -> grammar.Forward{Index: i}.
func (p *parser) parseTranslation() (grammar.TranslationSpec, error) {
	p.next() // '{'
	if p.peek().id == tokNum {
		n := p.next()
		idx, _ := strconv.Atoi(n.lexeme)
		if _, err := p.expect(tokRBrace, "'}'"); err != nil {
			return nil, err
		}
		return grammar.Forward{Index: idx}, nil
	}
	name, err := p.expect(tokID, "translation node name")
	if err != nil {
		return nil, err
	}
	var children []int
	if p.peek().id == tokLParen {
		p.next()
		for p.peek().id == tokNum {
			n := p.next()
			idx, _ := strconv.Atoi(n.lexeme)
			children = append(children, idx)
			if p.peek().id == tokComma {
				p.next()
			}
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return grammar.Anode{Name: name.lexeme, Children: children}, nil
}
