package earley

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/yaep-go/yaep/grammar"
)

// We use the same small unambiguous expression grammar the teacher's
// lr/earley/earley_test.go used, adapted from
// http://loup-vaillant.fr/tutorials/earley-parsing/recogniser:
//
//	Sum     = Sum     '+' Product | Product
//	Product = Product '*' Factor  | Factor
//	Factor  = '(' Sum ')'         | number
const (
	tokPlus  = '+'
	tokStar  = '*'
	tokLP    = '('
	tokRP    = ')'
	tokNum   = 256
)

func makeExprGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g := grammar.New("Expressions")
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	_, err := g.AddTerminal("+", tokPlus)
	must(err)
	_, err = g.AddTerminal("*", tokStar)
	must(err)
	_, err = g.AddTerminal("(", tokLP)
	must(err)
	_, err = g.AddTerminal(")", tokRP)
	must(err)
	_, err = g.AddTerminal("number", tokNum)
	must(err)
	_, err = g.AddRule("Sum", []string{"Sum", "+", "Product"}, grammar.Anode{Name: "Add", Children: []int{0, 2}})
	must(err)
	_, err = g.AddRule("Sum", []string{"Product"}, nil)
	must(err)
	_, err = g.AddRule("Product", []string{"Product", "*", "Factor"}, grammar.Anode{Name: "Mul", Children: []int{0, 2}})
	must(err)
	_, err = g.AddRule("Product", []string{"Factor"}, nil)
	must(err)
	_, err = g.AddRule("Factor", []string{"(", "Sum", ")"}, grammar.Forward{Index: 1})
	must(err)
	_, err = g.AddRule("Factor", []string{"number"}, nil)
	must(err)
	must(g.SetStart("Sum"))
	must(g.Prepare(true))
	return g
}

// tokenSeq is a TokenReader over a fixed slice of terminal codes,
// terminated by grammar.EOFCode.
type tokenSeq struct {
	codes []int
	pos   int
}

func (s *tokenSeq) NextToken() (int, interface{}) {
	if s.pos >= len(s.codes) {
		return grammar.EOFCode, nil
	}
	c := s.codes[s.pos]
	s.pos++
	return c, c
}

func TestParseSimpleSum(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yaep.earley")
	defer teardown()

	g := makeExprGrammar(t)
	p := NewParser(g)
	input := &tokenSeq{codes: []int{tokNum, tokPlus, tokNum}}
	accept, err := p.Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	if !accept {
		t.Errorf("expected 'number + number' to be accepted")
	}
}

func TestParseNestedParens(t *testing.T) {
	g := makeExprGrammar(t)
	p := NewParser(g)
	input := &tokenSeq{codes: []int{tokLP, tokNum, tokPlus, tokNum, tokRP, tokStar, tokNum}}
	accept, err := p.Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	if !accept {
		t.Errorf("expected '(number + number) * number' to be accepted")
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	g := makeExprGrammar(t)
	g.SetErrorRecovery(false)
	p := NewParser(g)
	input := &tokenSeq{codes: []int{tokPlus, tokNum}}
	_, err := p.Parse(input)
	if err == nil {
		t.Errorf("expected a leading '+' with no left operand to fail")
	}
}

func TestTranslateBuildsTree(t *testing.T) {
	g := makeExprGrammar(t)
	p := NewParser(g)
	input := &tokenSeq{codes: []int{tokNum, tokPlus, tokNum, tokStar, tokNum}}
	accept, err := p.Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	if !accept {
		t.Fatal("expected acceptance")
	}
	root, _, ok := p.Translate()
	if !ok || root == nil {
		t.Fatalf("expected a translation tree, got ok=%v root=%v", ok, root)
	}
	if root.Symbol == nil || root.Symbol.Name != "Sum" {
		t.Errorf("expected root to forward to Sum, got %v", root.Symbol)
	}
}
