package grammar

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// makeExprGrammar builds the small arithmetic-expression grammar used
// throughout this module's tests, adapted from the teacher's
// lr/earley/earley_test.go fixture:
//
//	Sum     = Sum '+' Product | Product
//	Product = Product '*' Factor | Factor
//	Factor  = '(' Sum ')' | number
func makeExprGrammar(t *testing.T) *Grammar {
	t.Helper()
	g := New("Expressions")
	if _, err := g.AddTerminal("+", '+'); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddTerminal("*", '*'); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddTerminal("(", '('); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddTerminal(")", ')'); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddTerminal("number", 256); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddRule("Sum", []string{"Sum", "+", "Product"}, Forward{Index: 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddRule("Sum", []string{"Product"}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddRule("Product", []string{"Product", "*", "Factor"}, Forward{Index: 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddRule("Product", []string{"Factor"}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddRule("Factor", []string{"(", "Sum", ")"}, Forward{Index: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddRule("Factor", []string{"number"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := g.SetStart("Sum"); err != nil {
		t.Fatal(err)
	}
	if err := g.Prepare(true); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestPrepareSynthesizesStartRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "yaep.grammar")
	defer teardown()

	g := makeExprGrammar(t)
	root := g.Rule(0)
	if root.LHS.Name != "S'" {
		t.Errorf("expected rule 0 LHS to be synthetic S', got %q", root.LHS.Name)
	}
	if len(root.RHS) != 2 || root.RHS[1] != g.EOF() {
		t.Errorf("expected rule 0 RHS to be [Start, #eof], got %v", root.RHS)
	}
}

func TestNullableAccessibleProductive(t *testing.T) {
	g := makeExprGrammar(t)
	for _, name := range []string{"Sum", "Product", "Factor"} {
		sym, ok := g.Symbol(name)
		if !ok {
			t.Fatalf("missing symbol %q", name)
		}
		if !sym.Productive {
			t.Errorf("%q should be productive", name)
		}
		if !sym.Accessible {
			t.Errorf("%q should be accessible from the start symbol", name)
		}
		if sym.Nullable {
			t.Errorf("%q should not be nullable", name)
		}
	}
}

func TestNullableEpsilonRule(t *testing.T) {
	g := New("Opt")
	if _, err := g.AddTerminal("a", 'a'); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddRule("Opt", []string{}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddRule("Opt", []string{"a"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := g.Prepare(true); err != nil {
		t.Fatal(err)
	}
	sym, _ := g.Symbol("Opt")
	if !sym.Nullable {
		t.Errorf("Opt should be nullable (has an empty-RHS rule)")
	}
	if !g.Analysis().First(sym).HasEpsilon() {
		t.Errorf("FIRST(Opt) should contain epsilon")
	}
}

func TestFirstSets(t *testing.T) {
	g := makeExprGrammar(t)
	factor, _ := g.Symbol("Factor")
	lparen, _ := g.Symbol("(")
	number, _ := g.Symbol("number")
	first := g.Analysis().First(factor)
	if !first.HasSymbol(lparen) || !first.HasSymbol(number) {
		t.Errorf("FIRST(Factor) should contain '(' and number")
	}
	if first.HasEpsilon() {
		t.Errorf("FIRST(Factor) should not contain epsilon")
	}
}

func TestUndefinedSymbolRejected(t *testing.T) {
	g := New("Bad")
	if _, err := g.AddTerminal("a", 'a'); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddRule("Start", []string{"Missing"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := g.Prepare(true); err == nil {
		t.Errorf("expected Prepare to reject a nonterminal with no rules")
	}
}

func TestDuplicateTerminalCodeRejected(t *testing.T) {
	g := New("Dup")
	if _, err := g.AddTerminal("a", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddTerminal("b", 1); err == nil {
		t.Errorf("expected a repeated terminal code to be rejected")
	}
}
