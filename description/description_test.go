package description

import "testing"

const exprDescription = `
%token PLUS 43
%token STAR 42
%token LPAREN 40
%token RPAREN 41
%token NUMBER 256
%start Sum

Sum -> Sum PLUS Product { Add(0, 2) } | Product ;
Product -> Product STAR Factor { Mul(0, 2) } | Factor ;
Factor -> LPAREN Sum RPAREN { 1 } | NUMBER ;
`

func TestParseBuildsPreparedGrammar(t *testing.T) {
	g, err := Parse("Expr", exprDescription, true)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Prepared() {
		t.Fatalf("expected Parse to return a prepared grammar")
	}
	if g.StartSymbol() == nil || g.StartSymbol().Name != "Sum" {
		t.Errorf("expected start symbol 'Sum', got %v", g.StartSymbol())
	}
	symProduct, _ := g.Symbol("Product")
	rules := g.FindNonTermRules(symProduct)
	if len(rules) != 2 {
		t.Errorf("expected 2 rules for Product, got %d", len(rules))
	}
}

func TestParseRejectsMissingArrow(t *testing.T) {
	bad := "%token A 1\nSum A ;\n"
	if _, err := Parse("Bad", bad, true); err == nil {
		t.Errorf("expected a syntax error for a rule missing '->'")
	}
}
