package earley

import (
	"testing"

	"github.com/yaep-go/yaep/grammar"
)

// makeRightRecursiveGrammar builds A -> a A | a, the textbook case where
// Leo's optimization turns an otherwise O(n^2) chain of completions into
// O(n) (spec §4.9).
func makeRightRecursiveGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g := grammar.New("RightRecursive")
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	_, err := g.AddTerminal("a", 'a')
	must(err)
	_, err = g.AddRule("A", []string{"a", "A"}, grammar.Forward{Index: 1})
	must(err)
	_, err = g.AddRule("A", []string{"a"}, nil)
	must(err)
	must(g.SetStart("A"))
	must(g.Prepare(true))
	return g
}

func TestLeoShortcutUsedOnLongRightRecursion(t *testing.T) {
	g := makeRightRecursiveGrammar(t)
	p := NewParser(g)
	const n = 50
	codes := make([]int, n)
	for i := range codes {
		codes[i] = 'a'
	}
	accept, err := p.Parse(&tokenSeq{codes: codes})
	if err != nil {
		t.Fatal(err)
	}
	if !accept {
		t.Fatalf("expected a chain of %d 'a's to be accepted", n)
	}
	stats := p.LeoStats()
	if stats.Created == 0 {
		t.Errorf("expected at least one Leo shortcut to be created for a right-recursive chain")
	}
	if stats.Used == 0 {
		t.Errorf("expected at least one Leo shortcut hit for a right-recursive chain")
	}
}

func TestLeoDoesNotChangeAcceptance(t *testing.T) {
	g := makeExprGrammar(t)
	p := NewParser(g)
	input := &tokenSeq{codes: []int{tokNum, tokPlus, tokNum, tokStar, tokNum}}
	accept, err := p.Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	if !accept {
		t.Fatalf("expected left-recursive expression grammar to still accept correctly alongside Leo's optimization")
	}
}
