/*
Package earley implements the Earley recognizer: item/core/set
interning, the predict/scan/complete main loop, Leo's right-recursion
optimization, minimal-cost error recovery, and translation-tree/shared
packed-forest construction, all operating over a prepared
github.com/yaep-go/yaep/grammar.Grammar.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright (c) 2017-2024 The YAEP-Go Authors
*/
package earley

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/yaep-go/yaep/grammar"
)

// tracer traces with key 'yaep.earley'.
func tracer() tracing.Trace {
	return tracing.Select("yaep.earley")
}

// Item is an Earley situation: a rule, a dot position, and a lookahead
// context (spec §3). Items are interned per Parser (via itemInterner,
// owned by a Parser for cache locality — see spec §5 option (c)): two
// calls describing the same (rule, dot, lookahead) return the identical
// *Item, so pointer equality is a valid structural-equality check.
type Item struct {
	Rule      *grammar.Rule
	Dot       int
	Lookahead *grammar.TermSet

	// EmptyTail is true iff every symbol at Rule.RHS[Dot:] is nullable.
	// Precomputed at intern time so it never needs recomputing (spec
	// §4.2).
	EmptyTail bool
}

// PeekSymbol returns the RHS symbol immediately after the dot, or nil if
// the item is complete (dot at the end of the RHS).
func (it *Item) PeekSymbol() *grammar.Symbol {
	if it.Dot >= len(it.Rule.RHS) {
		return nil
	}
	return it.Rule.RHS[it.Dot]
}

// Complete reports whether the dot has reached the end of the RHS.
func (it *Item) Complete() bool {
	return it.Dot >= len(it.Rule.RHS)
}

func (it *Item) String() string {
	var rhs string
	for i, sym := range it.Rule.RHS {
		if i == it.Dot {
			rhs += "•"
		}
		rhs += sym.Name + " "
	}
	if it.Dot == len(it.Rule.RHS) {
		rhs += "•"
	}
	return fmt.Sprintf("[%s → %s]", it.Rule.LHS.Name, rhs)
}

// itemKey is the structural key used to dedup items in the interner:
// (rule id, dot, lookahead pointer). Lookahead TermSets are themselves
// interned by the grammar's analysis, so pointer identity is sufficient.
type itemKey struct {
	ruleID    int
	dot       int
	lookahead *grammar.TermSet
}

// itemInterner deduplicates (rule, dot, lookahead) triples (spec §4.2).
// A two-level table — first by lookahead, then by (ruleID, dot) — is
// suggested by the spec as an O(1)-after-one-lookup implementation
// hint; a flat map keyed by the full triple gets the same complexity
// with less bookkeeping and is what this implementation uses.
type itemInterner struct {
	table map[itemKey]*Item
}

func newItemInterner() *itemInterner {
	return &itemInterner{table: make(map[itemKey]*Item)}
}

// intern returns the canonical *Item for (rule, dot, lookahead),
// creating it (and computing EmptyTail) on first occurrence.
func (in *itemInterner) intern(rule *grammar.Rule, dot int, lookahead *grammar.TermSet) *Item {
	key := itemKey{ruleID: rule.ID, dot: dot, lookahead: lookahead}
	if it, ok := in.table[key]; ok {
		return it
	}
	emptyTail := true
	for _, sym := range rule.RHS[dot:] {
		if sym.Terminal || !sym.Nullable {
			emptyTail = false
			break
		}
	}
	it := &Item{Rule: rule, Dot: dot, Lookahead: lookahead, EmptyTail: emptyTail}
	in.table[key] = it
	return it
}

// advance interns the item with the dot moved one position to the
// right, keeping the same lookahead context (the lookahead context of
// an item only changes across a completion that re-derives it via
// prediction, never across a simple dot-advance).
func (in *itemInterner) advance(it *Item) *Item {
	return in.intern(it.Rule, it.Dot+1, it.Lookahead)
}
