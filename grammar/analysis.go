package grammar

// Analysis holds the static, grammar-wide results computed once by
// Prepare (spec §4.1): nullable/accessible/productive flags (mirrored
// onto the Symbol values themselves for convenience) plus the per-symbol
// FIRST sets used to seed lookahead contexts for predicted items.
//
// FIRST sets are always computed at depth 1 (FIRST_1). The grammar's
// configured lookahead level is not consulted, so depths 0 and 2 behave
// exactly like depth 1. No FOLLOW sets are computed.
type Analysis struct {
	g *Grammar

	// first[sym.ID] is FIRST_1(sym): the set of terminals (plus possibly
	// epsilon) that can begin a string derived from sym.
	first []*TermSet

	interner *termSetInterner
}

func newAnalysis(g *Grammar) *Analysis {
	return &Analysis{g: g, interner: newTermSetInterner()}
}

// First returns the interned FIRST_1 set of sym.
func (a *Analysis) First(sym *Symbol) *TermSet {
	return a.first[sym.ID]
}

// FirstOfString computes and interns FIRST_1 of the symbol
// string syms, which is how prediction derives the lookahead context of
// a freshly predicted item from the right context already present on
// the predicting item (spec §4.6).
func (a *Analysis) FirstOfString(syms []*Symbol) *TermSet {
	result := newTermSet(len(a.g.terminalsByCode))
	result.AddEpsilon()
	for _, sym := range syms {
		next := a.first[sym.ID]
		wasNullable := result.HasEpsilon()
		if !wasNullable {
			break
		}
		result.words[0] &^= 1 // drop epsilon: we're extending past a nullable prefix
		result.UnionInto(next)
	}
	return a.interner.intern(result)
}

func (a *Analysis) run() {
	a.computeProductive()
	a.computeAccessible()
	a.computeNullable()
	a.computeFirst()
}

// computeProductive is the fixed-point of spec §4.1's "Productive"
// definition: a nonterminal is productive iff some rule's RHS is all
// productive symbols (terminals are always productive).
func (a *Analysis) computeProductive() {
	for _, sym := range a.g.symbols {
		sym.Productive = sym.Terminal
	}
	changed := true
	for changed {
		changed = false
		for _, r := range a.g.rules {
			if r.LHS.Productive {
				continue
			}
			ok := true
			for _, sym := range r.RHS {
				if !sym.Productive {
					ok = false
					break
				}
			}
			if ok {
				r.LHS.Productive = true
				changed = true
			}
		}
	}
}

// computeAccessible is the reflexive-transitive closure from the start
// symbol over "appears on RHS of a rule with accessible LHS" (spec
// §4.1).
func (a *Analysis) computeAccessible() {
	a.g.start.Accessible = true
	worklist := []*Symbol{a.g.start}
	for len(worklist) > 0 {
		sym := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, r := range sym.rules {
			for _, rhsSym := range r.RHS {
				if !rhsSym.Accessible {
					rhsSym.Accessible = true
					worklist = append(worklist, rhsSym)
				}
			}
		}
	}
}

// computeNullable is the fixed-point of spec §4.1's "Nullable"
// definition: N is nullable iff it has a rule whose RHS is all nullable
// (an empty RHS is vacuously nullable).
func (a *Analysis) computeNullable() {
	changed := true
	for changed {
		changed = false
		for _, r := range a.g.rules {
			if r.LHS.Nullable {
				continue
			}
			ok := true
			for _, sym := range r.RHS {
				if sym.Terminal || !sym.Nullable {
					ok = false
					break
				}
			}
			if ok {
				r.LHS.Nullable = true
				changed = true
			}
		}
	}
}

// computeFirst is the classic worklist fixed-point for FIRST_1, reusing
// nullability computed above. Terminals are their own singleton FIRST
// set; a nonterminal's FIRST set is the union, over its rules, of
// FIRST_1 of the RHS (stopping at the first non-nullable symbol).
func (a *Analysis) computeFirst() {
	a.first = make([]*TermSet, len(a.g.symbols))
	for _, sym := range a.g.symbols {
		ts := newTermSet(len(a.g.terminalsByCode))
		if sym.Terminal {
			ts.AddSymbol(sym)
		} else if sym.Nullable {
			ts.AddEpsilon()
		}
		a.first[sym.ID] = ts
	}
	changed := true
	for changed {
		changed = false
		for _, r := range a.g.rules {
			lhsFirst := a.first[r.LHS.ID]
			nullablePrefix := true
			for _, sym := range r.RHS {
				if !nullablePrefix {
					break
				}
				symFirst := a.first[sym.ID]
				if lhsFirst.UnionExceptEpsilon(symFirst) {
					changed = true
				}
				nullablePrefix = symFirst.HasEpsilon()
			}
			if nullablePrefix && !lhsFirst.HasEpsilon() {
				lhsFirst.AddEpsilon()
				changed = true
			}
		}
	}
	for _, sym := range a.g.symbols {
		a.first[sym.ID] = a.interner.intern(a.first[sym.ID])
	}
}
