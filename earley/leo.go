package earley

import (
	"github.com/yaep-go/yaep/grammar"
	"github.com/yaep-go/yaep/grammar/iteratable"
)

// leoKey identifies "the completion of nonterminal B with origin set
// k": the shortcut depends only on the items of pl[k] waiting on B, so
// one entry serves every later completion of B from that same origin
// (spec §4.7).
type leoKey struct {
	k int // origin set of the completed B
	B *grammar.Symbol
}

// leoEntry is the installed shortcut: add item at origin directly,
// bypassing the chain of intermediate completions a standard Earley
// completer would have walked through one at a time. parentIdx/
// parentCoreID let the forming set still record a valid parentRef for
// item, so transition-cache reuse of the resulting Core recomputes
// distances correctly even though Leo skipped the chain.
type leoEntry struct {
	item         *Item
	origin       int
	parentIdx    int
	parentCoreID int
}

// LeoStats exposes the diagnostic counters named in spec §4.7
// ("statistics... created Leo items and completions that used them").
type LeoStats struct {
	Created int
	Used    int
}

// leoTable is a Parser-owned, per-parse cache of Leo shortcuts (spec
// §3: "Created opportunistically during recognition; cleared per
// parse").
type leoTable struct {
	table map[leoKey]leoEntry
	stats LeoStats
}

func newLeoTable() *leoTable {
	return &leoTable{table: make(map[leoKey]leoEntry)}
}

// Stats returns the table's current counters.
func (lt *leoTable) Stats() LeoStats { return lt.stats }

// tryComplete attempts to resolve the completion of nonterminal B
// (completed with origin `origin`, while building set k) via a Leo
// shortcut. It returns true if it handled the completion (added the
// shortcut item to the forming set itself), in which case the caller
// must skip the standard "walk every waiting item" completion for this
// (origin, B) pair (spec §4.5 step 3).
func (lt *leoTable) tryComplete(p *Parser, k int, B *grammar.Symbol, origin int, b *coreBuilder, distances *[]int, work *iteratable.Set, triggerSrcIdx int) bool {
	key := leoKey{k: origin, B: B}
	if entry, ok := lt.table[key]; ok {
		lt.stats.Used++
		p.addCompletionResultResolved(b, distances, work, entry.item, entry.origin, entry.parentIdx, triggerSrcIdx)
		return true
	}

	waitingCore := p.pl.at(origin).Core
	rv := waitingCore.SymbVect(B).Reduces()
	if len(rv) != 1 {
		return false // non-deterministic (more than one waiter): fall back
	}
	waitingIdx := rv[0]
	waitingItem := waitingCore.Items[waitingIdx]
	advanced := p.items.advance(waitingItem)
	if !isDeterministicTail(advanced) {
		return false
	}
	targetOrigin := p.pl.distanceOf(origin, waitingIdx)
	if targetOrigin < 0 {
		return false // refuse to insert an item whose origin lies outside the built prefix
	}
	lt.table[key] = leoEntry{item: advanced, origin: targetOrigin, parentIdx: waitingIdx, parentCoreID: waitingCore.ID}
	lt.stats.Created++
	p.addCompletionResultResolved(b, distances, work, advanced, targetOrigin, waitingIdx, triggerSrcIdx)
	return true
}

// isDeterministicTail reports whether item's remaining RHS (from its
// dot onward) is either empty or a single nonterminal — the shape Leo
// requires so that every link of the reduction chain is forced rather
// than chosen (spec §4.7).
func isDeterministicTail(item *Item) bool {
	tail := item.Rule.RHS[item.Dot:]
	if len(tail) == 0 {
		return true
	}
	if len(tail) == 1 && !tail[0].Terminal {
		return true
	}
	return false
}
