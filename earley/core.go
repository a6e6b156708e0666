package earley

import (
	"bytes"
	"fmt"

	"github.com/yaep-go/yaep/grammar"
)

// parentKind distinguishes the two ways a start item's origin can be
// recomputed without storing the origin directly on the item (spec
// §4.5, step 1): a scan carries its predecessor's own index forward; a
// completion's origin has to be chased through the waiting item that
// triggered it.
type parentKind uint8

const (
	parentScan parentKind = iota
	parentComplete
)

// parentRef lets a Core reconstruct, for one of its start items, the
// distance (origin set index) without storing it on the Item itself —
// Items are shared across many Cores/Sets and must stay origin-free.
//
// For parentScan: idx indexes into the PREDECESSOR core's Items (the
// set the scan advanced from). Distance = prevSet.Distances[idx] if idx
// is one of the predecessor's start items (idx < prevCore.NStart), else
// the predecessor set's own index k (a dot-zero predicted item's
// "distance" is just the set it lives in).
//
// For parentComplete: sourceIdx indexes into THIS core's own start
// items — the waiting item [B → …•A…] whose advance produced this
// item, and whose distance was already resolved earlier in the same
// left-to-right construction pass (it must appear before this item
// because completion only ever advances an item already present in the
// forming set). idx then indexes into the waiting item's ORIGIN set's
// core (pl[o].Core.Items); distance = pl[o].Distances[idx] if idx <
// waitingCore.NStart, else o itself.
type parentRef struct {
	kind      parentKind
	idx       int
	sourceIdx int // only meaningful for parentComplete
}

// Core is the canonical, distance-stripped shape of an Earley set: an
// ordered list of items — start items (dot>0) first in the order
// produced during build_new_set, then predicted items (dot=0) in the
// order prediction's closure produced them — plus, for every start
// item, a parentRef describing how to recover its distance. Cores with
// the same canonical item sequence are the same Core (spec §4.3).
type Core struct {
	ID      int
	Items   []*Item
	Parents []parentRef // len(Parents) == NStart
	NStart  int         // items[0:NStart] are the start items (dot>0)

	// transitionSymbol is the terminal that produced this core via a
	// scan from some predecessor, or nil for the initial core (set 0).
	// Stored for diagnostics / dump only; the transition cache itself
	// is keyed externally.
	transitionSymbol *grammar.Symbol

	symbVects map[*grammar.Symbol]*CoreSymbVect // lazily built, cached
}

// CoreSymbVect caches, for one (core, symbol) pair, the item indices
// relevant to scanning/completing that symbol (spec §3). The teacher's
// actual recognizer computes a single "items whose PeekSymbol ==
// symbol" query for both roles; Transitions and Reduces are documented
// aliases over that identical slice rather than two different
// computations, matching that precedent.
type CoreSymbVect struct {
	// Indices into Core.Items of every item whose PeekSymbol() == symbol.
	indices []int
}

// Transitions returns the indices of items in the core whose dot sits
// immediately before symbol — the set scan advances.
func (v *CoreSymbVect) Transitions() []int { return v.indices }

// Reduces returns the indices of items in the core whose dot sits
// immediately before symbol — the set completion advances when symbol
// is the LHS of a freshly completed rule. Alias of Transitions: both
// roles consult the identical "peek == symbol" slice.
func (v *CoreSymbVect) Reduces() []int { return v.indices }

// SymbVect returns (building and caching it on first use) the
// CoreSymbVect for symbol.
func (c *Core) SymbVect(symbol *grammar.Symbol) *CoreSymbVect {
	if v, ok := c.symbVects[symbol]; ok {
		return v
	}
	if c.symbVects == nil {
		c.symbVects = make(map[*grammar.Symbol]*CoreSymbVect)
	}
	v := &CoreSymbVect{}
	for i, it := range c.Items {
		if it.PeekSymbol() == symbol {
			v.indices = append(v.indices, i)
		}
	}
	c.symbVects[symbol] = v
	return v
}

func (c *Core) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "core#%d{", c.ID)
	for i, it := range c.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(it.String())
	}
	b.WriteString("}")
	return b.String()
}

// coreBuilder accumulates the items of a forming Core (start items
// first, in build_new_set order, then predicted items in prediction's
// closure order) before it is handed to the coreInterner.
type coreBuilder struct {
	items   []*Item
	parents []parentRef
	nStart  int
}

func newCoreBuilder() *coreBuilder {
	return &coreBuilder{}
}

// addStart appends a start item (dot>0) together with the parentRef
// needed to recover its distance later.
func (b *coreBuilder) addStart(it *Item, ref parentRef) {
	b.items = append(b.items, it)
	b.parents = append(b.parents, ref)
	b.nStart++
}

// addPredicted appends a dot-zero predicted item. Predicted items carry
// no parentRef: their distance is always the current set index k,
// which the recognizer already knows without indirection.
func (b *coreBuilder) addPredicted(it *Item) {
	b.items = append(b.items, it)
}

// canonicalKey produces the structural key two builders share iff they
// describe the same Core: the ordered item pointers (items are
// themselves interned, so pointer identity is a valid proxy for
// structural identity). parentRefs are not part of the key: two
// occurrences of the same item with different parent chains still
// collapse to one Core (only the distance differs, and that lives in
// the Set, not the Core) — so the key is just the item sequence.
func (b *coreBuilder) canonicalKey() string {
	var buf bytes.Buffer
	for _, it := range b.items {
		fmt.Fprintf(&buf, "%p;", it)
	}
	return buf.String()
}

// coreInterner deduplicates Cores by their canonical item sequence
// (spec §4.3).
type coreInterner struct {
	table map[string]*Core
	next  int
}

func newCoreInterner() *coreInterner {
	return &coreInterner{table: make(map[string]*Core)}
}

func (in *coreInterner) intern(b *coreBuilder, transitionSymbol *grammar.Symbol) *Core {
	key := b.canonicalKey()
	if c, ok := in.table[key]; ok {
		return c
	}
	c := &Core{
		ID:               in.next,
		Items:            b.items,
		Parents:          b.parents,
		NStart:           b.nStart,
		transitionSymbol: transitionSymbol,
	}
	in.next++
	in.table[key] = c
	return c
}
