package earley

import (
	"bytes"
	"encoding/binary"
)

// Set is an interned (Core, distance-vector) pair — one entry of the
// parse list (spec §3, §4.3). Distances[i] is the origin set index of
// Core.Items[i], valid only for i < Core.NStart (start items); the
// remaining predicted items all have distance equal to the set's own
// position k, which callers already know from context.
type Set struct {
	ID        int
	Core      *Core
	Distances []int
}

// setInterner deduplicates (core, distance-vector) pairs (spec §4.3):
// "Real grammars produce many sets with identical cores but different
// distances, and many with identical (core, distances) pairs."
type setInterner struct {
	table map[string]*Set
	next  int
}

func newSetInterner() *setInterner {
	return &setInterner{table: make(map[string]*Set)}
}

func setKey(core *Core, distances []int) string {
	var b bytes.Buffer
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(core.ID))
	b.Write(tmp[:])
	for _, d := range distances {
		binary.LittleEndian.PutUint64(tmp[:], uint64(d))
		b.Write(tmp[:])
	}
	return b.String()
}

func (in *setInterner) intern(core *Core, distances []int) *Set {
	key := setKey(core, distances)
	if s, ok := in.table[key]; ok {
		return s
	}
	s := &Set{ID: in.next, Core: core, Distances: distances}
	in.next++
	in.table[key] = s
	return s
}

// ParseList is the indexed sequence pl[0..=n] of Sets built during one
// parse, one slot per consumed token boundary (spec §3). pl[k] is the
// state after consuming k tokens.
type ParseList struct {
	sets []*Set
}

func newParseList(sizeHint int) *ParseList {
	return &ParseList{sets: make([]*Set, 0, sizeHint)}
}

func (pl *ParseList) append(s *Set) { pl.sets = append(pl.sets, s) }

func (pl *ParseList) at(k int) *Set { return pl.sets[k] }

func (pl *ParseList) len() int { return len(pl.sets) }

// truncate discards every set from index n onward, used by error
// recovery to rewind the parse list before retrying from an earlier
// position (spec §4.8's "i" rewind).
func (pl *ParseList) truncate(n int) { pl.sets = pl.sets[:n] }

// distanceOf returns the distance (origin set index) of item index idx
// within set k: the stored Set.Distances entry for a start item, or k
// itself for a predicted item. It does not follow parentRefs; that
// reconstruction happens once per cache hit in parser.go's
// recomputeDistances (via resolveParent), and the result is what
// Set.Distances holds.
func (pl *ParseList) distanceOf(k, idx int) int {
	set := pl.sets[k]
	if idx >= set.Core.NStart {
		return k // predicted item: distance is the current set
	}
	return set.Distances[idx]
}

// resolveParent computes the distance for a start item at position idx
// of a Core being installed at parse-list position k, given the
// distances resolved so far for that SAME forming set (building, the
// slice grown left-to-right as the set's own start items are decided —
// see parser.go's recomputeDistances, which is the only caller). This mirrors
// spec §4.5 step 1/2 and the parentRef doc comment in core.go.
func (pl *ParseList) resolveParent(k int, ref parentRef, building []int) int {
	switch ref.kind {
	case parentScan:
		prevSet := pl.sets[k-1]
		if ref.idx < prevSet.Core.NStart {
			return prevSet.Distances[ref.idx]
		}
		return k - 1
	case parentComplete:
		// sourceIdx indexes THIS set's own start items, already
		// resolved earlier in the same left-to-right construction pass.
		o := building[ref.sourceIdx]
		waitingSet := pl.sets[o]
		if ref.idx < waitingSet.Core.NStart {
			return waitingSet.Distances[ref.idx]
		}
		return o
	}
	return k
}
