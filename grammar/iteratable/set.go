package iteratable

// hashThreshold is the element count at which a Set switches from a
// linear-scan dedup check to a hash-index lookup. Per spec §4.9, linear
// scan is the specified default behaviour for typical (<50 element) sets;
// the hash index is an allowed, not required, optimization for larger
// ones.
const hashThreshold = 100

// Set is a destructive, insertion-ordered set of arbitrary comparable
// values. Order is preserved because several algorithms built on top of
// Set (grammar closures, Earley core canonicalization) depend on a
// reproducible iteration order.
type Set struct {
	items []interface{}
	index map[interface{}]int // item -> position in items; nil below hashThreshold

	iterPos int // cursor used by IterateOnce/Next/Item
}

// NewSet creates an empty set. sizeHint pre-allocates backing storage but
// has no effect on semantics.
func NewSet(sizeHint int) *Set {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Set{items: make([]interface{}, 0, sizeHint)}
}

// Size returns the number of elements in the set.
func (s *Set) Size() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Empty returns true if the set has no elements.
func (s *Set) Empty() bool {
	return s.Size() == 0
}

func (s *Set) contains(item interface{}) (int, bool) {
	if s.index != nil {
		pos, ok := s.index[item]
		return pos, ok
	}
	for i, x := range s.items {
		if x == item {
			return i, true
		}
	}
	return 0, false
}

func (s *Set) buildIndexIfNeeded() {
	if s.index == nil && len(s.items) >= hashThreshold {
		s.index = make(map[interface{}]int, len(s.items)*2)
		for i, x := range s.items {
			s.index[x] = i
		}
	}
}

// Add inserts item if it is not already present (per spec §4.9, equality
// is structural). Returns the set for chaining.
func (s *Set) Add(item interface{}) *Set {
	if _, ok := s.contains(item); ok {
		return s
	}
	s.items = append(s.items, item)
	if s.index != nil {
		s.index[item] = len(s.items) - 1
	}
	s.buildIndexIfNeeded()
	return s
}

// Remove deletes item from the set, if present.
func (s *Set) Remove(item interface{}) *Set {
	pos, ok := s.contains(item)
	if !ok {
		return s
	}
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	s.index = nil // positions shifted; rebuild lazily
	s.buildIndexIfNeeded()
	return s
}

// Contains reports whether item is a member of the set.
func (s *Set) Contains(item interface{}) bool {
	_, ok := s.contains(item)
	return ok
}

// Copy returns a shallow clone of the set, safe to mutate independently.
func (s *Set) Copy() *Set {
	cp := &Set{items: append([]interface{}(nil), s.items...)}
	cp.buildIndexIfNeeded()
	return cp
}

// Union merges other's elements into s (destructive) and returns s.
func (s *Set) Union(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, x := range other.items {
		s.Add(x)
	}
	return s
}

// Difference returns a new set holding the elements of s that are not in
// other. Unlike Add/Remove/Union, this does not mutate the receiver: it
// can compute "what's new" before deciding whether a destructive
// Union is even necessary.
func (s *Set) Difference(other *Set) *Set {
	d := NewSet(s.Size())
	for _, x := range s.items {
		if other == nil || !other.Contains(x) {
			d.Add(x)
		}
	}
	return d
}

// Subset destructively filters the set in place, keeping only elements
// for which predicate returns true, and returns the receiver.
func (s *Set) Subset(predicate func(interface{}) bool) *Set {
	kept := s.items[:0]
	for _, x := range s.items {
		if predicate(x) {
			kept = append(kept, x)
		}
	}
	s.items = kept
	s.index = nil
	s.buildIndexIfNeeded()
	return s
}

// Each calls fn once for every element, in insertion order.
func (s *Set) Each(fn func(interface{})) {
	for _, x := range s.items {
		fn(x)
	}
}

// Values returns a snapshot slice of the set's elements, in insertion
// order. The slice is a copy; mutating it does not affect the set.
func (s *Set) Values() []interface{} {
	return append([]interface{}(nil), s.items...)
}

// First returns an arbitrary (the first inserted) element, or nil if the
// set is empty.
func (s *Set) First() interface{} {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[0]
}

// FirstMatch returns the first element (in insertion order) for which
// predicate returns true, or nil if none match.
func (s *Set) FirstMatch(predicate func(interface{}) bool) interface{} {
	for _, x := range s.items {
		if predicate(x) {
			return x
		}
	}
	return nil
}

// Sort orders the set's elements in place using less.
func (s *Set) Sort(less func(a, b interface{}) bool) {
	// Insertion sort: sets arising during parsing are small, and a
	// dependency-free sort keeps this package free of reflection.
	for i := 1; i < len(s.items); i++ {
		for j := i; j > 0 && less(s.items[j], s.items[j-1]); j-- {
			s.items[j], s.items[j-1] = s.items[j-1], s.items[j]
		}
	}
	s.index = nil
	s.buildIndexIfNeeded()
}

// IterateOnce resets the iteration cursor so a subsequent Next/Item pair
// walks the set exactly once from the start. Iterating this way (rather
// than via Each) lets callers mutate the set mid-walk, which several
// Earley-set construction algorithms rely on (the "item list acts as a
// work queue" idiom): items appended during iteration are still visited.
func (s *Set) IterateOnce() {
	s.iterPos = 0
}

// Next advances the iteration cursor and reports whether an Item is
// available.
func (s *Set) Next() bool {
	if s.iterPos < len(s.items) {
		s.iterPos++
		return true
	}
	return false
}

// Item returns the element at the current iteration cursor. Only valid
// after a Next call that returned true.
func (s *Set) Item() interface{} {
	if s.iterPos == 0 || s.iterPos > len(s.items) {
		return nil
	}
	return s.items[s.iterPos-1]
}
