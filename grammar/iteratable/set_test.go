package iteratable

import "testing"

func TestAddDedup(t *testing.T) {
	s := NewSet(0)
	s.Add(1).Add(2).Add(1)
	if s.Size() != 2 {
		t.Errorf("expected size 2, got %d", s.Size())
	}
}

func TestWorkQueueIteration(t *testing.T) {
	s := NewSet(0)
	s.Add(1)
	s.IterateOnce()
	seen := 0
	for s.Next() {
		v := s.Item().(int)
		seen++
		if v == 1 {
			s.Add(2) // appended while iterating must still be visited
		}
	}
	if seen != 2 {
		t.Errorf("expected to visit 2 items (work-queue semantics), saw %d", seen)
	}
}

func TestSubsetAndDifference(t *testing.T) {
	a := NewSet(0)
	a.Add(1).Add(2).Add(3)
	b := NewSet(0)
	b.Add(2)
	diff := a.Difference(b)
	if diff.Size() != 2 || diff.Contains(2) {
		t.Errorf("unexpected difference: %v", diff.Values())
	}
	a.Subset(func(x interface{}) bool { return x.(int) > 1 })
	if a.Size() != 2 || a.Contains(1) {
		t.Errorf("unexpected subset result: %v", a.Values())
	}
}

func TestHashIndexThreshold(t *testing.T) {
	s := NewSet(0)
	for i := 0; i < hashThreshold+10; i++ {
		s.Add(i)
	}
	if s.index == nil {
		t.Errorf("expected hash index to be built past threshold")
	}
	if !s.Contains(hashThreshold + 5) {
		t.Errorf("hash-indexed set lost an element")
	}
}
