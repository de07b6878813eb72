package sparse

import "testing"

func TestSparseSetBasic(t *testing.T) {
	s := NewSparseSet(16)

	if !s.IsEmpty() {
		t.Fatal("new set should be empty")
	}
	if s.Contains(3) {
		t.Fatal("empty set should not contain 3")
	}

	s.Insert(3)
	s.Insert(7)
	s.Insert(3) // duplicate, no-op

	if s.Size() != 2 {
		t.Fatalf("size = %d, want 2", s.Size())
	}
	if !s.Contains(3) || !s.Contains(7) {
		t.Fatal("set should contain 3 and 7")
	}
	if s.Contains(5) {
		t.Fatal("set should not contain 5")
	}
}

func TestSparseSetRemove(t *testing.T) {
	s := NewSparseSet(8)
	s.Insert(1)
	s.Insert(2)
	s.Insert(3)

	s.Remove(2)
	if s.Contains(2) {
		t.Fatal("2 should have been removed")
	}
	if s.Size() != 2 {
		t.Fatalf("size = %d, want 2", s.Size())
	}
	if !s.Contains(1) || !s.Contains(3) {
		t.Fatal("remaining elements should still be present")
	}

	s.Remove(99) // no-op, not present
}

func TestSparseSetClear(t *testing.T) {
	s := NewSparseSet(8)
	s.Insert(1)
	s.Insert(2)
	s.Clear()

	if !s.IsEmpty() {
		t.Fatal("set should be empty after Clear")
	}
	if s.Contains(1) {
		t.Fatal("cleared set should not contain old values")
	}
}

func TestSparseSetValuesAndIter(t *testing.T) {
	s := NewSparseSet(8)
	for _, v := range []uint32{5, 1, 4} {
		s.Insert(v)
	}

	seen := map[uint32]bool{}
	s.Iter(func(v uint32) { seen[v] = true })
	if len(seen) != 3 {
		t.Fatalf("iterated %d values, want 3", len(seen))
	}

	values := s.Values()
	if len(values) != 3 {
		t.Fatalf("Values() returned %d elements, want 3", len(values))
	}
}

func TestSparseSetOutOfRange(t *testing.T) {
	s := NewSparseSet(4)
	if s.Contains(100) {
		t.Fatal("out-of-range value must never be reported as contained")
	}
}
