package byteset

import "testing"

func TestBasicMembership(t *testing.T) {
	s := RangeSet('a', 'z')
	if !s.Contains('m') {
		t.Fatal("expected 'm' in [a-z]")
	}
	if s.Contains('A') {
		t.Fatal("did not expect 'A' in [a-z]")
	}
	if s.Size() != 26 {
		t.Fatalf("size = %d, want 26", s.Size())
	}
}

func TestUnionIntersectDifference(t *testing.T) {
	digits := RangeSet('0', '9')
	lower := RangeSet('a', 'z')

	u := digits.Union(lower)
	if u.Size() != 36 {
		t.Fatalf("union size = %d, want 36", u.Size())
	}
	if !u.Contains('5') || !u.Contains('q') {
		t.Fatal("union should contain both ranges")
	}

	i := digits.Intersect(lower)
	if !i.IsEmpty() {
		t.Fatal("digits and lowercase letters are disjoint")
	}

	alnum := RangeSet('a', 'z').Union(RangeSet('0', '9'))
	diff := alnum.Difference(RangeSet('a', 'm'))
	if diff.Contains('a') || diff.Contains('m') {
		t.Fatal("difference should remove [a-m]")
	}
	if !diff.Contains('n') || !diff.Contains('5') {
		t.Fatal("difference should keep [n-z] and digits")
	}
}

func TestComplementInvolution(t *testing.T) {
	s := RangeSet('a', 'z').Union(Of('_', '-'))
	if !s.Complement().Complement().Equal(s) {
		t.Fatal("complement(complement(A)) must equal A")
	}
}

func TestSetLaws(t *testing.T) {
	a := RangeSet('a', 'm')
	b := RangeSet('g', 'z')

	// De Morgan: complement(A∪B) == complement(A) ∩ complement(B)
	lhs := a.Union(b).Complement()
	rhs := a.Complement().Intersect(b.Complement())
	if !lhs.Equal(rhs) {
		t.Fatal("De Morgan's law violated for union/intersect complement")
	}
}

func TestRangesCanonical(t *testing.T) {
	s := Of('a', 'b', 'c', 'z', 'y', 'x')
	ranges := s.Ranges()
	want := []Range{{'a', 'c'}, {'x', 'z'}}
	if len(ranges) != len(want) {
		t.Fatalf("ranges = %v, want %v", ranges, want)
	}
	for i := range want {
		if ranges[i] != want[i] {
			t.Fatalf("ranges[%d] = %v, want %v", i, ranges[i], want[i])
		}
	}
}

func TestEmptyAndAll(t *testing.T) {
	if !Empty().IsEmpty() {
		t.Fatal("Empty() should be empty")
	}
	if All().Size() != 256 {
		t.Fatal("All() should contain every byte")
	}
	if !All().Complement().IsEmpty() {
		t.Fatal("complement of All() should be empty")
	}
}

func TestForEachOrder(t *testing.T) {
	s := Of('z', 'a', 'm')
	var seen []byte
	s.ForEach(func(b byte) { seen = append(seen, b) })
	want := []byte{'a', 'm', 'z'}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("ForEach order wrong: %v", seen)
		}
	}
}
