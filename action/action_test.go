package action

import "testing"

func TestSortedByPriorityThenDeclarationOrder(t *testing.T) {
	r := NewRegistry()
	low := r.Declare("low", 1)
	high := r.Declare("high", 10)
	tie1 := r.Declare("tie1", 5)
	tie2 := r.Declare("tie2", 5)

	l := List{low, high, tie1, tie2}
	sorted := l.Sorted()

	want := []string{"high", "tie1", "tie2", "low"}
	got := sorted.Names()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted order = %v, want %v", got, want)
		}
	}
}

func TestRegistryDeclareVsNew(t *testing.T) {
	r := NewRegistry()
	a := r.Declare("tok", 3)
	b := r.New("tok")

	if a.Priority != 3 || b.Priority != 3 {
		t.Fatal("New() should pick up the priority from Declare()")
	}
	if a == b {
		t.Fatal("each call should get a distinct declaration-order sequence")
	}
}

func TestPreconditionRegistry(t *testing.T) {
	r := NewRegistry()
	if r.HasPrecondition("is_ascii") {
		t.Fatal("precondition should not exist before being declared")
	}
	r.DeclarePrecondition("is_ascii")
	if !r.HasPrecondition("is_ascii") {
		t.Fatal("precondition should exist after being declared")
	}
}

func TestListEqualAndMerge(t *testing.T) {
	r := NewRegistry()
	a := r.Declare("a", 1)
	b := r.Declare("b", 1)

	l1 := List{a}
	l2 := List{a}
	if !l1.Equal(l2) {
		t.Fatal("identical single-action lists should be equal")
	}

	merged := l1.Merge(List{b})
	if len(merged) != 2 || merged[0] != a || merged[1] != b {
		t.Fatalf("merge produced unexpected list: %v", merged)
	}
}
