package simdbytes

import "testing"

func TestIndexByte(t *testing.T) {
	cases := []struct {
		haystack string
		needle   byte
		want     int
	}{
		{"", 'a', -1},
		{"a", 'a', 0},
		{"abc", 'c', 2},
		{"01234567", '7', 7},
		{"0123456789abcdef", 'f', 15},
		{"no match here", 'z', -1},
	}
	for _, c := range cases {
		if got := IndexByte([]byte(c.haystack), c.needle); got != c.want {
			t.Errorf("IndexByte(%q, %q) = %d, want %d", c.haystack, c.needle, got, c.want)
		}
	}
}

func TestIndexAny2(t *testing.T) {
	if got := IndexAny2([]byte("hello world"), 'o', 'w'); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
	if got := IndexAny2([]byte("hello world"), 'x', 'y'); got != -1 {
		t.Errorf("got %d, want -1", got)
	}
	if got := IndexAny2([]byte("0123456789"), '9', '0'); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestIndexAny3(t *testing.T) {
	if got := IndexAny3([]byte("hello\tworld\nfoo"), ' ', '\t', '\n'); got != 5 {
		t.Errorf("got %d, want 5", got)
	}
	if got := IndexAny3([]byte("abcdefgh"), 'x', 'y', 'z'); got != -1 {
		t.Errorf("got %d, want -1", got)
	}
}

func TestFeaturesReturnsConsistentValue(t *testing.T) {
	a := Features()
	b := Features()
	if a != b {
		t.Fatal("Features() should be stable across calls")
	}
}
