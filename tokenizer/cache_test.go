package tokenizer

import "testing"

// tallyCounter counts words and records how often it was asked.
type tallyCounter struct {
	calls int
}

func (c *tallyCounter) Count(text string) int {
	c.calls++
	n := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

func TestCachedCounterMemoizes(t *testing.T) {
	inner := &tallyCounter{}
	cached, err := NewCached(inner, 8)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}

	if got := cached.Count("one two three"); got != 3 {
		t.Fatalf("Count = %d, want 3", got)
	}
	if got := cached.Count("one two three"); got != 3 {
		t.Fatalf("repeat Count = %d, want 3", got)
	}
	if inner.calls != 1 {
		t.Errorf("inner counter called %d times, want 1", inner.calls)
	}
	if cached.Len() != 1 {
		t.Errorf("cache holds %d entries, want 1", cached.Len())
	}
}

func TestCachedCounterEvicts(t *testing.T) {
	inner := &tallyCounter{}
	cached, err := NewCached(inner, 2)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}

	cached.Count("a")
	cached.Count("b")
	cached.Count("c") // evicts "a"
	before := inner.calls
	cached.Count("a")
	if inner.calls != before+1 {
		t.Errorf("expected recompute after eviction, calls %d -> %d", before, inner.calls)
	}
}

func TestCachedCounterRejectsBadSize(t *testing.T) {
	if _, err := NewCached(&tallyCounter{}, 0); err == nil {
		t.Fatal("expected error for size 0")
	}
}
