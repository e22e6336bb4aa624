package tokenizer

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedCounter memoizes token counts behind an LRU. PDF pages repeat the
// same running headers and footers on every page, so caching per-line counts
// saves most of the tokenizer work on real documents.
type CachedCounter struct {
	inner Counter
	lru   *lru.Cache[string, int]
}

// NewCached wraps inner with an LRU of the given size.
func NewCached(inner Counter, size int) (*CachedCounter, error) {
	c, err := lru.New[string, int](size)
	if err != nil {
		return nil, fmt.Errorf("token count cache: %w", err)
	}
	return &CachedCounter{inner: inner, lru: c}, nil
}

// Count returns the cached count for text, computing and storing it on miss.
func (c *CachedCounter) Count(text string) int {
	if n, ok := c.lru.Get(text); ok {
		return n
	}
	n := c.inner.Count(text)
	c.lru.Add(text, n)
	return n
}

// Len reports the number of cached entries.
func (c *CachedCounter) Len() int {
	return c.lru.Len()
}
