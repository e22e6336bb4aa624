// Package tokenizer counts, encodes and decodes text against a BPE-style
// vocabulary in tiktoken line format. Chunk budgets elsewhere in this module
// are always measured through the Counter interface so callers can swap the
// embedded vocabulary for a cached or exact variant.
package tokenizer

import (
	"bytes"
	"strings"
	"sync"
)

// maxMatchBytes bounds the longest-prefix search. No practical vocabulary
// entry is longer; keeping the bound small keeps encoding linear.
const maxMatchBytes = 20

// Counter reports how many tokens a string encodes to.
type Counter interface {
	Count(text string) int
}

// Tokenizer performs greedy longest-prefix-match encoding over an immutable
// vocabulary. It is safe for concurrent use once constructed.
type Tokenizer struct {
	vocab   map[string]int
	inverse map[int]string
	maxLen  int
}

var (
	defaultOnce sync.Once
	defaultTok  *Tokenizer
	defaultErr  error
)

// Default returns the process-wide tokenizer backed by the embedded
// vocabulary. The vocabulary is parsed on first call; later calls share the
// same instance and only perform read access.
func Default() (*Tokenizer, error) {
	defaultOnce.Do(func() {
		defaultTok, defaultErr = NewFromReader(bytes.NewReader(embeddedVocab))
	})
	return defaultTok, defaultErr
}

// Size returns the number of vocabulary entries.
func (t *Tokenizer) Size() int {
	return len(t.vocab)
}

// match returns the byte length of the longest vocabulary entry that
// prefixes s, or 0 when not even the first byte is known.
func (t *Tokenizer) match(s string) (id, length int) {
	limit := t.maxLen
	if len(s) < limit {
		limit = len(s)
	}
	for l := limit; l > 0; l-- {
		if id, ok := t.vocab[s[:l]]; ok {
			return id, l
		}
	}
	return 0, 0
}

// Encode converts text to a sequence of token ids. Every position matches
// the longest vocabulary prefix; a byte with no vocabulary entry encodes as
// its raw value, so ids 0-255 double as the byte fallback and every input
// round-trips through Decode.
func (t *Tokenizer) Encode(text string) []int {
	ids := make([]int, 0, len(text)/3+1)
	for p := 0; p < len(text); {
		id, l := t.match(text[p:])
		if l == 0 {
			ids = append(ids, int(text[p]))
			p++
			continue
		}
		ids = append(ids, id)
		p += l
	}
	return ids
}

// Count returns the number of tokens text encodes to. It always equals
// len(Encode(text)).
func (t *Tokenizer) Count(text string) int {
	n := 0
	for p := 0; p < len(text); {
		_, l := t.match(text[p:])
		if l == 0 {
			l = 1
		}
		n++
		p += l
	}
	return n
}

// Decode reassembles text from token ids. Ids in the byte range that have no
// vocabulary entry decode as the raw byte, mirroring the Encode fallback;
// anything else unknown is skipped.
func (t *Tokenizer) Decode(ids []int) string {
	var b strings.Builder
	for _, id := range ids {
		if tok, ok := t.inverse[id]; ok {
			b.WriteString(tok)
			continue
		}
		if id >= 0 && id < 256 {
			b.WriteByte(byte(id))
		}
	}
	return b.String()
}
