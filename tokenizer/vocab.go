package tokenizer

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	_ "embed"
)

// The embedded vocabulary is a compact one: all 256 single-byte tokens plus
// a few thousand common English words, subwords and punctuation clusters,
// in the same line format as the published cl100k_base.tiktoken file. Any
// file in that format can be loaded through NewFromReader instead; callers
// who need byte-exact cl100k counts should use NewReference.
//
//go:embed vocab.tiktoken
var embeddedVocab []byte

// NewFromReader parses a vocabulary in tiktoken line format: one
// `<base64-token> <decimal-id>` pair per line, surrounding whitespace
// trimmed, empty lines skipped.
func NewFromReader(r io.Reader) (*Tokenizer, error) {
	t := &Tokenizer{
		vocab:   make(map[string]int),
		inverse: make(map[int]string),
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("vocabulary line %d: expected 2 fields, got %d", lineNo, len(fields))
		}
		tok, err := base64.StdEncoding.DecodeString(fields[0])
		if err != nil {
			return nil, fmt.Errorf("vocabulary line %d: decode token: %w", lineNo, err)
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("vocabulary line %d: parse id: %w", lineNo, err)
		}
		if id < 0 {
			return nil, fmt.Errorf("vocabulary line %d: negative id %d", lineNo, id)
		}
		s := string(tok)
		t.vocab[s] = id
		t.inverse[id] = s
		if len(s) > t.maxLen {
			t.maxLen = len(s)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	if len(t.vocab) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}
	if t.maxLen > maxMatchBytes {
		t.maxLen = maxMatchBytes
	}
	return t, nil
}
