package tokenizer

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// ReferenceCounter counts with the exact cl100k_base BPE codec instead of
// the embedded greedy vocabulary. Slower to initialize, but the counts match
// OpenAI's tokenizer byte for byte.
type ReferenceCounter struct {
	codec tokenizer.Codec
}

// NewReference loads the cl100k_base codec.
func NewReference() (*ReferenceCounter, error) {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("load cl100k_base codec: %w", err)
	}
	return &ReferenceCounter{codec: codec}, nil
}

// Count returns the exact cl100k_base token count for text.
func (r *ReferenceCounter) Count(text string) int {
	ids, _, err := r.codec.Encode(text)
	if err != nil {
		return 0
	}
	return len(ids)
}
