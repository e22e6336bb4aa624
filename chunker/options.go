package chunker

import (
	"errors"
	"fmt"
)

// Default chunk sizing. 512 tokens fits comfortably inside common embedding
// windows; 150 keeps fragments large enough to stand alone.
const (
	DefaultMaxTokens = 512
	DefaultMinTokens = 150
)

// ErrInvalidOptions is wrapped by every option validation failure.
var ErrInvalidOptions = errors.New("chunker: invalid options")

// Options control chunk sizing, overlap, and the extraction pool.
type Options struct {
	// MaxTokens is the hard upper bound on tokens per chunk.
	MaxTokens int

	// MinTokens is the soft lower bound. Chunks under it are merged into
	// neighbors when the combined text stays within MaxTokens.
	MinTokens int

	// OverlapTokens is the target size of the context excerpt copied from
	// each chunk's predecessor into overlap_text. Zero disables overlap.
	OverlapTokens int

	// Threads is the extraction pool size. Zero means one worker per CPU.
	Threads int

	// BatchSize is the number of pages dispatched to the pool per round.
	// Zero derives it from the worker count.
	BatchSize int

	// EnrichHeadings additionally promotes numbered section lines and short
	// all-caps lines to headings. Promotion only; markdown headings keep
	// their level either way.
	EnrichHeadings bool

	// ExactTokens counts with the cl100k_base codec instead of the embedded
	// vocabulary. Slower to initialize, byte-exact against OpenAI counts.
	ExactTokens bool
}

// DefaultOptions returns the standard chunking configuration.
func DefaultOptions() Options {
	return Options{
		MaxTokens: DefaultMaxTokens,
		MinTokens: DefaultMinTokens,
	}
}

// Validate reports the first option out of range.
func (o Options) Validate() error {
	if o.MaxTokens < 1 {
		return fmt.Errorf("%w: max_tokens must be at least 1, got %d", ErrInvalidOptions, o.MaxTokens)
	}
	if o.MinTokens < 0 {
		return fmt.Errorf("%w: min_tokens must not be negative, got %d", ErrInvalidOptions, o.MinTokens)
	}
	if o.MinTokens > o.MaxTokens {
		return fmt.Errorf("%w: min_tokens %d exceeds max_tokens %d", ErrInvalidOptions, o.MinTokens, o.MaxTokens)
	}
	if o.OverlapTokens < 0 {
		return fmt.Errorf("%w: overlap_tokens must not be negative, got %d", ErrInvalidOptions, o.OverlapTokens)
	}
	if o.OverlapTokens >= o.MaxTokens {
		return fmt.Errorf("%w: overlap_tokens %d must stay below max_tokens %d", ErrInvalidOptions, o.OverlapTokens, o.MaxTokens)
	}
	if o.Threads < 0 {
		return fmt.Errorf("%w: threads must not be negative, got %d", ErrInvalidOptions, o.Threads)
	}
	if o.BatchSize < 0 {
		return fmt.Errorf("%w: batch_size must not be negative, got %d", ErrInvalidOptions, o.BatchSize)
	}
	return nil
}
