package chunker

import (
	"slices"

	"github.com/pagesmith/pdfchunk/tokenizer"
)

// pipeline carries one run's options and token counter through the passes.
// Each run builds its own so SetOptions on the owning Chunker cannot change
// sizing mid-document.
type pipeline struct {
	opts Options
	tok  tokenizer.Counter
}

// run executes the pass sequence: annotate, group, assemble, overlap,
// merge, split, finalize. Pages are ordered by number first; extraction
// delivers them sorted, but ChunkPages callers may not.
func (p *pipeline) run(pages []PageText) []Chunk {
	ordered := slices.Clone(pages)
	slices.SortStableFunc(ordered, func(a, b PageText) int { return a.Number - b.Number })

	lines := p.annotate(ordered)
	units := p.group(lines)
	chunks := p.assemble(units)
	p.attachOverlap(chunks)
	chunks = p.mergeSmall(chunks)
	chunks = p.splitOversized(chunks)
	chunks = p.finalize(chunks)
	p.settle(chunks)
	return chunks
}
