package chunker

// finalize is the strict settling pass: every remaining under-minimum chunk
// merges forward while the exact count of the joined text fits MaxTokens,
// then gets one chance to fold backward into its predecessor. All size
// checks here recount the actual concatenation, so the hard bound holds on
// final text, not on intermediate sums.
func (p *pipeline) finalize(chunks []Chunk) []Chunk {
	if len(chunks) == 0 {
		return chunks
	}
	minTok, maxTok := p.opts.MinTokens, p.opts.MaxTokens

	var out []Chunk
	i := 0
	for i < len(chunks) {
		cur := chunks[i]
		cur.TokenCount = p.tok.Count(cur.Text)

		for cur.TokenCount < minTok && i+1 < len(chunks) {
			next := chunks[i+1]
			joined := p.tok.Count(cur.Text + next.Text)
			if joined > maxTok {
				break
			}
			mergeInto(&cur, next)
			cur.TokenCount = joined
			i++
		}

		if cur.TokenCount < minTok && len(out) > 0 {
			prev := &out[len(out)-1]
			if joined := p.tok.Count(prev.Text + cur.Text); joined <= maxTok {
				mergeInto(prev, cur)
				prev.TokenCount = joined
				i++
				continue
			}
		}

		out = append(out, cur)
		i++
	}
	return out
}

// settle recounts every chunk from its final text and rebuilds overlap
// excerpts, so emitted figures and suffixes refer to what merging and
// splitting actually left behind.
func (p *pipeline) settle(chunks []Chunk) {
	for i := range chunks {
		chunks[i].TokenCount = p.tok.Count(chunks[i].Text)
		chunks[i].OverlapText = ""
		chunks[i].OverlapTokens = 0
	}
	p.attachOverlap(chunks)
}
