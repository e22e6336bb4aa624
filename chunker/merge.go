package chunker

// maxMergeOvershoot lets a merge run slightly past MaxTokens when it absorbs
// a fragment under half the minimum. The splitter restores the hard bound
// afterwards.
const maxMergeOvershoot = 1.1

// mergeSmall grows chunks under MinTokens by absorbing successors. A merge
// is allowed when the combined count fits MaxTokens, or overshoots by at
// most ten percent while the absorbed chunk is under half the minimum. A
// successor that opens a major section stays separate once the current
// chunk has reached half the minimum, whatever the sizes say.
func (p *pipeline) mergeSmall(chunks []Chunk) []Chunk {
	if len(chunks) < 2 {
		return chunks
	}
	minTok, maxTok := p.opts.MinTokens, p.opts.MaxTokens

	out := make([]Chunk, 0, len(chunks))
	i := 0
	for i < len(chunks) {
		cur := chunks[i]
		for cur.TokenCount < minTok && i+1 < len(chunks) {
			next := chunks[i+1]
			combined := cur.TokenCount + next.TokenCount

			allowed := combined <= maxTok ||
				(float64(combined) <= float64(maxTok)*maxMergeOvershoot && next.TokenCount < minTok/2)
			if next.HasMajorHeading && next.MinHeadingLevel <= majorLevelCutoff && cur.TokenCount >= minTok/2 {
				allowed = false
			}
			if !allowed {
				break
			}
			mergeInto(&cur, next)
			i++
		}
		out = append(out, cur)
		i++
	}
	return out
}

// mergeInto appends next's text and range onto c. Token counts are summed;
// passes that need exact figures recount afterwards.
func mergeInto(c *Chunk, next Chunk) {
	c.Text += next.Text
	c.TokenCount += next.TokenCount
	c.EndPage = next.EndPage
	if next.HasMajorHeading {
		c.HasMajorHeading = true
		if next.MinHeadingLevel < c.MinHeadingLevel {
			c.MinHeadingLevel = next.MinHeadingLevel
		}
	}
}
