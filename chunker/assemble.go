package chunker

// assemble greedily packs units into chunks under the token budget. A unit
// that is itself over budget still becomes a chunk here; the splitter deals
// with it after merging.
func (p *pipeline) assemble(units []semanticUnit) []Chunk {
	var chunks []Chunk
	cur := newChunk()

	for _, u := range units {
		if cur.Text != "" && cur.TokenCount+u.tokenCount > p.opts.MaxTokens {
			chunks = append(chunks, cur)
			cur = newChunk()
		}
		appendUnit(&cur, u)
	}
	if cur.Text != "" {
		chunks = append(chunks, cur)
	}
	return chunks
}

func newChunk() Chunk {
	return Chunk{StartPage: -1, MinHeadingLevel: noHeadingLevel}
}

func appendUnit(c *Chunk, u semanticUnit) {
	if c.StartPage == -1 {
		c.StartPage = u.firstPage
	}
	c.EndPage = u.lastPage
	c.Text += u.text()
	c.TokenCount += u.tokenCount
	if u.hasMajorHeading {
		c.HasMajorHeading = true
		if u.minHeadingLevel < c.MinHeadingLevel {
			c.MinHeadingLevel = u.minHeadingLevel
		}
	}
}
