package chunker

import "unicode/utf8"

const (
	// approxBytesPerToken sizes the raw excerpt before trimming. English
	// prose runs near four bytes per token; five leaves trim headroom.
	approxBytesPerToken = 5

	// overlapTrimStep is how many bytes each trim round removes from the
	// front of an oversized excerpt.
	overlapTrimStep = 10
)

// attachOverlap copies a suffix of each chunk's predecessor into its
// OverlapText. The excerpt starts at roughly OverlapTokens worth of bytes
// and is trimmed from the left until it fits the token target, first in
// 10-byte steps, then byte by byte so the target is never exceeded.
func (p *pipeline) attachOverlap(chunks []Chunk) {
	target := p.opts.OverlapTokens
	if target <= 0 {
		return
	}
	for i := 1; i < len(chunks); i++ {
		excerpt := tailBytes(chunks[i-1].Text, target*approxBytesPerToken)
		for p.tok.Count(excerpt) > target && len(excerpt) > overlapTrimStep {
			excerpt = trimFront(excerpt, overlapTrimStep)
		}
		for p.tok.Count(excerpt) > target && len(excerpt) > 0 {
			excerpt = trimFront(excerpt, 1)
		}
		chunks[i].OverlapText = excerpt
		chunks[i].OverlapTokens = p.tok.Count(excerpt)
	}
}

// tailBytes returns the last n bytes of s, moved forward to the next rune
// boundary so the excerpt never opens mid-character.
func tailBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return snapToRune(s[len(s)-n:])
}

// trimFront removes n bytes from the front, then snaps to a rune boundary.
func trimFront(s string, n int) string {
	if n >= len(s) {
		return ""
	}
	return snapToRune(s[n:])
}

// snapToRune drops leading UTF-8 continuation bytes.
func snapToRune(s string) string {
	for len(s) > 0 && !utf8.RuneStart(s[0]) {
		s = s[1:]
	}
	return s
}
