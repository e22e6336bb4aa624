package chunker

import (
	"strings"
	"unicode/utf8"
)

// wordSnapWindow is how far byteWindows scans back for a whitespace cut
// before settling for a hard byte boundary.
const wordSnapWindow = 30

// splitOversized cuts every chunk whose exact token count exceeds MaxTokens
// into pieces that fit. Cuts land on line boundaries when possible, then
// sentence boundaries, then whitespace inside byte-sized windows, so the
// pieces concatenate back to the original text byte for byte. Heading flags
// are recomputed per piece from the lines it actually contains.
func (p *pipeline) splitOversized(chunks []Chunk) []Chunk {
	maxTok := p.opts.MaxTokens

	out := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if p.tok.Count(c.Text) <= maxTok {
			out = append(out, c)
			continue
		}
		for _, piece := range p.splitText(c.Text) {
			nc := Chunk{
				Text:       piece,
				TokenCount: p.tok.Count(piece),
				StartPage:  c.StartPage,
				EndPage:    c.EndPage,
			}
			nc.HasMajorHeading, nc.MinHeadingLevel = p.headingMeta(piece)
			out = append(out, nc)
		}
	}
	return out
}

// splitText partitions text into pieces whose exact token counts fit the
// budget. Whole lines are accumulated greedily; a line over budget by
// itself goes through the finer-grained cascade.
func (p *pipeline) splitText(text string) []string {
	maxTok := p.opts.MaxTokens

	var pieces []string
	var acc strings.Builder
	accTokens := 0
	flush := func() {
		if acc.Len() > 0 {
			pieces = append(pieces, acc.String())
			acc.Reset()
			accTokens = 0
		}
	}

	for _, line := range linesWithTerminator(text) {
		lt := p.tok.Count(line)
		if lt > maxTok {
			flush()
			pieces = append(pieces, p.splitFine(line)...)
			continue
		}
		if acc.Len() > 0 && accTokens+lt > maxTok {
			flush()
		}
		acc.WriteString(line)
		accTokens += lt
	}
	flush()

	// Per-line sums can drift from the count of the joined text; re-split
	// any piece the exact count still puts over budget.
	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if p.tok.Count(piece) <= maxTok {
			out = append(out, piece)
			continue
		}
		out = append(out, p.splitFine(piece)...)
	}
	return out
}

// splitFine breaks text that has no usable line boundary. Sentences are cut
// first and repacked greedily; a sentence over budget on its own falls back
// to byte windows.
func (p *pipeline) splitFine(text string) []string {
	maxTok := p.opts.MaxTokens

	var segments []string
	for _, seg := range splitSentences(text) {
		if p.tok.Count(seg) <= maxTok {
			segments = append(segments, seg)
			continue
		}
		segments = append(segments, p.byteWindows(seg)...)
	}

	var pieces []string
	cur := ""
	for _, seg := range segments {
		if cur == "" {
			cur = seg
			continue
		}
		if p.tok.Count(cur+seg) <= maxTok {
			cur += seg
			continue
		}
		pieces = append(pieces, cur)
		cur = seg
	}
	if cur != "" {
		pieces = append(pieces, cur)
	}
	return pieces
}

// splitSentences cuts after sentence-ending punctuation followed by
// whitespace. The punctuation stays with the left part and the whitespace
// opens the right one, so the parts concatenate back exactly.
func splitSentences(s string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(s); i++ {
		switch s[i] {
		case '.', '!', '?':
			switch s[i+1] {
			case ' ', '\t', '\n':
				out = append(out, s[start:i+1])
				start = i + 1
			}
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// byteWindows is the last resort for text with no sentence boundary: carve
// budget-sized windows off the front, shrinking each until its exact count
// fits and preferring to end on whitespace. Windows always advance by at
// least one rune.
func (p *pipeline) byteWindows(s string) []string {
	maxTok := p.opts.MaxTokens

	var out []string
	for len(s) > 0 {
		n := len(s)
		if limit := maxTok * approxBytesPerToken; n > limit {
			n = snapLeft(s, limit)
		}
		for p.tok.Count(s[:n]) > maxTok {
			back := n - overlapTrimStep
			if back < 0 {
				back = 0
			}
			cut := snapLeft(s, back)
			if cut >= n {
				// Already down to a single rune; nothing shorter exists.
				break
			}
			n = cut
		}
		if n < len(s) {
			// A shorter prefix re-tokenizes from scratch, so confirm the
			// snapped cut still fits before taking it.
			if w := lastSpaceCut(s[:n]); w > 0 && p.tok.Count(s[:w]) <= maxTok {
				n = w
			}
		}
		out = append(out, s[:n])
		s = s[n:]
	}
	return out
}

// snapLeft moves n back onto a rune boundary, but never to zero while s has
// content: the first rune is always included whole.
func snapLeft(s string, n int) int {
	if n >= len(s) {
		return len(s)
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	if n == 0 && len(s) > 0 {
		_, size := utf8.DecodeRuneInString(s)
		return size
	}
	return n
}

// lastSpaceCut finds a cut just after the last whitespace near the end of
// the window, or 0 when none is close enough to be worth taking.
func lastSpaceCut(window string) int {
	limit := len(window) - wordSnapWindow
	if limit < 1 {
		limit = 1
	}
	for i := len(window) - 1; i >= limit; i-- {
		switch window[i] {
		case ' ', '\t', '\n':
			return i + 1
		}
	}
	return 0
}

// linesWithTerminator splits text so each element keeps its trailing
// newline. Text not ending in a newline yields a final bare element.
func linesWithTerminator(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			out = append(out, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// headingMeta reclassifies a piece's lines to recover heading metadata after
// a split. Pieces that carry the section heading keep the flag; trailing
// pieces of the same section do not.
func (p *pipeline) headingMeta(text string) (bool, int) {
	hasMajor := false
	minLevel := noHeadingLevel
	for _, line := range strings.Split(text, "\n") {
		kind, level := p.classify(line)
		if kind == lineMajorHeading {
			hasMajor = true
			if level < minLevel {
				minLevel = level
			}
		}
	}
	return hasMajor, minLevel
}
