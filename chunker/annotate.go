package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lineType classifies a source line for grouping decisions.
type lineType int

const (
	lineNormal lineType = iota
	lineBlank
	lineMajorHeading
	lineMinorHeading
	lineListItem
	lineCodeBlock
)

// majorLevelCutoff is the deepest markdown level still treated as a major
// heading. # and ## open new document sections; ### and below subdivide.
const majorLevelCutoff = 2

var (
	headingRe      = regexp.MustCompile(`^(#+)\s+(.+)$`)
	bulletItemRe   = regexp.MustCompile(`^\s*[-*+•]\s+.+$`)
	numberedItemRe = regexp.MustCompile(`^\s*\d+\.\s+.+$`)

	// Enrichment signals: "3.2 Results" style section numbers and short
	// shouted lines. Dotted leaders mark table-of-contents rows, which look
	// like sections but are navigation, not structure.
	numberedHeadingRe = regexp.MustCompile(`^\d+(\.\d+)*\s+[A-Z]`)
)

// annotatedLine is one source line with its classification and token cost.
// The token count includes the terminating newline the line contributes to
// chunk text, so unit and chunk budgets add up.
type annotatedLine struct {
	text         string
	kind         lineType
	headingLevel int
	pageNumber   int
	tokenCount   int
}

func (l annotatedLine) isHeading() bool {
	return l.kind == lineMajorHeading || l.kind == lineMinorHeading
}

// annotate flattens pages into classified lines. Pages with no text at all
// are dropped; their numbers never reach chunk ranges.
func (p *pipeline) annotate(pages []PageText) []annotatedLine {
	var lines []annotatedLine
	for _, page := range pages {
		if page.Text == "" {
			continue
		}
		raw := strings.Split(page.Text, "\n")
		if n := len(raw); n > 0 && raw[n-1] == "" {
			raw = raw[:n-1]
		}
		for _, text := range raw {
			kind, level := p.classify(text)
			lines = append(lines, annotatedLine{
				text:         text,
				kind:         kind,
				headingLevel: level,
				pageNumber:   page.Number,
				tokenCount:   p.tok.Count(text + "\n"),
			})
		}
	}
	return lines
}

// classify orders checks from most to least specific: blank, markdown
// heading, list item, code, normal. Enrichment may then promote a normal
// line; it never demotes a recognized one.
func (p *pipeline) classify(text string) (lineType, int) {
	if strings.TrimSpace(text) == "" {
		return lineBlank, 0
	}
	if m := headingRe.FindStringSubmatch(text); m != nil {
		level := len(m[1])
		if level <= majorLevelCutoff {
			return lineMajorHeading, level
		}
		return lineMinorHeading, level
	}
	if bulletItemRe.MatchString(text) || numberedItemRe.MatchString(text) {
		return lineListItem, 0
	}
	if strings.Contains(text, "```") || strings.HasPrefix(text, "  ") {
		return lineCodeBlock, 0
	}
	if p.opts.EnrichHeadings {
		if kind, level, ok := enrichHeading(text); ok {
			return kind, level
		}
	}
	return lineNormal, 0
}

// enrichHeading recognizes headings that lost their markup during PDF
// extraction. Numbered sections and shouted lines are promoted to level 2;
// table-of-contents rows are left alone.
func enrichHeading(text string) (lineType, int, bool) {
	if strings.Contains(text, "....") || strings.Contains(text, ". . .") {
		return lineNormal, 0, false
	}
	if numberedHeadingRe.MatchString(text) {
		return lineMajorHeading, majorLevelCutoff, true
	}
	if isShoutedLine(text) {
		return lineMajorHeading, majorLevelCutoff, true
	}
	return lineNormal, 0, false
}

// isShoutedLine reports short lines written mostly in capitals, the usual
// rendering of chapter titles in extracted PDF text.
func isShoutedLine(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < 3 || n > 100 {
		return false
	}
	upper := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) > float64(n)*0.7
}
