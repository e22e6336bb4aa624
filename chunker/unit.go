package chunker

import "strings"

// noHeadingLevel is the sentinel for units and chunks that carry no major
// heading. It survives into output metadata unchanged.
const noHeadingLevel = 999

// semanticUnit is a run of lines that belongs together: a heading and the
// prose under it, a list, a code block. Units are the atoms the assembler
// packs; they are never split by it.
type semanticUnit struct {
	lines           []annotatedLine
	tokenCount      int
	firstPage       int
	lastPage        int
	hasMajorHeading bool
	minHeadingLevel int
}

func (u *semanticUnit) add(ln annotatedLine) {
	if len(u.lines) == 0 {
		u.firstPage = ln.pageNumber
	}
	u.lines = append(u.lines, ln)
	u.lastPage = ln.pageNumber
	u.tokenCount += ln.tokenCount
	if ln.kind == lineMajorHeading {
		u.hasMajorHeading = true
		if ln.headingLevel < u.minHeadingLevel {
			u.minHeadingLevel = ln.headingLevel
		}
	}
}

// text renders the unit's lines, each with its terminating newline.
func (u *semanticUnit) text() string {
	var b strings.Builder
	for _, ln := range u.lines {
		b.WriteString(ln.text)
		b.WriteByte('\n')
	}
	return b.String()
}

// group folds annotated lines into semantic units. A heading always opens a
// new unit; a blank line does too when a heading follows it, so the heading
// is not glued to the previous section's trailing prose. Blank lines at the
// start of a unit are dropped.
func (p *pipeline) group(lines []annotatedLine) []semanticUnit {
	var units []semanticUnit
	cur := semanticUnit{minHeadingLevel: noHeadingLevel}

	flush := func() {
		if len(cur.lines) > 0 {
			units = append(units, cur)
			cur = semanticUnit{minHeadingLevel: noHeadingLevel}
		}
	}

	for i, ln := range lines {
		switch {
		case ln.isHeading():
			flush()
		case ln.kind == lineBlank && i+1 < len(lines) && lines[i+1].isHeading():
			flush()
		}
		if ln.kind == lineBlank && len(cur.lines) == 0 {
			continue
		}
		cur.add(ln)
	}
	flush()
	return units
}
