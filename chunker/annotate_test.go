package chunker

import "testing"

func TestClassify_LineKinds(t *testing.T) {
	p := newBytePipeline(DefaultOptions())

	cases := []struct {
		name  string
		text  string
		kind  lineType
		level int
	}{
		{"h1", "# Title", lineMajorHeading, 1},
		{"h2", "## Section", lineMajorHeading, 2},
		{"h3", "### Subsection", lineMinorHeading, 3},
		{"h6", "###### Fine print", lineMinorHeading, 6},
		{"hash without space", "#hashtag", lineNormal, 0},
		{"bullet dash", "- item", lineListItem, 0},
		{"bullet star", "* item", lineListItem, 0},
		{"bullet indented", "  - nested item", lineListItem, 0},
		{"numbered item", "1. first step", lineListItem, 0},
		{"fence", "```go", lineCodeBlock, 0},
		{"indented code", "  x := 1", lineCodeBlock, 0},
		{"empty", "", lineBlank, 0},
		{"spaces only", " \t ", lineBlank, 0},
		{"prose", "Plain prose line.", lineNormal, 0},
		{"numbered section off", "3.2 Results", lineNormal, 0},
		{"shouted off", "TABLE OF CONTENTS", lineNormal, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, level := p.classify(tc.text)
			if kind != tc.kind {
				t.Errorf("classify(%q): expected kind %d, got %d", tc.text, tc.kind, kind)
			}
			if level != tc.level {
				t.Errorf("classify(%q): expected level %d, got %d", tc.text, tc.level, level)
			}
		})
	}
}

func TestClassify_EnrichedHeadings(t *testing.T) {
	opts := DefaultOptions()
	opts.EnrichHeadings = true
	p := newBytePipeline(opts)

	cases := []struct {
		name  string
		text  string
		kind  lineType
		level int
	}{
		{"numbered section", "3.2 Results", lineMajorHeading, 2},
		{"deep numbered section", "1.4.2 Boundary Cases", lineMajorHeading, 2},
		{"shouted", "TABLE OF CONTENTS", lineMajorHeading, 2},
		{"toc dotted leader", "3.2 Results ........ 41", lineNormal, 0},
		{"toc spaced leader", "Appendix . . . . 90", lineNormal, 0},
		{"too short to shout", "IO", lineNormal, 0},
		{"mostly lowercase", "Results for 3.2 follow", lineNormal, 0},
		{"markdown keeps its level", "### DETAILS", lineMinorHeading, 3},
		{"numbered list stays a list", "1. FIRST STEP", lineListItem, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, level := p.classify(tc.text)
			if kind != tc.kind {
				t.Errorf("classify(%q): expected kind %d, got %d", tc.text, tc.kind, kind)
			}
			if level != tc.level {
				t.Errorf("classify(%q): expected level %d, got %d", tc.text, tc.level, level)
			}
		})
	}
}

func TestAnnotate_CountsIncludeLineTerminator(t *testing.T) {
	p := newBytePipeline(DefaultOptions())
	lines := p.annotate([]PageText{{Number: 0, Text: "ab\ncd\n"}})

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if ln.tokenCount != 3 {
			t.Errorf("line %d: expected 3 tokens for text plus newline, got %d", i, ln.tokenCount)
		}
	}
}

func TestAnnotate_LastLineWithoutNewline(t *testing.T) {
	p := newBytePipeline(DefaultOptions())
	lines := p.annotate([]PageText{{Number: 0, Text: "ab\ncd"}})

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1].text != "cd" {
		t.Errorf("expected final line %q, got %q", "cd", lines[1].text)
	}
	if lines[1].tokenCount != 3 {
		t.Errorf("expected 3 tokens including the terminator it will gain, got %d", lines[1].tokenCount)
	}
}

func TestAnnotate_SkipsTextlessPages(t *testing.T) {
	p := newBytePipeline(DefaultOptions())
	lines := p.annotate([]PageText{
		{Number: 0, Text: ""},
		{Number: 3, Text: "only page with text\n"},
	})

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].pageNumber != 3 {
		t.Errorf("expected page number 3, got %d", lines[0].pageNumber)
	}
}

func TestIsShoutedLine(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"CHAPTER ONE", true},
		{"REFERENCES", true},
		{"Chapter One", false},
		{"AB", false},
		{"A FEW CAPS in a longer mixed line", false},
	}
	for _, tc := range cases {
		if got := isShoutedLine(tc.text); got != tc.want {
			t.Errorf("isShoutedLine(%q): expected %v, got %v", tc.text, tc.want, got)
		}
	}
}
