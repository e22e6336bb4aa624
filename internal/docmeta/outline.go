package docmeta

import (
	"regexp"
	"strings"

	"github.com/pagesmith/pdfchunk/internal/extract"
)

// Heading is one outline entry. Path holds the titles of the sections it
// sits under, shallowest first.
type Heading struct {
	Text  string   `json:"text"`
	Level int      `json:"level"`
	Page  int      `json:"page"`
	Path  []string `json:"path,omitempty"`
}

var outlineHeadingRe = regexp.MustCompile(`^(#+)\s+(.+)$`)

// Outline collects the document's heading structure from extracted pages.
// A stack of open sections turns the flat line sequence into breadcrumb
// paths: a level-k heading closes every open section at level k or deeper
// before going on the stack itself.
func Outline(pages []extract.PageResult) []Heading {
	var out []Heading
	var stack []Heading

	for _, pr := range pages {
		if pr.Failed() {
			continue
		}
		for _, line := range strings.Split(pr.Text(), "\n") {
			m := outlineHeadingRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			level := len(m[1])
			for len(stack) > 0 && stack[len(stack)-1].Level >= level {
				stack = stack[:len(stack)-1]
			}
			path := make([]string, 0, len(stack))
			for _, open := range stack {
				path = append(path, open.Text)
			}
			h := Heading{
				Text:  strings.TrimSpace(m[2]),
				Level: level,
				Page:  pr.PageNumber,
				Path:  path,
			}
			out = append(out, h)
			stack = append(stack, h)
		}
	}
	return out
}
