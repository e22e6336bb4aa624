package ingest

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// parseHTML renders the document body as one page of markdown-shaped text.
// Script, style and page chrome are dropped; headings, paragraphs, list
// items and preformatted blocks keep their roles through the markup the
// annotator recognizes.
func parseHTML(r io.Reader) ([]Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: parse html: %w", err)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if t := strings.TrimSpace(textContent(n)); t != "" {
					b.WriteString(strings.Repeat("#", level) + " " + t + "\n\n")
				}
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "li":
				if t := strings.TrimSpace(textContent(n)); t != "" {
					b.WriteString("- " + t + "\n")
				}
				return
			case "pre":
				writeCode(&b, textContent(n))
				return
			case "p", "blockquote", "td":
				if t := strings.TrimSpace(textContent(n)); t != "" {
					b.WriteString(t + "\n\n")
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	text := strings.TrimRight(b.String(), "\n")
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return []Page{{Number: 0, Text: text}}, nil
}

// writeCode indents every code line four spaces so it classifies as a code
// block downstream.
func writeCode(b *strings.Builder, code string) {
	code = strings.Trim(code, "\n")
	if strings.TrimSpace(code) == "" {
		return
	}
	for _, line := range strings.Split(code, "\n") {
		b.WriteString("    " + line + "\n")
	}
	b.WriteByte('\n')
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// textContent concatenates the text nodes under n, markup stripped.
func textContent(n *html.Node) string {
	var b strings.Builder
	var gather func(*html.Node)
	gather = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			gather(c)
		}
	}
	gather(n)
	return b.String()
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
