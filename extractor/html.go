package extractor

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLExtractor reduces a page to its readable content. Boilerplate
// containers are removed from the tree before traversal so their text
// never leaks into the output, then the traversal root is narrowed to the
// most content-like element available.
type HTMLExtractor struct{}

func (e *HTMLExtractor) MIMETypes() []string { return []string{"text/html"} }

// strippedAtoms are non-content elements removed before extraction.
var strippedAtoms = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Nav:      true,
	atom.Footer:   true,
	atom.Header:   true,
	atom.Aside:    true,
	atom.Noscript: true,
}

func (e *HTMLExtractor) Extract(ctx context.Context, data []byte, filename string) (*Result, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		// Lossy but crash-proof degradation: strip tags and collapse
		// whitespace.
		return &Result{Text: stripTags(data)}, nil
	}

	stripBoilerplate(doc)
	root := contentRoot(doc)

	var lines []string
	walkNodes(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			// Heading depth is discarded on purpose; downstream chunkers
			// only need the boundary.
			if t := nodeText(n); t != "" {
				lines = append(lines, "\n## "+t+"\n")
			}
		case atom.P:
			if t := nodeText(n); t != "" {
				lines = append(lines, t)
			}
		case atom.Li:
			if t := nodeText(n); t != "" {
				lines = append(lines, "• "+t)
			}
		case atom.Td, atom.Th:
			if t := nodeText(n); t != "" {
				lines = append(lines, t)
			}
		}
	})

	return &Result{Text: collapseBlankLines(strings.Join(lines, "\n"))}, nil
}

// stripBoilerplate removes non-content subtrees in place.
func stripBoilerplate(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.ElementNode && strippedAtoms[c.DataAtom] {
			n.RemoveChild(c)
			continue
		}
		stripBoilerplate(c)
	}
}

// contentRoot narrows traversal to the first of article, main, or body,
// falling back to the whole document. Best-effort main-content heuristic.
func contentRoot(doc *html.Node) *html.Node {
	for _, a := range []atom.Atom{atom.Article, atom.Main, atom.Body} {
		if n := findElement(doc, a); n != nil {
			return n
		}
	}
	return doc
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// walkNodes visits every node of the subtree in document order.
func walkNodes(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkNodes(c, visit)
	}
}

// nodeText returns the subtree's text with runs of whitespace collapsed
// to single spaces.
func nodeText(n *html.Node) string {
	var b strings.Builder
	walkNodes(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteString(" ")
		}
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// collapseBlankLines squeezes consecutive blank lines down to one.
func collapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	prevBlank := false
	for _, line := range lines {
		blank := strings.TrimSpace(line) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, line)
		prevBlank = blank
	}
	return strings.Join(out, "\n")
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// stripTags is the fallback extraction: replace every tag with a space and
// collapse whitespace.
func stripTags(data []byte) string {
	text := tagPattern.ReplaceAllString(string(data), " ")
	return strings.Join(strings.Fields(text), " ")
}
