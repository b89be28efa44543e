// Package htmldoc extracts the parts of an HTML document the search
// engine cares about: the title, the visible plain text, and outbound
// links. It is shared by the indexing engine (text), the crawler
// (links) and the search engine (title and snippet text).
package htmldoc

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Document holds the extracted content of one HTML page.
//
// Design decision: We return a single result struct from one parsing
// pass rather than separate title/text/link functions, because every
// caller that needs one field usually needs another and the DOM walk is
// the expensive part.
type Document struct {
	// Title is the text of the <title> element, empty when absent.
	Title string

	// Text is the visible text content with whitespace collapsed to
	// single spaces, the way a browser would render it for selection.
	// Script, style and comment content is excluded.
	Text string

	// Links are the href targets of <a> elements, resolved against the
	// page URL. Non-navigational schemes (javascript:, mailto:, tel:,
	// data:) are dropped.
	Links []string
}

// Parse extracts the document content from r. pageURL is used to
// resolve relative links.
//
// golang.org/x/net/html never fails on malformed markup, it produces a
// best-effort tree, so real-web pages with broken HTML still index.
func Parse(pageURL string, r io.Reader) (*Document, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	var text strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return // invisible content
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode && doc.Title == "" {
					doc.Title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			case "a":
				if href := resolveLink(base, attr(n, "href")); href != "" {
					doc.Links = append(doc.Links, href)
				}
			}
		case html.TextNode:
			text.WriteString(n.Data)
			text.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	doc.Text = strings.Join(strings.Fields(text.String()), " ")
	return doc, nil
}

// resolveLink resolves href against base, dropping non-navigational
// targets.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

// attr retrieves an attribute value from an HTML node.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
