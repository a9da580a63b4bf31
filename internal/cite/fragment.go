package cite

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vanderheijden86/snolabib/pkg/debug"
)

// Fragment is one <li> of a formatted reference list.
type Fragment struct {
	// URL is the href of the first link in the item.
	URL  string
	Body string
}

// ReadItems parses a reference list fragment. Items without a link are
// skipped; the first item seen for a url wins.
func ReadItems(fragment string) ([]Fragment, error) {
	doc, err := html.Parse(strings.NewReader("<!DOCTYPE html><html><body><ul>" + fragment + "</ul></body></html>"))
	if err != nil {
		return nil, fmt.Errorf("parsing reference list: %w", err)
	}

	var out []Fragment
	seen := make(map[string]bool)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Li {
			href, ok := firstHref(n)
			if !ok {
				debug.Log("cite: no url for item %q", textOf(n))
				return
			}
			if !seen[href] {
				seen[href] = true
				out = append(out, Fragment{URL: href, Body: inner(n)})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func firstHref(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		for _, a := range n.Attr {
			if a.Key == "href" {
				return a.Val, true
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if href, ok := firstHref(c); ok {
			return href, true
		}
	}
	return "", false
}

func inner(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return strings.TrimSpace(buf.String())
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return strings.TrimSpace(b.String())
}
