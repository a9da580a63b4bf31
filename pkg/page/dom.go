package page

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/model"
)

// DOM is a parsed page that the filter engine can render into.
type DOM struct {
	doc     *html.Node
	byID    map[string]*html.Node
	items   []*html.Node
	buttons map[filter.Facet]map[string]*html.Node
}

var _ filter.Surface = (*DOM)(nil)

// ParseDOM parses a page.
func ParseDOM(r io.Reader) (*DOM, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	d := &DOM{
		doc:     doc,
		byID:    make(map[string]*html.Node),
		buttons: make(map[filter.Facet]map[string]*html.Node),
	}
	for _, f := range filter.Facets {
		d.buttons[f] = make(map[string]*html.Node)
	}
	d.index(doc)
	return d, nil
}

func (d *DOM) index(n *html.Node) {
	if n.Type == html.ElementNode {
		if id, ok := attr(n, "id"); ok {
			d.byID[id] = n
		}
		if n.DataAtom == atom.Li && hasClass(n, filter.ClassItem) {
			d.items = append(d.items, n)
		}
		if n.DataAtom == atom.Button && hasClass(n, filter.ClassButton) {
			role, _ := attr(n, filter.AttrFacet)
			v, vok := attr(n, filter.AttrValue)
			if f, ok := filter.ParseFacet(role); ok && vok {
				d.buttons[f][v] = n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.index(c)
	}
}

// Publications reads the publication records carried by the list items, in
// document order.
func (d *DOM) Publications() []model.Publication {
	pubs := make([]model.Publication, 0, len(d.items))
	for _, li := range d.items {
		key, _ := attr(li, filter.AttrKey)
		year, _ := attr(li, filter.AttrYear)
		venue, _ := attr(li, filter.AttrVenue)
		authors, _ := attr(li, filter.AttrAuthors)
		title, _ := attr(li, "title")
		pubs = append(pubs, model.Publication{
			Key:     key,
			Year:    year,
			Venue:   venue,
			Authors: authors,
			Title:   title,
			HTML:    innerHTML(li),
		})
	}
	return pubs
}

// Directory decodes the embedded author directory.
func (d *DOM) Directory() (model.Directory, error) {
	n, ok := d.byID[filter.IDDirectory]
	if !ok {
		return model.Directory{}, fmt.Errorf("%w: #%s", filter.ErrMissingContainer, filter.IDDirectory)
	}
	return model.ParseDirectory([]byte(textContent(n)))
}

// Heading returns the nouns declared on the heading element. Missing values
// are left empty for filter.WithHeading to fill in.
func (d *DOM) Heading() filter.Heading {
	n, ok := d.byID[filter.IDHeading]
	if !ok {
		return filter.Heading{}
	}
	s, _ := attr(n, "data-singular")
	p, _ := attr(n, "data-plural")
	return filter.Heading{Singular: s, Plural: p}
}

// SetHeadingNouns rewrites the nouns declared on the heading element.
func (d *DOM) SetHeadingNouns(h filter.Heading) {
	n, ok := d.byID[filter.IDHeading]
	if !ok {
		return
	}
	if h.Singular != "" {
		setAttr(n, "data-singular", h.Singular)
	}
	if h.Plural != "" {
		setAttr(n, "data-plural", h.Plural)
	}
}

// Button returns the element of a facet button.
func (d *DOM) Button(f filter.Facet, value string) (*html.Node, bool) {
	n, ok := d.buttons[f][value]
	return n, ok
}

// Element wraps n for click resolution.
func Element(n *html.Node) filter.Node {
	if n == nil {
		return nil
	}
	return element{n}
}

type element struct{ n *html.Node }

func (e element) Attr(name string) (string, bool) { return attr(e.n, name) }

func (e element) Parent() filter.Node {
	p := e.n.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return element{p}
}

// Render serializes the document.
func (d *DOM) Render(w io.Writer) error {
	return html.Render(w, d.doc)
}

// String serializes the document, returning "" on failure.
func (d *DOM) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// ResetPanel implements filter.Surface.
func (d *DOM) ResetPanel(f filter.Facet) error {
	panel, ok := d.byID[filter.PanelID(f)]
	if !ok {
		return filter.MissingContainer(f)
	}
	for c := panel.FirstChild; c != nil; {
		next := c.NextSibling
		panel.RemoveChild(c)
		c = next
	}
	d.buttons[f] = make(map[string]*html.Node)
	return nil
}

// AddButton implements filter.Surface.
func (d *DOM) AddButton(b filter.Button) error {
	panel, ok := d.byID[filter.PanelID(b.Facet)]
	if !ok {
		return filter.MissingContainer(b.Facet)
	}
	btn := &html.Node{
		Type:     html.ElementNode,
		Data:     "button",
		DataAtom: atom.Button,
		Attr: []html.Attribute{
			{Key: "class", Val: filter.ClassButton},
			{Key: filter.AttrFacet, Val: b.Facet.String()},
			{Key: filter.AttrValue, Val: b.Value},
		},
	}
	btn.AppendChild(&html.Node{Type: html.TextNode, Data: b.Label + " "})
	btn.AppendChild(&html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr:     []html.Attribute{{Key: "class", Val: filter.ClassCount}},
	})
	panel.AppendChild(btn)
	panel.AppendChild(&html.Node{Type: html.TextNode, Data: "\n"})
	d.buttons[b.Facet][b.Value] = btn
	return nil
}

// SetItemVisible implements filter.Surface.
func (d *DOM) SetItemVisible(i int, visible bool) {
	if i < 0 || i >= len(d.items) {
		return
	}
	setHidden(d.items[i], !visible)
}

// SetButtonVisible implements filter.Surface.
func (d *DOM) SetButtonVisible(f filter.Facet, value string, visible bool) {
	if n, ok := d.buttons[f][value]; ok {
		setHidden(n, !visible)
	}
}

// SetButtonCount implements filter.Surface.
func (d *DOM) SetButtonCount(f filter.Facet, value string, label string) {
	n, ok := d.buttons[f][value]
	if !ok {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Span && hasClass(c, filter.ClassCount) {
			setText(c, label)
			return
		}
	}
}

// SetButtonSelected implements filter.Surface.
func (d *DOM) SetButtonSelected(f filter.Facet, value string, selected bool) {
	if n, ok := d.buttons[f][value]; ok {
		setClass(n, filter.ClassSelected, selected)
	}
}

// SetButtonHighlighted implements filter.Surface.
func (d *DOM) SetButtonHighlighted(f filter.Facet, value string, on bool) {
	if n, ok := d.buttons[f][value]; ok {
		setClass(n, filter.ClassHighlight, on)
	}
}

// ClearHighlights implements filter.Surface.
func (d *DOM) ClearHighlights() {
	for _, panel := range d.buttons {
		for _, n := range panel {
			setClass(n, filter.ClassHighlight, false)
		}
	}
}

// SetHeading implements filter.Surface.
func (d *DOM) SetHeading(text string) {
	if n, ok := d.byID[filter.IDHeading]; ok {
		setText(n, text)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

func setHidden(n *html.Node, hidden bool) {
	if hidden {
		setAttr(n, "hidden", "")
	} else {
		removeAttr(n, "hidden")
	}
}

func classes(n *html.Node) []string {
	v, _ := attr(n, "class")
	return strings.Fields(v)
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

func setClass(n *html.Node, class string, on bool) {
	var out []string
	for _, c := range classes(n) {
		if c != class {
			out = append(out, c)
		}
	}
	if on {
		out = append(out, class)
	}
	setAttr(n, "class", strings.Join(out, " "))
}

func setText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return strings.TrimSpace(buf.String())
}
