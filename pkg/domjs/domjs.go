//go:build js && wasm

// Package domjs renders the filter engine into the live browser document.
package domjs

import (
	"fmt"
	"syscall/js"

	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/model"
)

// Document is the page the engine runs on.
type Document struct {
	doc     js.Value
	items   []js.Value
	buttons map[filter.Facet]map[string]js.Value
}

var _ filter.Surface = (*Document)(nil)

// Current returns the global document.
func Current() *Document {
	d := &Document{
		doc:     js.Global().Get("document"),
		buttons: make(map[filter.Facet]map[string]js.Value),
	}
	for _, f := range filter.Facets {
		d.buttons[f] = make(map[string]js.Value)
	}
	list := d.doc.Call("querySelectorAll", "li."+filter.ClassItem)
	for i := 0; i < list.Length(); i++ {
		d.items = append(d.items, list.Index(i))
	}
	return d
}

func (d *Document) byID(id string) (js.Value, bool) {
	v := d.doc.Call("getElementById", id)
	return v, v.Truthy()
}

// Items returns the list items in document order.
func (d *Document) Items() []js.Value { return d.items }

// Publications reads the records carried by the list items.
func (d *Document) Publications() []model.Publication {
	pubs := make([]model.Publication, 0, len(d.items))
	for _, li := range d.items {
		pubs = append(pubs, model.Publication{
			Key:     attr(li, filter.AttrKey),
			Year:    attr(li, filter.AttrYear),
			Venue:   attr(li, filter.AttrVenue),
			Authors: attr(li, filter.AttrAuthors),
			Title:   attr(li, "title"),
			HTML:    li.Get("innerHTML").String(),
		})
	}
	return pubs
}

// Directory decodes the embedded author directory.
func (d *Document) Directory() (model.Directory, error) {
	n, ok := d.byID(filter.IDDirectory)
	if !ok {
		return model.Directory{}, fmt.Errorf("%w: #%s", filter.ErrMissingContainer, filter.IDDirectory)
	}
	return model.ParseDirectory([]byte(n.Get("textContent").String()))
}

// Heading returns the nouns declared on the heading element.
func (d *Document) Heading() filter.Heading {
	n, ok := d.byID(filter.IDHeading)
	if !ok {
		return filter.Heading{}
	}
	return filter.Heading{
		Singular: attr(n, "data-singular"),
		Plural:   attr(n, "data-plural"),
	}
}

// ResetPanel implements filter.Surface.
func (d *Document) ResetPanel(f filter.Facet) error {
	panel, ok := d.byID(filter.PanelID(f))
	if !ok {
		return filter.MissingContainer(f)
	}
	panel.Set("innerHTML", "")
	d.buttons[f] = make(map[string]js.Value)
	return nil
}

// AddButton implements filter.Surface.
func (d *Document) AddButton(b filter.Button) error {
	panel, ok := d.byID(filter.PanelID(b.Facet))
	if !ok {
		return filter.MissingContainer(b.Facet)
	}
	btn := d.doc.Call("createElement", "button")
	btn.Set("className", filter.ClassButton)
	btn.Call("setAttribute", filter.AttrFacet, b.Facet.String())
	btn.Call("setAttribute", filter.AttrValue, b.Value)
	btn.Call("appendChild", d.doc.Call("createTextNode", b.Label+" "))
	count := d.doc.Call("createElement", "span")
	count.Set("className", filter.ClassCount)
	btn.Call("appendChild", count)
	panel.Call("appendChild", btn)
	panel.Call("appendChild", d.doc.Call("createTextNode", "\n"))
	d.buttons[b.Facet][b.Value] = btn
	return nil
}

// SetItemVisible implements filter.Surface.
func (d *Document) SetItemVisible(i int, visible bool) {
	if i >= 0 && i < len(d.items) {
		d.items[i].Set("hidden", !visible)
	}
}

// SetButtonVisible implements filter.Surface.
func (d *Document) SetButtonVisible(f filter.Facet, value string, visible bool) {
	if n, ok := d.buttons[f][value]; ok {
		n.Set("hidden", !visible)
	}
}

// SetButtonCount implements filter.Surface.
func (d *Document) SetButtonCount(f filter.Facet, value string, label string) {
	n, ok := d.buttons[f][value]
	if !ok {
		return
	}
	if span := n.Call("querySelector", "span."+filter.ClassCount); span.Truthy() {
		span.Set("textContent", label)
	}
}

// SetButtonSelected implements filter.Surface.
func (d *Document) SetButtonSelected(f filter.Facet, value string, selected bool) {
	if n, ok := d.buttons[f][value]; ok {
		n.Get("classList").Call("toggle", filter.ClassSelected, selected)
	}
}

// SetButtonHighlighted implements filter.Surface.
func (d *Document) SetButtonHighlighted(f filter.Facet, value string, on bool) {
	if n, ok := d.buttons[f][value]; ok {
		n.Get("classList").Call("toggle", filter.ClassHighlight, on)
	}
}

// ClearHighlights implements filter.Surface.
func (d *Document) ClearHighlights() {
	for _, panel := range d.buttons {
		for _, n := range panel {
			n.Get("classList").Call("remove", filter.ClassHighlight)
		}
	}
}

// SetHeading implements filter.Surface.
func (d *Document) SetHeading(text string) {
	if n, ok := d.byID(filter.IDHeading); ok {
		n.Set("textContent", text)
	}
}

// Element wraps a DOM element for click resolution.
func Element(v js.Value) filter.Node {
	if !v.Truthy() || v.Get("nodeType").Int() != 1 {
		return nil
	}
	return element{v}
}

type element struct{ v js.Value }

func (e element) Attr(name string) (string, bool) {
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", name).String(), true
}

func (e element) Parent() filter.Node {
	return Element(e.v.Get("parentElement"))
}

func attr(v js.Value, name string) string {
	a := v.Call("getAttribute", name)
	if a.IsNull() {
		return ""
	}
	return a.String()
}
