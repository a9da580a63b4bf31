package page

import (
	"fmt"
	"io"
	"strings"

	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/metrics"
)

// Selection is a preselected facet value, written "facet=value".
type Selection struct {
	Facet filter.Facet
	Value string
}

// ParseSelection parses "year=2021", "venue=conf/icse" or "author=50/5454".
func ParseSelection(s string) (Selection, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || value == "" {
		return Selection{}, fmt.Errorf("selection %q: want facet=value", s)
	}
	f, ok := filter.ParseFacet(strings.TrimSpace(name))
	if !ok {
		return Selection{}, fmt.Errorf("selection %q: unknown facet %q", s, name)
	}
	return Selection{Facet: f, Value: value}, nil
}

// Options controls pre-rendering.
type Options struct {
	// Heading overrides the nouns declared by the page.
	Heading filter.Heading
	// Select is applied in order, as if each button were clicked.
	Select []Selection
}

// Mount builds an engine from the records in d and renders it onto d.
func Mount(d *DOM, opts Options) (*filter.Engine, error) {
	dir, err := d.Directory()
	if err != nil {
		return nil, err
	}
	d.SetHeadingNouns(opts.Heading)

	e := filter.New(d.Publications(), dir, filter.WithHeading(d.Heading()))
	if err := e.Mount(d); err != nil {
		return nil, err
	}
	for _, sel := range opts.Select {
		if !e.Press(sel.Facet, sel.Value) {
			return nil, fmt.Errorf("no %s button for %q", sel.Facet, sel.Value)
		}
	}
	return e, nil
}

// Prerender reads a page, populates its filter panels, runs the initial pass
// and writes the result.
func Prerender(r io.Reader, w io.Writer, opts Options) (*filter.Engine, error) {
	defer metrics.Timer(metrics.PageAssembly)()
	d, err := ParseDOM(r)
	if err != nil {
		return nil, err
	}
	e, err := Mount(d, opts)
	if err != nil {
		return nil, err
	}
	if err := d.Render(w); err != nil {
		return nil, fmt.Errorf("writing page: %w", err)
	}
	return e, nil
}
