package filter

import (
	"fmt"
	"strings"
)

// Heading holds the count noun used by the summary heading.
type Heading struct {
	Singular string
	Plural   string
}

// DefaultHeading is used when no nouns are configured.
var DefaultHeading = Heading{Singular: "publication", Plural: "publications"}

// Text renders the heading for n visible publications.
func (h Heading) Text(n int) string {
	noun := h.Plural
	if n == 1 {
		noun = h.Singular
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// CountLabel renders a button count: "(visible/total)" while filtering,
// "(total)" otherwise.
func CountLabel(active bool, visible, total int) string {
	if active {
		return fmt.Sprintf("(%d/%d)", visible, total)
	}
	return fmt.Sprintf("(%d)", total)
}

// render writes r onto s. It touches nothing but the surface.
func (e *Engine) render(r Result) {
	s := e.surface
	for i, v := range r.Visible {
		s.SetItemVisible(i, v)
	}

	active := e.state.Active()
	for _, f := range Facets {
		for _, b := range e.panels[f] {
			visible := r.Counts.Get(f, b.Value)
			shown := !active || visible > 0
			s.SetButtonVisible(f, b.Value, shown)
			if shown {
				s.SetButtonCount(f, b.Value, CountLabel(active, visible, b.Total))
			}
		}
	}

	s.SetHeading(e.heading.Text(r.Total))
}

// highlightTargets lists the buttons related to publication i: its year, its
// venue, and every author button whose id occurs in the raw authors string.
func (e *Engine) highlightTargets(i int) []Button {
	p := e.pubs[i]
	var out []Button
	for _, f := range Facets {
		for _, b := range e.panels[f] {
			switch f {
			case Year:
				if b.Value == p.Year {
					out = append(out, b)
				}
			case Venue:
				if b.Value == p.Venue {
					out = append(out, b)
				}
			case Author:
				if strings.Contains(p.Authors, b.Value) {
					out = append(out, b)
				}
			}
		}
	}
	return out
}
