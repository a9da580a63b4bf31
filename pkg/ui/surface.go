package ui

import (
	"github.com/vanderheijden86/snolabib/pkg/filter"
)

// button is the terminal rendition of a facet button.
type button struct {
	filter.Button
	count       string
	visible     bool
	selected    bool
	highlighted bool
}

// Surface keeps the render state the engine writes and the view reads.
type Surface struct {
	panels  map[filter.Facet][]*button
	index   map[filter.Facet]map[string]*button
	items   []bool
	heading string
}

var _ filter.Surface = (*Surface)(nil)

// NewSurface creates a surface for n publications, all visible.
func NewSurface(n int) *Surface {
	s := &Surface{
		panels: make(map[filter.Facet][]*button),
		index:  make(map[filter.Facet]map[string]*button),
		items:  make([]bool, n),
	}
	for i := range s.items {
		s.items[i] = true
	}
	for _, f := range filter.Facets {
		s.index[f] = make(map[string]*button)
	}
	return s
}

func (s *Surface) ResetPanel(f filter.Facet) error {
	s.panels[f] = nil
	s.index[f] = make(map[string]*button)
	return nil
}

func (s *Surface) AddButton(b filter.Button) error {
	btn := &button{Button: b, visible: true}
	s.panels[b.Facet] = append(s.panels[b.Facet], btn)
	s.index[b.Facet][b.Value] = btn
	return nil
}

func (s *Surface) SetItemVisible(i int, visible bool) {
	if i >= 0 && i < len(s.items) {
		s.items[i] = visible
	}
}

func (s *Surface) SetButtonVisible(f filter.Facet, value string, visible bool) {
	if b, ok := s.index[f][value]; ok {
		b.visible = visible
	}
}

func (s *Surface) SetButtonCount(f filter.Facet, value string, label string) {
	if b, ok := s.index[f][value]; ok {
		b.count = label
	}
}

func (s *Surface) SetButtonSelected(f filter.Facet, value string, selected bool) {
	if b, ok := s.index[f][value]; ok {
		b.selected = selected
	}
}

func (s *Surface) SetButtonHighlighted(f filter.Facet, value string, on bool) {
	if b, ok := s.index[f][value]; ok {
		b.highlighted = on
	}
}

func (s *Surface) ClearHighlights() {
	for _, panel := range s.panels {
		for _, b := range panel {
			b.highlighted = false
		}
	}
}

func (s *Surface) SetHeading(text string) { s.heading = text }

// Heading returns the current heading text.
func (s *Surface) Heading() string { return s.heading }

// VisibleItems returns the indexes of visible publications in order.
func (s *Surface) VisibleItems() []int {
	var out []int
	for i, v := range s.items {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// visibleButtons returns the shown buttons of f in panel order.
func (s *Surface) visibleButtons(f filter.Facet) []*button {
	var out []*button
	for _, b := range s.panels[f] {
		if b.visible {
			out = append(out, b)
		}
	}
	return out
}
