package filter

import "fmt"

type buttonState struct {
	visible     bool
	count       string
	selected    bool
	highlighted bool
}

// fakeSurface records everything the engine writes.
type fakeSurface struct {
	missing map[Facet]bool
	order   map[Facet][]string
	buttons map[string]*buttonState
	items   map[int]bool
	heading string
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		missing: make(map[Facet]bool),
		order:   make(map[Facet][]string),
		buttons: make(map[string]*buttonState),
		items:   make(map[int]bool),
	}
}

func bkey(f Facet, v string) string { return fmt.Sprintf("%s=%s", f, v) }

func (s *fakeSurface) button(f Facet, v string) *buttonState {
	b, ok := s.buttons[bkey(f, v)]
	if !ok {
		panic("unknown button " + bkey(f, v))
	}
	return b
}

func (s *fakeSurface) ResetPanel(f Facet) error {
	if s.missing[f] {
		return MissingContainer(f)
	}
	for _, v := range s.order[f] {
		delete(s.buttons, bkey(f, v))
	}
	s.order[f] = nil
	return nil
}

func (s *fakeSurface) AddButton(b Button) error {
	s.order[b.Facet] = append(s.order[b.Facet], b.Value)
	s.buttons[bkey(b.Facet, b.Value)] = &buttonState{visible: true}
	return nil
}

func (s *fakeSurface) SetItemVisible(i int, visible bool) { s.items[i] = visible }

func (s *fakeSurface) SetButtonVisible(f Facet, v string, visible bool) {
	s.button(f, v).visible = visible
}

func (s *fakeSurface) SetButtonCount(f Facet, v string, label string) {
	s.button(f, v).count = label
}

func (s *fakeSurface) SetButtonSelected(f Facet, v string, selected bool) {
	s.button(f, v).selected = selected
}

func (s *fakeSurface) SetButtonHighlighted(f Facet, v string, on bool) {
	s.button(f, v).highlighted = on
}

func (s *fakeSurface) ClearHighlights() {
	for _, b := range s.buttons {
		b.highlighted = false
	}
}

func (s *fakeSurface) SetHeading(text string) { s.heading = text }

// fakeNode is a minimal element tree for click resolution.
type fakeNode struct {
	attrs  map[string]string
	parent *fakeNode
}

func (n *fakeNode) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *fakeNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}
