package filter

import "sort"

// State is the set of selected values per facet. An empty set places no
// constraint on its facet.
type State struct {
	sets map[Facet]map[string]struct{}
}

// NewState returns an empty filter state.
func NewState() *State {
	s := &State{sets: make(map[Facet]map[string]struct{}, len(Facets))}
	for _, f := range Facets {
		s.sets[f] = make(map[string]struct{})
	}
	return s
}

// Has reports whether value is selected for facet f.
func (s *State) Has(f Facet, value string) bool {
	_, ok := s.sets[f][value]
	return ok
}

// Toggle flips the selection of value and returns whether it is now selected.
func (s *State) Toggle(f Facet, value string) bool {
	if s.Has(f, value) {
		delete(s.sets[f], value)
		return false
	}
	s.sets[f][value] = struct{}{}
	return true
}

// Active reports whether any facet has a selection.
func (s *State) Active() bool {
	for _, set := range s.sets {
		if len(set) > 0 {
			return true
		}
	}
	return false
}

// Len returns the number of selected values for facet f.
func (s *State) Len(f Facet) int {
	return len(s.sets[f])
}

// Selected returns the selected values of f in sorted order.
func (s *State) Selected(f Facet) []string {
	out := make([]string, 0, len(s.sets[f]))
	for v := range s.sets[f] {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	c := NewState()
	for f, set := range s.sets {
		for v := range set {
			c.sets[f][v] = struct{}{}
		}
	}
	return c
}

// Equal reports whether both states select the same values.
func (s *State) Equal(o *State) bool {
	for _, f := range Facets {
		if len(s.sets[f]) != len(o.sets[f]) {
			return false
		}
		for v := range s.sets[f] {
			if !o.Has(f, v) {
				return false
			}
		}
	}
	return true
}
