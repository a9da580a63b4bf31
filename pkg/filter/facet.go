// Package filter implements the faceted publication filter: facet population,
// filter state, match and recount, and render sync onto a Surface.
//
// An Engine owns all mutable state. It is not safe for concurrent use; callers
// feed it events from a single loop (a bubbletea Update, a browser event loop).
package filter

import (
	"sort"
	"strconv"
)

// Facet is one of the three filter dimensions.
type Facet int

const (
	Author Facet = iota
	Year
	Venue
)

// Facets lists every facet in panel order.
var Facets = [...]Facet{Author, Year, Venue}

var facetNames = [...]string{"author", "year", "venue"}

func (f Facet) String() string {
	if f < 0 || int(f) >= len(facetNames) {
		return "unknown"
	}
	return facetNames[f]
}

// ParseFacet resolves a facet role name.
func ParseFacet(s string) (Facet, bool) {
	for i, name := range facetNames {
		if name == s {
			return Facet(i), true
		}
	}
	return 0, false
}

// Button describes one filter button.
type Button struct {
	Facet Facet
	Value string
	Label string
	Total int
}

// Counts holds per-facet occurrence counts keyed by facet value.
type Counts map[Facet]map[string]int

func newCounts() Counts {
	c := make(Counts, len(Facets))
	for _, f := range Facets {
		c[f] = make(map[string]int)
	}
	return c
}

// Get returns the count for a facet value, zero when absent.
func (c Counts) Get(f Facet, value string) int {
	return c[f][value]
}

func (c Counts) add(f Facet, value string) {
	c[f][value]++
}

// Panels holds the ordered buttons of each facet.
type Panels map[Facet][]Button

// sortButtons orders a panel. Authors and venues go by descending total with
// ties kept in input order; years go by ascending year.
func sortButtons(f Facet, buttons []Button) {
	if f == Year {
		sort.SliceStable(buttons, func(i, j int) bool {
			return yearLess(buttons[i].Value, buttons[j].Value)
		})
		return
	}
	sort.SliceStable(buttons, func(i, j int) bool {
		return buttons[i].Total > buttons[j].Total
	})
}

// yearLess sorts numeric years ascending, non-numeric tokens after them.
func yearLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}
