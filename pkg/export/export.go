// Package export writes a filtered bibliography to auxiliary formats: a
// SQLite database, a markdown list and an SVG histogram of publications per
// year.
package export

import (
	"strconv"

	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/model"
)

// Dataset is a snapshot of an engine: the publications, which of them the
// current selection shows, and the facet counts.
type Dataset struct {
	Publications []model.Publication
	Directory    model.Directory
	Heading      filter.Heading
	Visible      []bool
	Active       bool
	Selected     map[filter.Facet][]string
	Panels       filter.Panels
	Totals       filter.Counts
	Counts       filter.Counts
}

// FromEngine snapshots e.
func FromEngine(e *filter.Engine) Dataset {
	r := e.Result()
	st := e.State()
	d := Dataset{
		Publications: e.Publications(),
		Directory:    e.Directory(),
		Heading:      e.Heading(),
		Visible:      r.Visible,
		Active:       st.Active(),
		Selected:     make(map[filter.Facet][]string),
		Panels:       make(filter.Panels),
		Totals:       e.Totals(),
		Counts:       r.Counts,
	}
	for _, f := range filter.Facets {
		d.Panels[f] = e.Panel(f)
		if vs := st.Selected(f); len(vs) > 0 {
			d.Selected[f] = vs
		}
	}
	return d
}

// VisibleCount returns how many publications the selection shows.
func (d Dataset) VisibleCount() int {
	n := 0
	for _, v := range d.Visible {
		if v {
			n++
		}
	}
	return n
}

// isSelected reports whether f=value is part of the selection.
func (d Dataset) isSelected(f filter.Facet, value string) bool {
	for _, v := range d.Selected[f] {
		if v == value {
			return true
		}
	}
	return false
}

// label returns the display label of a facet value.
func (d Dataset) label(f filter.Facet, value string) string {
	for _, b := range d.Panels[f] {
		if b.Value == value {
			return b.Label
		}
	}
	return value
}

func yearNumber(y string) (int, bool) {
	n, err := strconv.Atoi(y)
	return n, err == nil
}
