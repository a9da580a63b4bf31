package filter

import (
	"strings"

	"github.com/vanderheijden86/snolabib/pkg/model"
)

// Result is the outcome of one match and recount pass.
type Result struct {
	// Visible is indexed like the publication slice.
	Visible []bool
	// Counts are per-facet counts over the visible publications. Author
	// counts only cover directory ids, as in Totals.
	Counts Counts
	Total  int
}

// Matches reports whether p passes every facet constraint in s.
//
// The author test checks that each selected id is a substring of the raw
// authors string, so "an" also matches "anna". Pages in the wild depend on
// this, keep it.
func Matches(p model.Publication, s *State) bool {
	if s.Len(Year) > 0 && !s.Has(Year, p.Year) {
		return false
	}
	if s.Len(Venue) > 0 && !s.Has(Venue, p.Venue) {
		return false
	}
	for a := range s.sets[Author] {
		if !strings.Contains(p.Authors, a) {
			return false
		}
	}
	return true
}

// Recount evaluates every publication against s. A match counts its year, its
// venue and each of its author tokens found in dir, selected or not.
func Recount(pubs []model.Publication, s *State, dir model.Directory) Result {
	r := Result{
		Visible: make([]bool, len(pubs)),
		Counts:  newCounts(),
	}
	for i, p := range pubs {
		if !Matches(p, s) {
			continue
		}
		r.Visible[i] = true
		r.Total++
		r.Counts.add(Year, p.Year)
		r.Counts.add(Venue, p.Venue)
		countAuthors(r.Counts, p, dir)
	}
	return r
}

// Totals counts facet values over all publications. Author counts only cover
// ids present in the directory.
func Totals(pubs []model.Publication, dir model.Directory) Counts {
	c := newCounts()
	for _, p := range pubs {
		c.add(Year, p.Year)
		c.add(Venue, p.Venue)
		countAuthors(c, p, dir)
	}
	return c
}

func countAuthors(c Counts, p model.Publication, dir model.Directory) {
	for _, a := range p.AuthorIDs() {
		if _, ok := dir.Lookup(a); ok {
			c.add(Author, a)
		}
	}
}

// Populate builds the ordered button panels. Every directory author gets a
// button, even with a zero total; years and venues come from the publications.
func Populate(pubs []model.Publication, dir model.Directory, totals Counts) Panels {
	panels := make(Panels, len(Facets))

	authors := make([]Button, 0, dir.Len())
	for _, a := range dir.Authors {
		authors = append(authors, Button{
			Facet: Author,
			Value: a.ID,
			Label: a.Name,
			Total: totals.Get(Author, a.ID),
		})
	}
	panels[Author] = authors

	for _, f := range []Facet{Year, Venue} {
		seen := make(map[string]bool)
		var buttons []Button
		for _, p := range pubs {
			v := p.Year
			if f == Venue {
				v = p.Venue
			}
			if seen[v] {
				continue
			}
			seen[v] = true
			buttons = append(buttons, Button{Facet: f, Value: v, Label: v, Total: totals.Get(f, v)})
		}
		panels[f] = buttons
	}

	for f, buttons := range panels {
		sortButtons(f, buttons)
	}
	return panels
}
