package filter

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/snolabib/pkg/model"
)

var authorPool = []string{"a", "an", "anna", "b", "bo", "bob", "12/34", "1/2"}

func genPublications(t *rapid.T) []model.Publication {
	n := rapid.IntRange(0, 25).Draw(t, "n")
	pubs := make([]model.Publication, n)
	for i := range pubs {
		k := rapid.IntRange(1, 3).Draw(t, fmt.Sprintf("nauthors%d", i))
		ids := make([]string, k)
		for j := range ids {
			ids[j] = rapid.SampledFrom(authorPool).Draw(t, fmt.Sprintf("author%d_%d", i, j))
		}
		pubs[i] = model.Publication{
			Year:    rapid.SampledFrom([]string{"2019", "2020", "2021", "2022"}).Draw(t, fmt.Sprintf("year%d", i)),
			Venue:   rapid.SampledFrom([]string{"conf/icse", "conf/fse", "journals/tse"}).Draw(t, fmt.Sprintf("venue%d", i)),
			Authors: strings.Join(ids, ","),
		}
	}
	return pubs
}

func poolDirectory() model.Directory {
	authors := make([]model.Author, len(authorPool))
	for i, id := range authorPool {
		authors[i] = model.Author{ID: id, Name: strings.ToUpper(id)}
	}
	return model.NewDirectory(authors)
}

// partialDirectory leaves some pool ids out so publications carry
// co-authors without a button.
func partialDirectory() model.Directory {
	var authors []model.Author
	for _, id := range authorPool {
		if id == "bo" || id == "1/2" {
			continue
		}
		authors = append(authors, model.Author{ID: id, Name: strings.ToUpper(id)})
	}
	return model.NewDirectory(authors)
}

// genPresses draws button presses among the engine's real buttons.
func genPresses(t *rapid.T, e *Engine) []Button {
	var all []Button
	for _, f := range Facets {
		all = append(all, e.Panel(f)...)
	}
	if len(all) == 0 {
		return nil
	}
	return rapid.SliceOfN(rapid.SampledFrom(all), 0, 6).Draw(t, "presses")
}

func TestPropertyIdempotentRecount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New(genPublications(t), poolDirectory())
		for _, b := range genPresses(t, e) {
			e.Press(b.Facet, b.Value)
		}
		first := e.Result()
		second := e.Refresh()
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("recount not idempotent: %+v vs %+v", first, second)
		}
	})
}

func TestPropertyToggleSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New(genPublications(t), poolDirectory())
		s := newFakeSurface()
		if err := e.Mount(s); err != nil {
			t.Fatal(err)
		}
		for _, b := range genPresses(t, e) {
			e.Press(b.Facet, b.Value)
		}
		presses := genPresses(t, e)
		if len(presses) == 0 {
			return
		}
		b := presses[0]
		state, result, heading := e.State(), e.Result(), s.heading

		e.Press(b.Facet, b.Value)
		e.Press(b.Facet, b.Value)

		if !e.State().Equal(state) {
			t.Fatal("state not restored")
		}
		if !reflect.DeepEqual(e.Result(), result) {
			t.Fatal("result not restored")
		}
		if s.heading != heading {
			t.Fatalf("heading %q, want %q", s.heading, heading)
		}
	})
}

func TestPropertyCountConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New(genPublications(t), partialDirectory())
		for _, b := range genPresses(t, e) {
			e.Press(b.Facet, b.Value)
		}
		r := e.Result()
		totals := e.Totals()
		for f, values := range r.Counts {
			for v, n := range values {
				if tot := totals.Get(f, v); n > tot {
					t.Fatalf("%s=%s visible %d > total %d", f, v, n, tot)
				}
			}
		}
		visible := 0
		for _, v := range r.Visible {
			if v {
				visible++
			}
		}
		if visible != r.Total {
			t.Fatalf("total %d but %d visible", r.Total, visible)
		}
	})
}

func TestPropertyMatchPredicate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pubs := genPublications(t)
		e := New(pubs, poolDirectory())
		for _, b := range genPresses(t, e) {
			e.Press(b.Facet, b.Value)
		}
		s := e.State()
		for i, p := range pubs {
			want := (s.Len(Year) == 0 || s.Has(Year, p.Year)) &&
				(s.Len(Venue) == 0 || s.Has(Venue, p.Venue))
			for _, a := range s.Selected(Author) {
				want = want && strings.Contains(p.Authors, a)
			}
			if e.Result().Visible[i] != want {
				t.Fatalf("publication %d (%+v) visible=%v, want %v", i, p, e.Result().Visible[i], want)
			}
		}
	})
}
