package testutil

import (
	"testing"

	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/model"
)

// AssertVisible verifies that exactly the publications matching s are
// visible in r.
func AssertVisible(t *testing.T, pubs []model.Publication, s *filter.State, r filter.Result) {
	t.Helper()
	if len(r.Visible) != len(pubs) {
		t.Fatalf("visible has %d entries, want %d", len(r.Visible), len(pubs))
	}
	n := 0
	for i, p := range pubs {
		want := filter.Matches(p, s)
		if r.Visible[i] != want {
			t.Errorf("publication %d (%s) visible = %v, want %v", i, p.Key, r.Visible[i], want)
		}
		if want {
			n++
		}
	}
	if r.Total != n {
		t.Errorf("total = %d, want %d", r.Total, n)
	}
}

// AssertCountsConserved verifies that year and venue counts each add up to
// the number of visible publications.
func AssertCountsConserved(t *testing.T, r filter.Result) {
	t.Helper()
	for _, f := range []filter.Facet{filter.Year, filter.Venue} {
		sum := 0
		for _, c := range r.Counts[f] {
			sum += c
		}
		if sum != r.Total {
			t.Errorf("%s counts sum to %d, want %d", f, sum, r.Total)
		}
	}
}
