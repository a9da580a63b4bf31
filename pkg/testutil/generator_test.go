package testutil

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/model"
)

func TestGeneratorDeterministic(t *testing.T) {
	a := NewDefault().Publications(50)
	b := NewDefault().Publications(50)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different corpora")
	}
	c := New(GeneratorConfig{Seed: 7}).Publications(50)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced the same corpus")
	}
}

func TestPublicationsShape(t *testing.T) {
	g := NewDefault()
	dir := g.Directory()
	cfg := DefaultConfig()
	for _, p := range g.Publications(200) {
		ids := model.SplitAuthors(p.Authors)
		if len(ids) == 0 || len(ids) > cfg.MaxAuthors {
			t.Errorf("%s has %d authors", p.Key, len(ids))
		}
		if _, ok := dir.Lookup(ids[0]); !ok {
			t.Errorf("%s: first author %s not in directory", p.Key, ids[0])
		}
		if !strings.HasPrefix(p.Key, p.Venue+"/") {
			t.Errorf("%s: key does not start with venue %s", p.Key, p.Venue)
		}
	}
}

func TestGeneratedCorpusFilters(t *testing.T) {
	g := NewDefault()
	pubs := g.Publications(100)
	e := filter.New(pubs, g.Directory())

	e.Press(filter.Year, "2020")
	e.Press(filter.Venue, "conf/v0")
	e.Press(filter.Venue, "journals/v1")

	AssertVisible(t, pubs, e.State(), e.Result())
	AssertCountsConserved(t, e.Result())
}

func TestPage(t *testing.T) {
	html, err := NewDefault().Page(10)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(html, `class="bibitem"`); got != 10 {
		t.Errorf("page has %d items, want 10", got)
	}
	if !strings.Contains(html, `"author0":`) {
		t.Error("page is missing the author directory")
	}
}
