package filter_test

import (
	"testing"

	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/testutil"
)

func BenchmarkRecount(b *testing.B) {
	g := testutil.New(testutil.GeneratorConfig{Seed: 1, Authors: 40, Venues: 30})
	pubs := g.Publications(5000)
	s := filter.NewState()
	s.Toggle(filter.Year, "2021")
	dir := g.Directory()
	s.Toggle(filter.Author, dir.Authors[0].ID)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		filter.Recount(pubs, s, dir)
	}
}

func BenchmarkNew(b *testing.B) {
	g := testutil.NewDefault()
	pubs := g.Publications(5000)
	dir := g.Directory()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		filter.New(pubs, dir)
	}
}
