// Package testutil provides deterministic publication corpora for tests and
// benchmarks.
package testutil

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/vanderheijden86/snolabib/pkg/model"
	"github.com/vanderheijden86/snolabib/pkg/page"
)

// GeneratorConfig controls corpus generation.
type GeneratorConfig struct {
	Seed       int64 // Random seed for determinism
	Authors    int   // Directory size
	Outsiders  int   // Co-authors missing from the directory
	Venues     int
	FirstYear  int
	LastYear   int
	MaxAuthors int // Authors per publication, at least one
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:       42,
		Authors:    8,
		Outsiders:  4,
		Venues:     6,
		FirstYear:  2018,
		LastYear:   2024,
		MaxAuthors: 4,
	}
}

// Generator produces publications and a matching directory.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config. Zero fields take the
// defaults.
func New(cfg GeneratorConfig) *Generator {
	def := DefaultConfig()
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.Authors <= 0 {
		cfg.Authors = def.Authors
	}
	if cfg.Venues <= 0 {
		cfg.Venues = def.Venues
	}
	if cfg.FirstYear == 0 || cfg.LastYear < cfg.FirstYear {
		cfg.FirstYear, cfg.LastYear = def.FirstYear, def.LastYear
	}
	if cfg.MaxAuthors <= 0 {
		cfg.MaxAuthors = def.MaxAuthors
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Directory returns the author directory. IDs look like DBLP person ids.
func (g *Generator) Directory() model.Directory {
	authors := make([]model.Author, g.cfg.Authors)
	for i := range authors {
		authors[i] = model.Author{
			Key:  fmt.Sprintf("author%d", i),
			ID:   fmt.Sprintf("%d/%d", 10+i, 1000+i),
			Name: fmt.Sprintf("Author %c. Number%d", 'A'+rune(i%26), i),
		}
	}
	return model.NewDirectory(authors)
}

func (g *Generator) outsider(i int) string {
	return fmt.Sprintf("o/Outsider%d", i)
}

func (g *Generator) venue(i int) string {
	if i%2 == 0 {
		return fmt.Sprintf("conf/v%d", i)
	}
	return fmt.Sprintf("journals/v%d", i)
}

// Publications returns n publications. Each has at least one directory author
// and may list outsiders.
func (g *Generator) Publications(n int) []model.Publication {
	dir := g.Directory()
	pubs := make([]model.Publication, n)
	for i := range pubs {
		k := min(1+g.rng.Intn(g.cfg.MaxAuthors), dir.Len()+g.cfg.Outsiders)
		seen := make(map[string]bool, k)
		ids := make([]string, 0, k)
		ids = append(ids, dir.Authors[g.rng.Intn(dir.Len())].ID)
		seen[ids[0]] = true
		for len(ids) < k {
			var id string
			if g.cfg.Outsiders > 0 && g.rng.Intn(3) == 0 {
				id = g.outsider(g.rng.Intn(g.cfg.Outsiders))
			} else {
				id = dir.Authors[g.rng.Intn(dir.Len())].ID
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}

		year := g.cfg.FirstYear + g.rng.Intn(g.cfg.LastYear-g.cfg.FirstYear+1)
		venue := g.venue(g.rng.Intn(g.cfg.Venues))
		key := fmt.Sprintf("%s/P%d", venue, i)
		pubs[i] = model.Publication{
			Key:     key,
			Year:    strconv.Itoa(year),
			Venue:   venue,
			Authors: strings.Join(ids, ","),
			Title:   "Authors: " + strings.Join(ids, ", "),
			HTML:    fmt.Sprintf(`A. Author, "Paper %d," in <i>%s</i>, %d.`, i, venue, year),
		}
	}
	return pubs
}

// Page assembles a generated page with n publications on the built-in
// template.
func (g *Generator) Page(n int) (string, error) {
	pubs := g.Publications(n)
	items := make([]page.Item, len(pubs))
	for i, p := range pubs {
		items[i] = page.Item{Publication: p, Title: p.Title, Body: p.HTML}
	}
	page.SortNewestFirst(items)
	return page.Assemble(page.DefaultTemplate, g.Directory(), items)
}
