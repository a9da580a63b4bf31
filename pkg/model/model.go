// Package model holds the publication records and author directory shared by
// the page generator and the filter engine.
package model

import (
	"strings"
)

// Publication is one entry of the bibliography list.
type Publication struct {
	// Key is the DBLP key without the "DBLP:" prefix (e.g. conf/icse/Doe20).
	Key   string
	Year  string
	Venue string
	// Authors is the raw comma-delimited author-id string carried by the item.
	// Author filtering matches by substring against this value.
	Authors string
	Title   string
	// HTML is the rendered list-item body, if known.
	HTML string
}

// AuthorIDs splits the raw authors string into individual author tokens.
func (p Publication) AuthorIDs() []string {
	return SplitAuthors(p.Authors)
}

// SplitAuthors splits a comma-delimited author string, dropping empty tokens.
func SplitAuthors(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// Author is a directory entry.
type Author struct {
	// Key is the short name used for per-author bibliography files.
	Key  string `json:"-"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Directory is an ordered author directory. Order is the order of the source
// file and is used to break ties when sorting author buttons.
type Directory struct {
	Authors []Author
	byID    map[string]int
}

// NewDirectory builds a directory from authors in the given order. Later
// duplicates of an ID are ignored.
func NewDirectory(authors []Author) Directory {
	d := Directory{byID: make(map[string]int, len(authors))}
	for _, a := range authors {
		if _, dup := d.byID[a.ID]; dup {
			continue
		}
		d.byID[a.ID] = len(d.Authors)
		d.Authors = append(d.Authors, a)
	}
	return d
}

// Lookup returns the author with the given id.
func (d Directory) Lookup(id string) (Author, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Author{}, false
	}
	return d.Authors[i], true
}

// Len returns the number of authors.
func (d Directory) Len() int {
	return len(d.Authors)
}
