// Package cite turns selected bibliography entries into formatted reference
// list items, either with the built-in IEEE formatter or with citeproc-java.
package cite

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vanderheijden86/snolabib/internal/bib"
	"github.com/vanderheijden86/snolabib/pkg/model"
	"github.com/vanderheijden86/snolabib/pkg/page"
)

// Formatter renders a bibliography file as an HTML fragment of <li> items,
// each linking to its entry's url.
type Formatter interface {
	Generate(ctx context.Context, bibFile, htmlFile string) error
}

// EntryURL is the url a formatted item links to: the url field, or the doi
// resolver link when only a doi is present.
func EntryURL(e bib.Entry) string {
	if u := e.Field("url"); u != "" {
		return u
	}
	if doi := e.Field("doi"); doi != "" {
		return "https://doi.org/" + doi
	}
	return ""
}

// ItemFor builds the page item for e with the given formatted body.
func ItemFor(e bib.Entry, body string) page.Item {
	var lines []string
	if names := e.Names("author"); len(names) > 0 {
		lines = append(lines, "Authors: "+strings.Join(names, ", "))
	}
	if names := e.Names("editor"); len(names) > 0 {
		lines = append(lines, "Eds: "+strings.Join(names, ", "))
	}
	return page.Item{
		Publication: model.Publication{
			Key:     e.ID(),
			Year:    e.Field("year"),
			Venue:   page.Venue(e.Key),
			Authors: strings.Join(e.AuthorIDs(), ","),
			Title:   stripBraces(e.Field("title")),
		},
		Title: strings.Join(lines, "\n"),
		Body:  body,
	}
}

// Report summarizes how many fragment items could be linked to entries.
type Report struct {
	Entries int
	Linked  int
	// NoURL lists entries that cannot be linked because they lack a url.
	NoURL []string
	// Unmatched lists fragment urls with no entry.
	Unmatched []string
}

// Link pairs the items of a formatted fragment with their entries by url.
// The result is sorted newest first.
func Link(fragment string, entries []bib.Entry) ([]page.Item, Report, error) {
	rep := Report{Entries: len(entries)}
	byURL := make(map[string]bib.Entry, len(entries))
	for _, e := range entries {
		u := EntryURL(e)
		if u == "" {
			rep.NoURL = append(rep.NoURL, e.Key)
			continue
		}
		byURL[u] = e
	}

	frags, err := ReadItems(fragment)
	if err != nil {
		return nil, rep, err
	}
	var items []page.Item
	for _, f := range frags {
		e, ok := byURL[f.URL]
		if !ok {
			rep.Unmatched = append(rep.Unmatched, f.URL)
			continue
		}
		items = append(items, ItemFor(e, f.Body))
		rep.Linked++
	}
	page.SortNewestFirst(items)
	return items, rep, nil
}

// LinkFile reads a fragment file and links it against the entries.
func LinkFile(htmlFile string, entries []bib.Entry) ([]page.Item, Report, error) {
	data, err := os.ReadFile(htmlFile)
	if err != nil {
		return nil, Report{}, fmt.Errorf("reading %s: %w", htmlFile, err)
	}
	return Link(string(data), entries)
}

func stripBraces(s string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(s)
}
