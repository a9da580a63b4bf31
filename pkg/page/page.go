// Package page assembles bibliography pages and renders the filter engine
// onto parsed HTML documents.
package page

import (
	_ "embed"
	"fmt"
	"html"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/model"
)

// Template placeholders.
const (
	AuthorsPlaceholder = "$AUTHORS_GO_HERE$"
	ItemsPlaceholder   = "$ITEMS_GO_HERE$"
)

// DefaultTemplate is the built-in page shell.
//
//go:embed assets/template.html
var DefaultTemplate string

// LoadTemplate reads a template file, or returns DefaultTemplate for an empty
// path.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return DefaultTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading template: %w", err)
	}
	return string(data), nil
}

// Item is one list entry ready for the page.
type Item struct {
	Publication model.Publication
	// Title is the hover text ("Authors: ..." and "Eds: ..." lines).
	Title string
	// Body is the inner HTML of the list item.
	Body string
}

var onlineRe = regexp.MustCompile(` \[Online\].*`)

// StripFakeLinks cuts the "[Online]" tail from bodies that link to the
// placeholder localhost urls given to entries without url or doi.
func StripFakeLinks(body string) string {
	if !strings.Contains(body, "https://localhost") {
		return body
	}
	return onlineRe.ReplaceAllString(body, "")
}

// RenderItem renders the <li> for an item.
func RenderItem(it Item) string {
	p := it.Publication
	var b strings.Builder
	fmt.Fprintf(&b, `<li class="%s" %s="%s" %s="%s" %s="%s" %s="%s" title="%s">`,
		filter.ClassItem,
		filter.AttrKey, html.EscapeString(p.Key),
		filter.AttrAuthors, html.EscapeString(p.Authors),
		filter.AttrYear, html.EscapeString(p.Year),
		filter.AttrVenue, html.EscapeString(p.Venue),
		html.EscapeString(it.Title))
	b.WriteString(StripFakeLinks(it.Body))
	b.WriteString("</li>\n")
	return b.String()
}

// SortNewestFirst orders items by descending year, keeping input order within
// a year. Non-numeric years go last.
func SortNewestFirst(items []Item) {
	year := func(i int) int {
		y, err := strconv.Atoi(items[i].Publication.Year)
		if err != nil {
			return -1
		}
		return y
	}
	sort.SliceStable(items, func(i, j int) bool {
		return year(i) > year(j)
	})
}

// Assemble substitutes the author directory and the items into tmpl.
func Assemble(tmpl string, dir model.Directory, items []Item) (string, error) {
	if !strings.Contains(tmpl, ItemsPlaceholder) {
		return "", fmt.Errorf("template has no %s placeholder", ItemsPlaceholder)
	}
	authors, err := dir.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("encoding author directory: %w", err)
	}

	var list strings.Builder
	for _, it := range items {
		list.WriteString(RenderItem(it))
	}

	out := strings.Replace(tmpl, AuthorsPlaceholder, string(authors), -1)
	out = strings.Replace(out, ItemsPlaceholder, list.String(), -1)
	return out, nil
}

// Venue derives the venue token from a DBLP key: "DBLP:conf/icse/Doe20"
// becomes "conf/icse".
func Venue(key string) string {
	key = strings.TrimPrefix(key, "DBLP:")
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[:i]
	}
	return key
}
