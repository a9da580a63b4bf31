package bib

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/vanderheijden86/snolabib/pkg/debug"
	"github.com/vanderheijden86/snolabib/pkg/model"
)

// FakeURLPrefix marks urls given to entries that have neither url nor doi, so
// formatted references can still be linked back to their entry.
const FakeURLPrefix = "https://localhost/"

var (
	dblpKeyRe   = regexp.MustCompile(`\{DBLP:([^,]+),`)
	yearFieldRe = regexp.MustCompile(`(?m)^  year\s+=\s+\{([0-9]+)\},`)
	urlFieldRe  = regexp.MustCompile(`(?m)^  url\s+=\s+\{([^}]+)\},`)
	doiFieldRe  = regexp.MustCompile(`(?m)^  doi\s+=\s+\{([^}]+)\},`)
	yearLineRe  = regexp.MustCompile(`(?m)^(  year)`)
	bibsourceRe = regexp.MustCompile(`(?m)(dblp\.org\})$`)
	blockSepRe  = regexp.MustCompile(`\n\n+`)
)

// Window is an inclusive year range.
type Window struct {
	First int
	Last  int
}

// Contains reports whether year lies in the window.
func (w Window) Contains(year int) bool {
	return w.First <= year && year <= w.Last
}

// AuthorStats summarizes one author file.
type AuthorStats struct {
	Author   string
	Selected int
	Total    int
	// Bad lists blocks that could not be read.
	Bad []string
}

// Selection is the merged, deduplicated set of entries in a window.
type Selection struct {
	Window     Window
	Authors    []AuthorStats
	Total      int
	Kept       int
	Duplicates int

	order   []string
	blocks  map[string]string
	authors map[string][]string
}

// NewSelection returns an empty selection for w.
func NewSelection(w Window) *Selection {
	return &Selection{
		Window:  w,
		blocks:  make(map[string]string),
		authors: make(map[string][]string),
	}
}

// Len returns the number of distinct entries.
func (s *Selection) Len() int { return len(s.order) }

// Keys returns the DBLP keys (without prefix) of the distinct entries in
// first-seen order.
func (s *Selection) Keys() []string { return append([]string(nil), s.order...) }

// AuthorsOf returns the directory ids that list the entry with key.
func (s *Selection) AuthorsOf(key string) []string { return s.authors[key] }

// Add reads one author's bibliography and merges the entries in the window.
func (s *Selection) Add(author model.Author, text string) AuthorStats {
	st := AuthorStats{Author: author.Key}
	for _, block := range blockSepRe.Split(text, -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		s.Total++
		key, year, block, err := prepareBlock(block)
		if err != nil {
			st.Bad = append(st.Bad, block)
			debug.Log("bib: %s: %v", author.Key, err)
			continue
		}
		st.Total++
		if !s.Window.Contains(year) {
			continue
		}
		st.Selected++
		s.Kept++
		if _, seen := s.blocks[key]; seen {
			s.Duplicates++
			s.authors[key] = append(s.authors[key], author.ID)
			continue
		}
		s.order = append(s.order, key)
		s.blocks[key] = block
		s.authors[key] = []string{author.ID}
	}
	s.Authors = append(s.Authors, st)
	return st
}

// prepareBlock extracts key and year, injects a placeholder url when the entry
// has neither url nor doi and unescapes an existing url.
func prepareBlock(block string) (string, int, string, error) {
	km := dblpKeyRe.FindStringSubmatch(block)
	if km == nil {
		return "", 0, block, fmt.Errorf("%w: no DBLP key", ErrMalformedEntry)
	}
	ym := yearFieldRe.FindStringSubmatch(block)
	if ym == nil {
		return "", 0, block, fmt.Errorf("%w: no year in %s", ErrMalformedEntry, km[1])
	}
	year, err := strconv.Atoi(ym[1])
	if err != nil {
		return "", 0, block, fmt.Errorf("%w: bad year in %s", ErrMalformedEntry, km[1])
	}

	um := urlFieldRe.FindStringSubmatch(block)
	switch {
	case um == nil && !doiFieldRe.MatchString(block):
		block = yearLineRe.ReplaceAllString(block, "  url          = {"+FakeURLPrefix+km[1]+"},\n${1}")
	case um != nil:
		if fixed := FixURL(um[1]); fixed != um[1] {
			block = strings.Replace(block, um[1], fixed, -1)
		}
	}
	return km[1], year, block, nil
}

// WriteTo writes the selected entries, each enriched with a dblpid field
// listing the directory ids of its authors.
func (s *Selection) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, key := range s.order {
		block := withDBLPID(s.blocks[key], s.authors[key])
		m, err := io.WriteString(w, block+"\n\n")
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// withDBLPID adds the dblpid field after the bibsource line, or before the
// closing brace when the entry has no DBLP bibsource.
func withDBLPID(block string, ids []string) string {
	field := "  dblpid       = {" + strings.Join(ids, ",") + "}"
	if bibsourceRe.MatchString(block) {
		return bibsourceRe.ReplaceAllString(block, "${1},\n"+field)
	}
	trimmed := strings.TrimRight(block, " \n")
	if !strings.HasSuffix(trimmed, "}") {
		return block
	}
	body := strings.TrimRight(trimmed[:len(trimmed)-1], " \n")
	if !strings.HasSuffix(body, ",") {
		body += ","
	}
	return body + "\n" + field + "\n}"
}

// SelectFiles builds a selection from the per-author files in bibDir, one
// <key>.bib per directory author.
func SelectFiles(dir model.Directory, bibDir string, w Window) (*Selection, error) {
	s := NewSelection(w)
	for _, a := range dir.Authors {
		path := filepath.Join(bibDir, a.Key+".bib")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		s.Add(a, string(data))
	}
	return s, nil
}

// WriteFile writes the selection to path.
func (s *Selection) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// LoadLibrary parses a selected bibliography file.
func LoadLibrary(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bibliography: %w", err)
	}
	entries, err := ParseEntries(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}
