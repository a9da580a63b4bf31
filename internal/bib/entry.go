package bib

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nickng/bibtex"
)

// ErrMalformedEntry is returned for text that does not parse as bibtex.
var ErrMalformedEntry = errors.New("malformed bibtex entry")

// Entry is a parsed bibtex entry. Field names are lower case and values have
// their outer braces or quotes removed and whitespace collapsed.
type Entry struct {
	Type   string
	Key    string
	Fields map[string]string
}

// ID returns the key without its "DBLP:" prefix.
func (e Entry) ID() string {
	return strings.TrimPrefix(e.Key, "DBLP:")
}

// Field returns a field value, "" when absent.
func (e Entry) Field(name string) string {
	return e.Fields[strings.ToLower(name)]
}

// Has reports whether a field is present.
func (e Entry) Has(name string) bool {
	_, ok := e.Fields[strings.ToLower(name)]
	return ok
}

// Names splits a name list field ("A and B and C").
func (e Entry) Names(field string) []string {
	v := e.Field(field)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, " and ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, FixAuthors(p))
		}
	}
	return out
}

// AuthorIDs returns the directory ids recorded in the dblpid field.
func (e Entry) AuthorIDs() []string {
	var out []string
	for _, id := range strings.Split(e.Field("dblpid"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// The bibtex parser keeps its scanner state in package globals.
var parseMu sync.Mutex

// ParseEntries parses every entry in text, in order. Comments, preambles
// and string definitions are dropped.
func ParseEntries(text string) ([]Entry, error) {
	parseMu.Lock()
	defer parseMu.Unlock()

	parsed, err := bibtex.Parse(strings.NewReader(text))
	if err != nil {
		resetParser()
		return nil, fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}
	entries := make([]Entry, 0, len(parsed.Entries))
	for _, be := range parsed.Entries {
		entries = append(entries, fromBibEntry(be))
	}
	return entries, nil
}

// ParseEntry parses a single entry.
func ParseEntry(text string) (Entry, error) {
	entries, err := ParseEntries(text)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) != 1 {
		return Entry{}, fmt.Errorf("%w: expected one entry, found %d", ErrMalformedEntry, len(entries))
	}
	return entries[0], nil
}

func fromBibEntry(be *bibtex.BibEntry) Entry {
	e := Entry{Type: be.Type, Key: be.CiteName, Fields: make(map[string]string, len(be.Fields))}
	for name, value := range be.Fields {
		if value == nil {
			continue
		}
		e.Fields[strings.ToLower(name)] = strings.Join(strings.Fields(value.String()), " ")
	}
	return e
}

// resetParser clears the field flag a failed parse can leave set. A closing
// brace right after an at sign resets it whatever state the scanner was in.
func resetParser() {
	_, _ = bibtex.Parse(strings.NewReader("@}"))
}
