package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
)

// ErrNoDirectory is returned when an authors file holds no authors.
var ErrNoDirectory = errors.New("author directory is empty")

// ParseDirectory decodes an authors file: a single JSON object whose keys are
// author file names and whose values carry the DBLP id and the full name.
//
//	{"mfreire": {"id": "50/5454", "name": "Manuel Freire"}}
//
// Key order is preserved.
func ParseDirectory(data []byte) (Directory, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return Directory{}, fmt.Errorf("parsing authors: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Directory{}, fmt.Errorf("parsing authors: expected object, got %v", tok)
	}

	var authors []Author
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Directory{}, fmt.Errorf("parsing authors: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return Directory{}, fmt.Errorf("parsing authors: unexpected token %v", tok)
		}
		var a Author
		if err := dec.Decode(&a); err != nil {
			return Directory{}, fmt.Errorf("parsing author %q: %w", key, err)
		}
		if a.ID == "" {
			return Directory{}, fmt.Errorf("parsing author %q: missing id", key)
		}
		a.Key = key
		authors = append(authors, a)
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return Directory{}, fmt.Errorf("parsing authors: %w", err)
	}

	if len(authors) == 0 {
		return Directory{}, ErrNoDirectory
	}
	return NewDirectory(authors), nil
}

// LoadDirectory reads and parses an authors file.
func LoadDirectory(path string) (Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Directory{}, fmt.Errorf("reading authors file: %w", err)
	}
	return ParseDirectory(data)
}

// MarshalJSON encodes the directory in authors-file form, keeping order.
func (d Directory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range d.Authors {
		if i > 0 {
			buf.WriteByte(',')
		}
		key := a.Key
		if key == "" {
			key = a.ID
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SaveDirectory writes the directory as an indented authors file.
func SaveDirectory(d Directory, path string) error {
	data, err := d.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding authors: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("encoding authors: %w", err)
	}
	out.WriteByte('\n')
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing authors file: %w", err)
	}
	return nil
}
