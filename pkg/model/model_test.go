package model

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitAuthors(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"50/5454,a/b", []string{"50/5454", "a/b"}},
		{" x , ,y", []string{"x", "y"}},
	}
	for _, tt := range tests {
		got := SplitAuthors(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitAuthors(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseDirectory_PreservesOrder(t *testing.T) {
	data := []byte(`{
  "zoe":  {"id": "12/34", "name": "Zoe Zed"},
  "adam": {"id": "a/Adam", "name": "Adam Alpha"},
  "mia":  {"id": "99/1", "name": "Mia Mu"}
}`)
	dir, err := ParseDirectory(data)
	if err != nil {
		t.Fatalf("ParseDirectory: %v", err)
	}
	if dir.Len() != 3 {
		t.Fatalf("expected 3 authors, got %d", dir.Len())
	}
	keys := []string{dir.Authors[0].Key, dir.Authors[1].Key, dir.Authors[2].Key}
	if !reflect.DeepEqual(keys, []string{"zoe", "adam", "mia"}) {
		t.Errorf("order not preserved: %v", keys)
	}
	a, ok := dir.Lookup("a/Adam")
	if !ok || a.Name != "Adam Alpha" {
		t.Errorf("Lookup(a/Adam) = %+v, %v", a, ok)
	}
	if _, ok := dir.Lookup("nope"); ok {
		t.Error("expected missing id lookup to fail")
	}
}

func TestParseDirectory_Errors(t *testing.T) {
	if _, err := ParseDirectory([]byte(`{}`)); !errors.Is(err, ErrNoDirectory) {
		t.Errorf("expected ErrNoDirectory, got %v", err)
	}
	if _, err := ParseDirectory([]byte(`[]`)); err == nil {
		t.Error("expected error for array input")
	}
	if _, err := ParseDirectory([]byte(`{"x": {"name": "No Id"}}`)); err == nil {
		t.Error("expected error for missing id")
	}
}

func TestDirectoryRoundTrip(t *testing.T) {
	dir := NewDirectory([]Author{
		{Key: "b", ID: "2/2", Name: "Bee"},
		{Key: "a", ID: "1/1", Name: "Ay"},
	})
	path := filepath.Join(t.TempDir(), "authors.json")
	if err := SaveDirectory(dir, path); err != nil {
		t.Fatalf("SaveDirectory: %v", err)
	}
	got, err := LoadDirectory(path)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if !reflect.DeepEqual(got.Authors, dir.Authors) {
		t.Errorf("round trip mismatch: %+v vs %+v", got.Authors, dir.Authors)
	}
}

func TestNewDirectory_DropsDuplicateIDs(t *testing.T) {
	dir := NewDirectory([]Author{{ID: "x", Name: "First"}, {ID: "x", Name: "Second"}})
	if dir.Len() != 1 || dir.Authors[0].Name != "First" {
		t.Errorf("expected first entry kept, got %+v", dir.Authors)
	}
}
