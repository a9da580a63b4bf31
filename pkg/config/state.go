package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Selection maps facet names to the values selected when browse last quit.
type Selection map[string][]string

// SelectionPath returns the path of the remembered browse selection.
func SelectionPath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "selection.yaml")
}

// LoadSelection reads a remembered selection. A missing file is an empty
// selection.
func LoadSelection(path string) (Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Selection{}, nil
		}
		return nil, fmt.Errorf("reading selection: %w", err)
	}
	sel := Selection{}
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("parsing selection: %w", err)
	}
	return sel, nil
}

// SaveSelection writes sel to path, creating the state directory.
func SaveSelection(path string, sel Selection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := yaml.Marshal(sel)
	if err != nil {
		return fmt.Errorf("marshaling selection: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing selection: %w", err)
	}
	return nil
}
