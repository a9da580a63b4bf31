// Package config handles loading and saving snolabib configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/snolabib/config.yaml
//   - State:   ~/.local/state/snolabib/ (last browse selection)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultWindow is how many years before the current one are kept by default.
const DefaultWindow = 5

// ErrMissingOption is returned by Require for unset options.
var ErrMissingOption = errors.New("missing required option")

// HeadingConfig overrides the nouns of the publication count heading.
type HeadingConfig struct {
	Singular string `yaml:"singular,omitempty"`
	Plural   string `yaml:"plural,omitempty"`
}

// Config is the top-level configuration. Paths may start with ~.
type Config struct {
	AuthorsFile  string        `yaml:"authors_file,omitempty"`
	BibDir       string        `yaml:"bib_dir,omitempty"`       // per author downloads
	BibFile      string        `yaml:"bib_file,omitempty"`      // selected entries
	HTMLFile     string        `yaml:"html_file,omitempty"`     // formatted reference list
	TemplateFile string        `yaml:"template_file,omitempty"` // empty uses the built-in page
	OutputFile   string        `yaml:"output_file,omitempty"`
	Citeproc     string        `yaml:"citeproc,omitempty"` // empty uses the built-in formatter
	FirstYear    int           `yaml:"first_year,omitempty"`
	LastYear     int           `yaml:"last_year,omitempty"`
	Delay        time.Duration `yaml:"delay,omitempty"`
	Heading      HeadingConfig `yaml:"heading,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return DefaultConfigAt(time.Now())
}

// DefaultConfigAt returns the defaults as of now.
func DefaultConfigAt(now time.Time) Config {
	return Config{
		BibDir:    "bib",
		BibFile:   "selected.bib",
		HTMLFile:  "selected.html",
		FirstYear: now.Year() - DefaultWindow,
		LastYear:  now.Year(),
		Delay:     time.Second,
	}
}

// ConfigDir returns the XDG config directory for snolabib.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "snolabib")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "snolabib")
}

// StateDir returns the XDG state directory for snolabib.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "snolabib")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "snolabib")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	cfg.expand()

	if cfg.FirstYear > cfg.LastYear {
		return cfg, fmt.Errorf("parsing config: first_year %d is after last_year %d", cfg.FirstYear, cfg.LastYear)
	}
	return cfg, nil
}

func (c *Config) expand() {
	for _, p := range []*string{&c.AuthorsFile, &c.BibDir, &c.BibFile, &c.HTMLFile, &c.TemplateFile, &c.OutputFile, &c.Citeproc} {
		*p = expandHome(*p)
	}
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Require returns ErrMissingOption naming the first empty option. Names are
// the yaml keys, which double as the command line flag names.
func (c Config) Require(names ...string) error {
	for _, name := range names {
		if c.value(name) == "" {
			return fmt.Errorf("%w: --%s", ErrMissingOption, name)
		}
	}
	return nil
}

func (c Config) value(name string) string {
	switch name {
	case "authors_file":
		return c.AuthorsFile
	case "bib_dir":
		return c.BibDir
	case "bib_file":
		return c.BibFile
	case "html_file":
		return c.HTMLFile
	case "template_file":
		return c.TemplateFile
	case "output_file":
		return c.OutputFile
	case "citeproc":
		return c.Citeproc
	}
	return ""
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
