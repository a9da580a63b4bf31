package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/snolabib/pkg/config"
	"github.com/vanderheijden86/snolabib/pkg/model"
)

const amyBib = `@inproceedings{DBLP:conf/icse/AlphaB20,
  author       = {Amy Alpha and
                  Bob Beta},
  title        = {Testing Things},
  booktitle    = {Proceedings of {ICSE} 2020},
  pages        = {1--10},
  year         = {2020},
  url          = {https://doi.org/10.1145/1234},
  doi          = {10.1145/1234},
  biburl       = {https://dblp.org/rec/conf/icse/AlphaB20.bib},
  bibsource    = {dblp computer science bibliography, https://dblp.org}
}

@article{DBLP:journals/tse/Alpha15,
  author       = {Amy Alpha},
  title        = {Old Work},
  journal      = {{IEEE} Trans. Software Eng.},
  year         = {2015},
  url          = {https://doi.org/10.1109/5678},
  doi          = {10.1109/5678},
  biburl       = {https://dblp.org/rec/journals/tse/Alpha15.bib},
  bibsource    = {dblp computer science bibliography, https://dblp.org}
}
`

const bobBib = `@inproceedings{DBLP:conf/icse/AlphaB20,
  author       = {Amy Alpha and
                  Bob Beta},
  title        = {Testing Things},
  booktitle    = {Proceedings of {ICSE} 2020},
  pages        = {1--10},
  year         = {2020},
  url          = {https://doi.org/10.1145/1234},
  doi          = {10.1145/1234},
  biburl       = {https://dblp.org/rec/conf/icse/AlphaB20.bib},
  bibsource    = {dblp computer science bibliography, https://dblp.org}
}

@inproceedings{DBLP:conf/chi/Beta22,
  author       = {Bob Beta},
  title        = {Later Work},
  booktitle    = {{CHI} 2022},
  year         = {2022},
  url          = {https://example.org/beta22},
  biburl       = {https://dblp.org/rec/conf/chi/Beta22.bib},
  bibsource    = {dblp computer science bibliography, https://dblp.org}
}
`

// project lays out an authors file, downloaded bibliographies and a config
// in a temp dir and returns the config path.
func project(t *testing.T) (string, config.Config) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg-config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "xdg-state"))

	bibDir := filepath.Join(dir, "bib")
	if err := os.MkdirAll(bibDir, 0o755); err != nil {
		t.Fatal(err)
	}
	write := func(path, content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(bibDir, "amy.bib"), amyBib)
	write(filepath.Join(bibDir, "bob.bib"), bobBib)

	cfg := config.Config{
		AuthorsFile: filepath.Join(dir, "authors.json"),
		BibDir:      bibDir,
		BibFile:     filepath.Join(dir, "selected.bib"),
		HTMLFile:    filepath.Join(dir, "selected.html"),
		OutputFile:  filepath.Join(dir, "pubs.html"),
		FirstYear:   2019,
		LastYear:    2023,
	}
	write(cfg.AuthorsFile, `{"amy": {"id": "11/1", "name": "Amy Alpha"}, "bob": {"id": "22/2", "name": "Bob Beta"}}`)

	path := filepath.Join(dir, "config.yaml")
	if err := config.SaveTo(cfg, path); err != nil {
		t.Fatal(err)
	}
	return path, cfg
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestPipeline(t *testing.T) {
	cfgPath, cfg := project(t)

	out, _, err := run(t, "--config", cfgPath, "filter")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if !strings.Contains(out, "Kept 2 distinct entries of 4 (1 duplicates)") {
		t.Errorf("unexpected filter summary:\n%s", out)
	}

	if _, _, err := run(t, "--config", cfgPath, "generate"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	out, _, err = run(t, "--config", cfgPath, "fix")
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if !strings.Contains(out, "Wrote 2 of 2 publications") {
		t.Errorf("unexpected fix summary:\n%s", out)
	}

	data, err := os.ReadFile(cfg.OutputFile)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	for _, want := range []string{
		"2 publications</h2>",
		`data-facet="author" data-value="22/2"`,
		`data-facet="year" data-value="2022"`,
		`data-facet="venue" data-value="conf/icse"`,
		`data-dblpid="conf/icse/AlphaB20"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}

	snapshot := filepath.Join(t.TempDir(), "2022.html")
	_, stderr, err := run(t, "--config", cfgPath, "render", "--select", "year=2022", "-o", snapshot, "--stats")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(stderr, "1 publication") {
		t.Errorf("stats missing heading: %q", stderr)
	}
	data, err = os.ReadFile(snapshot)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "1 publication</h2>") {
		t.Error("snapshot heading not updated")
	}

	if _, _, err := run(t, "--config", cfgPath, "render", "--select", "year=1999", "-o", snapshot); err == nil {
		t.Error("render with an unknown selection succeeded")
	}
	if kept, _ := os.ReadFile(snapshot); !bytes.Equal(kept, data) {
		t.Error("failed render overwrote the snapshot")
	}
	missing := filepath.Join(t.TempDir(), "never.html")
	if _, _, err := run(t, "--config", cfgPath, "render", "--select", "year=1999", "-o", missing); err == nil {
		t.Error("render with an unknown selection succeeded")
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Errorf("failed render created %s: %v", missing, err)
	}

	md := filepath.Join(t.TempDir(), "pubs.md")
	if _, _, err := run(t, "--config", cfgPath, "export", "--select", "author=11/1", "--markdown", md); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err = os.ReadFile(md)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# 1 publication\n") {
		t.Errorf("markdown export:\n%s", data)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfgPath, _ := project(t)

	out, _, err := run(t, "--config", cfgPath, "--first_year", "2021", "filter")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if !strings.Contains(out, "Kept 1 distinct entries") {
		t.Errorf("first_year flag ignored:\n%s", out)
	}

	_, _, err = run(t, "--config", cfgPath, "--first_year", "2030", "filter")
	if err == nil || !strings.Contains(err.Error(), "after last_year") {
		t.Errorf("expected year window error, got %v", err)
	}
}

func TestMissingOption(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	_, _, err := run(t, "fix")
	if !errors.Is(err, config.ErrMissingOption) {
		t.Fatalf("expected ErrMissingOption, got %v", err)
	}
	if !strings.Contains(err.Error(), "--authors_file") {
		t.Errorf("error should name the option: %v", err)
	}
}

func TestExportNeedsOutput(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, _, err := run(t, "export", "pubs.html")
	if err == nil || !strings.Contains(err.Error(), "nothing to export") {
		t.Errorf("expected nothing to export error, got %v", err)
	}
}

func TestSelectionSyntax(t *testing.T) {
	cfgPath, _ := project(t)
	_, _, err := run(t, "--config", cfgPath, "render", "--select", "decade=2020")
	if err == nil || !strings.Contains(err.Error(), "unknown facet") {
		t.Errorf("expected unknown facet error, got %v", err)
	}
}

func TestBrowseRemembersOnlyOnRequest(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)
	if got := rememberedSelection(false); got != "" {
		t.Errorf("selection path without --remember = %q", got)
	}
	want := filepath.Join(state, "snolabib", "selection.yaml")
	if got := rememberedSelection(true); got != want {
		t.Errorf("selection path = %q, want %q", got, want)
	}

	cmd, _, err := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{}).Find([]string{"browse"})
	if err != nil {
		t.Fatal(err)
	}
	flag := cmd.Flags().Lookup("remember")
	if flag == nil || flag.DefValue != "false" {
		t.Errorf("remember flag = %+v, want default false", flag)
	}
}

func TestVersion(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "snolabib v") {
		t.Errorf("version output = %q", out)
	}
}

func TestWriteProject(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	a := &app{out: &out}
	cfg := config.DefaultConfig()
	cfg.AuthorsFile = filepath.Join(dir, "authors.json")
	cfgPath := filepath.Join(dir, "cfg", "config.yaml")

	authors := []model.Author{
		{Key: "amy", ID: "11/1", Name: "Amy Alpha"},
		{Key: "bob", ID: "22/2", Name: "Bob Beta"},
	}
	if err := a.writeProject(cfg, authors, cfgPath); err != nil {
		t.Fatal(err)
	}

	d, err := model.LoadDirectory(cfg.AuthorsFile)
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 2 || d.Authors[1].Key != "bob" {
		t.Errorf("authors round trip = %+v", d.Authors)
	}
	got, err := config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if got.AuthorsFile != cfg.AuthorsFile {
		t.Errorf("config authors_file = %q", got.AuthorsFile)
	}

	if err := a.writeProject(cfg, nil, cfgPath); !errors.Is(err, model.ErrNoDirectory) {
		t.Errorf("expected ErrNoDirectory, got %v", err)
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string) error
		in    string
		valid bool
	}{
		{"pid numeric", isPID, "50/5454", true},
		{"pid named", isPID, "m/JohnMiller", true},
		{"pid bare", isPID, "5454", false},
		{"year", isYear, "2021", true},
		{"year text", isYear, "soon", false},
		{"empty", notEmpty, "  ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(tt.in)
			if (err == nil) != tt.valid {
				t.Errorf("%s(%q) = %v, want valid=%v", tt.name, tt.in, err, tt.valid)
			}
		})
	}
}
