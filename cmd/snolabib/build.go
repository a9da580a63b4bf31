package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/snolabib/internal/bib"
	"github.com/vanderheijden86/snolabib/internal/cite"
	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/model"
	"github.com/vanderheijden86/snolabib/pkg/page"
)

func newDownloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Download each author's bibliography from DBLP into bib_dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.download(cmd.Context())
		},
	}
}

func newFilterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "filter",
		Short: "Merge the downloaded entries in the year window into bib_file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.filter()
		},
	}
}

func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Format bib_file as a reference list in html_file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd.Context())
		},
	}
}

func newFixCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fix",
		Short: "Assemble the filterable page in output_file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.fix()
		},
	}
}

func newAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run download, filter, generate and fix in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.all(cmd.Context())
		},
	}
}

func (a *app) all(ctx context.Context) error {
	if err := a.cfg.Require("authors_file", "bib_dir", "bib_file", "html_file", "output_file"); err != nil {
		return err
	}
	if err := a.download(ctx); err != nil {
		return err
	}
	if err := a.filter(); err != nil {
		return err
	}
	if err := a.generate(ctx); err != nil {
		return err
	}
	return a.fix()
}

func (a *app) directory() (model.Directory, error) {
	if err := a.cfg.Require("authors_file"); err != nil {
		return model.Directory{}, err
	}
	return model.LoadDirectory(a.cfg.AuthorsFile)
}

func (a *app) download(ctx context.Context) error {
	if err := a.cfg.Require("authors_file", "bib_dir"); err != nil {
		return err
	}
	dir, err := a.directory()
	if err != nil {
		return err
	}
	f := bib.NewFetcher(bib.WithDelay(a.cfg.Delay), bib.WithProgress(a.out))
	if err := f.DownloadAll(ctx, dir, a.cfg.BibDir); err != nil {
		return fmt.Errorf("download: %w", err)
	}
	fmt.Fprintf(a.out, "Downloaded %d author bibliographies into %s\n", dir.Len(), a.cfg.BibDir)
	return nil
}

func (a *app) filter() error {
	if err := a.cfg.Require("authors_file", "bib_dir", "bib_file"); err != nil {
		return err
	}
	dir, err := a.directory()
	if err != nil {
		return err
	}
	w := bib.Window{First: a.cfg.FirstYear, Last: a.cfg.LastYear}
	sel, err := bib.SelectFiles(dir, a.cfg.BibDir, w)
	if err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	if err := sel.WriteFile(a.cfg.BibFile); err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	for _, st := range sel.Authors {
		fmt.Fprintf(a.out, "  %-20s %4d of %4d entries in %d-%d\n", st.Author, st.Selected, st.Total, w.First, w.Last)
		for _, b := range st.Bad {
			first, _, _ := strings.Cut(strings.TrimSpace(b), "\n")
			fmt.Fprintf(a.errOut, "  %-20s skipped malformed entry: %s\n", st.Author, first)
		}
	}
	fmt.Fprintf(a.out, "Kept %d distinct entries of %d (%d duplicates) in %s\n",
		sel.Len(), sel.Total, sel.Duplicates, a.cfg.BibFile)
	return nil
}

func (a *app) formatter() cite.Formatter {
	if a.cfg.Citeproc == "" {
		return cite.IEEE{}
	}
	return cite.Citeproc{Executable: a.cfg.Citeproc, Stdout: a.out, Stderr: a.errOut}
}

func (a *app) generate(ctx context.Context) error {
	if err := a.cfg.Require("bib_file", "html_file"); err != nil {
		return err
	}
	if err := a.formatter().Generate(ctx, a.cfg.BibFile, a.cfg.HTMLFile); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	fmt.Fprintf(a.out, "Formatted %s into %s\n", a.cfg.BibFile, a.cfg.HTMLFile)
	return nil
}

func (a *app) fix() error {
	if err := a.cfg.Require("authors_file", "bib_file", "html_file", "output_file"); err != nil {
		return err
	}
	dir, err := a.directory()
	if err != nil {
		return err
	}
	entries, err := bib.LoadLibrary(a.cfg.BibFile)
	if err != nil {
		return err
	}
	items, rep, err := cite.LinkFile(a.cfg.HTMLFile, entries)
	if err != nil {
		return err
	}
	for _, key := range rep.NoURL {
		fmt.Fprintf(a.errOut, "  no url for %s, left out\n", key)
	}
	for _, u := range rep.Unmatched {
		fmt.Fprintf(a.errOut, "  no entry for reference %s, left out\n", u)
	}

	tmpl, err := page.LoadTemplate(a.cfg.TemplateFile)
	if err != nil {
		return err
	}
	assembled, err := page.Assemble(tmpl, dir, items)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := page.Prerender(strings.NewReader(assembled), &buf, page.Options{Heading: a.heading()}); err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	if err := os.WriteFile(a.cfg.OutputFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", a.cfg.OutputFile, err)
	}
	fmt.Fprintf(a.out, "Wrote %d of %d publications to %s\n", rep.Linked, rep.Entries, a.cfg.OutputFile)
	return nil
}

func (a *app) heading() filter.Heading {
	return filter.Heading{Singular: a.cfg.Heading.Singular, Plural: a.cfg.Heading.Plural}
}
