package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/metrics"
	"github.com/vanderheijden86/snolabib/pkg/page"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		selects []string
		output  string
		stats   bool
	)
	cmd := &cobra.Command{
		Use:   "render [page]",
		Short: "Pre-render a page with filter buttons, counts and preselected filters",
		Long: `render fills the filter panels of a generated page, applies the given
selections as if their buttons were clicked and writes the resulting static
snapshot. The page defaults to output_file.

  snolabib render pubs.html --select year=2023 --select venue=conf/icse -o 2023.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.pagePath(args)
			if err != nil {
				return err
			}
			opts, err := a.pageOptions(selects)
			if err != nil {
				return err
			}

			r, err := os.Open(in)
			if err != nil {
				return err
			}
			defer r.Close()

			// Buffered so a failed render leaves an existing output untouched.
			var buf bytes.Buffer
			e, err := page.Prerender(r, &buf, opts)
			if err != nil {
				return err
			}
			if err := a.writeOutput(output, buf.Bytes()); err != nil {
				return err
			}
			if stats {
				fmt.Fprintln(a.errOut, e.Heading().Text(e.Result().Total))
				metrics.Fprint(a.errOut)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&selects, "select", nil, "preselect a filter as facet=value (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&stats, "stats", false, "print the heading and timing metrics to stderr")
	return cmd
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func (a *app) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := a.out.Write(data)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// pagePath returns the page argument, falling back to output_file.
func (a *app) pagePath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if err := a.cfg.Require("output_file"); err != nil {
		return "", errors.New("no page given and output_file is not set")
	}
	return a.cfg.OutputFile, nil
}

func (a *app) pageOptions(selects []string) (page.Options, error) {
	opts := page.Options{Heading: a.heading()}
	for _, s := range selects {
		sel, err := page.ParseSelection(s)
		if err != nil {
			return opts, err
		}
		opts.Select = append(opts.Select, sel)
	}
	return opts, nil
}

// loadPage parses a page and mounts an engine on it.
func (a *app) loadPage(path string, opts page.Options) (*filter.Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := page.ParseDOM(f)
	if err != nil {
		return nil, err
	}
	return page.Mount(d, opts)
}
