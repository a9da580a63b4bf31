package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/snolabib/pkg/export"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		selects  []string
		sqlite   string
		markdown string
		svg      string
	)
	cmd := &cobra.Command{
		Use:   "export [page]",
		Short: "Export the (filtered) publications as SQLite, markdown or an SVG histogram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sqlite == "" && markdown == "" && svg == "" {
				return errors.New("nothing to export: pass --sqlite, --markdown or --svg")
			}
			path, err := a.pagePath(args)
			if err != nil {
				return err
			}
			opts, err := a.pageOptions(selects)
			if err != nil {
				return err
			}
			e, err := a.loadPage(path, opts)
			if err != nil {
				return err
			}
			d := export.FromEngine(e)

			if sqlite != "" {
				if err := export.NewSQLiteExporter(d).Export(sqlite); err != nil {
					return fmt.Errorf("sqlite export: %w", err)
				}
				fmt.Fprintf(a.out, "Wrote %s\n", sqlite)
			}
			if markdown != "" {
				if err := export.SaveMarkdown(markdown, d); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Wrote %s\n", markdown)
			}
			if svg != "" {
				if err := export.SaveYearHistogram(svg, d); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Wrote %s\n", svg)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&selects, "select", nil, "export only publications matching facet=value (repeatable)")
	cmd.Flags().StringVar(&sqlite, "sqlite", "", "write a SQLite database")
	cmd.Flags().StringVar(&markdown, "markdown", "", "write a markdown list")
	cmd.Flags().StringVar(&svg, "svg", "", "write an SVG histogram of publications per year")
	return cmd
}
