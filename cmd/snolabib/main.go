// Command snolabib builds a filterable bibliography page from DBLP and lets
// you browse it in the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/snolabib/pkg/config"
	"github.com/vanderheijden86/snolabib/pkg/debug"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// app carries the state shared by every command.
type app struct {
	configPath string
	verbose    bool

	// flags holds option values given on the command line; only the ones
	// the user set override cfg.
	flags config.Config
	cfg   config.Config

	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "snolabib",
		Short: "Build and browse a filterable publication list",
		Long: `snolabib downloads author bibliographies from DBLP, keeps the entries in a
year window, formats them as IEEE references and assembles a single HTML
page whose publications can be filtered by author, year and venue.

Options are read from ~/.config/snolabib/config.yaml (or --config) and can be
overridden with flags of the same name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose {
				debug.SetEnabled(true)
			}
			return a.loadConfig(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			debug.Sync()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default "+config.ConfigPath()+")")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&a.flags.AuthorsFile, "authors_file", "", "JSON file with the authors to include")
	pf.StringVar(&a.flags.BibDir, "bib_dir", "", "directory for downloaded per-author bibtex")
	pf.StringVar(&a.flags.BibFile, "bib_file", "", "bibtex file with the selected entries")
	pf.StringVar(&a.flags.HTMLFile, "html_file", "", "formatted reference list")
	pf.StringVar(&a.flags.TemplateFile, "template_file", "", "page template (default built-in)")
	pf.StringVar(&a.flags.OutputFile, "output_file", "", "generated page")
	pf.StringVar(&a.flags.Citeproc, "citeproc", "", "citeproc-java executable (default built-in formatter)")
	pf.IntVar(&a.flags.FirstYear, "first_year", 0, "first year to include")
	pf.IntVar(&a.flags.LastYear, "last_year", 0, "last year to include")
	pf.DurationVar(&a.flags.Delay, "delay", 0, "minimum delay between DBLP requests")
	pf.StringVar(&a.flags.Heading.Singular, "singular", "", "heading noun for one publication")
	pf.StringVar(&a.flags.Heading.Plural, "plural", "", "heading noun for several publications")

	root.AddCommand(
		newDownloadCmd(a),
		newFilterCmd(a),
		newGenerateCmd(a),
		newFixCmd(a),
		newAllCmd(a),
		newRenderCmd(a),
		newBrowseCmd(a),
		newWatchCmd(a),
		newExportCmd(a),
		newInitCmd(a),
		newVersionCmd(a),
	)
	return root
}

// loadConfig reads the config file and applies the flags the user set.
func (a *app) loadConfig(cmd *cobra.Command) error {
	var (
		cfg config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFrom(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	fl := cmd.Flags()
	strs := []struct {
		name     string
		dst, src *string
	}{
		{"authors_file", &cfg.AuthorsFile, &a.flags.AuthorsFile},
		{"bib_dir", &cfg.BibDir, &a.flags.BibDir},
		{"bib_file", &cfg.BibFile, &a.flags.BibFile},
		{"html_file", &cfg.HTMLFile, &a.flags.HTMLFile},
		{"template_file", &cfg.TemplateFile, &a.flags.TemplateFile},
		{"output_file", &cfg.OutputFile, &a.flags.OutputFile},
		{"citeproc", &cfg.Citeproc, &a.flags.Citeproc},
		{"singular", &cfg.Heading.Singular, &a.flags.Heading.Singular},
		{"plural", &cfg.Heading.Plural, &a.flags.Heading.Plural},
	}
	for _, s := range strs {
		if fl.Changed(s.name) {
			*s.dst = *s.src
		}
	}
	if fl.Changed("first_year") {
		cfg.FirstYear = a.flags.FirstYear
	}
	if fl.Changed("last_year") {
		cfg.LastYear = a.flags.LastYear
	}
	if fl.Changed("delay") {
		cfg.Delay = a.flags.Delay
	}
	if cfg.FirstYear > cfg.LastYear {
		return fmt.Errorf("first_year %d is after last_year %d", cfg.FirstYear, cfg.LastYear)
	}

	a.cfg = cfg
	debug.Dump("config", cfg)
	return nil
}
