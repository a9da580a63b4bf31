package main

import (
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/snolabib/pkg/config"
	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/page"
	"github.com/vanderheijden86/snolabib/pkg/ui"
	"github.com/vanderheijden86/snolabib/pkg/watcher"
)

// errNoTerminal is returned when browse is started without a terminal.
var errNoTerminal = errors.New("browse needs an interactive terminal; use render for a static snapshot")

func newBrowseCmd(a *app) *cobra.Command {
	var noWatch, remember bool
	cmd := &cobra.Command{
		Use:   "browse [page]",
		Short: "Filter a generated page interactively in the terminal",
		Long: `browse mounts a generated page in a terminal UI. Selections start empty
on every run; --remember restores the last selection and saves it on quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNoTerminal
			}
			path, err := a.pagePath(args)
			if err != nil {
				return err
			}
			load := func() (*filter.Engine, error) {
				return a.loadPage(path, page.Options{Heading: a.heading()})
			}
			e, err := load()
			if err != nil {
				return err
			}

			opts := []ui.Option{ui.WithSelectionPath(rememberedSelection(remember))}
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				opts = append(opts, ui.WithSize(w, h))
			}
			if !noWatch {
				w, err := watcher.NewWatcher([]string{path})
				if err != nil {
					return err
				}
				if err := w.Start(); err != nil {
					return err
				}
				defer w.Stop()
				opts = append(opts, ui.WithWatcher(w, load))
			}

			m, err := ui.NewModel(e, opts...)
			if err != nil {
				return err
			}
			return runTUIProgram(m)
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload when the page changes on disk")
	cmd.Flags().BoolVar(&remember, "remember", false, "restore and save the selection across runs")
	return cmd
}

// rememberedSelection returns where browse keeps its selection, "" unless
// remember is set.
func rememberedSelection(remember bool) string {
	if !remember {
		return ""
	}
	return config.SelectionPath()
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated runs: set SNOLABIB_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("SNOLABIB_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()
				select {
				case <-runDone:
				case <-timer.C:
					p.Quit()
				}
			}()
		}
	}

	_, err := p.Run()
	return err
}
