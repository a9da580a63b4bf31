package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/snolabib/pkg/debug"
	"github.com/vanderheijden86/snolabib/pkg/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	var full bool
	var poll bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the page whenever its inputs change",
		Long: `watch assembles output_file once and then again whenever html_file,
bib_file or template_file change. With --all, a change to authors_file reruns
the whole pipeline including the DBLP download.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd.Context(), full, poll)
		},
	}
	cmd.Flags().BoolVar(&full, "all", false, "rerun download, filter and generate when authors_file changes")
	cmd.Flags().BoolVar(&poll, "poll", false, "poll instead of using filesystem events")
	return cmd
}

func (a *app) watch(ctx context.Context, full, poll bool) error {
	if err := a.cfg.Require("authors_file", "bib_file", "html_file", "output_file"); err != nil {
		return err
	}
	if err := a.fix(); err != nil {
		return err
	}

	paths := []string{a.cfg.HTMLFile, a.cfg.BibFile, a.cfg.TemplateFile}
	if full {
		paths = append(paths, a.cfg.AuthorsFile)
	}
	w, err := watcher.NewWatcher(paths,
		watcher.WithForcePoll(poll),
		watcher.WithOnError(func(err error) {
			fmt.Fprintf(a.errOut, "watch: %v\n", err)
		}),
	)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	mode := "events"
	if w.IsPolling() {
		mode = fmt.Sprintf("polling every %v", w.PollInterval())
	}
	fmt.Fprintf(a.out, "Watching %d files (%s, %s); Ctrl+C to stop\n", len(w.Paths()), w.FilesystemType(), mode)

	authors, _ := filepath.Abs(a.cfg.AuthorsFile)
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-w.Changed():
			debug.Log("watch: changed %v", changed)
			rebuild := a.fix
			if full && contains(changed, authors) {
				rebuild = func() error { return a.all(ctx) }
			}
			if err := rebuild(); err != nil {
				fmt.Fprintf(a.errOut, "rebuild failed: %v\n", err)
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
