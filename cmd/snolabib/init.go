package main

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/snolabib/pkg/config"
	"github.com/vanderheijden86/snolabib/pkg/model"
)

var pidRe = regexp.MustCompile(`^[0-9A-Za-z_-]+/[0-9A-Za-z_-]+$`)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an authors file and a config interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit()
		},
	}
}

// newForm enables accessible mode when stdin is not a terminal.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		form = form.WithAccessible(true)
	}
	return form
}

func (a *app) runInit() error {
	cfg := a.cfg
	if cfg.AuthorsFile == "" {
		cfg.AuthorsFile = "authors.json"
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = "publications.html"
	}
	first, last := strconv.Itoa(cfg.FirstYear), strconv.Itoa(cfg.LastYear)

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Authors file").
				Value(&cfg.AuthorsFile).
				Validate(notEmpty),
			huh.NewInput().
				Title("Generated page").
				Value(&cfg.OutputFile).
				Validate(notEmpty),
			huh.NewInput().
				Title("First year").
				Value(&first).
				Validate(isYear),
			huh.NewInput().
				Title("Last year").
				Value(&last).
				Validate(isYear),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	cfg.FirstYear, _ = strconv.Atoi(first)
	cfg.LastYear, _ = strconv.Atoi(last)

	var authors []model.Author
	for more := true; more; {
		var au model.Author
		more = false
		form := newForm(
			huh.NewGroup(
				huh.NewInput().
					Title(fmt.Sprintf("Author %d: DBLP person id", len(authors)+1)).
					Description("the part after dblp.org/pid/, e.g. 50/5454").
					Value(&au.ID).
					Validate(isPID),
				huh.NewInput().
					Title("Full name").
					Value(&au.Name).
					Validate(notEmpty),
				huh.NewInput().
					Title("Short name").
					Description("used for the downloaded bibtex file name").
					Value(&au.Key).
					Validate(notEmpty),
				huh.NewConfirm().
					Title("Add another author?").
					Value(&more),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		authors = append(authors, au)
	}

	path := a.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	return a.writeProject(cfg, authors, path)
}

// writeProject saves the authors file and the config.
func (a *app) writeProject(cfg config.Config, authors []model.Author, cfgPath string) error {
	dir := model.NewDirectory(authors)
	if dir.Len() == 0 {
		return model.ErrNoDirectory
	}
	if cfg.FirstYear > cfg.LastYear {
		return fmt.Errorf("first_year %d is after last_year %d", cfg.FirstYear, cfg.LastYear)
	}
	if err := model.SaveDirectory(dir, cfg.AuthorsFile); err != nil {
		return err
	}
	if err := config.SaveTo(cfg, cfgPath); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wrote %d authors to %s and the config to %s\n", dir.Len(), cfg.AuthorsFile, cfgPath)
	fmt.Fprintln(a.out, "Run `snolabib all` to build the page.")
	return nil
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func isYear(s string) error {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < 1900 || y > 3000 {
		return errors.New("enter a four digit year")
	}
	return nil
}

func isPID(s string) error {
	if !pidRe.MatchString(strings.TrimSpace(s)) {
		return errors.New("expected a DBLP person id like 50/5454")
	}
	return nil
}
