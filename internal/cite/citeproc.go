package cite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
)

// DefaultCiteproc is where the citeproc-java tool unpacks by default.
const DefaultCiteproc = "citeproc-java-tool-2.0.0/bin/citeproc-java"

// CiteprocDownloadURL is printed when the tool is missing.
const CiteprocDownloadURL = "https://github.com/michel-kraemer/citeproc-java/releases/download/2.0.0/citeproc-java-tool-2.0.0.zip"

// Citeproc formats with the external citeproc-java tool using the
// ieee-with-url style.
type Citeproc struct {
	Executable string
	Stdout     io.Writer
	Stderr     io.Writer
}

var _ Formatter = Citeproc{}

// Args returns the tool's command line.
func (c Citeproc) Args(bibFile, htmlFile string) []string {
	return []string{"-o", htmlFile, "bibliography", "-i", bibFile, "-s", "ieee-with-url", "-f", "html"}
}

// Generate runs the tool and rewrites its output into a <li> fragment.
func (c Citeproc) Generate(ctx context.Context, bibFile, htmlFile string) error {
	exe := c.Executable
	if exe == "" {
		exe = DefaultCiteproc
	}
	cmd := exec.CommandContext(ctx, exe, c.Args(bibFile, htmlFile)...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	if err := cmd.Run(); err != nil {
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			return fmt.Errorf("citeproc-java failed: %w", err)
		}
		return fmt.Errorf("running citeproc-java (download from %s): %w", CiteprocDownloadURL, err)
	}

	data, err := os.ReadFile(htmlFile)
	if err != nil {
		return fmt.Errorf("reading citeproc output: %w", err)
	}
	if err := os.WriteFile(htmlFile, []byte(PostProcess(string(data))), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", htmlFile, err)
	}
	return nil
}

var (
	onlineDOIRe = regexp.MustCompile(`\.? \[Online[^<\n]*doi\.org/([^<\s]*)`)
	availableRe = regexp.MustCompile(` Available: (http[^ \n<]*)`)
	divTagRe    = regexp.MustCompile(`<[/]*div[^>]*>`)
	refNumberRe = regexp.MustCompile(`\[[0-9]+\]`)
	lineEndRe   = regexp.MustCompile(`(?m)>$`)
)

// PostProcess turns citeproc's ieee-with-url html into one <li> per line and
// links DOIs and urls.
func PostProcess(s string) string {
	s = onlineDOIRe.ReplaceAllString(s, `. DOI: <a href="https://doi.org/$1">$1</a>`)
	s = availableRe.ReplaceAllString(s, ` Available: <a href="$1">$1</a>`)
	s = divTagRe.ReplaceAllString(s, "")
	s = refNumberRe.ReplaceAllString(s, "<li>")
	return lineEndRe.ReplaceAllString(s, "></li>\n")
}
