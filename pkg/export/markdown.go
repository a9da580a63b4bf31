package export

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/page"
)

// markdownEscaper escapes characters that start markdown emphasis or links.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"`", "\\`",
)

// WriteMarkdown writes the visible publications grouped by year, newest year
// first. Within a year, page order is kept.
func WriteMarkdown(w io.Writer, d Dataset) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", d.Heading.Text(d.VisibleCount()))

	if d.Active {
		var parts []string
		for _, f := range filter.Facets {
			for _, v := range d.Selected[f] {
				parts = append(parts, fmt.Sprintf("%s: %s", f, d.label(f, v)))
			}
		}
		fmt.Fprintf(&b, "\n_Filtered by %s._\n", markdownEscaper.Replace(strings.Join(parts, "; ")))
	}

	groups := make(map[string][]int)
	var years []string
	for i, p := range d.Publications {
		if i >= len(d.Visible) || !d.Visible[i] {
			continue
		}
		if _, ok := groups[p.Year]; !ok {
			years = append(years, p.Year)
		}
		groups[p.Year] = append(groups[p.Year], i)
	}
	sort.SliceStable(years, func(i, j int) bool {
		a, aok := yearNumber(years[i])
		c, cok := yearNumber(years[j])
		if aok != cok {
			return aok
		}
		return a > c
	})

	for _, y := range years {
		heading := y
		if heading == "" {
			heading = "Undated"
		}
		fmt.Fprintf(&b, "\n## %s\n\n", heading)
		for _, i := range groups[y] {
			p := d.Publications[i]
			text := markdownEscaper.Replace(page.PlainText(p.HTML))
			if text == "" {
				text = markdownEscaper.Replace(p.Key)
			}
			fmt.Fprintf(&b, "- %s", text)
			if p.Venue != "" {
				fmt.Fprintf(&b, " `%s`", p.Venue)
			}
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// SaveMarkdown writes the markdown export to path.
func SaveMarkdown(path string, d Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create markdown: %w", err)
	}
	if err := WriteMarkdown(f, d); err != nil {
		f.Close()
		return fmt.Errorf("write markdown: %w", err)
	}
	return f.Close()
}
