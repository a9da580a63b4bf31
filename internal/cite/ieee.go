package cite

import (
	"context"
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"

	"github.com/vanderheijden86/snolabib/internal/bib"
)

// IEEE is the built-in formatter. It produces IEEE-like references without
// any external tools, linking each item to its entry url.
type IEEE struct{}

var _ Formatter = IEEE{}

// Generate formats every entry of bibFile into htmlFile.
func (IEEE) Generate(_ context.Context, bibFile, htmlFile string) error {
	entries, err := bib.LoadLibrary(bibFile)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString("<li>")
		b.WriteString(FormatIEEE(e))
		b.WriteString("</li>\n")
	}
	if err := os.WriteFile(htmlFile, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", htmlFile, err)
	}
	return nil
}

var homonymRe = regexp.MustCompile(`\s+[0-9]{4}$`)

// Abbreviate shortens a full name to initials and surname:
// "Jean-Paul van Dam" becomes "J.-P. van Dam". DBLP homonym numbers are
// dropped.
func Abbreviate(name string) string {
	name = homonymRe.ReplaceAllString(strings.TrimSpace(stripBraces(name)), "")
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name
	}
	last := len(parts) - 1
	// keep lower case particles with the surname
	for last > 1 && isParticle(parts[last-1]) {
		last--
	}
	var out []string
	for _, p := range parts[:last] {
		out = append(out, initials(p))
	}
	out = append(out, strings.Join(parts[last:], " "))
	return strings.Join(out, " ")
}

func isParticle(s string) bool {
	return s != "" && strings.ToLower(s) == s
}

func initials(given string) string {
	if strings.HasSuffix(given, ".") {
		return given
	}
	var out []string
	for _, h := range strings.Split(given, "-") {
		r := []rune(h)
		if len(r) == 0 {
			continue
		}
		out = append(out, string(r[0])+".")
	}
	return strings.Join(out, "-")
}

// JoinNames lists abbreviated names the IEEE way. More than six names
// collapse to the first followed by "et al.".
func JoinNames(names []string) string {
	abbr := make([]string, len(names))
	for i, n := range names {
		abbr[i] = Abbreviate(n)
	}
	switch n := len(abbr); {
	case n == 0:
		return ""
	case n == 1:
		return abbr[0]
	case n == 2:
		return abbr[0] + " and " + abbr[1]
	case n > 6:
		return abbr[0] + " <i>et al.</i>"
	default:
		return strings.Join(abbr[:n-1], ", ") + ", and " + abbr[n-1]
	}
}

// FormatIEEE renders the body of one reference.
func FormatIEEE(e bib.Entry) string {
	field := func(name string) string {
		return html.EscapeString(stripBraces(bib.FixEscapes(e.Field(name))))
	}

	names := func(f string) string {
		list := e.Names(f)
		for i := range list {
			list[i] = bib.FixEscapes(list[i])
		}
		return html.EscapeString(JoinNames(list))
	}

	var parts []string
	if e.Has("author") {
		parts = append(parts, names("author")+",")
	} else if e.Has("editor") {
		parts = append(parts, names("editor")+", Eds.,")
	}
	if t := field("title"); t != "" {
		parts = append(parts, `"`+strings.TrimSuffix(t, ".")+`,"`)
	}

	var where []string
	switch e.Type {
	case "inproceedings", "incollection":
		if v := field("booktitle"); v != "" {
			where = append(where, "in <i>"+v+"</i>")
		}
	case "article":
		if v := field("journal"); v != "" {
			where = append(where, "<i>"+v+"</i>")
		}
		if v := field("volume"); v != "" {
			where = append(where, "vol. "+v)
		}
		if v := field("number"); v != "" {
			where = append(where, "no. "+v)
		}
	case "book", "proceedings":
		if v := field("publisher"); v != "" {
			where = append(where, v)
		}
	case "phdthesis", "mastersthesis":
		kind := "Ph.D. dissertation"
		if e.Type == "mastersthesis" {
			kind = "M.S. thesis"
		}
		where = append(where, kind)
		if v := field("school"); v != "" {
			where = append(where, v)
		}
	default:
		if v := field("howpublished"); v != "" {
			where = append(where, v)
		}
	}
	if v := field("pages"); v != "" {
		where = append(where, "pp. "+strings.ReplaceAll(v, "--", "–"))
	}
	if v := field("year"); v != "" {
		where = append(where, v)
	}

	out := strings.Join(parts, " ")
	if len(where) > 0 {
		out += " " + strings.Join(where, ", ") + "."
	} else if strings.HasSuffix(out, `,"`) {
		out = strings.TrimSuffix(out, `,"`) + `."`
	} else {
		out = strings.TrimSuffix(out, ",") + "."
	}

	if doi := e.Field("doi"); doi != "" && EntryURL(e) == "https://doi.org/"+doi {
		d := html.EscapeString(doi)
		out += ` DOI: <a href="https://doi.org/` + d + `">` + d + `</a>`
	} else if u := EntryURL(e); u != "" {
		u = html.EscapeString(u)
		out += ` [Online]. Available: <a href="` + u + `">` + u + `</a>`
	}
	return out
}
