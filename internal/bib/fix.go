// Package bib downloads DBLP bibliographies, cleans their LaTeX escapes and
// selects the entries that go on the page.
//
// The functions here work on DBLP's bibtex layout (two-space field indent,
// one entry per blank-line separated block) and are not a general bibtex
// toolkit.
package bib

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// replaceEscapes replaces {\<char>{x}} with the accented letter. pairs lists
// plain and accented letters alternately, e.g. "aáeé".
func replaceEscapes(s, char, pairs string) string {
	r := []rune(pairs)
	for i := 0; i+1 < len(r); i += 2 {
		s = strings.ReplaceAll(s, `{\`+char+`{`+string(r[i])+`}}`, string(r[i+1]))
	}
	return s
}

// FixEscapes replaces common LaTeX accent escapes with their unicode letters.
// Braces that protect author name parts are left alone.
func FixEscapes(text string) string {
	text = replaceEscapes(text, `'`, "aáeéiíoóuúAÁEÉIÍOÓUÚ")
	text = replaceEscapes(text, `"`, "aäeëiïoöuüAÄEËIÏOÖUÜ")
	text = replaceEscapes(text, "`", "aàeèiìoòuùAÀEÈIÌOÒUÙ")
	text = strings.ReplaceAll(text, `{\'{i}}`, "í")
	text = strings.ReplaceAll(text, `{\~{a}}`, "ã")
	text = strings.ReplaceAll(text, `{\~{n}}`, "ñ")
	text = strings.ReplaceAll(text, `{\c{c}}`, "ç")
	return norm.NFC.String(text)
}

var (
	htmlLineRe    = regexp.MustCompile(`(?m)^<.*$`)
	dotlessRe     = regexp.MustCompile(`\{\\([a-z])\}`)
	urlEscapeRe   = regexp.MustCompile(`\\([_&#%])`)
	htmlEntityAmp = "&#38;"
)

// FixInitial cleans a freshly downloaded bibliography. Some DBLP pages are
// HTML wrapping <pre> blocks; their tag lines are blanked.
func FixInitial(text string) string {
	text = htmlLineRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&apos;", "'")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	// {\i} => {i}
	text = dotlessRe.ReplaceAllString(text, "{$1}")
	return FixEscapes(text)
}

// FixURL undoes LaTeX escaping inside urls.
func FixURL(url string) string {
	url = urlEscapeRe.ReplaceAllString(url, "$1")
	return strings.ReplaceAll(url, htmlEntityAmp, "&")
}

// FixAuthors cleans author names. It must run after bibtex parsing, since it
// removes the braces that keep name parts together.
func FixAuthors(text string) string {
	text = strings.ReplaceAll(text, "{-}", "-")
	return strings.ReplaceAll(text, "{ }", " ")
}
