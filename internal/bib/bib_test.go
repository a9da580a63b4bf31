package bib

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/vanderheijden86/snolabib/pkg/model"
)

func testDirectory() model.Directory {
	return model.NewDirectory([]model.Author{
		{Key: "amy", ID: "11/111", Name: "Amy Alpha"},
		{Key: "bob", ID: "b/BobBeta", Name: "Bob Beta"},
	})
}

func TestFixEscapes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`Jos{\'{e}}`, "José"},
		{`M{\"{u}}ller`, "Müller"},
		{"Cr{\\`{e}}me", "Crème"},
		{`Espa{\~{n}}a`, "España"},
		{`Fran{\c{c}}ois`, "François"},
		{`S{\~{a}}o`, "São"},
		{`{\'{I}}ñigo`, "Íñigo"},
		{`untouched {Braces}`, "untouched {Braces}"},
	}
	for _, tt := range tests {
		if got := FixEscapes(tt.in); got != tt.want {
			t.Errorf("FixEscapes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFixInitial(t *testing.T) {
	in := "<pre>\n  title = {Rock &apos;n&apos; &quot;roll&quot;},\n  author = {Garc{\\'{\\i}}a},\n</pre>"
	got := FixInitial(in)
	if strings.Contains(got, "<pre>") || strings.Contains(got, "</pre>") {
		t.Errorf("html lines kept: %q", got)
	}
	if !strings.Contains(got, `Rock 'n' "roll"`) {
		t.Errorf("entities not fixed: %q", got)
	}
	if !strings.Contains(got, "García") {
		t.Errorf("dotless i not fixed: %q", got)
	}
}

func TestFixURL(t *testing.T) {
	in := `http://ixdea.uniroma2.it/index.php?s=10\&\#38;a=10\&link=ToC\_45\_P\%20`
	want := `http://ixdea.uniroma2.it/index.php?s=10&a=10&link=ToC_45_P%20`
	if got := FixURL(in); got != want {
		t.Errorf("FixURL = %q, want %q", got, want)
	}
}

func TestFixAuthors(t *testing.T) {
	if got := FixAuthors("Jean{-}Paul van{ }Dam"); got != "Jean-Paul van Dam" {
		t.Errorf("FixAuthors = %q", got)
	}
}

func TestParseEntry(t *testing.T) {
	data, err := os.ReadFile("testdata/amy.bib")
	if err != nil {
		t.Fatal(err)
	}
	entries, err := ParseEntries(string(data))
	if err != nil {
		t.Fatalf("ParseEntries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	e := entries[0]
	if e.Type != "inproceedings" || e.ID() != "conf/icse/AlphaB20" {
		t.Errorf("type/key = %q/%q", e.Type, e.ID())
	}
	if got := e.Names("author"); !reflect.DeepEqual(got, []string{"Amy Alpha", "Bob Beta"}) {
		t.Errorf("authors = %v", got)
	}
	if e.Field("publisher") != "{ACM}" {
		t.Errorf("publisher = %q", e.Field("publisher"))
	}
	if e.Field("YEAR") != "2020" {
		t.Errorf("case-insensitive field lookup failed: %q", e.Field("YEAR"))
	}
	if e.Field("author") != "Amy Alpha and Bob Beta" {
		t.Errorf("whitespace not collapsed: %q", e.Field("author"))
	}
	if got := []string{entries[1].ID(), entries[2].ID()}; !reflect.DeepEqual(got, []string{"journals/tse/Alpha15", "conf/idea/Alpha21"}) {
		t.Errorf("entry order = %v", got)
	}
}

func TestParseEntryForms(t *testing.T) {
	e, err := ParseEntry(`@Article{k1, Title = "A {Quoted} title", year = 2019, month = jan}`)
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if e.Type != "article" || e.Key != "k1" {
		t.Errorf("entry = %+v", e)
	}
	if e.Field("title") != "A Quoted title" || e.Field("year") != "2019" || e.Field("month") != "January" {
		t.Errorf("fields = %v", e.Fields)
	}

	entries, err := ParseEntries("@comment{ignored {nested}}\n@misc{k2, note={x}}")
	if err != nil || len(entries) != 1 || entries[0].Key != "k2" {
		t.Errorf("comment handling: %+v, %v", entries, err)
	}
}

func TestParseEntryMalformed(t *testing.T) {
	for _, in := range []string{
		`@misc{k, title = {open`,
		`@misc{k, title}`,
		`@{k, a = b}`,
	} {
		if _, err := ParseEntry(in); !errors.Is(err, ErrMalformedEntry) {
			t.Errorf("ParseEntry(%q) err = %v, want ErrMalformedEntry", in, err)
		}
	}
}

func TestParseAfterMalformed(t *testing.T) {
	if _, err := ParseEntries(`@misc{k, title = {open`); err == nil {
		t.Fatal("expected error for unterminated value")
	}
	e, err := ParseEntry("@misc{DBLP:a/b/C,\n  year = {2020}\n}")
	if err != nil {
		t.Fatalf("parse after failure: %v", err)
	}
	if e.ID() != "a/b/C" || e.Field("year") != "2020" {
		t.Errorf("entry = %+v", e)
	}
}

func TestParseEntriesConcurrent(t *testing.T) {
	data, err := os.ReadFile("testdata/amy.bib")
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries, err := ParseEntries(string(data))
			if err == nil && len(entries) != 3 {
				err = fmt.Errorf("got %d entries", len(entries))
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
}

func TestSelectFiles(t *testing.T) {
	s, err := SelectFiles(testDirectory(), "testdata", Window{First: 2018, Last: 2023})
	if err != nil {
		t.Fatalf("SelectFiles: %v", err)
	}
	if got := s.Keys(); !reflect.DeepEqual(got, []string{"conf/icse/AlphaB20", "conf/idea/Alpha21", "conf/ixdea/Beta22"}) {
		t.Errorf("keys = %v", got)
	}
	if s.Duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", s.Duplicates)
	}
	if got := s.AuthorsOf("conf/icse/AlphaB20"); !reflect.DeepEqual(got, []string{"11/111", "b/BobBeta"}) {
		t.Errorf("shared entry authors = %v", got)
	}
	if s.Authors[0].Selected != 2 || s.Authors[0].Total != 3 {
		t.Errorf("amy stats = %+v", s.Authors[0])
	}
	if len(s.Authors[1].Bad) != 1 {
		t.Errorf("bob bad blocks = %d, want 1", len(s.Authors[1].Bad))
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "https://dblp.org},\n  dblpid       = {11/111,b/BobBeta}") {
		t.Errorf("dblpid not injected:\n%s", out)
	}
	if !strings.Contains(out, "url          = {https://localhost/conf/idea/Alpha21},\n  year") {
		t.Errorf("fake url not injected:\n%s", out)
	}
	if !strings.Contains(out, "index.php?s=10&a=10&link=ToC_45_P}") {
		t.Errorf("url not unescaped:\n%s", out)
	}
	if strings.Contains(out, "Alpha15") {
		t.Error("entry outside the window written")
	}

	entries, err := ParseEntries(out)
	if err != nil {
		t.Fatalf("selected output does not parse: %v", err)
	}
	if got := entries[0].AuthorIDs(); !reflect.DeepEqual(got, []string{"11/111", "b/BobBeta"}) {
		t.Errorf("parsed dblpid = %v", got)
	}
}

func TestWithDBLPIDWithoutBibsource(t *testing.T) {
	got := withDBLPID("@misc{DBLP:x/y/Z,\n  year = {2020}\n}", []string{"a"})
	want := "@misc{DBLP:x/y/Z,\n  year = {2020},\n  dblpid       = {a}\n}"
	if got != want {
		t.Errorf("withDBLPID = %q, want %q", got, want)
	}
}

func TestSelectFilesMissing(t *testing.T) {
	if _, err := SelectFiles(testDirectory(), t.TempDir(), Window{2000, 2030}); err == nil {
		t.Error("expected error for missing author file")
	}
}

func TestFetcherURL(t *testing.T) {
	f := NewFetcher()
	if got := f.URL("50/5454"); got != "https://dblp.uni-trier.de/pid/50/5454.bib" {
		t.Errorf("numeric pid url = %q", got)
	}
	if got := f.URL("m/JohnMiller"); got != "https://dblp.uni-trier.de/pid/m/JohnMiller.html?view=bibtex" {
		t.Errorf("name pid url = %q", got)
	}
}

func TestDownloadAll(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/pid/11/111.bib":
			w.Write([]byte("@misc{DBLP:a/b/C,\n  title = {Jos{\\'{e}}},\n  year = {2020},\n}\n"))
		case "/pid/b/BobBeta.html":
			if r.URL.Query().Get("view") != "bibtex" {
				http.Error(w, "bad view", http.StatusBadRequest)
				return
			}
			w.Write([]byte("<html><pre>\n@misc{DBLP:d/e/F,\n  year = {2021},\n}\n</pre>\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewFetcher(WithBaseURL(srv.URL+"/pid/"), WithDelay(0))
	if err := f.DownloadAll(context.Background(), testDirectory(), dir); err != nil {
		t.Fatalf("DownloadAll: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("expected 2 requests, got %d", hits.Load())
	}
	amy, _ := os.ReadFile(filepath.Join(dir, "amy.bib"))
	if !strings.Contains(string(amy), "José") {
		t.Errorf("escapes not fixed in amy.bib: %q", amy)
	}
	bob, _ := os.ReadFile(filepath.Join(dir, "bob.bib"))
	if strings.Contains(string(bob), "<pre>") || !strings.Contains(string(bob), "DBLP:d/e/F") {
		t.Errorf("html not stripped in bob.bib: %q", bob)
	}
}

func TestDownloadAllStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL+"/"), WithDelay(0))
	err := f.DownloadAll(context.Background(), testDirectory(), t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestFetchHonoursContext(t *testing.T) {
	f := NewFetcher(WithDelay(0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Fetch(ctx, model.Author{Key: "x", ID: "1/1"}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
