//go:build ignore

// generate_testdata.go creates synthetic publication pages for benchmarking
// the filter in a browser or the terminal browser.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/pages/small.html   (100 publications)
//	testdata/pages/medium.html  (1000 publications)
//	testdata/pages/large.html   (5000 publications)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/snolabib/pkg/testutil"
)

var datasets = []struct {
	name    string
	size    int
	authors int
	venues  int
}{
	{"small", 100, 8, 6},
	{"medium", 1000, 25, 20},
	{"large", 5000, 60, 40},
}

func main() {
	outputDir := filepath.Join("testdata", "pages")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s page (%d publications)...\n", ds.name, ds.size)
		gen := testutil.New(testutil.GeneratorConfig{
			Seed:      int64(ds.size),
			Authors:   ds.authors,
			Outsiders: ds.authors / 2,
			Venues:    ds.venues,
		})
		html, err := gen.Page(ds.size)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to assemble %s: %v\n", ds.name, err)
			os.Exit(1)
		}
		path := filepath.Join(outputDir, ds.name+".html")
		if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
	}
	fmt.Println("Done.")
}
