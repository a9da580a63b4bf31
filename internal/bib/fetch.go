package bib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/vanderheijden86/snolabib/pkg/debug"
	"github.com/vanderheijden86/snolabib/pkg/metrics"
	"github.com/vanderheijden86/snolabib/pkg/model"
)

// DefaultBaseURL is the DBLP person endpoint.
const DefaultBaseURL = "https://dblp.uni-trier.de/pid/"

// DefaultDelay spaces consecutive DBLP requests.
const DefaultDelay = time.Second

var numericPIDRe = regexp.MustCompile(`^[0-9]+/[0-9]+`)

// Fetcher downloads author bibliographies from DBLP.
type Fetcher struct {
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	progress io.Writer
	workers  int
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithBaseURL overrides the DBLP endpoint. Used by tests.
func WithBaseURL(u string) FetcherOption {
	return func(f *Fetcher) { f.baseURL = u }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithDelay sets the minimum spacing between requests. Zero disables rate
// limiting.
func WithDelay(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d <= 0 {
			f.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		f.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithProgress sets where per-author progress lines go.
func WithProgress(w io.Writer) FetcherOption {
	return func(f *Fetcher) { f.progress = w }
}

// WithWorkers bounds the number of concurrent downloads.
func WithWorkers(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.workers = n
		}
	}
}

// NewFetcher returns a fetcher with DBLP defaults.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL:  DefaultBaseURL,
		client:   &http.Client{Timeout: 60 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(DefaultDelay), 1),
		progress: io.Discard,
		workers:  2,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the bibtex url of a DBLP person id. Numeric pids ("50/5454")
// have a .bib endpoint; name-based ones ("m/JohnMiller") only serve bibtex
// inside an HTML view.
func (f *Fetcher) URL(pid string) string {
	u := f.baseURL + pid
	if numericPIDRe.MatchString(pid) {
		return u + ".bib"
	}
	return u + ".html?view=bibtex"
}

// Fetch downloads and cleans one author's bibliography.
func (f *Fetcher) Fetch(ctx context.Context, a model.Author) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}
	url := f.URL(a.ID)
	fmt.Fprintf(f.progress, "\tretrieving bibliography for %s from %s...\n", a.Key, url)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}

	elapsed := time.Since(start)
	metrics.Download.Record(elapsed)
	debug.LogTiming("fetch "+a.Key, elapsed)
	fmt.Fprintf(f.progress, "    -- retrieved in %v\n", elapsed.Round(time.Millisecond))
	return FixInitial(string(body)), nil
}

// DownloadAll fetches every directory author and writes <bibDir>/<key>.bib.
func (f *Fetcher) DownloadAll(ctx context.Context, dir model.Directory, bibDir string) error {
	if err := os.MkdirAll(bibDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", bibDir, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for _, a := range dir.Authors {
		g.Go(func() error {
			text, err := f.Fetch(ctx, a)
			if err != nil {
				return fmt.Errorf("author %s: %w", a.Key, err)
			}
			path := filepath.Join(bibDir, a.Key+".bib")
			if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			return nil
		})
	}
	return g.Wait()
}
