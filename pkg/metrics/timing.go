// Package metrics collects timing statistics for snolabib hot paths: filter
// passes on the page side, downloads and page assembly on the build side.
//
// Collection is enabled by default and can be disabled with SNOLABIB_METRICS=0.
//
//	defer metrics.Timer(metrics.Download)()
package metrics

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("SNOLABIB_METRICS") != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric tracks timing statistics for a named operation.
// All methods are safe for concurrent use.
type TimingMetric struct {
	name    string
	count   atomic.Int64
	totalNs atomic.Int64
	maxNs   atomic.Int64
}

// Record records a single timing measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.totalNs.Add(ns)

	// Update max using compare-and-swap
	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Stats is a point-in-time copy of a metric.
type Stats struct {
	Name  string
	Count int64
	Total time.Duration
	Max   time.Duration
}

// Avg returns the mean duration, zero when nothing was recorded.
func (s Stats) Avg() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Snapshot returns the current statistics.
func (m *TimingMetric) Snapshot() Stats {
	return Stats{
		Name:  m.name,
		Count: m.count.Load(),
		Total: time.Duration(m.totalNs.Load()),
		Max:   time.Duration(m.maxNs.Load()),
	}
}

// Reset clears the metric.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.totalNs.Store(0)
	m.maxNs.Store(0)
}

var (
	RecountPass  = &TimingMetric{name: "recount"}
	RenderPass   = &TimingMetric{name: "render"}
	Download     = &TimingMetric{name: "download"}
	PageAssembly = &TimingMetric{name: "page_assembly"}
)

var all = []*TimingMetric{RecountPass, RenderPass, Download, PageAssembly}

// Timer starts timing m and returns the function that stops it.
func Timer(m *TimingMetric) func() {
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// All returns snapshots of every metric.
func All() []Stats {
	out := make([]Stats, 0, len(all))
	for _, m := range all {
		out = append(out, m.Snapshot())
	}
	return out
}

// ResetAll clears every metric.
func ResetAll() {
	for _, m := range all {
		m.Reset()
	}
}

// Fprint writes one line per metric that has samples.
func Fprint(w io.Writer) {
	for _, s := range All() {
		if s.Count == 0 {
			continue
		}
		fmt.Fprintf(w, "%-14s n=%-5d avg=%-10v max=%v\n", s.Name, s.Count, s.Avg(), s.Max)
	}
}
