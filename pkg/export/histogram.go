package export

import (
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/vanderheijden86/snolabib/pkg/filter"
)

// Histogram layout, in pixels.
const (
	histBarWidth = 36
	histGap      = 12
	histMargin   = 40
	histHeight   = 240
	histTitle    = 40
)

const (
	colorBackdrop = "#ffffff"
	colorBar      = "#bd93f9"
	colorVisible  = "#6b47d9"
	colorAxis     = "#44475a"
	colorText     = "#282a36"
)

// WriteYearHistogram draws one bar per year with the total number of
// publications. When a filter is active, the visible share is drawn on top.
func WriteYearHistogram(w io.Writer, d Dataset) error {
	years := d.Panels[filter.Year]
	maxTotal := 1
	for _, b := range years {
		if b.Total > maxTotal {
			maxTotal = b.Total
		}
	}

	n := len(years)
	width := 2*histMargin + n*histBarWidth + max(n-1, 0)*histGap
	if width < 2*histMargin+histBarWidth {
		width = 2*histMargin + histBarWidth
	}
	height := histTitle + histHeight + 2*histMargin
	baseline := histTitle + histMargin + histHeight

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+colorBackdrop)
	canvas.Text(histMargin, histMargin, d.Heading.Text(d.VisibleCount()),
		fmt.Sprintf("fill:%s;font-size:16px;font-family:sans-serif;font-weight:bold", colorText))
	canvas.Line(histMargin-4, baseline, width-histMargin+4, baseline, fmt.Sprintf("stroke:%s;stroke-width:1", colorAxis))

	for i, b := range years {
		x := histMargin + i*(histBarWidth+histGap)
		h := b.Total * histHeight / maxTotal
		canvas.Rect(x, baseline-h, histBarWidth, h, "fill:"+colorBar)
		if d.Active {
			v := d.Counts.Get(filter.Year, b.Value)
			vh := v * histHeight / maxTotal
			canvas.Rect(x, baseline-vh, histBarWidth, vh, "fill:"+colorVisible)
		}
		canvas.Text(x+histBarWidth/2, baseline-h-6, fmt.Sprint(b.Total),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif;text-anchor:middle", colorText))
		canvas.Text(x+histBarWidth/2, baseline+16, b.Value,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif;text-anchor:middle", colorText))
	}

	canvas.End()
	return nil
}

// SaveYearHistogram writes the histogram to path.
func SaveYearHistogram(path string, d Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	if err := WriteYearHistogram(f, d); err != nil {
		f.Close()
		return fmt.Errorf("write svg: %w", err)
	}
	return f.Close()
}
