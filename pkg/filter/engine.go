package filter

import (
	"time"

	"github.com/vanderheijden86/snolabib/pkg/debug"
	"github.com/vanderheijden86/snolabib/pkg/metrics"
	"github.com/vanderheijden86/snolabib/pkg/model"
)

// Engine ties publications, filter state, counts and a surface together.
type Engine struct {
	pubs    []model.Publication
	dir     model.Directory
	heading Heading

	state  *State
	totals Counts
	panels Panels
	known  map[Facet]map[string]bool
	last   Result

	surface Surface
}

// Option configures an Engine.
type Option func(*Engine)

// WithHeading sets the nouns of the summary heading. Empty values keep the
// defaults.
func WithHeading(h Heading) Option {
	return func(e *Engine) {
		if h.Singular != "" {
			e.heading.Singular = h.Singular
		}
		if h.Plural != "" {
			e.heading.Plural = h.Plural
		}
	}
}

// New builds an engine over a fixed publication list. Totals and button
// panels are computed here and never change afterwards.
func New(pubs []model.Publication, dir model.Directory, opts ...Option) *Engine {
	e := &Engine{
		pubs:    pubs,
		dir:     dir,
		heading: DefaultHeading,
		state:   NewState(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.totals = Totals(pubs, dir)
	e.panels = Populate(pubs, dir, e.totals)
	e.known = make(map[Facet]map[string]bool, len(Facets))
	for _, f := range Facets {
		e.known[f] = make(map[string]bool, len(e.panels[f]))
		for _, b := range e.panels[f] {
			e.known[f][b.Value] = true
		}
	}
	e.last = Recount(pubs, e.state, dir)
	return e
}

// Mount renders the button panels onto s and runs the first pass. Panels are
// emptied first, so mounting over a pre-rendered page does not duplicate them.
func (e *Engine) Mount(s Surface) error {
	defer debug.LogEnterExit("filter.Mount")()
	for _, f := range Facets {
		if err := s.ResetPanel(f); err != nil {
			return err
		}
		for _, b := range e.panels[f] {
			if err := s.AddButton(b); err != nil {
				return err
			}
		}
	}
	e.surface = s
	for _, f := range Facets {
		for _, v := range e.state.Selected(f) {
			s.SetButtonSelected(f, v, true)
		}
	}
	e.Refresh()
	return nil
}

// Refresh runs a full match and recount pass and renders it when mounted.
func (e *Engine) Refresh() Result {
	start := time.Now()
	e.last = Recount(e.pubs, e.state, e.dir)
	metrics.RecountPass.Record(time.Since(start))

	if e.surface != nil {
		start = time.Now()
		e.render(e.last)
		metrics.RenderPass.Record(time.Since(start))
	}
	return e.last
}

// Click handles a click on n. Targets that do not resolve to a known facet
// button are logged and ignored.
func (e *Engine) Click(n Node) bool {
	f, v, ok := ResolveTarget(n)
	if !ok {
		debug.Log("filter: click outside any facet button ignored")
		return false
	}
	return e.Press(f, v)
}

// Press toggles the button f=value, updates its marker and re-renders. It
// returns false, changing nothing, when no such button exists.
func (e *Engine) Press(f Facet, value string) bool {
	if !e.known[f][value] {
		debug.Log("filter: no %s button for %q, ignored", f, value)
		return false
	}
	selected := e.state.Toggle(f, value)
	if e.surface != nil {
		e.surface.SetButtonSelected(f, value, selected)
	}
	e.Refresh()
	return true
}

// Hover highlights the buttons related to publication i.
func (e *Engine) Hover(i int) {
	if e.surface == nil || i < 0 || i >= len(e.pubs) {
		return
	}
	for _, b := range e.highlightTargets(i) {
		e.surface.SetButtonHighlighted(b.Facet, b.Value, true)
	}
}

// Unhover clears every highlight.
func (e *Engine) Unhover() {
	if e.surface != nil {
		e.surface.ClearHighlights()
	}
}

// Related returns the buttons Hover would highlight for publication i.
func (e *Engine) Related(i int) []Button {
	if i < 0 || i >= len(e.pubs) {
		return nil
	}
	return e.highlightTargets(i)
}

// State returns a copy of the current filter state.
func (e *Engine) State() *State { return e.state.Clone() }

// Result returns the latest pass.
func (e *Engine) Result() Result { return e.last }

// Totals returns the all-publication counts.
func (e *Engine) Totals() Counts { return e.totals }

// Panel returns the ordered buttons of f.
func (e *Engine) Panel(f Facet) []Button { return e.panels[f] }

// Publications returns the engine's publication list.
func (e *Engine) Publications() []model.Publication { return e.pubs }

// Directory returns the author directory.
func (e *Engine) Directory() model.Directory { return e.dir }

// Heading returns the heading nouns in use.
func (e *Engine) Heading() Heading { return e.heading }
