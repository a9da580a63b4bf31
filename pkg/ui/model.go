// Package ui is a terminal browser for a bibliography page: facet panels on
// the left, the publication list on the right, driven by the same filter
// engine as the web page.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/snolabib/pkg/config"
	"github.com/vanderheijden86/snolabib/pkg/debug"
	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/watcher"
)

// pane identifies the focused column.
type pane int

const (
	paneList pane = iota
	paneAuthors
	paneYears
	paneVenues
	paneCount
)

func (p pane) facet() filter.Facet {
	switch p {
	case paneYears:
		return filter.Year
	case paneVenues:
		return filter.Venue
	default:
		return filter.Author
	}
}

// FileChangedMsg reports that the browsed page changed on disk.
type FileChangedMsg struct{ Paths []string }

// WatchFileCmd waits for the next change burst.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		return FileChangedMsg{Paths: <-w.Changed()}
	}
}

// Loader rebuilds the engine after the page changed.
type Loader func() (*filter.Engine, error)

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// Model is the bubbletea model of the browser.
type Model struct {
	engine  *filter.Engine
	surface *Surface
	theme   Theme
	keys    keyMap

	focus  pane
	cursor [paneCount]int
	width  int
	height int

	showDetail bool
	showHelp   bool
	detail     viewport.Model
	md         *glamour.TermRenderer

	statusMsg     string
	statusIsError bool

	watcher       *watcher.Watcher
	loader        Loader
	selectionPath string
}

// Option configures a Model.
type Option func(*Model)

// WithWatcher reloads the engine with load whenever w reports a change.
func WithWatcher(w *watcher.Watcher, load Loader) Option {
	return func(m *Model) {
		m.watcher = w
		m.loader = load
	}
}

// WithSelectionPath restores the selection saved at path and saves it again
// on quit.
func WithSelectionPath(path string) Option {
	return func(m *Model) {
		m.selectionPath = path
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width, m.height = width, height
	}
}

// NewModel mounts e on a terminal surface.
func NewModel(e *filter.Engine, opts ...Option) (Model, error) {
	m := Model{
		theme:  DefaultTheme(lipgloss.DefaultRenderer()),
		keys:   defaultKeyMap(),
		width:  120,
		height: 40,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if err := m.mount(e); err != nil {
		return m, err
	}

	if m.selectionPath != "" {
		sel, err := config.LoadSelection(m.selectionPath)
		if err != nil {
			debug.Log("ui: ignoring saved selection: %v", err)
		} else {
			m.applySelection(sel)
		}
	}

	style := "dark"
	if !lipgloss.HasDarkBackground() {
		style = "light"
	}
	if md, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(m.width-4)); err == nil {
		m.md = md
	} else {
		debug.Log("ui: markdown renderer unavailable: %v", err)
	}
	m.detail = viewport.New(m.width, m.detailHeight())
	m.hoverCursor()
	return m, nil
}

func (m *Model) mount(e *filter.Engine) error {
	s := NewSurface(len(e.Publications()))
	if err := e.Mount(s); err != nil {
		return err
	}
	m.engine, m.surface = e, s
	return nil
}

// Engine returns the engine being browsed.
func (m Model) Engine() *filter.Engine { return m.engine }

// Selection returns the current selection in savable form.
func (m Model) Selection() config.Selection {
	st := m.engine.State()
	sel := config.Selection{}
	for _, f := range filter.Facets {
		if vs := st.Selected(f); len(vs) > 0 {
			sel[f.String()] = vs
		}
	}
	return sel
}

func (m *Model) applySelection(sel config.Selection) {
	for name, values := range sel {
		f, ok := filter.ParseFacet(name)
		if !ok {
			continue
		}
		for _, v := range values {
			if !m.engine.State().Has(f, v) {
				m.engine.Press(f, v)
			}
		}
	}
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width = m.width
		m.detail.Height = m.detailHeight()
		return m, nil

	case FileChangedMsg:
		m.reload(msg.Paths)
		if m.watcher == nil {
			return m, nil
		}
		return m, WatchFileCmd(m.watcher)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) reload(paths []string) {
	if m.loader == nil {
		return
	}
	sel := m.Selection()
	e, err := m.loader()
	if err != nil {
		m.statusMsg = fmt.Sprintf("Reload failed: %v", err)
		m.statusIsError = true
		return
	}
	if err := m.mount(e); err != nil {
		m.statusMsg = fmt.Sprintf("Reload failed: %v", err)
		m.statusIsError = true
		return
	}
	m.applySelection(sel)
	m.clampCursors()
	m.hoverCursor()
	m.statusMsg = fmt.Sprintf("Reloaded %d publications (%s)", len(e.Publications()), strings.Join(paths, ", "))
	m.statusIsError = false
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveSelection()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Next):
		m.focus = (m.focus + 1) % paneCount

	case key.Matches(msg, m.keys.Prev):
		m.focus = (m.focus + paneCount - 1) % paneCount

	case key.Matches(msg, m.keys.Down):
		m.move(1)

	case key.Matches(msg, m.keys.Up):
		m.move(-1)

	case key.Matches(msg, m.keys.Top):
		m.move(-m.cursor[m.focus])

	case key.Matches(msg, m.keys.Bottom):
		m.move(m.paneLen(m.focus))

	case key.Matches(msg, m.keys.Toggle):
		if m.focus == paneList {
			m.toggleDetail()
		} else {
			m.toggle()
		}

	case key.Matches(msg, m.keys.Detail):
		m.toggleDetail()

	case key.Matches(msg, m.keys.Clear):
		m.clear()

	case key.Matches(msg, m.keys.Yank):
		m.yank()
	}
	return m, nil
}

func (m *Model) paneLen(p pane) int {
	if p == paneList {
		return len(m.surface.VisibleItems())
	}
	return len(m.surface.visibleButtons(p.facet()))
}

func (m *Model) move(delta int) {
	m.cursor[m.focus] += delta
	m.clampCursors()
	if m.focus == paneList {
		m.hoverCursor()
	}
}

func (m *Model) clampCursors() {
	for p := pane(0); p < paneCount; p++ {
		n := m.paneLen(p)
		switch {
		case n == 0:
			m.cursor[p] = 0
		case m.cursor[p] >= n:
			m.cursor[p] = n - 1
		case m.cursor[p] < 0:
			m.cursor[p] = 0
		}
	}
}

// current returns the publication under the list cursor.
func (m *Model) current() (int, bool) {
	vis := m.surface.VisibleItems()
	if len(vis) == 0 {
		return 0, false
	}
	return vis[m.cursor[paneList]], true
}

// hoverCursor highlights the buttons of the publication under the cursor,
// the terminal analogue of pointing at a list item.
func (m *Model) hoverCursor() {
	m.engine.Unhover()
	if i, ok := m.current(); ok {
		m.engine.Hover(i)
	}
	if m.showDetail {
		m.detail.SetContent(m.renderDetail())
	}
}

func (m *Model) toggle() {
	buttons := m.surface.visibleButtons(m.focus.facet())
	if len(buttons) == 0 {
		return
	}
	b := buttons[m.cursor[m.focus]]
	m.engine.Press(b.Facet, b.Value)
	m.afterFilter()
}

func (m *Model) clear() {
	st := m.engine.State()
	for _, f := range filter.Facets {
		for _, v := range st.Selected(f) {
			m.engine.Press(f, v)
		}
	}
	m.afterFilter()
}

func (m *Model) afterFilter() {
	m.clampCursors()
	m.hoverCursor()
	m.statusMsg = m.surface.Heading()
	m.statusIsError = false
}

func (m *Model) toggleDetail() {
	m.showDetail = !m.showDetail
	if m.showDetail {
		m.detail.SetContent(m.renderDetail())
		m.detail.GotoTop()
	}
}

func (m *Model) yank() {
	i, ok := m.current()
	if !ok {
		return
	}
	k := m.engine.Publications()[i].Key
	if err := clipboardWrite(k); err != nil {
		m.statusMsg = fmt.Sprintf("Clipboard error: %v", err)
		m.statusIsError = true
		return
	}
	m.statusMsg = fmt.Sprintf("Copied %s to clipboard", k)
	m.statusIsError = false
}

func (m *Model) saveSelection() {
	if m.selectionPath == "" {
		return
	}
	if err := config.SaveSelection(m.selectionPath, m.Selection()); err != nil {
		debug.Log("ui: saving selection: %v", err)
	}
}

func (m Model) detailHeight() int {
	h := m.height / 3
	if h < 5 {
		h = 5
	}
	return h
}
