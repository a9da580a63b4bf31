package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/snolabib/pkg/page"
)

var paneTitles = [paneCount]string{"Publications", "Authors", "Years", "Venues"}

func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}

	header := m.theme.Header.Render(m.surface.Heading())

	leftWidth := m.width / 3
	if leftWidth < 20 {
		leftWidth = 20
	}
	rightWidth := m.width - leftWidth
	bodyHeight := m.height - 2
	if m.showDetail {
		bodyHeight -= m.detail.Height
	}
	panelHeight := bodyHeight/3 - 2
	if panelHeight < 1 {
		panelHeight = 1
	}

	var panels []string
	for _, p := range []pane{paneAuthors, paneYears, paneVenues} {
		panels = append(panels, m.renderPanel(p, leftWidth-4, panelHeight))
	}
	left := lipgloss.JoinVertical(lipgloss.Left, panels...)
	right := m.renderList(rightWidth-4, bodyHeight-2)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	parts := []string{header, body}
	if m.showDetail {
		parts = append(parts, m.detail.View())
	}
	parts = append(parts, m.renderStatus())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) frame(p pane, width int, content string) string {
	style := m.theme.Panel
	if m.focus == p {
		style = m.theme.PanelFocused
	}
	title := m.theme.PanelTitle.Render(paneTitles[p])
	return style.Width(width).Render(title + "\n" + content)
}

// window returns the range of rows to show so the cursor stays visible.
func window(cursor, n, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}

func (m Model) renderPanel(p pane, width, height int) string {
	buttons := m.surface.visibleButtons(p.facet())
	start, end := window(m.cursor[p], len(buttons), height)

	var lines []string
	for i := start; i < end; i++ {
		b := buttons[i]
		glyph := GlyphUnselected
		if b.selected {
			glyph = GlyphSelected
		}
		count := " " + b.count
		label := truncate(b.Label, width-3-lipgloss.Width(count))
		line := glyph + " " + label
		switch {
		case b.selected:
			line = m.theme.Selected.Render(line)
		case b.highlighted:
			line = m.theme.Highlighted.Render(line)
		}
		line += m.theme.Count.Render(count)
		if m.focus == p && i == m.cursor[p] {
			line = m.theme.Cursor.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, m.theme.Help.Render("(none)"))
	}
	return m.frame(p, width, strings.Join(lines, "\n"))
}

func (m Model) renderList(width, height int) string {
	pubs := m.engine.Publications()
	vis := m.surface.VisibleItems()
	start, end := window(m.cursor[paneList], len(vis), height)

	var lines []string
	for row := start; row < end; row++ {
		p := pubs[vis[row]]
		year := m.theme.Year.Render(padRight(p.Year, 4))
		text := truncate(page.PlainText(p.HTML), width-7)
		line := year + "  " + text
		if m.focus == paneList && row == m.cursor[paneList] {
			line = m.theme.Cursor.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, m.theme.Help.Render("No publications match the selected filters."))
	}
	return m.frame(paneList, width, strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	if m.statusMsg == "" {
		return m.theme.Help.Render("tab: switch pane • space: toggle • d: details • x: clear • ?: help • q: quit")
	}
	if m.statusIsError {
		return m.theme.StatusError.Render(m.statusMsg)
	}
	return m.theme.Status.Render(m.statusMsg)
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.Header.Render("Keys"))
	b.WriteString("\n\n")
	for _, k := range m.keys.all() {
		h := k.Help()
		fmt.Fprintf(&b, "  %s  %s\n", padRight(h.Key, 10), h.Desc)
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("press any key to close"))
	return b.String()
}

// detailMarkdown describes the publication under the cursor.
func (m Model) detailMarkdown() string {
	i, ok := m.current()
	if !ok {
		return "_No publication selected._"
	}
	p := m.engine.Publications()[i]
	dir := m.engine.Directory()

	var names []string
	for _, id := range p.AuthorIDs() {
		if a, ok := dir.Lookup(id); ok {
			names = append(names, a.Name)
		} else {
			names = append(names, id)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", page.PlainText(p.HTML))
	fmt.Fprintf(&b, "- **Year:** %s\n", p.Year)
	fmt.Fprintf(&b, "- **Venue:** `%s`\n", p.Venue)
	if len(names) > 0 {
		fmt.Fprintf(&b, "- **Group authors:** %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "- **Key:** `%s`\n", p.Key)
	if related := m.engine.Related(i); len(related) > 0 {
		var rs []string
		for _, r := range related {
			rs = append(rs, r.Facet.String()+"="+r.Label)
		}
		fmt.Fprintf(&b, "\nFilters touching this item: %s\n", strings.Join(rs, ", "))
	}
	return b.String()
}

func (m Model) renderDetail() string {
	src := m.detailMarkdown()
	if m.md == nil {
		return src
	}
	out, err := m.md.Render(src)
	if err != nil {
		return src
	}
	// Strip trailing whitespace/newlines that glamour adds
	return strings.TrimRight(out, " \n")
}
