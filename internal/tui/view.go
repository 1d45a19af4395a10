package tui

import (
	"fmt"
	"strings"

	"mandala-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Per grid row: 9 cells, one space between cells of a block, " │ " between blocks.
const gridChromeW = 6*1 + 2*3

func (m appModel) cellWidth() int {
	cw := m.cfg.CellWidth()
	if m.width > 0 {
		if fit := (m.width - gridChromeW - 2) / model.GridSize; fit < cw {
			cw = fit
		}
	}
	if cw < 4 {
		cw = 4
	}
	return cw
}

func (m appModel) View() string {
	switch m.mode {
	case modeSaved:
		return m.saved.View() + "\n" + m.minibufferView()
	case modeOutline:
		return m.outline.View() + "\n" + styleMuted().Render("esc close · ↑/↓ scroll")
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.breadcrumbView())
	b.WriteString("\n\n")
	b.WriteString(m.gridView())
	b.WriteString("\n\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	if m.mode == modeEdit || m.mode == modeRename {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else {
		b.WriteString(m.minibufferView())
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m appModel) minibufferView() string {
	if m.minibufferText == "" {
		return ""
	}
	if !m.minibufferErr {
		return m.minibufferText
	}
	return lipgloss.NewStyle().Background(colorFlashErrorBg).Foreground(colorAccentFg).Padding(0, 1).Render(m.minibufferText)
}

func (m appModel) headerView() string {
	name := lipgloss.NewStyle().Bold(true).Render(m.sess.Name())
	if m.sess.Dirty() {
		name += " " + lipgloss.NewStyle().Foreground(colorAccent).Render(glyphDirty())
	}
	right := fmt.Sprintf("%d saved", m.savedCount)
	if m.workspace != "" {
		right = m.workspace + " · " + right
	}
	return name + "  " + styleMuted().Render(right)
}

func (m appModel) breadcrumbView() string {
	sep := " " + glyphCrumbSep() + " "
	labels := m.sess.Labels()
	parts := make([]string, 0, len(labels)+1)
	crumbStyle := lipgloss.NewStyle().Foreground(colorChromeMutedFg)
	current := lipgloss.NewStyle().Bold(true)
	if len(labels) == 0 {
		parts = append(parts, current.Render("Root"))
	} else {
		parts = append(parts, crumbStyle.Render("Root"))
	}
	for i, l := range labels {
		// Numbered to match the 1-9 jump keys.
		text := fmt.Sprintf("%d %s", i+1, l)
		if i == len(labels)-1 {
			parts = append(parts, current.Render(text))
		} else {
			parts = append(parts, crumbStyle.Render(text))
		}
	}
	return strings.Join(parts, sep)
}

func (m appModel) gridView() string {
	g := m.sess.Grid()
	cw := m.cellWidth()
	rule := lipgloss.NewStyle().Foreground(colorGridRule)
	vsep := rule.Render(" " + glyphVRule() + " ")

	blockW := 3*cw + 2
	hseg := strings.Repeat(glyphHRule(), blockW)
	hline := rule.Render(hseg + glyphHRule() + glyphCross() + glyphHRule() + hseg + glyphHRule() + glyphCross() + glyphHRule() + hseg)

	lines := make([]string, 0, model.GridSize+2)
	for r := 0; r < model.GridSize; r++ {
		if r == 3 || r == 6 {
			lines = append(lines, hline)
		}
		var row strings.Builder
		for c := 0; c < model.GridSize; c++ {
			switch {
			case c == 3 || c == 6:
				row.WriteString(vsep)
			case c > 0:
				row.WriteString(" ")
			}
			row.WriteString(m.cellView(g, r, c, cw))
		}
		lines = append(lines, row.String())
	}
	return strings.Join(lines, "\n")
}

func (m appModel) cellView(g model.Grid, r, c, cw int) string {
	text := strings.ReplaceAll(g[r][c], "\n", " ")
	st := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	if text == "" {
		text = glyphEmpty()
		st = st.Foreground(colorMuted)
	}
	text = ansi.Truncate(text, cw, glyphEllipsis())

	_, isBlockCenter := model.PeripheralCenterIndex(r, c)
	switch {
	case r == model.TrueCenter.Row && c == model.TrueCenter.Col:
		st = st.Bold(true).Foreground(colorAccent)
	case isBlockCenter || model.InCenterBlock(r, c):
		st = st.Bold(true)
	}

	if m.pending != nil {
		if model.BlockAt(r, c) == m.pending.Block || model.InCenterBlock(r, c) {
			st = st.Background(colorPreviewBg)
		}
	}
	if r == m.row && c == m.col {
		st = st.Background(colorSelectedBg).Foreground(colorSelectedFg).Reverse(m.mode == modeEdit)
	}
	return st.Render(text)
}

func (m appModel) statusView() string {
	pos := fmt.Sprintf("row %d col %d", m.row, m.col)
	if k := model.BlockAt(m.row, m.col); k >= 0 {
		pos += " · " + model.BlockName(k)
	} else {
		pos += " · center"
	}
	if k, ok := model.PeripheralCenterIndex(m.row, m.col); ok {
		pos += " · enter opens " + model.BlockName(k)
	}
	if m.pending != nil {
		label := m.pending.Label
		if label == "" {
			label = model.BlockName(m.pending.Block)
		}
		pos = "opening " + label + "…"
	}
	return styleMuted().Render(pos)
}
