package tui

import (
	"errors"
	"strings"
	"time"

	"mandala-cli/internal/model"
	"mandala-cli/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While a navigation is on screen only cancel and quit are accepted.
	if m.pending != nil {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Cancel):
			m.pending = nil
			m.navSeq++
			return m, m.flash("navigation cancelled", false)
		}
		return m, nil
	}

	if !key.Matches(msg, m.keys.New) {
		m.confirmNew = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if m.row < model.GridSize-1 {
			m.row++
		}
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < model.GridSize-1 {
			m.col++
		}
	case key.Matches(msg, m.keys.Enter):
		if k, ok := model.PeripheralCenterIndex(m.row, m.col); ok {
			return m.beginNavigation(k, false)
		}
		return m.startEdit()
	case key.Matches(msg, m.keys.Force):
		k, ok := model.PeripheralCenterIndex(m.row, m.col)
		if !ok {
			return m, m.flash("move to a block center to open it", true)
		}
		return m.beginNavigation(k, true)
	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()
	case key.Matches(msg, m.keys.Clear):
		return m, m.setCell("")
	case key.Matches(msg, m.keys.Parent):
		if !m.sess.Up() {
			return m, m.flash("already at the root", false)
		}
		m.row, m.col = model.TrueCenter.Row, model.TrueCenter.Col
		return m, m.persist("nav.up", nil)
	case key.Matches(msg, m.keys.Root):
		if m.sess.Path().IsRoot() {
			return m, nil
		}
		m.sess.Root()
		m.row, m.col = model.TrueCenter.Row, model.TrueCenter.Col
		return m, m.persist("nav.root", nil)
	case key.Matches(msg, m.keys.Jump):
		depth := int(msg.Runes[0] - '1')
		if err := m.sess.AscendTo(depth); err != nil {
			return m, m.flash("no breadcrumb entry "+string(msg.Runes[0]), true)
		}
		m.row, m.col = model.TrueCenter.Row, model.TrueCenter.Col
		return m, m.persist("nav.jump", map[string]any{"depth": depth})
	case key.Matches(msg, m.keys.Save):
		return m, m.save()
	case key.Matches(msg, m.keys.Saved):
		return m.openSaved()
	case key.Matches(msg, m.keys.New):
		if m.sess.Dirty() && !m.confirmNew {
			m.confirmNew = true
			return m, m.flash("unsaved changes: press n again to start a new chart", true)
		}
		m.confirmNew = false
		m.sess.Reset(m.cfg.DefaultChartName)
		m.row, m.col = model.TrueCenter.Row, model.TrueCenter.Col
		return m, tea.Batch(m.persist("chart.new", map[string]any{"name": m.sess.Name()}), m.flash("new chart", false))
	case key.Matches(msg, m.keys.Rename):
		m.mode = modeRename
		m.input.Placeholder = "chart name"
		m.input.SetValue(m.sess.Name())
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Copy):
		v := m.sess.Grid()[m.row][m.col]
		if v == "" {
			return m, m.flash("cell is empty", false)
		}
		if err := copyToClipboard(v); err != nil {
			return m, m.flash("copy failed: "+err.Error(), true)
		}
		return m, m.flash("copied cell", false)
	case key.Matches(msg, m.keys.CopyPth):
		if err := copyToClipboard(m.breadcrumbText()); err != nil {
			return m, m.flash("copy failed: "+err.Error(), true)
		}
		return m, m.flash("copied path", false)
	case key.Matches(msg, m.keys.Outline):
		return m, m.openOutline()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// beginNavigation shows what will move into the center, then commits after the
// configured transition.
func (m appModel) beginNavigation(k int, force bool) (tea.Model, tea.Cmd) {
	p, err := m.sess.BeginEnter(k, force)
	if err != nil {
		if errors.Is(err, session.ErrUnnamedBlock) {
			return m, m.flash("block "+model.BlockName(k)+" has no name (f opens it anyway)", true)
		}
		return m, m.flash(err.Error(), true)
	}
	m.pending = &p
	m.navSeq++
	seq := m.navSeq
	if m.transition <= 0 {
		return m.commitNavigation(seq)
	}
	return m, tea.Tick(m.transition, func(time.Time) tea.Msg { return commitNavMsg{seq: seq} })
}

func (m appModel) commitNavigation(seq int) (tea.Model, tea.Cmd) {
	if m.pending == nil || seq != m.navSeq {
		return m, nil
	}
	p := *m.pending
	m.pending = nil
	if err := m.sess.CommitEnter(p); err != nil {
		return m, m.flash(err.Error(), true)
	}
	m.row, m.col = model.TrueCenter.Row, model.TrueCenter.Col
	return m, m.persist("nav.enter", map[string]any{"block": p.Block, "label": p.Label, "created": !p.Materialized})
}

func (m appModel) startEdit() (tea.Model, tea.Cmd) {
	m.mode = modeEdit
	m.input.Placeholder = "cell text"
	m.input.SetValue(m.sess.Grid()[m.row][m.col])
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *appModel) setCell(v string) tea.Cmd {
	if err := m.sess.SetCell(m.row, m.col, v); err != nil {
		return m.flash(err.Error(), true)
	}
	return m.persist("cell.set", map[string]any{"row": m.row, "col": m.col, "value": v})
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyEsc:
		m.mode = modeGrid
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		v := m.input.Value()
		editing := m.mode
		m.mode = modeGrid
		m.input.Blur()
		if editing == modeRename {
			from := m.sess.Name()
			if err := m.sess.Rename(v); err != nil {
				return m, m.flash(err.Error(), true)
			}
			return m, m.persist("chart.rename", map[string]any{"from": from, "to": m.sess.Name()})
		}
		// Line breaks from pasted text would break the grid layout.
		v = strings.ReplaceAll(v, "\n", " ")
		return m, m.setCell(v)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) breadcrumbText() string {
	parts := append([]string{"Root"}, m.sess.Labels()...)
	return strings.Join(parts, " "+glyphCrumbSep()+" ")
}
