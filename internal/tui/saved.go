package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mandala-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type savedItem struct {
	index int
	rec   model.SavedChart
}

func (it savedItem) Title() string { return it.rec.Name }

func (it savedItem) Description() string {
	id := it.rec.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("#%d  %s  %s", it.index, it.rec.Date.Local().Format("2006-01-02 15:04"), id)
}

func (it savedItem) FilterValue() string { return it.rec.Name }

func (m *appModel) reloadSaved() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	charts, err := m.st.LoadCharts(ctx)
	if err != nil {
		m.log.Warn("saved charts unavailable", "err", err)
	}
	items := make([]list.Item, 0, len(charts))
	for i, c := range charts {
		items = append(items, savedItem{index: i, rec: c})
	}
	m.saved.SetItems(items)
	m.savedCount = len(charts)
}

func (m *appModel) save() tea.Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rec := m.sess.Record(time.Now())
	charts, err := m.st.AppendChart(ctx, rec)
	if err != nil {
		return m.flash("save failed: "+err.Error(), true)
	}
	m.sess.MarkSaved(rec.Fingerprint)
	m.savedCount = len(charts)
	return tea.Batch(
		m.persist("chart.save", map[string]any{"id": rec.ID, "fingerprint": rec.Fingerprint}),
		m.flash(fmt.Sprintf("saved %q (%d in list)", rec.Name, len(charts)), false),
	)
}

func (m appModel) openSaved() (tea.Model, tea.Cmd) {
	m.reloadSaved()
	m.mode = modeSaved
	return m, nil
}

func (m appModel) updateSaved(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Let the list own every key while its filter input is active.
	if m.saved.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.saved, cmd = m.saved.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc", "q":
		if m.saved.FilterState() == list.FilterApplied {
			m.saved.ResetFilter()
			return m, nil
		}
		m.mode = modeGrid
		return m, nil
	case "enter":
		it, ok := m.saved.SelectedItem().(savedItem)
		if !ok {
			return m, nil
		}
		if err := m.sess.LoadRecord(it.rec); err != nil {
			return m, m.flash("cannot load: "+err.Error(), true)
		}
		m.mode = modeGrid
		m.row, m.col = model.TrueCenter.Row, model.TrueCenter.Col
		return m, tea.Batch(m.persist("chart.load", map[string]any{"id": it.rec.ID}), m.flash("loaded "+it.rec.Name, false))
	case "d", "x":
		it, ok := m.saved.SelectedItem().(savedItem)
		if !ok {
			return m, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		removed, _, err := m.st.DeleteChart(ctx, it.rec.ID)
		if err != nil {
			return m, m.flash("delete failed: "+err.Error(), true)
		}
		if err := m.st.AppendEvent("chart.delete", removed.Name, m.sess.Path(), map[string]any{"id": removed.ID}); err != nil {
			m.log.Warn("activity log not written", "type", "chart.delete", "err", err)
		}
		m.reloadSaved()
		return m, m.flash("deleted "+strings.TrimSpace(removed.Name), false)
	}

	var cmd tea.Cmd
	m.saved, cmd = m.saved.Update(msg)
	return m, cmd
}
