package tui

import (
	"mandala-cli/internal/publish"

	tea "github.com/charmbracelet/bubbletea"
)

// openOutline renders the whole chart as markdown and shows it in a scrollable pane.
func (m *appModel) openOutline() tea.Cmd {
	md, err := publish.RenderMarkdown(m.sess.Name(), m.sess.Tree(), publish.RenderOptions{
		Placeholder: m.sess.Options().Placeholder,
	})
	if err != nil {
		return m.flash("outline: "+err.Error(), true)
	}
	w := m.width
	if w <= 0 {
		w = 80
	}
	m.outline.SetContent(publish.RenderTerminal(md, w-2))
	m.outline.GotoTop()
	m.mode = modeOutline
	return nil
}

func (m appModel) updateOutline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc", "q", "o":
		m.mode = modeGrid
		m.saveUIState()
		return m, nil
	}
	var cmd tea.Cmd
	m.outline, cmd = m.outline.Update(msg)
	return m, cmd
}
