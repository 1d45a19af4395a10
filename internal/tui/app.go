package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"mandala-cli/internal/chart"
	"mandala-cli/internal/model"
	"mandala-cli/internal/session"
	"mandala-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeGrid mode = iota
	modeEdit
	modeRename
	modeSaved
	modeOutline
)

// commitNavMsg fires when the navigation highlight has been shown long enough.
type commitNavMsg struct{ seq int }

type flashDoneMsg struct{ seq int }

const flashDuration = 3 * time.Second

// Options wires the TUI to a workspace.
type Options struct {
	Store     store.Store
	Session   *session.Session
	Config    *store.GlobalConfig
	Workspace string
	Log       *slog.Logger
}

type appModel struct {
	st        store.Store
	sess      *session.Session
	cfg       *store.GlobalConfig
	workspace string
	log       *slog.Logger

	keys keyMap
	help help.Model

	width  int
	height int

	row  int
	col  int
	mode mode

	input   textinput.Model
	saved   list.Model
	outline viewport.Model

	// pending is the navigation being shown; it commits on commitNavMsg with a
	// matching seq. Cancelling bumps navSeq so the tick is ignored.
	pending    *chart.Preview
	navSeq     int
	transition time.Duration

	confirmNew bool
	// restoreOutline reopens the outline on the first resize after launch.
	restoreOutline bool

	minibufferText string
	minibufferErr  bool
	flashSeq       int

	savedCount int
	watcher    *collectionWatcher
}

func newAppModel(opt Options) appModel {
	cfg := opt.Config
	if cfg == nil {
		cfg = &store.GlobalConfig{}
	}
	log := opt.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sess := opt.Session
	if sess == nil {
		sess = session.New(cfg.DefaultChartName, session.Options{
			AllowUnnamed: cfg.AllowUnnamedEntry,
			Placeholder:  cfg.PlaceholderPrefix,
		})
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Saved charts"
	l.DisableQuitKeybindings()

	m := appModel{
		st:         opt.Store,
		sess:       sess,
		cfg:        cfg,
		workspace:  opt.Workspace,
		log:        log,
		keys:       defaultKeyMap(),
		help:       help.New(),
		row:        model.TrueCenter.Row,
		col:        model.TrueCenter.Col,
		input:      ti,
		saved:      l,
		outline:    viewport.New(0, 0),
		transition: time.Duration(cfg.Transition()) * time.Millisecond,
	}
	if st, err := opt.Store.LoadTUIState(); err == nil && st != nil {
		m.row, m.col = st.CursorRow, st.CursorCol
		m.restoreOutline = st.ShowOutline
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.wait()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.saved.SetSize(msg.Width, max(msg.Height-2, 5))
		m.outline.Width, m.outline.Height = msg.Width, max(msg.Height-2, 5)
		if m.restoreOutline {
			m.restoreOutline = false
			return m, m.openOutline()
		}
		return m, nil

	case commitNavMsg:
		return m.commitNavigation(msg.seq)

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.minibufferText = ""
			m.minibufferErr = false
		}
		return m, nil

	case collectionChangedMsg:
		m.reloadSaved()
		if m.watcher != nil {
			return m, m.watcher.wait()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeEdit, modeRename:
			return m.updateInput(msg)
		case modeSaved:
			return m.updateSaved(msg)
		case modeOutline:
			return m.updateOutline(msg)
		default:
			return m.updateGrid(msg)
		}
	}

	// Forward everything else (cursor blink, list status timers) to the active component.
	var cmd tea.Cmd
	switch m.mode {
	case modeEdit, modeRename:
		m.input, cmd = m.input.Update(msg)
	case modeSaved:
		m.saved, cmd = m.saved.Update(msg)
	case modeOutline:
		m.outline, cmd = m.outline.Update(msg)
	}
	return m, cmd
}

func (m *appModel) flash(text string, isErr bool) tea.Cmd {
	m.flashSeq++
	seq := m.flashSeq
	m.minibufferText = text
	m.minibufferErr = isErr
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

// persist writes the session, the activity event and the cursor position. Failures are
// logged and shown; the in-memory session stays authoritative.
func (m *appModel) persist(typ string, payload any) tea.Cmd {
	var cmd tea.Cmd
	if err := m.st.SaveSession(m.sess); err != nil {
		m.log.Warn("session not saved", "err", err)
		cmd = m.flash("not saved: "+err.Error(), true)
	}
	if err := m.st.AppendEvent(typ, m.sess.Name(), m.sess.Path(), payload); err != nil {
		m.log.Warn("activity log not written", "type", typ, "err", err)
	}
	m.saveUIState()
	return cmd
}

func (m *appModel) saveUIState() {
	st := &store.TUIState{
		Version:     1,
		CursorRow:   m.row,
		CursorCol:   m.col,
		ShowOutline: m.mode == modeOutline,
	}
	if err := m.st.SaveTUIState(st); err != nil {
		m.log.Debug("tui state not saved", "err", err)
	}
}

func (m *appModel) quit() (tea.Model, tea.Cmd) {
	m.saveUIState()
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	return *m, tea.Quit
}

// Run starts the interactive grid editor.
func Run(opt Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	glyphPref := ""
	if opt.Config != nil && opt.Config.TUI != nil {
		glyphPref = opt.Config.TUI.Glyphs
	}
	applyGlyphPreference(glyphPref)

	m := newAppModel(opt)
	m.reloadSaved()
	if err := opt.Store.Ensure(); err == nil {
		w, err := watchCollection(opt.Store.CollectionPath(), 200*time.Millisecond, func() (string, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return opt.Store.CollectionVersion(ctx)
		})
		if err != nil {
			m.log.Debug("saved-chart watcher unavailable", "err", err)
		} else {
			m.watcher = w
			defer w.Close()
		}
	}

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
