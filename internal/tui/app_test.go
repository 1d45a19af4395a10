package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mandala-cli/internal/model"
	"mandala-cli/internal/session"
	"mandala-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) appModel {
	t.Helper()
	return newAppModel(Options{
		Store:   store.Store{Dir: t.TempDir()},
		Session: session.New("Goals", session.Options{Placeholder: "Unnamed"}),
		Config:  &store.GlobalConfig{},
	})
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m appModel, msgs ...tea.Msg) appModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(appModel)
	}
	return m
}

// moveTo drives the cursor with hjkl from wherever it is.
func moveTo(t *testing.T, m appModel, row, col int) appModel {
	t.Helper()
	for m.row > row {
		m = press(t, m, runes("k"))
	}
	for m.row < row {
		m = press(t, m, runes("j"))
	}
	for m.col > col {
		m = press(t, m, runes("h"))
	}
	for m.col < col {
		m = press(t, m, runes("l"))
	}
	return m
}

func editCell(t *testing.T, m appModel, row, col int, v string) appModel {
	t.Helper()
	m = moveTo(t, m, row, col)
	m = press(t, m, runes("i"))
	if m.mode != modeEdit {
		t.Fatalf("expected edit mode after i; got %v", m.mode)
	}
	m.input.SetValue("")
	return press(t, m, runes(v), tea.KeyMsg{Type: tea.KeyEnter})
}

// enterBlock opens the block whose center is under (row, col) and commits immediately.
func enterBlock(t *testing.T, m appModel, row, col int, keyName string) appModel {
	t.Helper()
	m = moveTo(t, m, row, col)
	k := runes(keyName)
	if keyName == "enter" {
		k = tea.KeyMsg{Type: tea.KeyEnter}
	}
	m = press(t, m, k)
	if m.pending == nil {
		t.Fatalf("expected a pending navigation; minibuffer=%q", m.minibufferText)
	}
	return press(t, m, commitNavMsg{seq: m.navSeq})
}

func TestEditCell_UpdatesLinkedCell(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = editCell(t, m, 1, 1, "Health")

	g := m.sess.Grid()
	if g[1][1] != "Health" || g[3][3] != "Health" {
		t.Fatalf("expected block center and link to read Health; got %q / %q", g[1][1], g[3][3])
	}
	if m.mode != modeGrid {
		t.Fatalf("expected grid mode after commit; got %v", m.mode)
	}
	if !m.sess.Dirty() {
		t.Fatalf("expected dirty session after edit")
	}
}

func TestEditCell_EscKeepsValue(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = editCell(t, m, 0, 0, "keep")
	m = press(t, m, runes("i"), runes("zzz"), tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.sess.Grid()[0][0]; got != "keep" {
		t.Fatalf("expected cancelled edit to keep %q; got %q", "keep", got)
	}
}

func TestClearCell(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = editCell(t, m, 3, 3, "Career")
	m = press(t, m, runes("x"))
	g := m.sess.Grid()
	if g[3][3] != "" || g[1][1] != "" {
		t.Fatalf("expected both linked cells cleared; got %q / %q", g[3][3], g[1][1])
	}
}

func TestEnterBlock_CommitsAfterTransition(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = editCell(t, m, 1, 1, "Health")
	m = moveTo(t, m, 1, 1)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.pending == nil || m.pending.Block != 0 {
		t.Fatalf("expected pending navigation into block 0; got %+v", m.pending)
	}
	if !m.sess.Path().IsRoot() {
		t.Fatalf("expected path to stay at root until commit; got %v", m.sess.Path())
	}

	// Keys other than cancel/quit are ignored while the highlight is shown.
	m = press(t, m, runes("j"))
	if m.row != 1 || m.col != 1 {
		t.Fatalf("expected cursor to stay during transition; got (%d,%d)", m.row, m.col)
	}

	m = press(t, m, commitNavMsg{seq: m.navSeq})
	if m.pending != nil {
		t.Fatalf("expected pending cleared after commit")
	}
	if got := m.sess.Path(); !got.Equal(model.Path{0}) {
		t.Fatalf("expected path [0]; got %v", got)
	}
	if got := m.sess.Grid()[4][4]; got != "Health" {
		t.Fatalf("expected child center %q; got %q", "Health", got)
	}
	if m.row != 4 || m.col != 4 {
		t.Fatalf("expected cursor reset to the center; got (%d,%d)", m.row, m.col)
	}
}

func TestEnterBlock_CancelIgnoresLateCommit(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = editCell(t, m, 1, 7, "Family")
	m = moveTo(t, m, 1, 7)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.pending == nil {
		t.Fatalf("expected pending navigation")
	}
	stale := m.navSeq

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc}, commitNavMsg{seq: stale})
	if m.pending != nil {
		t.Fatalf("expected pending cleared by esc")
	}
	if !m.sess.Path().IsRoot() {
		t.Fatalf("expected cancelled navigation to stay at root; got %v", m.sess.Path())
	}
}

func TestEnterBlock_UnnamedNeedsForce(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = moveTo(t, m, 1, 4)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.pending != nil {
		t.Fatalf("expected no navigation into an unnamed block")
	}
	if !m.minibufferErr || !strings.Contains(m.minibufferText, "top-mid") {
		t.Fatalf("expected error flash naming the block; got %q (err=%v)", m.minibufferText, m.minibufferErr)
	}

	m = enterBlock(t, m, 1, 4, "f")
	if got := m.sess.Path(); !got.Equal(model.Path{1}) {
		t.Fatalf("expected path [1]; got %v", got)
	}
	if got := m.breadcrumbText(); got != "Root › Unnamed 1" {
		t.Fatalf("expected placeholder breadcrumb; got %q", got)
	}
}

func TestForceKeyOutsideBlockCenter(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = moveTo(t, m, 0, 0)
	m = press(t, m, runes("f"))
	if m.pending != nil || !m.minibufferErr {
		t.Fatalf("expected f off a block center to flash an error")
	}
}

func TestParentRootAndJump(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = editCell(t, m, 1, 1, "A")
	m = enterBlock(t, m, 1, 1, "enter")
	m = editCell(t, m, 7, 7, "B")
	m = enterBlock(t, m, 7, 7, "enter")
	if got := m.sess.Path(); !got.Equal(model.Path{0, 7}) {
		t.Fatalf("expected path [0 7]; got %v", got)
	}

	m = press(t, m, runes("1"))
	if got := m.sess.Path(); !got.Equal(model.Path{0}) {
		t.Fatalf("expected jump 1 to keep the first step; got %v", got)
	}

	m = press(t, m, runes("5"))
	if !m.minibufferErr {
		t.Fatalf("expected error flash for a jump past the breadcrumb")
	}

	m = press(t, m, runes("u"))
	if !m.sess.Path().IsRoot() {
		t.Fatalf("expected u to return to root; got %v", m.sess.Path())
	}
	m = press(t, m, runes("u"))
	if m.minibufferText != "already at the root" {
		t.Fatalf("expected root flash; got %q", m.minibufferText)
	}

	m = enterBlock(t, m, 1, 1, "enter")
	m = enterBlock(t, m, 7, 7, "enter")
	m = press(t, m, runes("g"))
	if !m.sess.Path().IsRoot() {
		t.Fatalf("expected g to return to root; got %v", m.sess.Path())
	}
	// Children survive the round trip.
	m = enterBlock(t, m, 1, 1, "enter")
	if got := m.sess.Grid()[7][7]; got != "B" {
		t.Fatalf("expected child edit to persist; got %q", got)
	}
}

func TestSave_AppendsToCollection(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = editCell(t, m, 4, 4, "Thrive")
	m = press(t, m, runes("s"))
	if m.sess.Dirty() {
		t.Fatalf("expected save to mark the session clean")
	}
	if m.savedCount != 1 {
		t.Fatalf("expected 1 saved chart; got %d", m.savedCount)
	}
	charts, err := m.st.LoadCharts(context.Background())
	if err != nil {
		t.Fatalf("LoadCharts: %v", err)
	}
	if len(charts) != 1 || charts[0].Name != "Goals" {
		t.Fatalf("unexpected collection: %+v", charts)
	}
}

func TestSave_FailureKeepsChartDirty(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m := newAppModel(Options{
		Store:   store.Store{Dir: filepath.Join(blocker, "ws")},
		Session: session.New("Goals", session.Options{}),
		Config:  &store.GlobalConfig{},
	})
	m = editCell(t, m, 4, 4, "unsaved work")

	m = press(t, m, runes("s"))
	if !m.minibufferErr || !strings.Contains(m.minibufferText, "save failed") {
		t.Fatalf("expected save failure flash; got %q", m.minibufferText)
	}
	if !m.sess.Dirty() {
		t.Fatalf("expected chart to stay dirty after a failed save")
	}

	// A single n must still ask before discarding the chart.
	m = press(t, m, runes("n"))
	if got := m.sess.Grid()[4][4]; got != "unsaved work" {
		t.Fatalf("expected n to ask for confirmation; cell=%q", got)
	}
}

func TestSavedList_LoadAndDelete(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = press(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m = editCell(t, m, 4, 4, "first")
	m = press(t, m, runes("s"))
	m = editCell(t, m, 4, 4, "second")

	m = press(t, m, runes("L"))
	if m.mode != modeSaved {
		t.Fatalf("expected saved list mode; got %v", m.mode)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeGrid {
		t.Fatalf("expected grid mode after load; got %v", m.mode)
	}
	if got := m.sess.Grid()[4][4]; got != "first" {
		t.Fatalf("expected loaded chart center %q; got %q", "first", got)
	}

	m = press(t, m, runes("L"), runes("d"))
	if m.savedCount != 0 {
		t.Fatalf("expected empty collection after delete; got %d", m.savedCount)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeGrid {
		t.Fatalf("expected esc to close the list; got %v", m.mode)
	}
}

func TestNewChart_ConfirmsWhenDirty(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = editCell(t, m, 0, 0, "draft")
	m = press(t, m, runes("n"))
	if got := m.sess.Grid()[0][0]; got != "draft" {
		t.Fatalf("expected first n to ask for confirmation; cell=%q", got)
	}
	m = press(t, m, runes("n"))
	if got := m.sess.Grid()[0][0]; got != "" {
		t.Fatalf("expected second n to start a new chart; cell=%q", got)
	}
}

func TestRename(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = press(t, m, runes("r"))
	if m.mode != modeRename {
		t.Fatalf("expected rename mode; got %v", m.mode)
	}
	m.input.SetValue("")
	m = press(t, m, runes("Year plan"), tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.sess.Name(); got != "Year plan" {
		t.Fatalf("expected renamed chart; got %q", got)
	}

	m = press(t, m, runes("r"))
	m.input.SetValue("")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.minibufferErr || m.sess.Name() != "Year plan" {
		t.Fatalf("expected blank rename to fail; name=%q flash=%q", m.sess.Name(), m.minibufferText)
	}
}

func TestCopyCellAndPath(t *testing.T) {
	var got []string
	old := writeClipboard
	writeClipboard = func(s string) error {
		got = append(got, s)
		return nil
	}
	t.Cleanup(func() { writeClipboard = old })

	m := newTestModel(t)
	m = editCell(t, m, 1, 1, "Health")
	m = press(t, m, runes("y"))
	m = enterBlock(t, m, 1, 1, "enter")
	m = press(t, m, runes("Y"))

	if len(got) != 2 || got[0] != "Health" || got[1] != "Root › Health" {
		t.Fatalf("unexpected clipboard writes: %q", got)
	}

	writeClipboard = func(string) error { return errors.New("no clipboard") }
	m = press(t, m, runes("Y"))
	if !m.minibufferErr {
		t.Fatalf("expected copy failure to flash an error")
	}
}

func TestView_ShowsGridAndBreadcrumb(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = press(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	m = editCell(t, m, 1, 1, "Health")
	m = enterBlock(t, m, 1, 1, "enter")
	m = editCell(t, m, 0, 0, "Sleep")

	v := m.View()
	for _, want := range []string{"Goals", "Root", "1 Health", "Sleep"} {
		if !strings.Contains(v, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, v)
		}
	}
}

func TestCellWidth_FitsWindow(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	if got := m.cellWidth(); got != store.DefaultCellWidth {
		t.Fatalf("expected default width before sizing; got %d", got)
	}
	m = press(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})
	if got := m.cellWidth(); got != 5 {
		t.Fatalf("expected width 5 for a 60-column window; got %d", got)
	}
	m = press(t, m, tea.WindowSizeMsg{Width: 20, Height: 30})
	if got := m.cellWidth(); got != 4 {
		t.Fatalf("expected minimum width 4; got %d", got)
	}
}

func TestUIState_RestoresCursor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	st := store.Store{Dir: dir}
	if err := st.SaveTUIState(&store.TUIState{Version: 1, CursorRow: 2, CursorCol: 6}); err != nil {
		t.Fatalf("SaveTUIState: %v", err)
	}
	m := newAppModel(Options{Store: st, Session: session.New("", session.Options{})})
	if m.row != 2 || m.col != 6 {
		t.Fatalf("expected restored cursor (2,6); got (%d,%d)", m.row, m.col)
	}
}

func TestGlyphPreference(t *testing.T) {
	t.Setenv("MANDALA_TUI_GLYPHS", "")
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	applyGlyphPreference("ascii")
	if glyphs() != glyphSetASCII || glyphCrumbSep() != ">" {
		t.Fatalf("expected ASCII glyphs from config")
	}

	t.Setenv("MANDALA_TUI_GLYPHS", "unicode")
	applyGlyphPreference("ascii")
	if glyphs() != glyphSetUnicode || glyphCrumbSep() != "›" {
		t.Fatalf("expected env to win over config")
	}
}
