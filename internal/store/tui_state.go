package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"mandala-cli/internal/session"
)

const tuiStateFileName = "tui_state.json"

// TUIState stores small, user-facing UI state for restoring the last screen on relaunch.
// It is best effort: callers should tolerate missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	CursorRow int `json:"cursorRow"`
	CursorCol int `json:"cursorCol"`

	ShowOutline bool `json:"showOutline,omitempty"`
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s Store) LoadTUIState() (*TUIState, error) {
	def := &TUIState{Version: 1, CursorRow: 4, CursorCol: 4}
	if strings.TrimSpace(s.Dir) == "" {
		return def, nil
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return def, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return def, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	if st.CursorRow < 0 || st.CursorRow > 8 || st.CursorCol < 0 || st.CursorCol > 8 {
		st.CursorRow, st.CursorCol = 4, 4
	}
	return &st, nil
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, "tui_state.json.*.tmp", s.tuiStatePath(), b, 0o644)
}

// LoadSession restores the session persisted by SaveSession. A missing file yields
// a fresh session; a corrupt one yields a fresh session and a warning.
func (s Store) LoadSession(opts session.Options, defaultName string) (*session.Session, error) {
	fresh := session.New(defaultName, opts)
	if strings.TrimSpace(s.Dir) == "" {
		return fresh, nil
	}
	b, err := os.ReadFile(s.sessionPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fresh, nil
		}
		return fresh, err
	}
	var st session.State
	if err := json.Unmarshal(b, &st); err != nil {
		s.logger().Warn("session file unreadable; starting a new chart", "file", s.sessionPath(), "err", err)
		return fresh, nil
	}
	sess, err := session.Restore(st, opts)
	if err != nil {
		s.logger().Warn("session file invalid; starting a new chart", "file", s.sessionPath(), "err", err)
		return fresh, nil
	}
	return sess, nil
}

func (s Store) SaveSession(sess *session.Session) error {
	if sess == nil {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := json.Marshal(sess.State())
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, "session.json.*.tmp", s.sessionPath(), b, 0o644)
}
