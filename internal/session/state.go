package session

import (
	"mandala-cli/internal/model"
	"mandala-cli/internal/snapshot"
)

// State is the persisted form of a session, written after every change so a later
// command or TUI run resumes where the last one stopped.
type State struct {
	Name string               `json:"name"`
	Path model.Path           `json:"path"`
	Data *model.ChartSnapshot `json:"data"`
	// Saved is the fingerprint of the last saved or loaded version.
	Saved string `json:"saved,omitempty"`
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Name: s.name, Path: s.path.Clone(), Data: snapshot.Encode(s.tree), Saved: s.savedPrint}
}

// Restore rebuilds a session from its persisted state. A path that no longer
// validates falls back to the root.
func Restore(st State, opts Options) (*Session, error) {
	t, err := snapshot.Decode(st.Data)
	if err != nil {
		return nil, err
	}
	s := New(st.Name, opts)
	s.tree = t
	s.savedPrint = st.Saved
	if err := s.GoTo(st.Path); err != nil {
		s.path = model.Path{}
	}
	return s, nil
}
