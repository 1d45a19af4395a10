package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	sqliteFileName  = "charts.sqlite"
	legacyFileName  = "mandalaCharts.json"
	eventsFileName  = "events.jsonl"
	sessionFileName = "session.json"
)

// ErrStorageUnavailable means the workspace directory or its database cannot be used.
// Callers keep running in memory with an empty saved list.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Store is one workspace directory: the saved-chart collection, the current session
// and the activity log.
type Store struct {
	Dir string
	Log *slog.Logger
}

func (s Store) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return fmt.Errorf("%w: no workspace directory", ErrStorageUnavailable)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s Store) sqlitePath() string  { return filepath.Join(s.Dir, sqliteFileName) }
func (s Store) legacyPath() string  { return filepath.Join(s.Dir, legacyFileName) }
func (s Store) eventsPath() string  { return filepath.Join(s.Dir, eventsFileName) }
func (s Store) sessionPath() string { return filepath.Join(s.Dir, sessionFileName) }

// CollectionPath is the file that changes whenever the saved collection changes.
// Watchers use it to notice writes from other processes.
func (s Store) CollectionPath() string { return s.sqlitePath() }

func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

// NotFoundError reports a saved chart or workspace that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
