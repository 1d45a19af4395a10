package tui

import (
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

type collectionChangedMsg struct{}

// collectionWatcher reports writes to the saved-chart database, including ones made by
// other processes (a CLI `save` while the TUI is open). Bursts are coalesced, and a burst
// only counts when version reports a different value than last time.
type collectionWatcher struct {
	w        *fsnotify.Watcher
	base     string
	debounce time.Duration

	version func() (string, error)
	last    string

	changes  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// watchCollection watches the directory of path, since the database file (and its
// WAL sidecar) may not exist yet. version may be nil.
func watchCollection(path string, debounce time.Duration, version func() (string, error)) (*collectionWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	cw := &collectionWatcher{
		w:        w,
		base:     filepath.Base(path),
		debounce: debounce,
		version:  version,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	if version != nil {
		cw.last, _ = version()
	}
	go cw.loop()
	return cw, nil
}

// relevant keeps writes to the database and its WAL. Opening the database for a read
// creates and removes the -wal and -shm sidecars, so Create/Remove and -shm are noise.
func (cw *collectionWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Base(ev.Name)
	return name == cw.base || name == cw.base+"-wal"
}

// changed re-reads the version; errors count as a change so the reload can report them.
func (cw *collectionWatcher) changed() bool {
	if cw.version == nil {
		return true
	}
	v, err := cw.version()
	if err != nil {
		return true
	}
	if v == cw.last {
		return false
	}
	cw.last = v
	return true
}

func (cw *collectionWatcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-cw.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if !cw.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(cw.debounce)
			} else {
				timer.Reset(cw.debounce)
			}
			fire = timer.C
		case _, ok := <-cw.w.Errors:
			if !ok {
				return
			}
		case <-fire:
			fire = nil
			if !cw.changed() {
				continue
			}
			select {
			case cw.changes <- struct{}{}:
			default:
			}
		}
	}
}

// wait blocks until the next coalesced change.
func (cw *collectionWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-cw.changes:
			return collectionChangedMsg{}
		case <-cw.done:
			return nil
		}
	}
}

func (cw *collectionWatcher) Close() error {
	var err error
	cw.stopOnce.Do(func() {
		close(cw.done)
		err = cw.w.Close()
	})
	return err
}
