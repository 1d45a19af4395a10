// Package session holds the one piece of mutable state a front end needs: the chart
// being edited, where the user is inside it, and the chart's name. All writes go
// through a Session, which makes it the single owner of its tree.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mandala-cli/internal/chart"
	"mandala-cli/internal/model"
	"mandala-cli/internal/snapshot"
)

// DefaultName is the name a fresh chart gets.
const DefaultName = "New Mandala Chart"

var (
	// ErrUnnamedBlock is returned when entering a block whose representative cell is
	// empty and the session does not allow it.
	ErrUnnamedBlock = errors.New("block has no name")
	ErrEmptyName    = errors.New("chart name is required")
	// ErrStalePreview means the session moved after the preview was taken.
	ErrStalePreview = errors.New("navigation preview no longer matches the session")
)

type Options struct {
	// AllowUnnamed lets Enter descend into blocks whose center cell is empty.
	AllowUnnamed bool
	// Placeholder prefixes breadcrumb labels of unnamed blocks.
	Placeholder string
}

type Session struct {
	mu   sync.Mutex
	opts Options
	name string
	tree chart.Tree
	path model.Path
	// savedPrint is the fingerprint of the tree as last saved or loaded.
	savedPrint string
}

func New(name string, opts Options) *Session {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	t := chart.New()
	return &Session{opts: opts, name: name, tree: t, path: model.Path{}, savedPrint: snapshot.TreeFingerprint(t)}
}

func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *Session) Tree() chart.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Path returns a copy of the current path.
func (s *Session) Path() model.Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path.Clone()
}

func (s *Session) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

func (s *Session) SetOptions(o Options) {
	s.mu.Lock()
	s.opts = o
	s.mu.Unlock()
}

// Grid returns the grid at the current path. A node that does not exist yet reads as
// an empty grid.
func (s *Session) Grid() model.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, _, _ := chart.View(s.tree, s.path)
	return g
}

func (s *Session) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
	return nil
}

// Reset replaces the session with an empty chart.
func (s *Session) Reset(name string) {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	t := chart.New()
	s.mu.Lock()
	s.name, s.tree, s.path = name, t, model.Path{}
	s.savedPrint = snapshot.TreeFingerprint(t)
	s.mu.Unlock()
}

func (s *Session) SetCell(row, col int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := chart.SetCell(s.tree, s.path, row, col, value)
	if err != nil {
		return err
	}
	s.tree = next
	return nil
}

// BeginEnter previews entering block k from the current path. force overrides the
// unnamed-block policy.
func (s *Session) BeginEnter(k int, force bool) (chart.Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := chart.BeginNavigation(s.tree, s.path, k)
	if err != nil {
		return chart.Preview{}, err
	}
	if !p.Named() && !force && !s.opts.AllowUnnamed {
		return p, fmt.Errorf("%w: block %d (%s)", ErrUnnamedBlock, k, model.BlockName(k))
	}
	return p, nil
}

// CommitEnter applies a preview taken by BeginEnter. It fails with ErrStalePreview
// when the session has moved since.
func (s *Session) CommitEnter(p chart.Preview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !p.From.Equal(s.path) {
		return ErrStalePreview
	}
	next, path, err := chart.CommitNavigation(s.tree, s.path, p.Block)
	if err != nil {
		return err
	}
	s.tree, s.path = next, path
	return nil
}

// Enter is BeginEnter followed immediately by CommitEnter.
func (s *Session) Enter(k int, force bool) (chart.Preview, error) {
	p, err := s.BeginEnter(k, force)
	if err != nil {
		return p, err
	}
	return p, s.CommitEnter(p)
}

// Up moves to the parent. It reports false at the root.
func (s *Session) Up() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path.IsRoot() {
		return false
	}
	s.path = chart.Ascend(s.path)
	return true
}

// AscendTo keeps the first depth+1 steps of the path.
func (s *Session) AscendTo(depth int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := chart.AscendTo(s.path, depth)
	if err != nil {
		return err
	}
	s.path = p
	return nil
}

func (s *Session) Root() {
	s.mu.Lock()
	s.path = chart.ToRoot(s.path)
	s.mu.Unlock()
}

// GoTo moves to an arbitrary path. Nodes that do not exist yet are not created.
func (s *Session) GoTo(path model.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, _, err := chart.Lookup(s.tree, path); err != nil {
		return err
	}
	s.path = path.Clone()
	return nil
}

func (s *Session) Breadcrumb() []chart.Crumb {
	s.mu.Lock()
	defer s.mu.Unlock()
	crumbs, _ := chart.DescribePath(s.tree, s.path)
	return crumbs
}

// Labels renders the breadcrumb with placeholders filled in.
func (s *Session) Labels() []string {
	prefix := s.Options().Placeholder
	crumbs := s.Breadcrumb()
	out := make([]string, len(crumbs))
	for i, c := range crumbs {
		out[i] = c.Display(prefix)
	}
	return out
}

// Load replaces the chart wholesale and returns to the root.
func (s *Session) Load(name string, t chart.Tree) {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	s.mu.Lock()
	s.name, s.tree, s.path = name, t, model.Path{}
	s.savedPrint = snapshot.TreeFingerprint(t)
	s.mu.Unlock()
}

// Dirty reports whether the chart changed since it was last saved or loaded.
func (s *Session) Dirty() bool {
	t := s.Tree()
	s.mu.Lock()
	saved := s.savedPrint
	s.mu.Unlock()
	return snapshot.TreeFingerprint(t) != saved
}

// Record captures the chart as a saved-collection entry. The session stays dirty until
// MarkSaved is called with the record's fingerprint.
func (s *Session) Record(now time.Time) model.SavedChart {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := snapshot.Encode(s.tree)
	fp := snapshot.Fingerprint(data)
	return model.SavedChart{
		ID:          uuid.NewString(),
		Name:        s.name,
		Data:        data,
		Date:        now.UTC(),
		Fingerprint: fp,
	}
}

// MarkSaved records fp as the last saved state. Call it once the record is stored.
func (s *Session) MarkSaved(fp string) {
	s.mu.Lock()
	s.savedPrint = fp
	s.mu.Unlock()
}

// LoadRecord validates and loads a saved entry. On error the session is unchanged.
func (s *Session) LoadRecord(rec model.SavedChart) error {
	if err := snapshot.Validate(rec); err != nil {
		return err
	}
	t, err := snapshot.Decode(rec.Data)
	if err != nil {
		return err
	}
	s.Load(rec.Name, t)
	return nil
}

func (s *Session) Export(f snapshot.Format) ([]byte, error) {
	s.mu.Lock()
	name, t := s.name, s.tree
	s.mu.Unlock()
	return snapshot.EncodeFile(f, name, t)
}

// Import replaces the chart with an exported file. On error the session is unchanged.
func (s *Session) Import(f snapshot.Format, data []byte) error {
	name, t, err := snapshot.DecodeFile(f, data)
	if err != nil {
		return err
	}
	s.Load(name, t)
	return nil
}
