package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
)

type GlobalConfig struct {
	CurrentWorkspace string `json:"currentWorkspace,omitempty"`

	// DefaultChartName names charts created by `new` without --name.
	DefaultChartName string `json:"defaultChartName,omitempty"`
	// PlaceholderPrefix labels breadcrumb entries of unnamed blocks ("Unnamed 2").
	PlaceholderPrefix string `json:"placeholderPrefix,omitempty"`
	// AllowUnnamedEntry lets users enter blocks whose center cell is empty.
	AllowUnnamedEntry bool `json:"allowUnnamedEntry,omitempty"`

	LogLevel string `json:"logLevel,omitempty"`

	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// TransitionMs is how long the navigation highlight shows before the move commits.
	TransitionMs int `json:"transitionMs,omitempty"`
	// CellWidth is the rendered width of one grid cell.
	CellWidth int `json:"cellWidth,omitempty"`
}

const (
	DefaultTransitionMs = 600
	DefaultCellWidth    = 12
)

func (c *GlobalConfig) Transition() int {
	if c == nil || c.TUI == nil || c.TUI.TransitionMs <= 0 {
		return DefaultTransitionMs
	}
	return c.TUI.TransitionMs
}

func (c *GlobalConfig) CellWidth() int {
	if c == nil || c.TUI == nil || c.TUI.CellWidth < 4 {
		return DefaultCellWidth
	}
	return c.TUI.CellWidth
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.mandala).
	if v := strings.TrimSpace(os.Getenv("MANDALA_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mandala"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.jsonc"), nil
}

// LoadConfig reads config.jsonc. Comments and trailing commas are allowed.
func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(jsonc.ToJSON(b), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// SaveConfig writes config.jsonc atomically and keeps the previous version as .bak.
// Comments in a hand-edited file are not preserved.
func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.jsonc.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.jsonc.*.tmp", path, append(b, '\n'), 0o600)
}

func NormalizeWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("workspace name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", errors.New("workspace name must be a plain directory name")
	}
	return name, nil
}

// ListWorkspaces returns the workspace directory names under the config dir, sorted.
func ListWorkspaces() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	out := []string{}
	ents, err := os.ReadDir(filepath.Join(dir, "workspaces"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, err
	}
	for _, e := range ents {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
