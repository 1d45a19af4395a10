package tui

import (
	"os"
	"strings"
	"sync"
)

// Terminal apps can't change the user's actual font. Instead, we can choose
// between Unicode and ASCII glyph sets for the grid lines, breadcrumb separators
// and empty-cell markers. This helps on terminals/fonts that don't render some
// glyphs cleanly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference picks the glyph set: MANDALA_TUI_GLYPHS wins over the config
// value. Unknown values are ignored.
func applyGlyphPreference(configured string) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("MANDALA_TUI_GLYPHS")))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(configured))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphCrumbSep() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "›"
}

func glyphVRule() string {
	if glyphs() == glyphSetASCII {
		return "|"
	}
	return "│"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}

func glyphCross() string {
	if glyphs() == glyphSetASCII {
		return "+"
	}
	return "┼"
}

func glyphEmpty() string {
	if glyphs() == glyphSetASCII {
		return "."
	}
	return "·"
}

func glyphEllipsis() string {
	if glyphs() == glyphSetASCII {
		return "~"
	}
	return "…"
}

func glyphDirty() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "●"
}
