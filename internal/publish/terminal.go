package publish

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Cached by style and wrap width. WithAutoStyle can block on terminal
	// background queries, so the style is picked from the environment instead.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// RenderTerminal renders markdown for a terminal of the given width. On any renderer
// failure the markdown source is returned unchanged.
func RenderTerminal(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	style := TerminalStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(styleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func styleConfig(style string) ansi.StyleConfig {
	if style == "light" {
		return styles.LightStyleConfig
	}
	return styles.DarkStyleConfig
}

// TerminalStyle picks "light" or "dark": MANDALA_MD_STYLE, then MANDALA_TUI_THEME,
// then the COLORFGBG background, then lipgloss detection.
func TerminalStyle() string {
	for _, env := range []string{"MANDALA_MD_STYLE", "MANDALA_TUI_THEME"} {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(env))) {
		case "light":
			return "light"
		case "dark":
			return "dark"
		}
	}
	// COLORFGBG is often "fg;bg" (e.g. "15;0" => dark bg).
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil && bg >= 0 {
			// xterm palette: 0-6 dark, 7-15 light.
			if bg >= 7 {
				return "light"
			}
			return "dark"
		}
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
