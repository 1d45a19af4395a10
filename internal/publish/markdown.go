package publish

import (
	"bytes"
	"fmt"
	"strings"

	"mandala-cli/internal/chart"
	"mandala-cli/internal/model"
)

type RenderOptions struct {
	// Placeholder prefixes labels of unnamed blocks ("Unnamed 2").
	Placeholder string
	// IncludeEmpty keeps blocks and nodes that have no content.
	IncludeEmpty bool
	// Grid adds the full 9x9 table to every section.
	Grid bool
}

// RenderMarkdown renders the whole chart as an outline: one section per materialized
// node, parents before children, each listing its eight themes and their ideas.
func RenderMarkdown(name string, t chart.Tree, opt RenderOptions) (string, error) {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(name)
	if title == "" {
		title = "Mandala Chart"
	}
	writeLn("# " + escapeInline(title))

	err := chart.Walk(t, func(path model.Path, n chart.Node) error {
		if !opt.IncludeEmpty && n.Grid.IsEmpty() && len(path) > 0 {
			return nil
		}
		crumbs, err := chart.DescribePath(t, path)
		if err != nil {
			return err
		}
		writeLn("")
		writeLn(strings.Repeat("#", headingLevel(len(path))) + " " + sectionTitle(n.Grid, crumbs, opt.Placeholder))
		writeLn("")
		if len(path) > 0 {
			writeLn("_Path: " + pathLabel(crumbs, opt.Placeholder) + "_")
			writeLn("")
		}
		if opt.Grid {
			writeGrid(writeLn, n.Grid)
			writeLn("")
		}
		if n.Grid.IsEmpty() {
			writeLn("_(empty)_")
			return nil
		}
		for k := 0; k < model.BlockCount; k++ {
			if line, ok := blockLine(n.Grid, k, opt.IncludeEmpty); ok {
				writeLn(line)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func headingLevel(depth int) int {
	if depth+2 > 6 {
		return 6
	}
	return depth + 2
}

func sectionTitle(g model.Grid, crumbs []chart.Crumb, placeholder string) string {
	if goal := strings.TrimSpace(g.At(model.TrueCenter)); goal != "" {
		return escapeInline(goal)
	}
	if len(crumbs) == 0 {
		return "(no central goal)"
	}
	return escapeInline(crumbs[len(crumbs)-1].Display(placeholder))
}

func pathLabel(crumbs []chart.Crumb, placeholder string) string {
	parts := make([]string, 0, len(crumbs)+1)
	parts = append(parts, "Root")
	for _, c := range crumbs {
		parts = append(parts, escapeInline(c.Display(placeholder)))
	}
	return strings.Join(parts, " › ")
}

// blockLine renders block k as a bullet: its theme (the block center) and the ideas
// around it in reading order.
func blockLine(g model.Grid, k int, includeEmpty bool) (string, bool) {
	b := g.Block(k)
	theme := strings.TrimSpace(b[1][1])
	var ideas []string
	for i := 0; i < model.BlockSize; i++ {
		for j := 0; j < model.BlockSize; j++ {
			if i == 1 && j == 1 {
				continue
			}
			if v := strings.TrimSpace(b[i][j]); v != "" {
				ideas = append(ideas, escapeInline(v))
			}
		}
	}
	if theme == "" && len(ideas) == 0 && !includeEmpty {
		return "", false
	}
	label := escapeInline(theme)
	if label == "" {
		label = "(untitled)"
	}
	line := fmt.Sprintf("- **%s** _(%s)_", label, model.BlockName(k))
	if len(ideas) > 0 {
		line += ": " + strings.Join(ideas, " · ")
	}
	return line, true
}

// RenderGrid renders a single grid as a titled table, for `show --render`.
func RenderGrid(name string, labels []string, g model.Grid) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}
	title := strings.TrimSpace(name)
	if title == "" {
		title = "Mandala Chart"
	}
	writeLn("# " + escapeInline(title))
	writeLn("")
	parts := []string{"Root"}
	for _, l := range labels {
		parts = append(parts, escapeInline(l))
	}
	writeLn("_" + strings.Join(parts, " › ") + "_")
	writeLn("")
	writeGrid(writeLn, g)
	return buf.String()
}

func writeGrid(writeLn func(string), g model.Grid) {
	header := "|" + strings.Repeat("   |", model.GridSize)
	writeLn(header)
	writeLn("|" + strings.Repeat(":-:|", model.GridSize))
	for _, row := range g {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = escapeCell(v)
		}
		writeLn("| " + strings.Join(cells, " | ") + " |")
	}
}

func escapeInline(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "#", `\#`)
	return r.Replace(strings.TrimSpace(s))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(escapeInline(s), "|", `\|`)
}
