package cli

import (
	"fmt"
	"strconv"
	"strings"

	"mandala-cli/internal/chart"
	"mandala-cli/internal/model"
	"mandala-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newNewCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new empty chart (unsaved changes to the current chart are dropped)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			discarded := sess.Dirty()
			if strings.TrimSpace(name) == "" {
				name = defaultChartName(app.config())
			}
			sess.Reset(name)
			if err := persist(app, s, sess, "chart.new", map[string]any{"name": sess.Name()}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": viewOf(sess),
				"meta": map[string]any{"discardedChanges": discarded},
				"_hints": []string{
					"mandala set 4 4 \"<central goal>\"",
				},
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Chart name (default: config defaultChartName)")
	return cmd
}

func newRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <name>",
		Short: "Rename the current chart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			from := sess.Name()
			if err := sess.Rename(strings.Join(args, " ")); err != nil {
				return writeErr(cmd, err)
			}
			if err := persist(app, s, sess, "chart.rename", map[string]any{"from": from, "to": sess.Name()}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": viewOf(sess)})
		},
	}
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	var pathStr string
	var render bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the grid at the current path (or at --path, without navigating)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			v := viewOf(sess)
			if cmd.Flags().Changed("path") {
				p, err := model.ParsePath(pathStr)
				if err != nil {
					return writeErr(cmd, err)
				}
				g, ok, err := chart.View(sess.Tree(), p)
				if err != nil {
					return writeErr(cmd, err)
				}
				crumbs, err := chart.DescribePath(sess.Tree(), p)
				if err != nil {
					return writeErr(cmd, err)
				}
				labels := make([]string, len(crumbs))
				for i, c := range crumbs {
					labels[i] = c.Display(sess.Options().Placeholder)
				}
				v.Path, v.Grid, v.Breadcrumb = p, g, labels
				if !ok {
					app.logger().Debug("node not created yet; showing an empty grid", "path", p.String())
				}
			}

			if render {
				md := publish.RenderGrid(v.Name, v.Breadcrumb, v.Grid)
				_, err := fmt.Fprintln(cmd.OutOrStdout(), publish.RenderTerminal(md, 120))
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": v})
		},
	}

	cmd.Flags().StringVar(&pathStr, "path", "", "Node path to show (e.g. 0.3; empty = root)")
	cmd.Flags().BoolVar(&render, "render", false, "Render the grid for the terminal (no envelope)")
	return cmd
}

func newSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <row> <col> [value...]",
		Short: "Set one cell of the current grid (no value clears it)",
		Long: strings.TrimSpace(`
Set one cell of the grid at the current path. Rows and columns are 0-8.

Block centers and the matching cells of the center block are linked: writing
either one writes both.
`),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseCoord("row", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			col, err := parseCoord("col", args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			value := strings.Join(args[2:], " ")

			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.SetCell(row, col, value); err != nil {
				return writeErr(cmd, err)
			}
			payload := map[string]any{"row": row, "col": col, "value": value}
			if err := persist(app, s, sess, "cell.set", payload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": viewOf(sess),
				"meta": map[string]any{"cell": payload, "linked": linkedCell(row, col)},
			})
		},
	}
	return cmd
}

func parseCoord(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return n, nil
}

// linkedCell reports the partner of a linked cell, or nil.
func linkedCell(row, col int) *model.Cell {
	if k, ok := model.PeripheralCenterIndex(row, col); ok {
		c := model.CenterLink(k)
		return &c
	}
	if k, ok := model.CenterLinkIndex(row, col); ok {
		c := model.BlockCenter(k)
		return &c
	}
	return nil
}
