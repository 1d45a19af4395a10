package cli

import (
	"fmt"

	"mandala-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var out string
	var html bool
	var render bool
	var overwrite bool
	var grid bool
	var includeEmpty bool
	var width int

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Render the whole chart as a Markdown outline (or HTML)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			opt := publish.WriteOptions{
				RenderOptions: publish.RenderOptions{
					Placeholder:  sess.Options().Placeholder,
					IncludeEmpty: includeEmpty,
					Grid:         grid,
				},
				HTML:      html,
				Overwrite: overwrite,
			}

			if out != "" {
				res, err := publish.WriteFile(sess.Name(), sess.Tree(), out, opt)
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := s.AppendEvent("chart.publish", sess.Name(), sess.Path(), res); err != nil {
					app.logger().Warn("activity log not written", "type", "chart.publish", "err", err)
				}
				return writeOut(cmd, app, map[string]any{"data": res})
			}

			if render {
				md, err := publish.RenderMarkdown(sess.Name(), sess.Tree(), opt.RenderOptions)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), publish.RenderTerminal(md, width))
				return err
			}

			doc, err := publish.Render(sess.Name(), sess.Tree(), opt)
			if err != nil {
				return writeErr(cmd, err)
			}
			key := "markdown"
			if html {
				key = "html"
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"name": sess.Name(), key: doc}})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&html, "html", false, "Render a standalone HTML page")
	cmd.Flags().BoolVar(&render, "render", false, "Render the outline for the terminal (no envelope)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing --out file")
	cmd.Flags().BoolVar(&grid, "grid", false, "Include the full 9x9 table in every section")
	cmd.Flags().BoolVar(&includeEmpty, "include-empty", false, "Keep empty blocks and sub-charts")
	cmd.Flags().IntVar(&width, "width", 100, "Wrap width for --render")
	cmd.MarkFlagsMutuallyExclusive("html", "render")
	return cmd
}
