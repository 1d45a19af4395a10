package cli

import (
	"errors"
	"strconv"
	"strings"

	"mandala-cli/internal/chart"
	"mandala-cli/internal/model"
	"mandala-cli/internal/session"

	"github.com/spf13/cobra"
)

func newEnterCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "enter <block>",
		Short: "Go into a peripheral block's sub-chart (0-7 or name, e.g. top-left)",
		Long: strings.TrimSpace(`
Go into the sub-chart behind a peripheral block. The first visit creates the
sub-chart from the block: its 3x3 content becomes the new center block and each
of its eight cells seeds a block center.

Blocks whose center cell is empty are refused unless --force is given or the
config sets allowUnnamedEntry.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := model.ParseBlock(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := sess.Enter(k, force)
			if err != nil {
				if errors.Is(err, session.ErrUnnamedBlock) {
					return writeErr(cmd, errors.New(err.Error()+" (set its center cell first, or pass --force)"))
				}
				return writeErr(cmd, err)
			}
			payload := map[string]any{"block": k, "label": p.Label, "created": !p.Materialized}
			if err := persist(app, s, sess, "nav.enter", payload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": viewOf(sess),
				"meta": map[string]any{"preview": p},
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Enter even if the block has no name")
	return cmd
}

func newPreviewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <block>",
		Short: "Show what entering a block would bring into the center (read-only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := model.ParseBlock(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, _, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			allowed := true
			p, err := sess.BeginEnter(k, false)
			if err != nil {
				if !errors.Is(err, session.ErrUnnamedBlock) {
					return writeErr(cmd, err)
				}
				allowed = false
			}
			return writeOut(cmd, app, map[string]any{
				"data": p,
				"meta": map[string]any{"allowed": allowed},
			})
		},
	}
	return cmd
}

func newUpCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Go to the parent chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			moved := sess.Up()
			if moved {
				if err := persist(app, s, sess, "nav.up", nil); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": viewOf(sess),
				"meta": map[string]any{"moved": moved},
			})
		},
	}
	return cmd
}

func newJumpCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jump <depth>",
		Short: "Jump to a breadcrumb entry (0 = first level below the root)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			depth, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, errors.New("invalid depth: "+args[0]))
			}
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.AscendTo(depth); err != nil {
				return writeErr(cmd, err)
			}
			if err := persist(app, s, sess, "nav.jump", map[string]any{"depth": depth}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": viewOf(sess)})
		},
	}
	return cmd
}

func newRootNavCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "root",
		Short: "Go back to the root chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			wasRoot := sess.Path().IsRoot()
			sess.Root()
			if !wasRoot {
				if err := persist(app, s, sess, "nav.root", nil); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": viewOf(sess)})
		},
	}
	return cmd
}

func newBreadcrumbCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breadcrumb",
		Short: "Show the path from the root to the current chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			crumbs := sess.Breadcrumb()
			if crumbs == nil {
				crumbs = []chart.Crumb{}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"path":   sess.Path(),
					"crumbs": crumbs,
					"labels": sess.Labels(),
				},
				"_hints": []string{
					"mandala jump <depth>",
					"mandala root",
				},
			})
		},
	}
	return cmd
}
