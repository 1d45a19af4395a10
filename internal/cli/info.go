package cli

import (
	"mandala-cli/internal/chart"
	"mandala-cli/internal/snapshot"

	"github.com/spf13/cobra"
)

func newInfoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Summarize the current chart and where it is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t := sess.Tree()
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"name":        sess.Name(),
					"path":        sess.Path(),
					"dirty":       sess.Dirty(),
					"stats":       chart.Summarize(t),
					"fingerprint": snapshot.TreeFingerprint(t),
				},
				"meta": map[string]any{
					"workspace":  app.Workspace,
					"dir":        s.Dir,
					"collection": s.CollectionPath(),
				},
			})
		},
	}
	return cmd
}
