package cli

import (
	"mandala-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize local storage (workspace-first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			// Opening the collection creates the database and imports a legacy
			// mandalaCharts.json found in the directory.
			list, err := s.LoadCharts(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.SaveSession(sess); err != nil {
				return writeErr(cmd, err)
			}

			// If we're in workspace mode but no current workspace is set, set it.
			if app.Workspace != "" {
				cfg, err := store.LoadConfig()
				if err == nil && cfg.CurrentWorkspace == "" {
					cfg.CurrentWorkspace = app.Workspace
					_ = store.SaveConfig(cfg)
				}
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":        s.Dir,
					"workspace":  app.Workspace,
					"collection": s.CollectionPath(),
					"saved":      len(list),
				},
			})
		},
	}
	return cmd
}
