package cli

import (
	"errors"
	"time"

	"mandala-cli/internal/model"
	"mandala-cli/internal/store"

	"github.com/spf13/cobra"
)

// savedEntry is a saved chart without its (large) data.
type savedEntry struct {
	Index       int       `json:"index"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Fingerprint string    `json:"fingerprint"`
}

func entriesOf(list []model.SavedChart) []savedEntry {
	out := make([]savedEntry, 0, len(list))
	for i, c := range list {
		out = append(out, savedEntry{Index: i, ID: c.ID, Name: c.Name, Date: c.Date, Fingerprint: c.Fingerprint})
	}
	return out
}

func newSaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Add the current chart to the saved list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rec := sess.Record(time.Now())
			list, err := s.AppendChart(cmd.Context(), rec)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess.MarkSaved(rec.Fingerprint)
			if err := persist(app, s, sess, "chart.save", map[string]any{"id": rec.ID, "fingerprint": rec.Fingerprint}); err != nil {
				return writeErr(cmd, err)
			}
			entries := entriesOf(list)
			return writeOut(cmd, app, map[string]any{
				"data": entries[len(entries)-1],
				"meta": map[string]any{"count": len(list)},
				"_hints": []string{
					"mandala saved list",
				},
			})
		},
	}
	return cmd
}

func newSavedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Saved charts (list, load, delete)",
	}

	cmd.AddCommand(newSavedListCmd(app))
	cmd.AddCommand(newSavedLoadCmd(app))
	cmd.AddCommand(newSavedDeleteCmd(app))
	return cmd
}

func newSavedListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved charts (oldest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			list, err := s.LoadCharts(cmd.Context())
			if err != nil {
				if !errors.Is(err, store.ErrStorageUnavailable) {
					return writeErr(cmd, err)
				}
				app.logger().Warn("saved charts unavailable", "err", err)
			}
			return writeOut(cmd, app, map[string]any{"data": entriesOf(list)})
		},
	}
	return cmd
}

func newSavedLoadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <ref>",
		Short: "Replace the current chart with a saved one (index, id, id prefix or name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			list, err := s.LoadCharts(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			i, err := store.FindChart(list, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			discarded := sess.Dirty()
			if err := sess.LoadRecord(list[i]); err != nil {
				return writeErr(cmd, err)
			}
			if err := persist(app, s, sess, "chart.load", map[string]any{"id": list[i].ID}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": viewOf(sess),
				"meta": map[string]any{"loaded": entriesOf(list)[i], "discardedChanges": discarded},
			})
		},
	}
	return cmd
}

func newSavedDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <ref>",
		Short: "Remove a saved chart (index, id, id prefix or name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			removed, list, err := s.DeleteChart(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.AppendEvent("chart.delete", removed.Name, sess.Path(), map[string]any{"id": removed.ID}); err != nil {
				app.logger().Warn("activity log not written", "type", "chart.delete", "err", err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"removed": savedEntry{ID: removed.ID, Name: removed.Name, Date: removed.Date, Fingerprint: removed.Fingerprint},
					"charts":  entriesOf(list),
				},
			})
		},
	}
	return cmd
}
