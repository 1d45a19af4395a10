package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"mandala-cli/internal/format"
	"mandala-cli/internal/session"
	"mandala-cli/internal/store"
	"mandala-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Format     string
	LogLevel   string

	Log *slog.Logger

	cfg *store.GlobalConfig
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "mandala",
		Short:        "Mandala chart (local-first) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  mandala

  # Fill the central goal and a theme, then go into it
  mandala set 4 4 "Become a pro"
  mandala set 1 1 "Body"
  mandala enter top-left

  # Show a node without navigating (shortcut for: mandala show --path 0.3)
  mandala 0.3
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := store.LoadConfig()
		if err != nil {
			// A broken config file must not lock the user out of their charts.
			cfg = &store.GlobalConfig{}
			app.cfg = cfg
			app.Log = newLogger(cmd, app.LogLevel)
			app.Log.Warn("config unreadable; using defaults", "err", err)
			return nil
		}
		app.cfg = cfg
		level := app.LogLevel
		if level == "" {
			level = cfg.LogLevel
		}
		app.Log = newLogger(cmd, level)
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("MANDALA_DIR", ""), "Path to store dir (advanced: overrides workspace resolution; use for fixtures/tests)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("MANDALA_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("MANDALA_FORMAT", "json"), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("MANDALA_LOG_LEVEL", ""), "Log level on stderr (debug|info|warn|error)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newNewCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newSetCmd(app))
	cmd.AddCommand(newEnterCmd(app))
	cmd.AddCommand(newPreviewCmd(app))
	cmd.AddCommand(newUpCmd(app))
	cmd.AddCommand(newJumpCmd(app))
	cmd.AddCommand(newRootNavCmd(app))
	cmd.AddCommand(newBreadcrumbCmd(app))
	cmd.AddCommand(newSaveCmd(app))
	cmd.AddCommand(newSavedCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newInfoCmd(app))

	return cmd
}

func runTUI(app *App) error {
	sess, s, err := loadSession(app)
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Store:     s,
		Session:   sess,
		Config:    app.config(),
		Workspace: app.Workspace,
		Log:       app.Log,
	})
}

func newLogger(cmd *cobra.Command, level string) *slog.Logger {
	var lv slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lv = slog.LevelDebug
	case "info":
		lv = slog.LevelInfo
	case "error":
		lv = slog.LevelError
	default:
		// warn keeps stdout clean for scripts while still surfacing degradation.
		lv = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lv}))
}

func (app *App) config() *store.GlobalConfig {
	if app.cfg == nil {
		return &store.GlobalConfig{}
	}
	return app.cfg
}

func (app *App) logger() *slog.Logger {
	if app.Log == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return app.Log
}

func sessionOptions(cfg *store.GlobalConfig) session.Options {
	return session.Options{
		AllowUnnamed: cfg.AllowUnnamedEntry,
		Placeholder:  cfg.PlaceholderPrefix,
	}
}

func defaultChartName(cfg *store.GlobalConfig) string {
	if n := strings.TrimSpace(cfg.DefaultChartName); n != "" {
		return n
	}
	return session.DefaultName
}

func resolveStore(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		// Workspace-first:
		// 1) --workspace
		// 2) config currentWorkspace
		// 3) default workspace ("default")
		if app.Workspace != "" {
			d, err := store.WorkspaceDir(app.Workspace)
			if err != nil {
				return store.Store{}, err
			}
			dir = d
		} else if cfg := app.config(); cfg.CurrentWorkspace != "" {
			d, err := store.WorkspaceDir(cfg.CurrentWorkspace)
			if err != nil {
				return store.Store{}, err
			}
			app.Workspace = cfg.CurrentWorkspace
			dir = d
		} else {
			app.Workspace = "default"
			d, err := store.WorkspaceDir(app.Workspace)
			if err != nil {
				return store.Store{}, err
			}
			dir = d
		}
		app.Dir = dir
	}
	return store.Store{Dir: dir, Log: app.logger()}, nil
}

// loadSession restores the workspace's current session. Storage problems degrade to a
// fresh in-memory session.
func loadSession(app *App) (*session.Session, store.Store, error) {
	s, err := resolveStore(app)
	if err != nil {
		return nil, s, err
	}
	cfg := app.config()
	sess, err := s.LoadSession(sessionOptions(cfg), defaultChartName(cfg))
	if err != nil {
		app.logger().Warn("session unavailable; using a new chart", "dir", s.Dir, "err", err)
	}
	return sess, s, nil
}

// persist saves the session and appends an activity event. Only a failure to save the
// session is reported; the event log is best effort.
func persist(app *App, s store.Store, sess *session.Session, typ string, payload any) error {
	if err := s.SaveSession(sess); err != nil {
		if !errors.Is(err, store.ErrStorageUnavailable) {
			return err
		}
		app.logger().Warn("session not saved", "err", err)
	}
	if err := s.AppendEvent(typ, sess.Name(), sess.Path(), payload); err != nil {
		app.logger().Warn("activity log not written", "type", typ, "err", err)
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
