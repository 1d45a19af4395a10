package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mandala-cli/internal/snapshot"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current chart to a file ({name, data}; .json, .yaml or .cbor)",
		Long: strings.TrimSpace(`
Write the whole chart (every sub-chart included) to a file. The format follows
the extension: .json (default, 2-space indent), .yaml/.yml or .cbor.

Without --out the file is "<chart name>.json" in the current directory.
Use --out - to write JSON to stdout.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out = strings.TrimSpace(out)
			if out == "-" {
				b, err := sess.Export(snapshot.JSON)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			if out == "" {
				out = exportFileName(sess.Name())
			}
			f, err := snapshot.FormatFor(out)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := sess.Export(f)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !overwrite {
				if _, err := os.Stat(out); err == nil {
					return writeErr(cmd, errors.New("file exists (use --overwrite): "+out))
				}
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.AppendEvent("chart.export", sess.Name(), sess.Path(), map[string]any{"file": out, "format": string(f)}); err != nil {
				app.logger().Warn("activity log not written", "type", "chart.export", "err", err)
			}
			app.logger().Info("exported chart", "file", out, "bytes", len(b))
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"written": out,
					"format":  string(f),
					"bytes":   len(b),
				},
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: <name>.json; - for stdout)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the current chart with an exported file (validated first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := snapshot.FormatFor(path)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := os.ReadFile(path)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, s, err := loadSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			discarded := sess.Dirty()
			if err := sess.Import(f, b); err != nil {
				app.logger().Info("import rejected", "file", path, "err", err)
				return writeErr(cmd, fmt.Errorf("import %s: %w", filepath.Base(path), err))
			}
			if err := persist(app, s, sess, "chart.import", map[string]any{"file": path, "format": string(f)}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": viewOf(sess),
				"meta": map[string]any{"discardedChanges": discarded},
			})
		},
	}
	return cmd
}

// exportFileName turns a chart name into "<name>.json", keeping it a plain file name.
func exportFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "mandala-chart"
	}
	return name + ".json"
}
