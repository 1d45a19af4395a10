package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"mandala-cli/internal/model"
	"mandala-cli/internal/snapshot"

	_ "modernc.org/sqlite"
)

const metaLegacyImported = "legacy_imported"

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	// WAL enables one writer + many readers (CLI and TUI at once); busy_timeout avoids
	// "database is locked" errors.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS charts (
			pos INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			date TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadCharts returns the saved collection in order.
//
// The first time a workspace is opened, a legacy mandalaCharts.json (the browser
// localStorage dump) found in the workspace is imported once. Unreadable rows or an
// unreadable legacy file yield an empty list and a warning, never an error.
func (s Store) LoadCharts(ctx context.Context) ([]model.SavedChart, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return []model.SavedChart{}, err
	}
	defer db.Close()

	if err := s.importLegacyOnce(ctx, db); err != nil {
		return []model.SavedChart{}, err
	}

	out, err := readCharts(ctx, db)
	if err != nil {
		s.logger().Warn("saved charts unreadable; using an empty list", "dir", s.Dir, "err", err)
		return []model.SavedChart{}, nil
	}
	return out, nil
}

// CollectionVersion summarizes the collection cheaply (row count and last rewrite time)
// so watchers can tell a real change from a read that touched the database files.
func (s Store) CollectionVersion(ctx context.Context) (string, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var n, updated int64
	err = db.QueryRowContext(ctx, `SELECT COUNT(1), COALESCE(MAX(updated_at_unixms), 0) FROM charts`).Scan(&n, &updated)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%d", n, updated), nil
}

func readCharts(ctx context.Context, db *sql.DB) ([]model.SavedChart, error) {
	rows, err := db.QueryContext(ctx, `SELECT json FROM charts ORDER BY pos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.SavedChart{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var c model.SavedChart
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveCharts replaces the whole collection in one transaction.
func (s Store) SaveCharts(ctx context.Context, charts []model.SavedChart) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return replaceCharts(ctx, db, charts)
}

func replaceCharts(ctx context.Context, db *sql.DB, charts []model.SavedChart) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM charts`); err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	for i, c := range charts {
		c = normalizeRecord(c)
		raw, err := json.Marshal(c)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO charts(pos, id, name, date, fingerprint, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			i, c.ID, c.Name, c.Date.Format(time.RFC3339Nano), c.Fingerprint, string(raw), nowMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// normalizeRecord fills the optional id and fingerprint of records that lack them.
func normalizeRecord(c model.SavedChart) model.SavedChart {
	if strings.TrimSpace(c.ID) == "" {
		c.ID = uuid.NewString()
	}
	if c.Fingerprint == "" && c.Data != nil {
		c.Fingerprint = snapshot.Fingerprint(c.Data)
	}
	if c.Date.IsZero() {
		c.Date = time.Now().UTC()
	}
	return c
}

// AppendChart adds a record to the end of the collection and returns the new list.
func (s Store) AppendChart(ctx context.Context, c model.SavedChart) ([]model.SavedChart, error) {
	if err := snapshot.Validate(c); err != nil {
		return nil, err
	}
	list, err := s.LoadCharts(ctx)
	if err != nil {
		return nil, err
	}
	list = append(list, normalizeRecord(c))
	if err := s.SaveCharts(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteChart removes the record ref refers to (see FindChart) and returns it.
func (s Store) DeleteChart(ctx context.Context, ref string) (model.SavedChart, []model.SavedChart, error) {
	list, err := s.LoadCharts(ctx)
	if err != nil {
		return model.SavedChart{}, nil, err
	}
	i, err := FindChart(list, ref)
	if err != nil {
		return model.SavedChart{}, list, err
	}
	removed := list[i]
	next := make([]model.SavedChart, 0, len(list)-1)
	next = append(next, list[:i]...)
	next = append(next, list[i+1:]...)
	if err := s.SaveCharts(ctx, next); err != nil {
		return model.SavedChart{}, list, err
	}
	return removed, next, nil
}

// FindChart resolves ref against a list: a 0-based index, a full id or unique id
// prefix, or an exact name (the most recent match wins).
func FindChart(list []model.SavedChart, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, NotFoundError{Kind: "chart", ID: ref}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 0 && n < len(list) {
			return n, nil
		}
		return -1, NotFoundError{Kind: "chart", ID: ref}
	}
	match := -1
	for i, c := range list {
		if c.ID == ref {
			return i, nil
		}
		if strings.HasPrefix(c.ID, ref) {
			if match >= 0 {
				return -1, fmt.Errorf("ambiguous chart id prefix: %s", ref)
			}
			match = i
		}
	}
	if match >= 0 {
		return match, nil
	}
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Name == ref {
			return i, nil
		}
	}
	return -1, NotFoundError{Kind: "chart", ID: ref}
}

func (s Store) importLegacyOnce(ctx context.Context, db *sql.DB) error {
	var done string
	err := db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, metaLegacyImported).Scan(&done)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM charts`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if b, err := os.ReadFile(s.legacyPath()); err == nil && len(b) > 0 {
			legacy, err := parseLegacy(b)
			if err != nil {
				s.logger().Warn("legacy saved charts unreadable; skipping import", "file", s.legacyPath(), "err", err)
			} else if err := replaceCharts(ctx, db, legacy); err != nil {
				return err
			} else {
				s.logger().Info("imported legacy saved charts", "file", s.legacyPath(), "count", len(legacy))
			}
		}
	}
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, metaLegacyImported, time.Now().UTC().Format(time.RFC3339))
	return err
}

// parseLegacy reads [{name, data, date}] and drops records that do not decode to a
// valid chart.
func parseLegacy(b []byte) ([]model.SavedChart, error) {
	var raw []model.SavedChart
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	out := make([]model.SavedChart, 0, len(raw))
	for _, c := range raw {
		if err := snapshot.Validate(c); err != nil {
			continue
		}
		if _, err := snapshot.Decode(c.Data); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
