// Package sqlite archives finished runs and their cleaned observations.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in PRAGMA user_version and bumped whenever
// schema.sql changes. Old archives must be removed by hand.
const schemaVersion = 2

// ErrSchemaMismatch indicates an archive written by a different schema.
var ErrSchemaMismatch = errors.New("archive schema version mismatch")

// Archive is a SQLite-backed run archive.
// It implements pipeline.Loader.
type Archive struct {
	db   *sql.DB
	path string
}

// RunRecord is one archived run.
type RunRecord struct {
	ID        string
	StartedAt time.Time
	Source    domain.Source
	Input     string
	Seed      uint64
	Indexed   bool
	Rows      int
}

// MonthTotal is the archived rainfall and mean temperature for one month.
type MonthTotal struct {
	Month     string
	MeanTemp  float64
	TotalRain float64
	Days      int
}

// Open creates or opens the archive at path.
func Open(ctx context.Context, path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	a := &Archive{db: db, path: path}
	if err := a.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

// Name identifies the sink in logs and metrics.
func (a *Archive) Name() string { return "sqlite" }

// Path returns the database file path.
func (a *Archive) Path() string { return a.path }

// Close closes the underlying database connection.
func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Load stores the run and its rows in one transaction. Loading the same run
// twice replaces the earlier copy.
func (a *Archive) Load(ctx context.Context, run domain.Run, rows []domain.CleanedRow) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM observations WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("clear run %s: %w", run.ID, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", run.ID); err != nil {
		return fmt.Errorf("clear run %s: %w", run.ID, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, source, input, seed, indexed, row_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixNano(), string(run.Source), run.Input,
		int64(run.Seed), run.Indexed, len(rows),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO observations (run_id, position, obs_date, temperature_c, rainfall_mm, humidity_per, season)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare observation insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		var date sql.NullString
		if run.Indexed {
			date = sql.NullString{String: r.Date.Format(domain.DateLayout), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, date, r.TemperatureC, r.RainfallMM, r.HumidityPct, string(r.Season)); err != nil {
			return fmt.Errorf("insert observation %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	return nil
}

// Runs lists archived runs, newest first.
func (a *Archive) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, started_at, source, input, seed, indexed, row_count
		 FROM runs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec     RunRecord
			started int64
			source  string
			seed    int64
		)
		if err := rows.Scan(&rec.ID, &started, &source, &rec.Input, &seed, &rec.Indexed, &rec.Rows); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.StartedAt = time.Unix(0, started).UTC()
		rec.Source = domain.Source(source)
		rec.Seed = uint64(seed)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MonthlyTotals aggregates an archived run by calendar month.
func (a *Archive) MonthlyTotals(ctx context.Context, runID string) ([]MonthTotal, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT substr(obs_date, 1, 7) AS month,
		        AVG(temperature_c), SUM(rainfall_mm), COUNT(*)
		 FROM observations
		 WHERE run_id = ? AND obs_date IS NOT NULL
		 GROUP BY month
		 ORDER BY month`, runID)
	if err != nil {
		return nil, fmt.Errorf("query monthly totals: %w", err)
	}
	defer rows.Close()

	var out []MonthTotal
	for rows.Next() {
		var m MonthTotal
		if err := rows.Scan(&m.Month, &m.MeanTemp, &m.TotalRain, &m.Days); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// initSchema creates the tables in a fresh file and otherwise checks that the
// file was written by this schema. A fresh SQLite file has user_version 0.
func (a *Archive) initSchema(ctx context.Context) error {
	var version int
	if err := a.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read archive version: %w", err)
	}
	switch version {
	case schemaVersion:
		return nil
	case 0:
	default:
		return fmt.Errorf("%w: %s has version %d, want %d", ErrSchemaMismatch, a.path, version, schemaVersion)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create archive tables: %w", err)
	}
	// PRAGMA arguments cannot be bound.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("set archive version: %w", err)
	}
	return tx.Commit()
}
