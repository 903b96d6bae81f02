package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"gridtrace/internal/config"
)

// Store manages run-history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database in the state directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.StateDir, "ledger.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// StartRun inserts a new run row and returns it.
func (s *Store) StartRun(ctx context.Context, inputDir, outputDir string, thresholds []float64) (*Run, error) {
	if len(thresholds) == 0 {
		return nil, errors.New("start run: thresholds required")
	}

	thresholdsJSON, err := json.Marshal(thresholds)
	if err != nil {
		return nil, fmt.Errorf("marshal thresholds: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, started_at, input_dir, output_dir, thresholds_json)
         VALUES (?, ?, ?, ?, ?)`,
		id,
		now.Format(time.RFC3339Nano),
		inputDir,
		outputDir,
		string(thresholdsJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return s.GetRun(ctx, id)
}

// RecordPair appends a pair outcome to the run.
func (s *Store) RecordPair(ctx context.Context, runID string, rec PairRecord) error {
	switch rec.Status {
	case StatusSucceeded, StatusSkipped, StatusFailed:
	default:
		return fmt.Errorf("record pair: unknown status %q", rec.Status)
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_pairs (
            run_id, raster_path, threshold, raster_output, vector_output,
            feature_count, status, error, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		rec.RasterPath,
		rec.Threshold,
		rec.RasterOutput,
		rec.VectorOutput,
		rec.FeatureCount,
		rec.Status,
		rec.Error,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert pair: %w", err)
	}
	return nil
}

// FinishRun closes out a run with its aggregate counters.
func (s *Store) FinishRun(ctx context.Context, runID string, totals Totals) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET finished_at = ?, rasters = ?, pairs = ?, succeeded = ?, skipped = ?, failed = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		totals.Rasters,
		totals.Pairs,
		totals.Succeeded,
		totals.Skipped,
		totals.Failed,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: run %s not found", runID)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, input_dir, output_dir, thresholds_json,
    rasters, pairs, succeeded, skipped, failed`

// GetRun fetches a run by exact identifier. Returns nil when absent.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// FindRun fetches a run by identifier prefix, for CLI ergonomics. It errors
// when the prefix is ambiguous and returns nil when nothing matches.
func (s *Store) FindRun(ctx context.Context, idPrefix string) (*Run, error) {
	idPrefix = strings.TrimSpace(idPrefix)
	if idPrefix == "" {
		return nil, errors.New("find run: empty id")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id LIKE ? || '%' ORDER BY started_at DESC LIMIT 2`,
		idPrefix,
	)
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("find run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("find run: id prefix %q is ambiguous", idPrefix)
	}
}

// ListRuns returns runs newest first, capped at limit when positive.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ListPairs returns the pair outcomes of a run in insertion order.
func (s *Store) ListPairs(ctx context.Context, runID string) ([]PairRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, raster_path, threshold, raster_output, vector_output,
            feature_count, status, error, created_at
         FROM run_pairs WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}
	defer rows.Close()

	var pairs []PairRecord
	for rows.Next() {
		var rec PairRecord
		var createdAt string
		if err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.RasterPath,
			&rec.Threshold,
			&rec.RasterOutput,
			&rec.VectorOutput,
			&rec.FeatureCount,
			&rec.Status,
			&rec.Error,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}
		rec.CreatedAt = parseTimestamp(createdAt)
		pairs = append(pairs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}
	return pairs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var startedAt string
	var finishedAt sql.NullString
	var thresholdsJSON string

	if err := row.Scan(
		&run.ID,
		&startedAt,
		&finishedAt,
		&run.InputDir,
		&run.OutputDir,
		&thresholdsJSON,
		&run.Rasters,
		&run.Pairs,
		&run.Succeeded,
		&run.Skipped,
		&run.Failed,
	); err != nil {
		return nil, err
	}

	run.StartedAt = parseTimestamp(startedAt)
	if finishedAt.Valid && finishedAt.String != "" {
		finished := parseTimestamp(finishedAt.String)
		run.FinishedAt = &finished
	}
	if err := json.Unmarshal([]byte(thresholdsJSON), &run.Thresholds); err != nil {
		return nil, fmt.Errorf("decode thresholds: %w", err)
	}
	return &run, nil
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
