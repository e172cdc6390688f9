package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Store persists run records backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at dbPath.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

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
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a finished run and returns it with ID populated.
func (s *Store) Record(ctx context.Context, run Run) (*Run, error) {
	if strings.TrimSpace(run.RunID) == "" {
		return nil, errors.New("run id is required")
	}
	if strings.TrimSpace(run.VideoPath) == "" {
		return nil, errors.New("video path is required")
	}
	if run.Status == "" {
		return nil, errors.New("status is required")
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}
	run.StartedAt = run.StartedAt.UTC()
	run.FinishedAt = run.FinishedAt.UTC()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            run_id, video_path, audio_path, output_path, status, stage, error_message,
            task_id, log_id, mock, cue_count, input_tokens, output_tokens, total_tokens,
            started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.VideoPath,
		nullableString(run.AudioPath),
		nullableString(run.OutputPath),
		run.Status,
		nullableString(run.Stage),
		nullableString(run.ErrorMessage),
		nullableString(run.TaskID),
		nullableString(run.LogID),
		boolToInt(run.Mock),
		run.CueCount,
		run.InputTokens,
		run.OutputTokens,
		run.TotalTokens,
		run.StartedAt.Format(time.RFC3339Nano),
		run.FinishedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	run.ID = id
	return &run, nil
}

// GetByRunID fetches a run by its run identifier. A missing run returns nil, nil.
func (s *Store) GetByRunID(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// List returns the newest runs first, optionally filtered by status.
func (s *Store) List(ctx context.Context, limit int, statuses ...Status) ([]*Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query := `SELECT ` + runColumns + ` FROM runs`
	args := make([]any, 0, len(statuses)+1)
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY finished_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Summary counts runs by status and sums reported token usage.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	summary := Summary{ByStatus: make(map[Status]int)}
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1), COALESCE(SUM(total_tokens), 0) FROM runs GROUP BY status`)
	if err != nil {
		return summary, fmt.Errorf("history summary: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status Status
			count  int
			tokens int64
		)
		if err := rows.Scan(&status, &count, &tokens); err != nil {
			return summary, err
		}
		summary.ByStatus[status] = count
		summary.Total += count
		summary.TotalTokens += tokens
	}
	if err := rows.Err(); err != nil {
		return summary, err
	}

	latest, err := s.List(ctx, 1)
	if err != nil {
		return summary, err
	}
	if len(latest) > 0 {
		summary.LastRun = latest[0]
	}
	return summary, nil
}

// Prune deletes runs that finished before cutoff.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE finished_at < ?`, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every run.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}

const runColumns = "id, run_id, video_path, audio_path, output_path, status, stage, error_message, task_id, log_id, mock, cue_count, input_tokens, output_tokens, total_tokens, started_at, finished_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		statusStr    string
		audioPath    sql.NullString
		outputPath   sql.NullString
		stage        sql.NullString
		errorMessage sql.NullString
		taskID       sql.NullString
		logID        sql.NullString
		mock         int64
		startedRaw   string
		finishedRaw  string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.RunID,
		&run.VideoPath,
		&audioPath,
		&outputPath,
		&statusStr,
		&stage,
		&errorMessage,
		&taskID,
		&logID,
		&mock,
		&run.CueCount,
		&run.InputTokens,
		&run.OutputTokens,
		&run.TotalTokens,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.Status = Status(statusStr)
	run.AudioPath = audioPath.String
	run.OutputPath = outputPath.String
	run.Stage = stage.String
	run.ErrorMessage = errorMessage.String
	run.TaskID = taskID.String
	run.LogID = logID.String
	run.Mock = mock != 0
	if started, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
		run.StartedAt = started
	}
	if finished, err := time.Parse(time.RFC3339Nano, finishedRaw); err == nil {
		run.FinishedAt = finished
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}
