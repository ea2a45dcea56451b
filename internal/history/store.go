// Package history keeps past benchmark runs in a local SQLite database so
// results can be compared across invocations and machines.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ciricc/whisper-bench/pkg/benchreport"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// RunMeta describes one saved benchmark run.
type RunMeta struct {
	ID            string
	CreatedAt     time.Time
	AudioPath     string
	AudioSHA256   string
	AudioDuration float64
	Accelerator   string
	Hostname      string
	CPUModel      string
	OS            string
	Arch          string
}

// Store wraps the SQLite-backed run history.
type Store struct {
	db    *sql.DB
	log   *slog.Logger
	clock func() time.Time
}

// Open initializes the history database at path, creating the parent
// directory and the schema as needed.
func Open(ctx context.Context, path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db, log: log, clock: time.Now}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    audio_path TEXT NOT NULL,
    audio_sha256 TEXT,
    audio_duration REAL,
    accelerator TEXT,
    hostname TEXT,
    cpu_model TEXT,
    os TEXT,
    arch TEXT
);
CREATE TABLE IF NOT EXISTS records (
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    model_size TEXT NOT NULL,
    device TEXT NOT NULL,
    compute_type TEXT NOT NULL,
    audio_duration REAL NOT NULL,
    transcription_time REAL NOT NULL,
    real_time_factor REAL NOT NULL,
    memory_usage_mb REAL,
    accuracy_score REAL,
    segments_count INTEGER NOT NULL,
    PRIMARY KEY (run_id, position),
    FOREIGN KEY(run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// Close releases underlying resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// AppendRun stores a run and its records in one transaction and returns the
// run id, generating one when meta.ID is empty.
func (s *Store) AppendRun(ctx context.Context, meta RunMeta, records []benchreport.Record) (string, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.clock().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs(run_id, created_at, audio_path, audio_sha256, audio_duration, accelerator, hostname, cpu_model, os, arch)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.CreatedAt, meta.AudioPath, meta.AudioSHA256, meta.AudioDuration,
		meta.Accelerator, meta.Hostname, meta.CPUModel, meta.OS, meta.Arch)
	if err != nil {
		return "", err
	}

	for i, r := range records {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO records(run_id, position, model_size, device, compute_type, audio_duration, transcription_time, real_time_factor, memory_usage_mb, accuracy_score, segments_count)
			 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			meta.ID, i, r.ModelSize, r.Device, r.ComputeType, r.AudioDuration,
			r.TranscriptionTime, r.RealTimeFactor, r.MemoryUsageMB, r.AccuracyScore, r.SegmentsCount)
		if err != nil {
			return "", err
		}
	}

	err = tx.Commit()
	if err != nil {
		return "", err
	}
	return meta.ID, nil
}

// ListRuns retrieves up to limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunMeta, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, created_at, audio_path, audio_sha256, audio_duration, accelerator, hostname, cpu_model, os, arch
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunMeta
	for rows.Next() {
		var m RunMeta
		var created string
		if err := rows.Scan(&m.ID, &created, &m.AudioPath, &m.AudioSHA256, &m.AudioDuration,
			&m.Accelerator, &m.Hostname, &m.CPUModel, &m.OS, &m.Arch); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			m.CreatedAt = ts
		}
		runs = append(runs, m)
	}
	return runs, rows.Err()
}

// RunRecords retrieves the records of one run in their original order.
func (s *Store) RunRecords(ctx context.Context, runID string) ([]benchreport.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT model_size, device, compute_type, audio_duration, transcription_time, real_time_factor, memory_usage_mb, accuracy_score, segments_count
		 FROM records WHERE run_id = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []benchreport.Record
	for rows.Next() {
		var r benchreport.Record
		if err := rows.Scan(&r.ModelSize, &r.Device, &r.ComputeType, &r.AudioDuration,
			&r.TranscriptionTime, &r.RealTimeFactor, &r.MemoryUsageMB, &r.AccuracyScore, &r.SegmentsCount); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Prune drops runs older than retentionDays and keeps at most maxRuns of
// the newest remaining ones. Zero disables either limit.
func (s *Store) Prune(ctx context.Context, retentionDays, maxRuns int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if retentionDays > 0 {
		cutoff := s.clock().Add(-time.Duration(retentionDays) * 24 * time.Hour)
		if _, err = tx.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff.UTC()); err != nil {
			return err
		}
	}
	if maxRuns > 0 {
		_, err = tx.ExecContext(ctx, `DELETE FROM runs WHERE run_id IN (
			SELECT run_id FROM runs ORDER BY created_at DESC LIMIT -1 OFFSET ?
		)`, maxRuns)
		if err != nil {
			return err
		}
	}

	err = tx.Commit()
	return err
}
