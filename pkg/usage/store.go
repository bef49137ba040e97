package usage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mercator-hq/ganymede/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS usage_records (
	id          TEXT PRIMARY KEY,
	recorded_at TIMESTAMP NOT NULL,
	model       TEXT NOT NULL,
	api_key     TEXT NOT NULL,
	status      TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	streamed    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_usage_recorded_at ON usage_records(recorded_at);
CREATE INDEX IF NOT EXISTS idx_usage_model ON usage_records(model);
`

// Record is one persisted request outcome.
type Record struct {
	ID         string        `json:"id"`
	RecordedAt time.Time     `json:"recorded_at"`
	Model      string        `json:"model"`
	Key        string        `json:"key"`
	Status     string        `json:"status"`
	Duration   time.Duration `json:"duration_ms"`
	Streamed   bool          `json:"streamed"`
}

// Store persists request outcomes to SQLite for usage auditing.
//
// Writes go through a buffered channel and a single writer goroutine so
// the request path never blocks on disk. When the buffer is full the
// record is dropped and counted, never queued.
type Store struct {
	db      *sql.DB
	records chan Record

	mu      sync.Mutex
	dropped int64
	done    chan struct{}
}

const writeBufferSize = 1024

// NewStore opens (and if needed initializes) the usage database.
func NewStore(cfg config.UsageConfig) (*Store, error) {
	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage database: %w", err)
	}

	// A single writer keeps SQLite happy under concurrency.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create usage schema: %w", err)
	}

	s := &Store{
		db:      db,
		records: make(chan Record, writeBufferSize),
		done:    make(chan struct{}),
	}
	go s.writeLoop()

	slog.Info("usage store initialized", "path", cfg.DBPath)
	return s, nil
}

// ObserveRequest queues one request outcome for persistence. It satisfies
// the manager's observer contract.
func (s *Store) ObserveRequest(model, key, status string, duration time.Duration, streamed bool) {
	record := Record{
		ID:         uuid.NewString(),
		RecordedAt: time.Now().UTC(),
		Model:      model,
		Key:        key,
		Status:     status,
		Duration:   duration,
		Streamed:   streamed,
	}
	select {
	case s.records <- record:
	default:
		s.mu.Lock()
		s.dropped++
		s.mu.Unlock()
	}
}

// writeLoop drains the record channel until Close.
func (s *Store) writeLoop() {
	defer close(s.done)
	for record := range s.records {
		if err := s.insert(record); err != nil {
			slog.Error("usage record write failed", "error", err)
		}
	}
}

func (s *Store) insert(r Record) error {
	_, err := s.db.Exec(
		`INSERT INTO usage_records (id, recorded_at, model, api_key, status, duration_ms, streamed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.RecordedAt, r.Model, r.Key, r.Status, r.Duration.Milliseconds(), r.Streamed,
	)
	return err
}

// Recent returns the most recent records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recorded_at, model, api_key, status, duration_ms, streamed
		 FROM usage_records ORDER BY recorded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r          Record
			durationMS int64
		)
		if err := rows.Scan(&r.ID, &r.RecordedAt, &r.Model, &r.Key, &r.Status, &durationMS, &r.Streamed); err != nil {
			return nil, fmt.Errorf("failed to scan usage record: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteBefore removes records older than the cutoff and reports how many
// were deleted.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM usage_records WHERE recorded_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired usage records: %w", err)
	}
	return result.RowsAffected()
}

// Dropped reports how many records were discarded due to write pressure.
func (s *Store) Dropped() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close stops the writer, flushes queued records, and closes the database.
func (s *Store) Close() error {
	close(s.records)
	<-s.done
	return s.db.Close()
}
