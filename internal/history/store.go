// Package history persists conversion records in SQLite so past runs can be
// listed and audited.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrison/jsontable/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SchemaVersion is the version recorded after applying schema.sql
const SchemaVersion = 1

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Query filters RecentConversions
type Query struct {
	Limit      int    // Maximum rows to return (<= 0 means 20)
	FailedOnly bool   // Only FAILED records
	Source     string // Exact source match, empty for all
}

// Stats are aggregate counts over all stored conversions
type Stats struct {
	Total     int
	OK        int
	Truncated int
	Failed    int
}

// Store manages the SQLite conversion history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the database at dbPath and applies
// the schema. ":memory:" gives a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	// busy_timeout first so the remaining pragmas wait on locks
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

func (s *Store) initSchema() error {
	if err := execWithRetry(s.db, schemaSQL, 5, 10*time.Millisecond); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (?, ?)`,
		SchemaVersion, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

// Path returns the database path the store was opened with
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Version returns the highest applied schema version
func (s *Store) Version(ctx context.Context) (int, error) {
	var version sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("query schema version: %w", err)
	}
	return int(version.Int64), nil
}

// RecordConversion stores one conversion record. ID must be set.
func (s *Store) RecordConversion(ctx context.Context, rec models.ConversionRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("record conversion: empty id")
	}
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query := `INSERT INTO conversions
		(id, source, status, row_count, column_count, estimated, row_limit, error_kind, message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Source,
		rec.Status,
		rec.Rows,
		rec.Columns,
		rec.Estimated,
		rec.Limit,
		rec.ErrorKind,
		rec.Message,
		rec.Duration.Milliseconds(),
		ts.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}
	return nil
}

// RecentConversions returns records newest first
func (s *Store) RecentConversions(ctx context.Context, q Query) ([]models.ConversionRecord, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	var (
		where []string
		args  []any
	)
	if q.FailedOnly {
		where = append(where, "status = ?")
		args = append(args, models.StatusFailed)
	}
	if q.Source != "" {
		where = append(where, "source = ?")
		args = append(args, q.Source)
	}

	query := `SELECT id, source, status, row_count, column_count, estimated, row_limit, error_kind, message, duration_ms, created_at
		FROM conversions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer rows.Close()

	var records []models.ConversionRecord
	for rows.Next() {
		var (
			rec        models.ConversionRecord
			durationMS int64
			createdAt  string
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Source,
			&rec.Status,
			&rec.Rows,
			&rec.Columns,
			&rec.Estimated,
			&rec.Limit,
			&rec.ErrorKind,
			&rec.Message,
			&durationMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if rec.Timestamp, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", createdAt, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversions: %w", err)
	}
	return records, nil
}

// Stats returns aggregate counts over all records
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM conversions GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		stats.Total += count
		switch status {
		case models.StatusOK:
			stats.OK = count
		case models.StatusTruncated:
			stats.Truncated = count
		case models.StatusFailed:
			stats.Failed = count
		}
	}
	return stats, rows.Err()
}

// Prune deletes everything but the newest keep records and returns how
// many rows were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM conversions WHERE rowid NOT IN
		(SELECT rowid FROM conversions ORDER BY created_at DESC, rowid DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune conversions: %w", err)
	}
	return result.RowsAffected()
}
