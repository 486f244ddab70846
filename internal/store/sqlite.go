package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobsweep/internal/model"
)

// SQLiteSink persists job records in a SQLite database, one row per URL.
// A record seen again replaces the stored one.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) a SQLite database at dbPath and ensures
// the job_records table exists.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS job_records (
		url         TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		company     TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		date_posted TEXT NOT NULL DEFAULT '',
		run_id      TEXT NOT NULL DEFAULT '',
		payload     TEXT NOT NULL,
		scraped_at  DATETIME NOT NULL,
		first_seen  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating job_records table: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

const upsertRecord = `INSERT INTO job_records
	(url, title, company, location, date_posted, run_id, payload, scraped_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		title = excluded.title,
		company = excluded.company,
		location = excluded.location,
		date_posted = excluded.date_posted,
		run_id = excluded.run_id,
		payload = excluded.payload,
		scraped_at = excluded.scraped_at`

// Append writes the batch in a single transaction.
func (s *SQLiteSink) Append(ctx context.Context, records []model.JobRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows, err := toRows(ctx, records)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertRecord)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.URL, r.Title, r.Company, r.Location, r.DatePosted, r.RunID, r.Payload, r.ScrapedAt); err != nil {
			return fmt.Errorf("storing record %s: %w", r.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *SQLiteSink) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM job_records").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// Get returns the stored record for url as its decoded key/value tree.
func (s *SQLiteSink) Get(ctx context.Context, url string) (map[string]any, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM job_records WHERE url = ?", url).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading record %s: %w", url, err)
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, false, fmt.Errorf("decoding record %s: %w", url, err)
	}
	return rec, true, nil
}

// Close closes the underlying database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
