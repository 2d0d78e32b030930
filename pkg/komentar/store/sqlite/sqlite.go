package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/komentar/pkg/komentar/internalerr"
	"github.com/cognicore/komentar/pkg/komentar/record"
	"github.com/cognicore/komentar/pkg/komentar/store"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init schema: %v", internalerr.ErrStoreUnavailable, err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS records (
	id INTEGER PRIMARY KEY,
	topic TEXT NOT NULL,
	source TEXT NOT NULL,
	sentiment TEXT NOT NULL,
	text TEXT NOT NULL,
	text_no_stop TEXT NOT NULL,
	aspect1 TEXT NOT NULL,
	aspect2 TEXT NOT NULL DEFAULT '',
	aspect_score REAL NOT NULL DEFAULT 0,
	aspect1_keywords TEXT NOT NULL DEFAULT '[]',
	aspect2_keywords TEXT NOT NULL DEFAULT '[]',
	date TEXT NOT NULL,
	date_str TEXT NOT NULL,
	date_parsed INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_records_date ON records(date_str);

CREATE TABLE IF NOT EXISTS stoplist (
	token TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	title TEXT,
	created_at TEXT NOT NULL,
	payload BLOB
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// ReplaceRecords swaps the stored record set in a single transaction.
func (s *sqliteStore) ReplaceRecords(ctx context.Context, recs []record.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (id, topic, source, sentiment, text, text_no_stop, aspect1, aspect2,
	aspect_score, aspect1_keywords, aspect2_keywords, date, date_str, date_parsed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range recs {
		kw1, err := json.Marshal(nonNil(r.Aspect1Keywords))
		if err != nil {
			return err
		}
		kw2, err := json.Marshal(nonNil(r.Aspect2Keywords))
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			r.ID, r.Topic, r.Source, string(r.Sentiment), string(r.Text), string(r.TextNoStop),
			r.Aspect1, r.Aspect2, r.AspectScore, string(kw1), string(kw2),
			r.Date.UTC().Format(time.RFC3339), r.DateStr, boolToInt(r.DateParsed))
		if err != nil {
			return fmt.Errorf("insert record %d: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// Records returns all stored records ordered by ID.
func (s *sqliteStore) Records(ctx context.Context) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, topic, source, sentiment, text, text_no_stop, aspect1, aspect2,
	aspect_score, aspect1_keywords, aspect2_keywords, date, date_str, date_parsed
FROM records
ORDER BY id;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []record.Record{}
	for rows.Next() {
		var (
			r                record.Record
			sentiment        string
			text, textNoStop string
			kw1, kw2, date   string
			parsed           int
		)
		if err := rows.Scan(&r.ID, &r.Topic, &r.Source, &sentiment, &text, &textNoStop,
			&r.Aspect1, &r.Aspect2, &r.AspectScore, &kw1, &kw2, &date, &r.DateStr, &parsed); err != nil {
			return nil, err
		}
		r.Sentiment = record.Sentiment(sentiment)
		r.Text = record.DisplayText(text)
		r.TextNoStop = record.AnalysisText(textNoStop)
		r.DateParsed = parsed != 0
		if err := json.Unmarshal([]byte(kw1), &r.Aspect1Keywords); err != nil {
			return nil, fmt.Errorf("record %d keywords: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(kw2), &r.Aspect2Keywords); err != nil {
			return nil, fmt.Errorf("record %d keywords: %w", r.ID, err)
		}
		if t, perr := time.Parse(time.RFC3339, date); perr == nil {
			r.Date = t.UTC()
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertStoplist replaces the stopword set in a single transaction.
func (s *sqliteStore) UpsertStoplist(ctx context.Context, tokens []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stoplist`); err != nil {
		return err
	}

	if len(tokens) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO stoplist (token) VALUES (?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, tok := range tokens {
			tok = strings.ToLower(strings.TrimSpace(tok))
			if tok == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, tok); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Stoplist returns the stored tokens sorted.
func (s *sqliteStore) Stoplist(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT token FROM stoplist ORDER BY token`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stops := []string{}
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, err
		}
		stops = append(stops, tok)
	}
	return stops, rows.Err()
}

// SaveReport inserts or replaces a report keyed by ID.
func (s *sqliteStore) SaveReport(ctx context.Context, r store.Report) error {
	if r.ID == "" {
		return fmt.Errorf("%w: report id is empty", internalerr.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO reports (id, title, created_at, payload) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET title=excluded.title, created_at=excluded.created_at, payload=excluded.payload;
`, r.ID, r.Title, r.CreatedAt.UTC().Format(timeLayout), r.Payload)
	return err
}

// GetReport returns a report by ID.
func (s *sqliteStore) GetReport(ctx context.Context, id string) (store.Report, error) {
	var (
		r       store.Report
		created string
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, title, created_at, payload FROM reports WHERE id=?`, id).
		Scan(&r.ID, &r.Title, &created, &r.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Report{}, fmt.Errorf("report %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Report{}, err
	}
	r.CreatedAt = parseTime(created)
	return r, nil
}

// ListReports returns reports newest first, without payloads.
func (s *sqliteStore) ListReports(ctx context.Context, limit int) ([]store.Report, error) {
	query := `SELECT id, title, created_at FROM reports ORDER BY created_at DESC, id DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.Report{}
	for rows.Next() {
		var (
			r       store.Report
			created string
		)
		if err := rows.Scan(&r.ID, &r.Title, &created); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(created)
		out = append(out, r)
	}
	return out, rows.Err()
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
