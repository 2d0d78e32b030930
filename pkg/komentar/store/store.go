package store

import (
	"context"
	"time"

	"github.com/cognicore/komentar/pkg/komentar/record"
)

// Store is the persistence interface for ingested comments, the curated
// stoplist and saved report snapshots.
type Store interface {
	Close() error

	// Records
	ReplaceRecords(ctx context.Context, recs []record.Record) error
	Records(ctx context.Context) ([]record.Record, error)

	// Stoplist
	UpsertStoplist(ctx context.Context, tokens []string) error
	Stoplist(ctx context.Context) ([]string, error)

	// Reports
	SaveReport(ctx context.Context, r Report) error
	GetReport(ctx context.Context, id string) (Report, error)
	ListReports(ctx context.Context, limit int) ([]Report, error)
}

// Report is a stored analytics snapshot. Payload holds the encoded body.
type Report struct {
	ID        string
	Title     string
	CreatedAt time.Time
	Payload   []byte
}
