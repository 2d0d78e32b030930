package dataset

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/komentar/pkg/komentar/record"
	"github.com/cognicore/komentar/pkg/komentar/store"
)

// RecordSource yields the complete normalized record set.
type RecordSource interface {
	Load(ctx context.Context) ([]record.Record, error)
}

// cache holds a record set once it has been loaded successfully. Failed
// loads are not cached, so a later call may try again.
type cache struct {
	mu      sync.Mutex
	records []record.Record
	loaded  bool
}

func (c *cache) get(ctx context.Context, fill func(context.Context) ([]record.Record, error)) ([]record.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.records, nil
	}
	recs, err := fill(ctx)
	if err != nil {
		return nil, err
	}
	c.records = recs
	c.loaded = true
	return recs, nil
}

// Loader reads, parses and normalizes a CSV source once and serves the
// cached result afterwards.
type Loader struct {
	Source     Source
	Columns    Columns
	Normalizer record.Normalizer
	Log        logrus.FieldLogger

	cache cache
}

// NewLoader creates a loader for src with default columns.
func NewLoader(src Source, log logrus.FieldLogger) *Loader {
	return &Loader{Source: src, Columns: DefaultColumns(), Log: log}
}

// Load implements RecordSource. Repeated calls return the same slice.
func (l *Loader) Load(ctx context.Context) ([]record.Record, error) {
	return l.cache.get(ctx, l.fill)
}

func (l *Loader) fill(ctx context.Context) ([]record.Record, error) {
	log := l.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	rc, err := l.Source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rows, err := ReadRows(rc, l.Columns, log)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.Source, err)
	}
	recs := l.Normalizer.NormalizeAll(rows)

	unparsed := 0
	for _, r := range recs {
		if !r.DateParsed {
			unparsed++
		}
	}
	entry := log.WithFields(logrus.Fields{"source": l.Source.String(), "records": len(recs)})
	if unparsed > 0 {
		entry.WithField("unparsed_dates", unparsed).Warn("dataset loaded with unparsable dates")
	} else {
		entry.Info("dataset loaded")
	}
	return recs, nil
}

// StoreLoader serves a record snapshot previously written to a store.
type StoreLoader struct {
	Store store.Store

	cache cache
}

// Load implements RecordSource.
func (l *StoreLoader) Load(ctx context.Context) ([]record.Record, error) {
	return l.cache.get(ctx, l.Store.Records)
}
