package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cognicore/komentar/pkg/komentar/internalerr"
	"github.com/cognicore/komentar/pkg/komentar/record"
	"github.com/cognicore/komentar/pkg/komentar/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	records  []record.Record
	stoplist map[string]struct{}
	reports  map[string]store.Report
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		stoplist: make(map[string]struct{}),
		reports:  make(map[string]store.Report),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// ReplaceRecords swaps the stored record set for recs.
func (s *Store) ReplaceRecords(ctx context.Context, recs []record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]record.Record, len(recs))
	for i, r := range recs {
		s.records[i] = copyRecord(r)
	}
	return nil
}

// Records returns the stored records in ingestion order.
func (s *Store) Records(ctx context.Context) ([]record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]record.Record, len(s.records))
	for i, r := range s.records {
		out[i] = copyRecord(r)
	}
	return out, nil
}

// UpsertStoplist replaces the stoplist with tokens.
func (s *Store) UpsertStoplist(ctx context.Context, tokens []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stoplist = make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		s.stoplist[tok] = struct{}{}
	}
	return nil
}

// Stoplist returns the stored tokens sorted.
func (s *Store) Stoplist(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.stoplist))
	for tok := range s.stoplist {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out, nil
}

// SaveReport inserts or replaces a report keyed by ID.
func (s *Store) SaveReport(ctx context.Context, r store.Report) error {
	if r.ID == "" {
		return fmt.Errorf("%w: report id is empty", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Payload = append([]byte(nil), r.Payload...)
	s.reports[r.ID] = r
	return nil
}

// GetReport returns a report by ID.
func (s *Store) GetReport(ctx context.Context, id string) (store.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return store.Report{}, fmt.Errorf("report %s: %w", id, internalerr.ErrNotFound)
	}
	r.Payload = append([]byte(nil), r.Payload...)
	return r, nil
}

// ListReports returns reports newest first, without payloads.
func (s *Store) ListReports(ctx context.Context, limit int) ([]store.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Report, 0, len(s.reports))
	for _, r := range s.reports {
		r.Payload = nil
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyRecord(r record.Record) record.Record {
	r.Aspect1Keywords = append([]string{}, r.Aspect1Keywords...)
	r.Aspect2Keywords = append([]string{}, r.Aspect2Keywords...)
	return r
}

var _ store.Store = (*Store)(nil)
