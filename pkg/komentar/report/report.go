// Package report assembles analytics snapshots and converts them to and
// from their stored form.
package report

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/komentar/pkg/komentar/aggregate"
	"github.com/cognicore/komentar/pkg/komentar/filter"
	"github.com/cognicore/komentar/pkg/komentar/internalerr"
	"github.com/cognicore/komentar/pkg/komentar/nlp"
	"github.com/cognicore/komentar/pkg/komentar/record"
	"github.com/cognicore/komentar/pkg/komentar/store"
)

// DefaultTitle is used when a snapshot is built without a title.
const DefaultTitle = "Comment analytics"

// Report is a point-in-time snapshot of the dashboard for one filter.
type Report struct {
	ID            string                               `json:"id"`
	Title         string                               `json:"title"`
	GeneratedAt   time.Time                            `json:"generated_at"`
	Filter        filter.Spec                          `json:"filter"`
	FilteredCount int                                  `json:"filtered_count"`
	Metrics       aggregate.DashboardMetrics           `json:"metrics"`
	Trend         []aggregate.TrendPoint               `json:"trend"`
	TopLists      aggregate.TopListsResult             `json:"top_lists"`
	Terms         map[record.Sentiment][]nlp.TermCount `json:"terms,omitempty"`
}

// Input is what a snapshot is built from. Records must already be filtered.
type Input struct {
	Title   string
	Filter  filter.Spec
	Records []record.Record
	Terms   map[record.Sentiment][]nlp.TermCount
}

// Builder constructs reports with monotonic ULID identifiers.
type Builder struct {
	// Now stamps GeneratedAt and the ID time component.
	Now func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates a new report builder
func New() *Builder {
	return &Builder{
		Now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Build computes KPIs, the weekly trend and top lists over in.Records.
func (b *Builder) Build(in Input) Report {
	now := b.now().UTC()

	title := in.Title
	if title == "" {
		title = DefaultTitle
	}

	return Report{
		ID:            b.newID(now),
		Title:         title,
		GeneratedAt:   now,
		Filter:        in.Filter,
		FilteredCount: len(in.Records),
		Metrics:       aggregate.ComputeKPIs(in.Records),
		Trend:         aggregate.AggregateTrend(in.Records),
		TopLists:      aggregate.TopLists(in.Records),
		Terms:         in.Terms,
	}
}

func (b *Builder) newID(now time.Time) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), b.entropy).String()
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

// Encode converts r into its stored form.
func Encode(r Report) (store.Report, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return store.Report{}, fmt.Errorf("encode report %s: %w", r.ID, err)
	}
	return store.Report{
		ID:        r.ID,
		Title:     r.Title,
		CreatedAt: r.GeneratedAt,
		Payload:   payload,
	}, nil
}

// Decode restores a report from its stored form.
func Decode(sr store.Report) (Report, error) {
	var r Report
	if err := json.Unmarshal(sr.Payload, &r); err != nil {
		return Report{}, fmt.Errorf("%w: decode report %s: %v", internalerr.ErrInvalidInput, sr.ID, err)
	}
	return r, nil
}
