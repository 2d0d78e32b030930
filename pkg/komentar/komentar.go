// Package komentar is the analytics engine for labeled social-media
// comments. An Engine owns the loaded record set and the stopword list and
// serves every dashboard view from them.
package komentar

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/komentar/pkg/komentar/aggregate"
	"github.com/cognicore/komentar/pkg/komentar/dataset"
	"github.com/cognicore/komentar/pkg/komentar/filter"
	"github.com/cognicore/komentar/pkg/komentar/internalerr"
	"github.com/cognicore/komentar/pkg/komentar/record"
	"github.com/cognicore/komentar/pkg/komentar/report"
	"github.com/cognicore/komentar/pkg/komentar/samples"
	"github.com/cognicore/komentar/pkg/komentar/stoplist"
	"github.com/cognicore/komentar/pkg/komentar/store"
)

// PageSize is the number of records per Explore page.
const PageSize = 50

// Engine is the long-lived context object behind all views. Init loads the
// record set exactly once; afterwards the records are only read, so view
// methods are safe for concurrent use.
type Engine struct {
	source      dataset.RecordSource
	stops       *stoplist.Set
	store       store.Store
	reports     *report.Builder
	log         logrus.FieldLogger
	wordCloud   WordCloudOptions
	sampleLimit int

	mu      sync.Mutex
	records []record.Record
	loaded  bool
}

// Options configures an Engine
type Options struct {
	Records   dataset.RecordSource
	Stopwords *stoplist.Set
	// Store is optional; without it Snapshot and the report lookups fail
	// with internalerr.ErrStoreUnavailable.
	Store       store.Store
	Logger      logrus.FieldLogger
	WordCloud   WordCloudOptions
	SampleLimit int
}

// New creates an Engine with the given dependencies
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	stops := opts.Stopwords
	if stops == nil {
		stops = stoplist.Default()
	}
	wc := opts.WordCloud
	if wc == (WordCloudOptions{}) {
		wc = DefaultWordCloud()
	}
	limit := opts.SampleLimit
	if limit <= 0 {
		limit = samples.DefaultLimit
	}
	return &Engine{
		source:      opts.Records,
		stops:       stops,
		store:       opts.Store,
		reports:     report.New(),
		log:         log,
		wordCloud:   wc,
		sampleLimit: limit,
	}
}

// Close releases the store, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Init loads the record set. It is safe to call repeatedly: after the first
// success it returns immediately. A failed load is not remembered.
func (e *Engine) Init(ctx context.Context) error {
	_, err := e.Records(ctx)
	return err
}

// Records returns the full normalized record set, loading it on first use.
// The returned slice is shared and must not be modified.
func (e *Engine) Records(ctx context.Context) ([]record.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		return e.records, nil
	}
	if e.source == nil {
		return nil, fmt.Errorf("%w: no record source configured", internalerr.ErrSourceUnavailable)
	}
	recs, err := e.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	e.records = recs
	e.loaded = true
	e.log.WithField("records", len(recs)).Debug("engine initialized")
	return recs, nil
}

// Stopwords returns the active stopword set.
func (e *Engine) Stopwords() *stoplist.Set {
	return e.stops
}

// filtered applies the spec clauses and then its search query.
func (e *Engine) filtered(ctx context.Context, spec filter.Spec) ([]record.Record, error) {
	recs, err := e.Records(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Search(filter.Apply(recs, spec), spec.SearchQuery), nil
}

// FilterOptions lists the selectable values for the filter controls.
type FilterOptions struct {
	Topics  []string `json:"topics"`
	Aspects []string `json:"aspects"`
	Sources []string `json:"sources"`
}

// FilterOptions collects distinct topics, aspects and sources over the
// whole dataset, each sorted.
func (e *Engine) FilterOptions(ctx context.Context) (FilterOptions, error) {
	recs, err := e.Records(ctx)
	if err != nil {
		return FilterOptions{}, err
	}
	topics := make(map[string]struct{})
	aspects := make(map[string]struct{})
	sources := make(map[string]struct{})
	for _, r := range recs {
		topics[r.Topic] = struct{}{}
		sources[r.Source] = struct{}{}
		if r.Aspect1 != "" {
			aspects[r.Aspect1] = struct{}{}
		}
		if r.HasAspect2() {
			aspects[r.Aspect2] = struct{}{}
		}
	}
	return FilterOptions{
		Topics:  sortedKeys(topics),
		Aspects: sortedKeys(aspects),
		Sources: sortedKeys(sources),
	}, nil
}

// Dashboard is the overview for one filter.
type Dashboard struct {
	Filter   filter.Spec                `json:"filter"`
	Filtered int                        `json:"filtered"`
	Metrics  aggregate.DashboardMetrics `json:"metrics"`
	Trend    []aggregate.TrendPoint     `json:"trend"`
	TopLists aggregate.TopListsResult   `json:"top_lists"`
}

// Dashboard computes KPIs, the weekly trend and top lists for spec.
func (e *Engine) Dashboard(ctx context.Context, spec filter.Spec) (Dashboard, error) {
	recs, err := e.filtered(ctx, spec)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Filter:   spec,
		Filtered: len(recs),
		Metrics:  aggregate.ComputeKPIs(recs),
		Trend:    aggregate.AggregateTrend(recs),
		TopLists: aggregate.TopLists(recs),
	}, nil
}

// Sort orders for Explore.
const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortHighestScore = "highest_score"
)

// ExplorePage is one page of filtered records.
type ExplorePage struct {
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Records    []record.Record `json:"records"`
}

// Explore filters, sorts and paginates records. Unknown sort orders fall
// back to newest; page numbers below 1 are clamped to 1.
func (e *Engine) Explore(ctx context.Context, spec filter.Spec, sortBy string, page int) (ExplorePage, error) {
	recs, err := e.filtered(ctx, spec)
	if err != nil {
		return ExplorePage{}, err
	}

	sorted := make([]record.Record, len(recs))
	copy(sorted, recs)
	switch sortBy {
	case SortOldest:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DateStr < sorted[j].DateStr })
	case SortHighestScore:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].AspectScore > sorted[j].AspectScore })
	default:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DateStr > sorted[j].DateStr })
	}

	if page < 1 {
		page = 1
	}
	totalPages := (len(sorted) + PageSize - 1) / PageSize
	start := (page - 1) * PageSize
	if start > len(sorted) {
		start = len(sorted)
	}
	end := start + PageSize
	if end > len(sorted) {
		end = len(sorted)
	}
	return ExplorePage{
		Total:      len(sorted),
		Page:       page,
		TotalPages: totalPages,
		Records:    sorted[start:end],
	}, nil
}

// Samples ranks the records in spec that contain term.
func (e *Engine) Samples(ctx context.Context, spec filter.Spec, term string, opts samples.Options) (samples.Result, error) {
	recs, err := e.filtered(ctx, spec)
	if err != nil {
		return samples.Result{}, err
	}
	if opts.Limit <= 0 {
		opts.Limit = e.sampleLimit
	}
	return samples.Rank(term, recs, opts), nil
}

// Snapshot builds a report for spec, including the default word cloud
// tables, and persists it.
func (e *Engine) Snapshot(ctx context.Context, title string, spec filter.Spec) (report.Report, error) {
	if e.store == nil {
		return report.Report{}, fmt.Errorf("%w: no store configured", internalerr.ErrStoreUnavailable)
	}
	rep, err := e.BuildReport(ctx, title, spec)
	if err != nil {
		return report.Report{}, err
	}
	sr, err := report.Encode(rep)
	if err != nil {
		return report.Report{}, err
	}
	if err := e.store.SaveReport(ctx, sr); err != nil {
		return report.Report{}, fmt.Errorf("save report: %w", err)
	}
	e.log.WithFields(logrus.Fields{"id": rep.ID, "filtered": rep.FilteredCount}).Info("snapshot saved")
	return rep, nil
}

// BuildReport assembles a report for spec without persisting it.
func (e *Engine) BuildReport(ctx context.Context, title string, spec filter.Spec) (report.Report, error) {
	recs, err := e.filtered(ctx, spec)
	if err != nil {
		return report.Report{}, err
	}
	terms, err := e.wordFrequencies(ctx, recs, WordCloudRequest{})
	if err != nil {
		return report.Report{}, err
	}
	return e.reports.Build(report.Input{
		Title:   title,
		Filter:  spec,
		Records: recs,
		Terms:   terms,
	}), nil
}

// Report loads a stored snapshot.
func (e *Engine) Report(ctx context.Context, id string) (report.Report, error) {
	if e.store == nil {
		return report.Report{}, fmt.Errorf("%w: no store configured", internalerr.ErrStoreUnavailable)
	}
	sr, err := e.store.GetReport(ctx, id)
	if err != nil {
		return report.Report{}, err
	}
	return report.Decode(sr)
}

// ReportSummary is a stored snapshot without its body.
type ReportSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Reports lists stored snapshots, newest first.
func (e *Engine) Reports(ctx context.Context, limit int) ([]ReportSummary, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: no store configured", internalerr.ErrStoreUnavailable)
	}
	list, err := e.store.ListReports(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ReportSummary, len(list))
	for i, r := range list {
		out[i] = ReportSummary{ID: r.ID, Title: r.Title, CreatedAt: r.CreatedAt}
	}
	return out, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
