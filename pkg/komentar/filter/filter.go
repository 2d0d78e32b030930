// Package filter evaluates compound filter criteria against records.
package filter

import (
	"strings"
	"time"

	"github.com/cognicore/komentar/pkg/komentar/record"
)

// All is the sentinel that disables an exact-match clause. An empty value
// is treated the same way.
const All = "All"

// DateRange bounds DateStr inclusively. Either side may be empty.
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// NewDateRange renders optional time bounds as canonical date strings.
func NewDateRange(from, to time.Time) DateRange {
	var r DateRange
	if !from.IsZero() {
		r.From = from.Format(record.DateLayout)
	}
	if !to.IsZero() {
		r.To = to.Format(record.DateLayout)
	}
	return r
}

// Spec is a stateless filter value constructed per query.
type Spec struct {
	Source         string    `json:"source"`
	Topic          string    `json:"topic"`
	Sentiment      string    `json:"sentiment"`
	Aspect         string    `json:"aspect"`
	DateRange      DateRange `json:"date_range"`
	HideGeneral    bool      `json:"hide_general"`
	MinAspectScore float64   `json:"min_aspect_score"`
	SearchQuery    string    `json:"search_query"`
}

// Default returns a spec that lets every record through.
func Default() Spec {
	return Spec{Source: All, Topic: All, Sentiment: All, Aspect: All}
}

type clause func(record.Record) bool

// clauses returns the active predicates. They are conjunctive, so their
// order does not change the result.
func (s Spec) clauses() []clause {
	var cs []clause
	if active(s.Source) {
		cs = append(cs, func(r record.Record) bool { return r.Source == s.Source })
	}
	if s.DateRange.From != "" {
		cs = append(cs, func(r record.Record) bool { return r.DateStr >= s.DateRange.From })
	}
	if s.DateRange.To != "" {
		cs = append(cs, func(r record.Record) bool { return r.DateStr <= s.DateRange.To })
	}
	if active(s.Topic) {
		cs = append(cs, func(r record.Record) bool { return r.Topic == s.Topic })
	}
	if active(s.Sentiment) {
		cs = append(cs, func(r record.Record) bool { return string(r.Sentiment) == s.Sentiment })
	}
	if active(s.Aspect) {
		cs = append(cs, func(r record.Record) bool { return r.HasAspect(s.Aspect) })
	}
	if s.HideGeneral {
		cs = append(cs, func(r record.Record) bool { return !r.IsGeneral() })
	}
	cs = append(cs, func(r record.Record) bool { return r.AspectScore >= s.MinAspectScore })
	return cs
}

// Match reports whether r passes every active clause. SearchQuery is not
// part of the predicate; use Search for it.
func (s Spec) Match(r record.Record) bool {
	return matchAll(s.clauses(), r)
}

// Apply returns the records passing spec, preserving input order.
func Apply(records []record.Record, spec Spec) []record.Record {
	return applyClauses(records, spec.clauses())
}

// Search keeps records whose display text contains query,
// case-insensitively. An empty query returns records unchanged.
func Search(records []record.Record, query string) []record.Record {
	if query == "" {
		return records
	}
	lower := strings.ToLower(query)
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(string(r.Text)), lower) {
			out = append(out, r)
		}
	}
	return out
}

func applyClauses(records []record.Record, cs []clause) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if matchAll(cs, r) {
			out = append(out, r)
		}
	}
	return out
}

func matchAll(cs []clause, r record.Record) bool {
	for _, c := range cs {
		if !c(r) {
			return false
		}
	}
	return true
}

func active(v string) bool {
	return v != "" && v != All
}
