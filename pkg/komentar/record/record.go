// Package record defines the canonical in-memory comment record and the
// normalizer that builds it from a raw tabular row.
package record

import "time"

// Sentinel labels used across the pipeline.
const (
	UnknownLabel  = "Unknown"
	GeneralAspect = "Umum"
)

// Sentiment is the pre-computed polarity label of a comment.
type Sentiment string

const (
	Positive Sentiment = "Positive"
	Neutral  Sentiment = "Neutral"
	Negative Sentiment = "Negative"
)

// Sentiments lists the three buckets in their canonical iteration order.
var Sentiments = []Sentiment{Positive, Neutral, Negative}

// DisplayText is the lightly cleaned text shown to readers and searched for
// term samples.
type DisplayText string

// AnalysisText is the stopword-free variant used only by frequency views.
// It is a distinct type so it cannot be passed where DisplayText is expected.
type AnalysisText string

// Record is one normalized comment. Records are built once at load time and
// must not be mutated afterwards.
type Record struct {
	ID              int          `json:"id"`
	Topic           string       `json:"topic"`
	Source          string       `json:"source"`
	Sentiment       Sentiment    `json:"sentiment"`
	Text            DisplayText  `json:"text"`
	TextNoStop      AnalysisText `json:"text_no_stop"`
	Aspect1         string       `json:"aspect1"`
	Aspect2         string       `json:"aspect2,omitempty"` // empty when absent
	AspectScore     float64      `json:"aspect_score"`
	Aspect1Keywords []string     `json:"aspect1_keywords"`
	Aspect2Keywords []string     `json:"aspect2_keywords"`
	Date            time.Time    `json:"date"`
	DateStr         string       `json:"date_str"`
	DateParsed      bool         `json:"date_parsed"`
}

// HasAspect2 reports whether the secondary aspect is present.
func (r Record) HasAspect2() bool {
	return r.Aspect2 != ""
}

// HasAspect reports whether either aspect equals label.
func (r Record) HasAspect(label string) bool {
	return r.Aspect1 == label || (r.Aspect2 != "" && r.Aspect2 == label)
}

// IsGeneral reports whether the primary aspect is the uncategorized sentinel.
func (r Record) IsGeneral() bool {
	return r.Aspect1 == GeneralAspect
}

// RawRow is one row of the source table before normalization. An empty
// field is treated the same as a missing column.
type RawRow struct {
	Topic           string
	Source          string
	Sentiment       string
	Text            string
	TextNoStop      string
	Aspect1         string
	Aspect2         string
	AspectScore     string
	Aspect1Keywords string
	Aspect2Keywords string
	Date            string
}
