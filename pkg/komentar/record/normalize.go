package record

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateLayout is the canonical, lexicographically sortable date format.
const DateLayout = "2006-01-02"

// alternate layouts accepted for the date column; the result is always
// re-rendered with DateLayout.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// DefaultSources maps lowercased platform names to their display form.
var DefaultSources = map[string]string{
	"tiktok":  "TikTok",
	"youtube": "YouTube",
}

// Normalizer turns raw rows into Records. The zero value is usable.
type Normalizer struct {
	// Sources overrides DefaultSources when non-nil.
	Sources map[string]string
	// Now supplies the fallback date for unparsable rows.
	Now func() time.Time
}

// Normalize builds a Record from raw. It never fails: every field has a
// defined default. id is the zero-based position of the row in the load.
func (n Normalizer) Normalize(raw RawRow, id int) Record {
	rec := Record{
		ID:              id,
		Topic:           orDefault(raw.Topic, UnknownLabel),
		Source:          n.CanonicalSource(raw.Source),
		Sentiment:       ParseSentiment(raw.Sentiment),
		Text:            DisplayText(strings.TrimSpace(raw.Text)),
		TextNoStop:      AnalysisText(strings.TrimSpace(raw.TextNoStop)),
		Aspect1:         orDefault(raw.Aspect1, GeneralAspect),
		Aspect2:         strings.TrimSpace(raw.Aspect2),
		AspectScore:     ParseScore(raw.AspectScore),
		Aspect1Keywords: ParseKeywords(raw.Aspect1Keywords),
		Aspect2Keywords: ParseKeywords(raw.Aspect2Keywords),
	}

	rec.DateStr = strings.TrimSpace(raw.Date)
	if d, ok := ParseDate(rec.DateStr); ok {
		rec.Date = d
		rec.DateStr = d.Format(DateLayout)
		rec.DateParsed = true
	} else {
		rec.Date = n.now()
	}
	return rec
}

// NormalizeAll normalizes rows in order, assigning positional IDs.
func (n Normalizer) NormalizeAll(rows []RawRow) []Record {
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = n.Normalize(row, i)
	}
	return out
}

// CanonicalSource maps known platforms case-insensitively and title-cases
// anything else. Empty input yields UnknownLabel.
func (n Normalizer) CanonicalSource(raw string) string {
	src := strings.TrimSpace(raw)
	if src == "" {
		return UnknownLabel
	}
	known := n.Sources
	if known == nil {
		known = DefaultSources
	}
	if canon, ok := known[strings.ToLower(src)]; ok {
		return canon
	}
	return cases.Title(language.Und).String(src)
}

func (n Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// ParseSentiment matches the three labels case-insensitively; anything else
// is Neutral.
func ParseSentiment(raw string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive":
		return Positive
	case "negative":
		return Negative
	default:
		return Neutral
	}
}

// ParseScore parses a non-negative float. Non-numeric, non-finite or
// negative input yields 0.
func ParseScore(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseKeywords reads a list such as "['harga', 'mahal']". Brackets and
// quotes are stripped, the rest split on commas. Blank pieces are dropped,
// so an empty or unparsable field yields an empty slice.
func ParseKeywords(raw string) []string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '\'', '"':
			return -1
		}
		return r
	}, raw)

	out := []string{}
	for _, piece := range strings.Split(clean, ",") {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// ParseDate parses s with the accepted layouts and truncates to a UTC
// calendar date.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func orDefault(raw, def string) string {
	if s := strings.TrimSpace(raw); s != "" {
		return s
	}
	return def
}
