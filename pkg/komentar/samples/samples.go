// Package samples finds and ranks the comments that contain a given term.
package samples

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cognicore/komentar/pkg/komentar/filter"
	"github.com/cognicore/komentar/pkg/komentar/record"
)

// DefaultLimit is the number of samples returned when Options.Limit is zero.
const DefaultLimit = 50

// Options narrows and sizes a sample query. Source and Topic accept
// filter.All or an empty string to disable the clause.
type Options struct {
	Source string `json:"source"`
	Topic  string `json:"topic"`
	Limit  int    `json:"limit"`
}

// Sample is one ranked record with its term occurrence count. Segments
// split the record's display text around the term for highlighting.
type Sample struct {
	Record      record.Record `json:"record"`
	Occurrences int           `json:"occurrences"`
	Segments    []Segment     `json:"segments"`
}

// Result is the outcome of Rank.
type Result struct {
	Term string `json:"term"`
	// Matched counts records containing the term before source/topic
	// narrowing.
	Matched int `json:"matched"`
	// Filtered counts records left after narrowing, before truncation.
	Filtered int `json:"filtered"`
	// Topics lists the distinct topics among matched records, sorted.
	Topics  []string `json:"topics"`
	Samples []Sample `json:"samples"`
}

// Rank selects records whose display text contains term
// case-insensitively, narrows them by opts, orders them by descending
// occurrence count then descending DateStr, and truncates to opts.Limit.
// An empty term yields an empty result.
func Rank(term string, records []record.Record, opts Options) Result {
	res := Result{Term: term, Topics: []string{}, Samples: []Sample{}}
	if term == "" {
		return res
	}

	term = strings.ToValidUTF8(term, "\uFFFD")
	lowerTerm := strings.ToLower(term)
	pattern := regexp.MustCompile(regexp.QuoteMeta(lowerTerm))

	topics := make(map[string]struct{})
	var narrowed []Sample
	for _, r := range records {
		text := strings.ToLower(string(r.Text))
		if text == "" || !strings.Contains(text, lowerTerm) {
			continue
		}
		res.Matched++
		topics[r.Topic] = struct{}{}

		if !matches(opts.Source, r.Source) || !matches(opts.Topic, r.Topic) {
			continue
		}
		narrowed = append(narrowed, Sample{
			Record:      r,
			Occurrences: len(pattern.FindAllStringIndex(text, -1)),
		})
	}
	res.Filtered = len(narrowed)

	sort.SliceStable(narrowed, func(i, j int) bool {
		a, b := narrowed[i], narrowed[j]
		if a.Occurrences != b.Occurrences {
			return a.Occurrences > b.Occurrences
		}
		return a.Record.DateStr > b.Record.DateStr
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(narrowed) > limit {
		narrowed = narrowed[:limit]
	}
	for i := range narrowed {
		narrowed[i].Segments = Highlight(string(narrowed[i].Record.Text), term)
	}
	if narrowed != nil {
		res.Samples = narrowed
	}

	for t := range topics {
		res.Topics = append(res.Topics, t)
	}
	sort.Strings(res.Topics)
	return res
}

// Segment is a piece of text that either matches the highlighted term or
// does not.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// Highlight splits text around case-insensitive occurrences of term. The
// concatenated segment texts equal the input. Invalid UTF-8 in term is
// replaced with U+FFFD before matching.
func Highlight(text, term string) []Segment {
	if text == "" {
		return nil
	}
	if term == "" {
		return []Segment{{Text: text}}
	}

	pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(strings.ToValidUTF8(term, "\uFFFD")))
	if err != nil {
		return []Segment{{Text: text}}
	}
	var out []Segment
	last := 0
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			out = append(out, Segment{Text: text[last:loc[0]]})
		}
		out = append(out, Segment{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}

func matches(want, got string) bool {
	return want == "" || want == filter.All || want == got
}
