package nlp

import (
	"github.com/cognicore/komentar/pkg/komentar/record"
	"github.com/cognicore/komentar/pkg/komentar/stoplist"
	"github.com/cognicore/komentar/pkg/komentar/tally"
)

// TermCount is one ranked phrase.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// CountTopTerms ranks n-grams across stopword-free analysis text. The text
// is already cleaned upstream, so no stopword set is accepted and
// opts.RemoveStopwords is ignored.
func CountTopTerms(docs []record.AnalysisText, n int, opts Options, topN int) []TermCount {
	opts.RemoveStopwords = false
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = string(d)
	}
	return countTopTerms(texts, n, nil, opts, topN)
}

// CountTopTermsDisplay ranks n-grams across display text, filtering
// stopwords from stops when opts.RemoveStopwords is set.
func CountTopTermsDisplay(docs []record.DisplayText, n int, stops *stoplist.Set, opts Options, topN int) []TermCount {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = string(d)
	}
	return countTopTerms(texts, n, stops, opts, topN)
}

// countTopTerms counts every n-gram across texts and returns the topN most
// frequent. Ties keep the order in which phrases were first seen.
func countTopTerms(texts []string, n int, stops *stoplist.Set, opts Options, topN int) []TermCount {
	freq := tally.New()
	for _, text := range texts {
		if text == "" {
			continue
		}
		for _, gram := range BuildNgrams(Tokenize(text), n, stops, opts) {
			freq.Add(gram)
		}
	}

	if topN <= 0 {
		return []TermCount{}
	}
	ranked := freq.Top(topN)
	out := make([]TermCount, len(ranked))
	for i, c := range ranked {
		out[i] = TermCount{Term: c.Label, Count: c.Count}
	}
	return out
}
