package komentar

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/komentar/pkg/komentar/filter"
	"github.com/cognicore/komentar/pkg/komentar/internalerr"
	"github.com/cognicore/komentar/pkg/komentar/nlp"
	"github.com/cognicore/komentar/pkg/komentar/record"
)

// Text variants a word cloud can be computed from.
const (
	// VariantAnalysis uses the stopword-free text and never applies the
	// stopword set again.
	VariantAnalysis = "analysis"
	// VariantDisplay uses the raw display text with stopword removal.
	VariantDisplay = "display"
)

// MaxNgram is the largest supported phrase length.
const MaxNgram = 3

// WordCloudOptions are the engine-wide word cloud defaults.
type WordCloudOptions struct {
	N              int  `yaml:"ngram"`
	TopN           int  `yaml:"top_n"`
	MinTokenLen    int  `yaml:"min_token_len"`
	DropPureNumber bool `yaml:"drop_pure_number"`
}

// DefaultWordCloud returns unigrams, top 80, minimum length 3 and numbers
// dropped.
func DefaultWordCloud() WordCloudOptions {
	return WordCloudOptions{N: 1, TopN: 80, MinTokenLen: nlp.DefaultMinTokenLen, DropPureNumber: true}
}

// WordCloud returns the defaults this engine fills zero request fields with.
func (e *Engine) WordCloud() WordCloudOptions {
	return e.wordCloud
}

// WordCloudRequest overrides the defaults for one call. Zero fields keep
// the engine defaults.
type WordCloudRequest struct {
	N       int
	TopN    int
	Variant string
}

// WordFrequencies ranks phrases per sentiment over the records in spec.
// The three sentiment partitions are independent and computed
// concurrently.
func (e *Engine) WordFrequencies(ctx context.Context, spec filter.Spec, req WordCloudRequest) (map[record.Sentiment][]nlp.TermCount, error) {
	recs, err := e.filtered(ctx, spec)
	if err != nil {
		return nil, err
	}
	return e.wordFrequencies(ctx, recs, req)
}

func (e *Engine) wordFrequencies(ctx context.Context, recs []record.Record, req WordCloudRequest) (map[record.Sentiment][]nlp.TermCount, error) {
	n := req.N
	if n == 0 {
		n = e.wordCloud.N
	}
	if n < 1 || n > MaxNgram {
		return nil, fmt.Errorf("%w: ngram must be between 1 and %d, got %d", internalerr.ErrInvalidInput, MaxNgram, n)
	}
	topN := req.TopN
	if topN <= 0 {
		topN = e.wordCloud.TopN
	}
	variant := req.Variant
	if variant == "" {
		variant = VariantAnalysis
	}
	if variant != VariantAnalysis && variant != VariantDisplay {
		return nil, fmt.Errorf("%w: unknown text variant %q", internalerr.ErrInvalidInput, variant)
	}

	opts := nlp.Options{
		MinTokenLen:    e.wordCloud.MinTokenLen,
		DropPureNumber: e.wordCloud.DropPureNumber,
	}

	partitions := make(map[record.Sentiment][]record.Record, len(record.Sentiments))
	for _, r := range recs {
		partitions[r.Sentiment] = append(partitions[r.Sentiment], r)
	}

	results := make([][]nlp.TermCount, len(record.Sentiments))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range record.Sentiments {
		i, part := i, partitions[s]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if variant == VariantDisplay {
				docs := make([]record.DisplayText, 0, len(part))
				for _, r := range part {
					docs = append(docs, r.Text)
				}
				displayOpts := opts
				displayOpts.RemoveStopwords = true
				results[i] = nlp.CountTopTermsDisplay(docs, n, e.stops, displayOpts, topN)
				return nil
			}
			docs := make([]record.AnalysisText, 0, len(part))
			for _, r := range part {
				docs = append(docs, r.TextNoStop)
			}
			results[i] = nlp.CountTopTerms(docs, n, opts, topN)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[record.Sentiment][]nlp.TermCount, len(record.Sentiments))
	for i, s := range record.Sentiments {
		out[s] = results[i]
	}
	return out, nil
}
