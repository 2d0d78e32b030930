// Package aggregate computes dashboard summaries over a record collection:
// headline KPIs, global top lists and the weekly trend series.
package aggregate

import (
	"math"

	"github.com/cognicore/komentar/pkg/komentar/record"
	"github.com/cognicore/komentar/pkg/komentar/tally"
)

// Labels used when there is nothing to rank.
const (
	NotAvailable = "N/A"
	NoneLabel    = "None"
)

// TopListSize caps the global topic and aspect rankings.
const TopListSize = 5

// SentimentCounts holds the three fixed sentiment buckets.
type SentimentCounts struct {
	Positive int `json:"Positive"`
	Neutral  int `json:"Neutral"`
	Negative int `json:"Negative"`
}

// Get returns the count for s.
func (c SentimentCounts) Get(s record.Sentiment) int {
	switch s {
	case record.Positive:
		return c.Positive
	case record.Negative:
		return c.Negative
	default:
		return c.Neutral
	}
}

func (c *SentimentCounts) add(s record.Sentiment) {
	switch s {
	case record.Positive:
		c.Positive++
	case record.Negative:
		c.Negative++
	case record.Neutral:
		c.Neutral++
	}
}

// DominantSentiment is the largest sentiment bucket and its share.
type DominantSentiment struct {
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// DashboardMetrics are the headline KPIs for a record collection.
type DashboardMetrics struct {
	TotalComments     int               `json:"total_comments"`
	SentimentCounts   SentimentCounts   `json:"sentiment_counts"`
	DominantSentiment DominantSentiment `json:"dominant_sentiment"`
	TopTopic          tally.Count       `json:"top_topic"`
	TopAspect         tally.Count       `json:"top_aspect"`
}

// ComputeKPIs summarizes records. An empty collection yields a zero state
// without dividing by zero.
func ComputeKPIs(records []record.Record) DashboardMetrics {
	if len(records) == 0 {
		return DashboardMetrics{
			DominantSentiment: DominantSentiment{Label: NotAvailable},
			TopTopic:          tally.Count{Label: NoneLabel},
			TopAspect:         tally.Count{Label: NoneLabel},
		}
	}

	var counts SentimentCounts
	topics := tally.New()
	aspects := tally.New()
	for _, r := range records {
		counts.add(r.Sentiment)
		topics.Add(r.Topic)
		if r.Aspect1 != "" && r.Aspect1 != record.GeneralAspect {
			aspects.Add(r.Aspect1)
		}
		if r.Aspect2 != "" && r.Aspect2 != record.GeneralAspect {
			aspects.Add(r.Aspect2)
		}
	}

	dom := DominantSentiment{Count: -1}
	for _, s := range record.Sentiments {
		if c := counts.Get(s); c > dom.Count {
			dom.Label = string(s)
			dom.Count = c
		}
	}
	dom.Percentage = percentage(dom.Count, len(records))

	return DashboardMetrics{
		TotalComments:     len(records),
		SentimentCounts:   counts,
		DominantSentiment: dom,
		TopTopic:          maxOrNone(topics),
		TopAspect:         maxOrNone(aspects),
	}
}

// TopListsResult holds the global topic and aspect rankings.
type TopListsResult struct {
	TopTopics  []tally.Count `json:"top_topics"`
	TopAspects []tally.Count `json:"top_aspects"`
}

// TopLists ranks topics and aspects across the whole collection. A record
// contributes at most once per distinct non-general aspect value.
func TopLists(records []record.Record) TopListsResult {
	topics := tally.New()
	aspects := tally.New()
	for _, r := range records {
		topics.Add(r.Topic)
		for _, a := range distinctAspects(r) {
			aspects.Add(a)
		}
	}
	return TopListsResult{
		TopTopics:  topics.Top(TopListSize),
		TopAspects: aspects.Top(TopListSize),
	}
}

func distinctAspects(r record.Record) []string {
	var out []string
	if r.Aspect1 != "" && r.Aspect1 != record.GeneralAspect {
		out = append(out, r.Aspect1)
	}
	if r.Aspect2 != "" && r.Aspect2 != record.GeneralAspect && r.Aspect2 != r.Aspect1 {
		out = append(out, r.Aspect2)
	}
	return out
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

func maxOrNone(c *tally.Counter) tally.Count {
	if best, ok := c.Max(); ok {
		return best
	}
	return tally.Count{Label: NoneLabel}
}
