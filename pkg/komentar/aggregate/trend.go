package aggregate

import (
	"sort"
	"time"

	"github.com/cognicore/komentar/pkg/komentar/record"
	"github.com/cognicore/komentar/pkg/komentar/tally"
)

// Per-bucket sub-list sizes.
const (
	TrendTopTopics  = 2
	TrendTopAspects = 1
)

// TrendPoint is one Monday-anchored weekly bucket.
type TrendPoint struct {
	WeekStart  string        `json:"date"`
	Total      int           `json:"total"`
	Positive   int           `json:"positive"`
	Neutral    int           `json:"neutral"`
	Negative   int           `json:"negative"`
	TopTopics  []tally.Count `json:"top_topics"`
	TopAspects []tally.Count `json:"top_aspects"`
}

type bucket struct {
	point   TrendPoint
	topics  *tally.Counter
	aspects *tally.Counter
}

// WeekStart returns the Monday on or before the date in dateStr, formatted
// as YYYY-MM-DD. ok is false when dateStr is not a calendar date.
func WeekStart(dateStr string) (string, bool) {
	d, err := time.Parse(record.DateLayout, dateStr)
	if err != nil {
		return "", false
	}
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	return d.AddDate(0, 0, -(wd - 1)).Format(record.DateLayout), true
}

// AggregateTrend buckets records by ISO week. Buckets are keyed and ordered
// by their Monday; any bucket whose key is later than the greatest DateStr
// in the input is discarded. Records whose DateStr is not a calendar date
// are not bucketed.
func AggregateTrend(records []record.Record) []TrendPoint {
	if len(records) == 0 {
		return []TrendPoint{}
	}

	maxDate := ""
	for _, r := range records {
		if r.DateStr > maxDate {
			maxDate = r.DateStr
		}
	}

	groups := make(map[string]*bucket)
	for _, r := range records {
		key, ok := WeekStart(r.DateStr)
		if !ok {
			continue
		}
		b, exists := groups[key]
		if !exists {
			b = &bucket{
				point:   TrendPoint{WeekStart: key},
				topics:  tally.New(),
				aspects: tally.New(),
			}
			groups[key] = b
		}

		b.point.Total++
		switch r.Sentiment {
		case record.Positive:
			b.point.Positive++
		case record.Neutral:
			b.point.Neutral++
		case record.Negative:
			b.point.Negative++
		}
		b.topics.Add(r.Topic)
		if r.Aspect1 != "" && r.Aspect1 != record.GeneralAspect {
			b.aspects.Add(r.Aspect1)
		}
	}

	points := make([]TrendPoint, 0, len(groups))
	for key, b := range groups {
		if key > maxDate {
			continue
		}
		p := b.point
		p.TopTopics = b.topics.Top(TrendTopTopics)
		p.TopAspects = b.aspects.Top(TrendTopAspects)
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].WeekStart < points[j].WeekStart
	})
	return points
}
