package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cognicore/komentar/pkg/komentar/filter"
	"github.com/cognicore/komentar/pkg/komentar/internalerr"
	"github.com/cognicore/komentar/pkg/komentar/record"
)

// parseFilter builds a filter spec from query parameters:
// source, topic, sentiment, aspect, from, to, hide_general, min_score, q.
// Missing parameters keep the pass-everything default.
func parseFilter(r *http.Request) (filter.Spec, error) {
	q := r.URL.Query()
	spec := filter.Default()

	if v := q.Get("source"); v != "" {
		spec.Source = v
	}
	if v := q.Get("topic"); v != "" {
		spec.Topic = v
	}
	if v := q.Get("sentiment"); v != "" {
		spec.Sentiment = v
	}
	if v := q.Get("aspect"); v != "" {
		spec.Aspect = v
	}

	from, err := parseDate(q.Get("from"), "from")
	if err != nil {
		return filter.Spec{}, err
	}
	to, err := parseDate(q.Get("to"), "to")
	if err != nil {
		return filter.Spec{}, err
	}
	spec.DateRange = filter.NewDateRange(from, to)

	if v := q.Get("hide_general"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter.Spec{}, fmt.Errorf("%w: invalid hide_general %q", internalerr.ErrInvalidInput, v)
		}
		spec.HideGeneral = b
	}
	if v := q.Get("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return filter.Spec{}, fmt.Errorf("%w: invalid min_score %q", internalerr.ErrInvalidInput, v)
		}
		spec.MinAspectScore = f
	}
	spec.SearchQuery = q.Get("q")
	return spec, nil
}

func parseDate(v, name string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(record.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid %s date %q, want YYYY-MM-DD", internalerr.ErrInvalidInput, name, v)
	}
	return t, nil
}

// intParam reads an optional non-negative integer parameter.
func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", internalerr.ErrInvalidInput, name, v)
	}
	return n, nil
}
