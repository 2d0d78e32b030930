package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/komentar/pkg/komentar"
	"github.com/cognicore/komentar/pkg/komentar/nlp"
	"github.com/cognicore/komentar/pkg/komentar/record"
	"github.com/cognicore/komentar/pkg/komentar/samples"
)

// AnalyticsHandler serves the dashboard views
type AnalyticsHandler struct {
	engine *komentar.Engine
	log    logrus.FieldLogger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(engine *komentar.Engine, log logrus.FieldLogger) *AnalyticsHandler {
	return &AnalyticsHandler{
		engine: engine,
		log:    log,
	}
}

// GetOptions returns the selectable filter values
func (h *AnalyticsHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.engine.FilterOptions(r.Context())
	if err != nil {
		respondWithDomainError(w, h.log, "Failed to load filter options", err)
		return
	}
	respondWithJSON(w, http.StatusOK, opts)
}

// GetDashboard returns KPIs, trend and top lists for the filter
func (h *AnalyticsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilter(r)
	if err != nil {
		respondWithDomainError(w, h.log, "Invalid filter", err)
		return
	}

	d, err := h.engine.Dashboard(r.Context(), spec)
	if err != nil {
		respondWithDomainError(w, h.log, "Failed to compute dashboard", err)
		return
	}
	respondWithJSON(w, http.StatusOK, d)
}

// termsResponse is the word cloud payload
type termsResponse struct {
	Ngram   int                                  `json:"ngram"`
	Variant string                               `json:"variant"`
	Terms   map[record.Sentiment][]nlp.TermCount `json:"terms"`
}

// GetTerms returns per-sentiment phrase frequencies
func (h *AnalyticsHandler) GetTerms(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilter(r)
	if err != nil {
		respondWithDomainError(w, h.log, "Invalid filter", err)
		return
	}
	n, err := intParam(r, "ngram")
	if err != nil {
		respondWithDomainError(w, h.log, "Invalid ngram", err)
		return
	}
	topN, err := intParam(r, "top_n")
	if err != nil {
		respondWithDomainError(w, h.log, "Invalid top_n", err)
		return
	}
	req := komentar.WordCloudRequest{
		N:       n,
		TopN:    topN,
		Variant: r.URL.Query().Get("variant"),
	}

	terms, err := h.engine.WordFrequencies(r.Context(), spec, req)
	if err != nil {
		respondWithDomainError(w, h.log, "Failed to count terms", err)
		return
	}

	if req.N == 0 {
		req.N = h.engine.WordCloud().N
	}
	if req.Variant == "" {
		req.Variant = komentar.VariantAnalysis
	}
	respondWithJSON(w, http.StatusOK, termsResponse{Ngram: req.N, Variant: req.Variant, Terms: terms})
}

// GetSamples returns the comments containing a term
func (h *AnalyticsHandler) GetSamples(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		respondWithError(w, h.log, http.StatusBadRequest, "Missing term", nil)
		return
	}
	spec, err := parseFilter(r)
	if err != nil {
		respondWithDomainError(w, h.log, "Invalid filter", err)
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		respondWithDomainError(w, h.log, "Invalid limit", err)
		return
	}

	opts := samples.Options{
		Source: r.URL.Query().Get("sample_source"),
		Topic:  r.URL.Query().Get("sample_topic"),
		Limit:  limit,
	}
	res, err := h.engine.Samples(r.Context(), spec, term, opts)
	if err != nil {
		respondWithDomainError(w, h.log, "Failed to rank samples", err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// GetComments returns one page of the comment explorer
func (h *AnalyticsHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilter(r)
	if err != nil {
		respondWithDomainError(w, h.log, "Invalid filter", err)
		return
	}
	page, err := intParam(r, "page")
	if err != nil {
		respondWithDomainError(w, h.log, "Invalid page", err)
		return
	}

	res, err := h.engine.Explore(r.Context(), spec, r.URL.Query().Get("sort"), page)
	if err != nil {
		respondWithDomainError(w, h.log, "Failed to list comments", err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}
