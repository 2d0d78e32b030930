package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/komentar/pkg/komentar"
	"github.com/cognicore/komentar/pkg/komentar/config"
	"github.com/cognicore/komentar/pkg/komentar/internalerr"
	"github.com/cognicore/komentar/pkg/komentar/record"
	"github.com/cognicore/komentar/pkg/komentar/store/memstore"
)

type fixedSource struct {
	records []record.Record
	err     error
}

func (s fixedSource) Load(ctx context.Context) ([]record.Record, error) {
	return s.records, s.err
}

func testRecords() []record.Record {
	return []record.Record{
		{ID: 0, Topic: "Harga", Source: "TikTok", Sentiment: record.Positive, Text: "harga bagus bagus", TextNoStop: "harga bagus bagus", Aspect1: "Harga", AspectScore: 0.8, DateStr: "2024-01-08"},
		{ID: 1, Topic: "Harga", Source: "YouTube", Sentiment: record.Positive, Text: "murah dan bagus", TextNoStop: "murah bagus", Aspect1: "Umum", AspectScore: 0.2, DateStr: "2024-01-09"},
		{ID: 2, Topic: "Layanan", Source: "TikTok", Sentiment: record.Negative, Text: "layanan lambat", TextNoStop: "layanan lambat", Aspect1: "Layanan", AspectScore: 0.6, DateStr: "2024-01-15"},
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestServer(t *testing.T, src fixedSource, cfg config.ServerConfig) *httptest.Server {
	t.Helper()
	engine := komentar.New(komentar.Options{
		Records: src,
		Store:   memstore.New(),
		Logger:  quietLogger(),
	})
	srv := NewServer(cfg, engine, quietLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func defaultServerConfig() config.ServerConfig {
	cfg := config.Default().Server
	cfg.RateLimit.RPS = 0
	return cfg
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, fixedSource{records: testRecords()}, defaultServerConfig())
	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "OK" {
		t.Errorf("health = %d %q", resp.StatusCode, body)
	}
}

func TestOptions(t *testing.T) {
	ts := newTestServer(t, fixedSource{records: testRecords()}, defaultServerConfig())
	var opts komentar.FilterOptions
	if code := getJSON(t, ts.URL+"/api/v1/options", &opts); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if len(opts.Sources) != 2 || opts.Sources[0] != "TikTok" {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t, fixedSource{records: testRecords()}, defaultServerConfig())

	var d komentar.Dashboard
	code := getJSON(t, ts.URL+"/api/v1/dashboard?source=TikTok&from=2024-01-01&to=2024-01-31", &d)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if d.Filtered != 2 || d.Metrics.TotalComments != 2 {
		t.Errorf("unexpected dashboard %+v", d)
	}
	if d.Filter.DateRange.From != "2024-01-01" {
		t.Errorf("date range not echoed: %+v", d.Filter.DateRange)
	}

	code = getJSON(t, ts.URL+"/api/v1/dashboard?hide_general=true&min_score=0.5", &d)
	if code != http.StatusOK || d.Filtered != 2 {
		t.Errorf("hide_general/min_score: status %d filtered %d", code, d.Filtered)
	}
}

func TestBadParameters(t *testing.T) {
	ts := newTestServer(t, fixedSource{records: testRecords()}, defaultServerConfig())

	urls := []string{
		"/api/v1/dashboard?min_score=abc",
		"/api/v1/dashboard?from=10-01-2024",
		"/api/v1/dashboard?hide_general=maybe",
		"/api/v1/terms?ngram=4",
		"/api/v1/terms?variant=raw",
		"/api/v1/samples",
		"/api/v1/comments?page=-1",
	}
	for _, u := range urls {
		var body map[string]string
		if code := getJSON(t, ts.URL+u, &body); code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", u, code)
		}
		if body["error"] == "" {
			t.Errorf("%s: missing error message", u)
		}
	}
}

func TestTerms(t *testing.T) {
	ts := newTestServer(t, fixedSource{records: testRecords()}, defaultServerConfig())

	var resp struct {
		Ngram   int                                 `json:"ngram"`
		Variant string                              `json:"variant"`
		Terms   map[string][]map[string]interface{} `json:"terms"`
	}
	if code := getJSON(t, ts.URL+"/api/v1/terms?top_n=1", &resp); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if resp.Ngram != 1 || resp.Variant != komentar.VariantAnalysis {
		t.Errorf("unexpected echo %+v", resp)
	}
	pos := resp.Terms["Positive"]
	if len(pos) != 1 || pos[0]["term"] != "bagus" {
		t.Errorf("unexpected positive terms %+v", pos)
	}
	if _, ok := resp.Terms["Neutral"]; !ok {
		t.Error("every sentiment should be present")
	}
}

func TestSamples(t *testing.T) {
	ts := newTestServer(t, fixedSource{records: testRecords()}, defaultServerConfig())

	var res struct {
		Matched int `json:"matched"`
		Samples []struct {
			Record      record.Record `json:"record"`
			Occurrences int           `json:"occurrences"`
		} `json:"samples"`
	}
	if code := getJSON(t, ts.URL+"/api/v1/samples?term=BAGUS", &res); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if res.Matched != 2 || res.Samples[0].Record.ID != 0 || res.Samples[0].Occurrences != 2 {
		t.Errorf("unexpected samples %+v", res)
	}

	getJSON(t, ts.URL+"/api/v1/samples?term=bagus&sample_source=YouTube", &res)
	if len(res.Samples) != 1 || res.Samples[0].Record.ID != 1 {
		t.Errorf("sample_source not applied: %+v", res)
	}
}

func TestComments(t *testing.T) {
	ts := newTestServer(t, fixedSource{records: testRecords()}, defaultServerConfig())

	var page komentar.ExplorePage
	if code := getJSON(t, ts.URL+"/api/v1/comments?sort=highest_score&q=a", &page); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if page.Total != 3 || page.Page != 1 || page.Records[0].ID != 0 || page.Records[1].ID != 2 {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestReports(t *testing.T) {
	ts := newTestServer(t, fixedSource{records: testRecords()}, defaultServerConfig())

	body := strings.NewReader(`{"title":"Minggu 2","filter":{"source":"TikTok"}}`)
	resp, err := http.Post(ts.URL+"/api/v1/reports", "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	var created struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		FilteredCount int    `json:"filtered_count"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d", resp.StatusCode)
	}
	if created.ID == "" || created.FilteredCount != 2 {
		t.Errorf("unexpected report %+v", created)
	}

	resp, err = http.Post(ts.URL+"/api/v1/reports", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("empty body should snapshot everything, got %d", resp.StatusCode)
	}

	var got struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if code := getJSON(t, ts.URL+"/api/v1/reports/"+created.ID, &got); code != http.StatusOK {
		t.Fatalf("get status %d", code)
	}
	if got.Title != "Minggu 2" {
		t.Errorf("unexpected report %+v", got)
	}

	var list []komentar.ReportSummary
	if code := getJSON(t, ts.URL+"/api/v1/reports", &list); code != http.StatusOK {
		t.Fatalf("list status %d", code)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 reports, got %d", len(list))
	}

	if code := getJSON(t, ts.URL+"/api/v1/reports/does-not-exist", nil); code != http.StatusNotFound {
		t.Errorf("missing report status %d, want 404", code)
	}

	resp, err = http.Post(ts.URL+"/api/v1/reports", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad body status %d, want 400", resp.StatusCode)
	}
}

func TestSourceUnavailable(t *testing.T) {
	src := fixedSource{err: internalerr.ErrSourceUnavailable}
	ts := newTestServer(t, src, defaultServerConfig())

	var body map[string]string
	if code := getJSON(t, ts.URL+"/api/v1/dashboard", &body); code != http.StatusBadGateway {
		t.Errorf("status %d, want 502", code)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := defaultServerConfig()
	cfg.RateLimit.RPS = 0.001
	cfg.RateLimit.Burst = 2
	ts := newTestServer(t, fixedSource{records: testRecords()}, cfg)

	codes := make([]int, 3)
	for i := range codes {
		resp, err := http.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		codes[i] = resp.StatusCode
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("unexpected status sequence %v", codes)
	}
}

func TestTermsEchoesConfiguredNgram(t *testing.T) {
	wc := komentar.DefaultWordCloud()
	wc.N = 2
	engine := komentar.New(komentar.Options{
		Records:   fixedSource{records: testRecords()},
		Logger:    quietLogger(),
		WordCloud: wc,
	})
	ts := httptest.NewServer(NewServer(defaultServerConfig(), engine, quietLogger()).Handler())
	defer ts.Close()

	var resp struct {
		Ngram int                                 `json:"ngram"`
		Terms map[string][]map[string]interface{} `json:"terms"`
	}
	if code := getJSON(t, ts.URL+"/api/v1/terms", &resp); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if resp.Ngram != 2 {
		t.Errorf("expected configured ngram 2, got %d", resp.Ngram)
	}
	for _, tc := range resp.Terms["Positive"] {
		if term, _ := tc["term"].(string); !strings.Contains(term, " ") {
			t.Errorf("expected bigrams, got %q", term)
		}
	}
}
