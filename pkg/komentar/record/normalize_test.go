package record

import (
	"math"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func testNormalizer() Normalizer {
	return Normalizer{Now: func() time.Time { return fixedNow }}
}

func TestNormalizeDefaults(t *testing.T) {
	rec := testNormalizer().Normalize(RawRow{}, 7)

	if rec.ID != 7 {
		t.Errorf("Expected ID 7, got %d", rec.ID)
	}
	if rec.Topic != "Unknown" {
		t.Errorf("Expected topic Unknown, got %q", rec.Topic)
	}
	if rec.Source != "Unknown" {
		t.Errorf("Expected source Unknown, got %q", rec.Source)
	}
	if rec.Sentiment != Neutral {
		t.Errorf("Expected Neutral, got %q", rec.Sentiment)
	}
	if rec.Aspect1 != "Umum" {
		t.Errorf("Expected aspect1 Umum, got %q", rec.Aspect1)
	}
	if rec.HasAspect2() {
		t.Errorf("Expected no aspect2, got %q", rec.Aspect2)
	}
	if rec.AspectScore != 0 || math.IsNaN(rec.AspectScore) {
		t.Errorf("Expected score 0, got %v", rec.AspectScore)
	}
	if rec.Aspect1Keywords == nil || len(rec.Aspect1Keywords) != 0 {
		t.Errorf("Expected empty keyword slice, got %#v", rec.Aspect1Keywords)
	}
	if rec.Aspect2Keywords == nil || len(rec.Aspect2Keywords) != 0 {
		t.Errorf("Expected empty keyword slice, got %#v", rec.Aspect2Keywords)
	}
	if rec.TextNoStop != "" {
		t.Errorf("Analysis text must stay empty, got %q", rec.TextNoStop)
	}
	if rec.DateParsed || !rec.Date.Equal(fixedNow) {
		t.Errorf("Expected fallback date %v, got %v (parsed=%v)", fixedNow, rec.Date, rec.DateParsed)
	}
}

func TestNormalizeTrimsAndKeepsVariantsApart(t *testing.T) {
	rec := testNormalizer().Normalize(RawRow{
		Topic:      "  Harga  ",
		Source:     " tiktok ",
		Sentiment:  " Positive ",
		Text:       " Yang bagus sekali ",
		TextNoStop: "",
		Aspect1:    " Kualitas ",
		Aspect2:    "  ",
		Date:       " 2024-01-08 ",
	}, 0)

	if rec.Topic != "Harga" || rec.Source != "TikTok" || rec.Sentiment != Positive {
		t.Errorf("Unexpected labels: %+v", rec)
	}
	if rec.Text != "Yang bagus sekali" {
		t.Errorf("Unexpected display text %q", rec.Text)
	}
	if rec.TextNoStop != "" {
		t.Errorf("Analysis text must not fall back to display text, got %q", rec.TextNoStop)
	}
	if rec.Aspect1 != "Kualitas" || rec.Aspect2 != "" {
		t.Errorf("Unexpected aspects %q / %q", rec.Aspect1, rec.Aspect2)
	}
	if !rec.DateParsed || rec.DateStr != "2024-01-08" {
		t.Errorf("Expected parsed date 2024-01-08, got %q (parsed=%v)", rec.DateStr, rec.DateParsed)
	}
}

func TestCanonicalSource(t *testing.T) {
	n := Normalizer{}
	tests := []struct {
		in   string
		want string
	}{
		{"TIKTOK", "TikTok"},
		{"YouTube", "YouTube"},
		{"youtube", "YouTube"},
		{"instagram", "Instagram"},
		{"tWITTER x", "Twitter X"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := n.CanonicalSource(tt.in); got != tt.want {
			t.Errorf("CanonicalSource(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	custom := Normalizer{Sources: map[string]string{"fb": "Facebook"}}
	if got := custom.CanonicalSource("FB"); got != "Facebook" {
		t.Errorf("custom source map ignored, got %q", got)
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0.75", 0.75},
		{" 2 ", 2},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-1", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseScore(tt.in); got != tt.want {
			t.Errorf("ParseScore(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"['harga', 'mahal']", []string{"harga", "mahal"}},
		{`["kurir"]`, []string{"kurir"}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{"[]", []string{}},
		{"", []string{}},
		{"[ , ]", []string{}},
	}
	for _, tt := range tests {
		got := ParseKeywords(tt.in)
		if got == nil {
			t.Fatalf("ParseKeywords(%q) returned nil", tt.in)
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseKeywords(%q) = %#v, want %#v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseKeywords(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestNormalizeDates(t *testing.T) {
	n := testNormalizer()

	rec := n.Normalize(RawRow{Date: "2024-02-03 14:22:10"}, 0)
	if !rec.DateParsed || rec.DateStr != "2024-02-03" {
		t.Errorf("Expected canonical date, got %q", rec.DateStr)
	}

	rec = n.Normalize(RawRow{Date: "kemarin"}, 1)
	if rec.DateParsed {
		t.Error("Garbage date should not parse")
	}
	if rec.DateStr != "kemarin" {
		t.Errorf("Raw date string should be preserved, got %q", rec.DateStr)
	}
	if !rec.Date.Equal(fixedNow) {
		t.Errorf("Expected fallback to clock, got %v", rec.Date)
	}
}

func TestParseSentiment(t *testing.T) {
	if ParseSentiment("negative") != Negative {
		t.Error("lowercase negative should parse")
	}
	if ParseSentiment("POSITIVE") != Positive {
		t.Error("uppercase positive should parse")
	}
	if ParseSentiment("mixed") != Neutral {
		t.Error("unknown sentiment should default to Neutral")
	}
}

func TestNormalizeAllAssignsPositions(t *testing.T) {
	recs := testNormalizer().NormalizeAll([]RawRow{{Topic: "a"}, {Topic: "b"}, {Topic: "c"}})
	for i, rec := range recs {
		if rec.ID != i {
			t.Errorf("record %d has ID %d", i, rec.ID)
		}
	}
}

func TestRecordAspectHelpers(t *testing.T) {
	rec := Record{Aspect1: "Umum", Aspect2: "Harga"}
	if !rec.IsGeneral() {
		t.Error("Umum should be general")
	}
	if !rec.HasAspect("Harga") || !rec.HasAspect("Umum") || rec.HasAspect("") {
		t.Error("HasAspect mismatch")
	}
}
