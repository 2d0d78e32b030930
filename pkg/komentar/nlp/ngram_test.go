package nlp

import (
	"testing"

	"github.com/cognicore/komentar/pkg/komentar/stoplist"
)

func TestBuildNgramsBigrams(t *testing.T) {
	got := BuildNgrams([]string{"makan", "nasi", "goreng"}, 2, stoplist.New(nil), Options{MinTokenLen: 3})
	want := []string{"makan nasi", "nasi goreng"}
	if !equalStrings(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBuildNgramsFilters(t *testing.T) {
	tokens := []string{"produk", "yang", "bagus", "ok", "2024", "mantap"}
	stops := stoplist.New([]string{"yang"})

	tests := []struct {
		name string
		n    int
		opts Options
		stop *stoplist.Set
		want []string
	}{
		{
			name: "unigrams default length",
			n:    1,
			opts: Options{},
			want: []string{"produk", "yang", "bagus", "2024", "mantap"},
		},
		{
			name: "stopwords removed",
			n:    1,
			opts: Options{RemoveStopwords: true},
			stop: stops,
			want: []string{"produk", "bagus", "2024", "mantap"},
		},
		{
			name: "stopwords ignored when disabled",
			n:    1,
			opts: Options{RemoveStopwords: false},
			stop: stops,
			want: []string{"produk", "yang", "bagus", "2024", "mantap"},
		},
		{
			name: "empty stop set is a no-op",
			n:    1,
			opts: Options{RemoveStopwords: true},
			stop: stoplist.New(nil),
			want: []string{"produk", "yang", "bagus", "2024", "mantap"},
		},
		{
			name: "pure numbers dropped",
			n:    1,
			opts: Options{DropPureNumber: true},
			want: []string{"produk", "yang", "bagus", "mantap"},
		},
		{
			name: "min length one keeps short tokens",
			n:    1,
			opts: Options{MinTokenLen: 1},
			want: []string{"produk", "yang", "bagus", "ok", "2024", "mantap"},
		},
		{
			name: "any token in window excludes bigram",
			n:    2,
			opts: Options{RemoveStopwords: true, DropPureNumber: true},
			stop: stops,
			want: []string{},
		},
		{
			name: "trigrams",
			n:    3,
			opts: Options{MinTokenLen: 1},
			want: []string{"produk yang bagus", "yang bagus ok", "bagus ok 2024", "ok 2024 mantap"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildNgrams(tokens, tt.n, tt.stop, tt.opts)
			if !equalStrings(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBuildNgramsShortInput(t *testing.T) {
	if got := BuildNgrams([]string{"satu", "dua"}, 3, nil, Options{}); len(got) != 0 {
		t.Errorf("fewer tokens than n should yield nothing, got %v", got)
	}
	if got := BuildNgrams([]string{"satu"}, 0, nil, Options{}); len(got) != 0 {
		t.Errorf("n=0 should yield nothing, got %v", got)
	}
}

func TestBuildNgramsKeepsDuplicates(t *testing.T) {
	got := BuildNgrams([]string{"mantap", "mantap", "mantap"}, 1, nil, Options{})
	if len(got) != 3 {
		t.Errorf("duplicates must be emitted, got %v", got)
	}
}
