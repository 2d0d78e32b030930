package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/komentar/pkg/komentar/dataset"
	"github.com/cognicore/komentar/pkg/komentar/internalerr"
)

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/id.txt" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "yang\nDan\n\n# komentar\ndi\nyang\n")
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "stopwords", "id.txt")
	n, err := download(context.Background(), dataset.HTTPSource{URL: srv.URL + "/id.txt"}, dest)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 words, got %d", n)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "dan\ndi\nyang\n" {
		t.Errorf("unexpected file contents %q", data)
	}

	_, err = download(context.Background(), dataset.HTTPSource{URL: srv.URL + "/missing.txt"}, dest)
	if !errors.Is(err, internalerr.ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}
