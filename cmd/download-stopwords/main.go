package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cognicore/komentar/pkg/komentar/dataset"
	"github.com/cognicore/komentar/pkg/komentar/stoplist"
)

const defaultURL = "https://raw.githubusercontent.com/stopwords-iso/stopwords-id/master/stopwords-id.txt"

func main() {
	var (
		url     = flag.String("url", defaultURL, "Stopword list URL")
		dest    = flag.String("out", "config/stopwords/id.txt", "Destination file")
		timeout = flag.Duration("timeout", 30*time.Second, "Download timeout")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log.Printf("Downloading stopwords from %s...", *url)
	n, err := download(ctx, dataset.HTTPSource{URL: *url}, *dest)
	if err != nil {
		log.Fatalf("download stopwords: %v", err)
	}
	log.Printf("Saved %d stopwords to %s", n, *dest)
}

// download reads a plain-text stopword list from src and writes it to dest
// normalized: lowercased, deduplicated and sorted, one word per line.
func download(ctx context.Context, src dataset.Source, dest string) (int, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	set, err := stoplist.Read(rc)
	if err != nil {
		return 0, fmt.Errorf("parse list: %w", err)
	}
	if set.Len() == 0 {
		return 0, fmt.Errorf("empty stopword list from %s", src)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, word := range set.All() {
		fmt.Fprintln(w, word)
	}
	if err := w.Flush(); err != nil {
		return 0, err
	}
	return set.Len(), f.Close()
}
