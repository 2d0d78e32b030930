package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/cognicore/komentar/internal/logger"
	"github.com/cognicore/komentar/pkg/komentar/dataset"
	"github.com/cognicore/komentar/pkg/komentar/stoplist"
	"github.com/cognicore/komentar/pkg/komentar/store/sqlite"
)

func main() {
	var (
		input     = flag.String("input", "", "CSV file path (required unless --url)")
		url       = flag.String("url", "", "CSV URL")
		db        = flag.String("db", "komentar.db", "sqlite database to write")
		stopwords = flag.String("stopwords", "", "Optional: stopword list to persist with the snapshot")
		timeout   = flag.Duration("timeout", 30*time.Second, "Fetch timeout for --url")
		logLevel  = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	if (*input == "") == (*url == "") {
		log.Fatal("exactly one of --input or --url required")
	}

	logr, err := logger.New(*logLevel, "")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var src dataset.Source = dataset.FileSource{Path: *input}
	if *url != "" {
		src = dataset.HTTPSource{URL: *url}
	}
	records, err := dataset.NewLoader(src, logr).Load(ctx)
	if err != nil {
		logr.Fatalf("load dataset: %v", err)
	}

	st, err := sqlite.OpenSQLite(ctx, *db)
	if err != nil {
		logr.Fatalf("open store: %v", err)
	}
	defer st.Close()

	if err := st.ReplaceRecords(ctx, records); err != nil {
		logr.Fatalf("write records: %v", err)
	}

	if *stopwords != "" {
		set, err := stoplist.Load(*stopwords)
		if err != nil {
			logr.Fatalf("load stopwords: %v", err)
		}
		if err := st.UpsertStoplist(ctx, set.All()); err != nil {
			logr.Fatalf("write stopwords: %v", err)
		}
		logr.WithField("stopwords", set.Len()).Info("stoplist stored")
	}

	logr.WithField("records", len(records)).WithField("db", *db).Info("snapshot written")
}
