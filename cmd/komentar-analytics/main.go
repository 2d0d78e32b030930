package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/cognicore/komentar/internal/logger"
	"github.com/cognicore/komentar/pkg/komentar/config"
	"github.com/cognicore/komentar/pkg/komentar/filter"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config")
		input      = flag.String("input", "", "CSV file (overrides dataset settings)")
		stopwords  = flag.String("stopwords", "", "Stopword list file")
		db         = flag.String("db", "", "Optional: sqlite database to persist the report in")
		title      = flag.String("title", "", "Report title")
		source     = flag.String("source", filter.All, "Filter: source")
		topic      = flag.String("topic", filter.All, "Filter: topic")
		sentiment  = flag.String("sentiment", filter.All, "Filter: sentiment")
		aspect     = flag.String("aspect", filter.All, "Filter: aspect")
		from       = flag.String("from", "", "Filter: first date (YYYY-MM-DD)")
		to         = flag.String("to", "", "Filter: last date (YYYY-MM-DD)")
		hideGen    = flag.Bool("hide-general", false, "Filter: drop records whose aspect is Umum")
		minScore   = flag.Float64("min-score", 0, "Filter: minimum aspect score")
		query      = flag.String("q", "", "Filter: text search")
		logLevel   = flag.String("log-level", "warn", "Log level")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *input != "" {
		cfg.Dataset = config.DatasetConfig{Path: *input, Timeout: cfg.Dataset.Timeout, Columns: cfg.Dataset.Columns}
	}
	if *stopwords != "" {
		cfg.Stopwords.Path = *stopwords
	}
	if *db != "" {
		cfg.Store.Path = *db
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logr, err := logger.New(*logLevel, "")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	ctx := context.Background()
	components, err := (&config.Loader{Config: cfg, Log: logr}).Load(ctx)
	if err != nil {
		logr.Fatalf("load components: %v", err)
	}
	engine := components.Engine(cfg, logr)
	defer engine.Close()

	spec := filter.Spec{
		Source:         *source,
		Topic:          *topic,
		Sentiment:      *sentiment,
		Aspect:         *aspect,
		DateRange:      filter.DateRange{From: *from, To: *to},
		HideGeneral:    *hideGen,
		MinAspectScore: *minScore,
		SearchQuery:    *query,
	}

	build := engine.BuildReport
	if *db != "" {
		build = engine.Snapshot
	}
	rep, err := build(ctx, *title, spec)
	if err != nil {
		logr.Fatalf("build report: %v", err)
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		logr.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}
