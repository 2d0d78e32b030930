package config

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/komentar/pkg/komentar"
	"github.com/cognicore/komentar/pkg/komentar/dataset"
	"github.com/cognicore/komentar/pkg/komentar/stoplist"
	"github.com/cognicore/komentar/pkg/komentar/store"
	"github.com/cognicore/komentar/pkg/komentar/store/memstore"
	"github.com/cognicore/komentar/pkg/komentar/store/sqlite"
)

// Loader constructs runtime components from a Config
type Loader struct {
	Config *Config
	Log    logrus.FieldLogger
}

// Components holds all loaded runtime components
type Components struct {
	Stopwords *stoplist.Set
	Records   dataset.RecordSource
	Store     store.Store
}

// Load opens the store, resolves the stopword list and prepares the record
// source. Records are not read until the engine initializes.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	log := l.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	comp := &Components{}

	// Open store
	if cfg.Store.Path != "" {
		st, err := sqlite.OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		comp.Store = st
	} else {
		comp.Store = memstore.New()
	}

	// Load stoplist
	stops, err := loadStopwords(ctx, cfg.Stopwords, comp.Store, log)
	if err != nil {
		comp.Store.Close()
		return nil, err
	}
	comp.Stopwords = stops

	// Record source
	switch {
	case cfg.Dataset.FromStore:
		comp.Records = &dataset.StoreLoader{Store: comp.Store}
	case cfg.Dataset.URL != "":
		src := dataset.HTTPSource{
			URL:    cfg.Dataset.URL,
			Client: &http.Client{Timeout: cfg.Dataset.Timeout},
		}
		comp.Records = &dataset.Loader{Source: src, Columns: cfg.Dataset.Columns, Log: log}
	default:
		src := dataset.FileSource{Path: cfg.Dataset.Path}
		comp.Records = &dataset.Loader{Source: src, Columns: cfg.Dataset.Columns, Log: log}
	}

	return comp, nil
}

// loadStopwords prefers the configured file, then a list persisted in the
// store, then the built-in default.
func loadStopwords(ctx context.Context, sc StopwordsConfig, st store.Store, log logrus.FieldLogger) (*stoplist.Set, error) {
	if path := sc.Path; path != "" {
		return stoplist.LoadOrDefault(path, log), nil
	}
	words, err := st.Stoplist(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stoplist from store: %w", err)
	}
	if len(words) == 0 {
		return stoplist.Default(), nil
	}
	set := stoplist.New(words)
	set.AddFillers()
	log.WithField("stopwords", set.Len()).Debug("stoplist loaded from store")
	return set, nil
}

// Engine builds an engine over the loaded components.
func (c *Components) Engine(cfg *Config, log logrus.FieldLogger) *komentar.Engine {
	if cfg == nil {
		cfg = Default()
	}
	return komentar.New(komentar.Options{
		Records:     c.Records,
		Stopwords:   c.Stopwords,
		Store:       c.Store,
		Logger:      log,
		WordCloud:   cfg.WordCloud,
		SampleLimit: cfg.Samples.Limit,
	})
}
