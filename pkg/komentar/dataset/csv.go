// Package dataset reads the labeled comment table and turns it into
// normalized records. It is the only part of the pipeline that performs I/O.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/komentar/pkg/komentar/record"
)

// Columns names the header of each field in the source table.
type Columns struct {
	Topic           string `yaml:"topic"`
	Source          string `yaml:"source"`
	Sentiment       string `yaml:"sentiment"`
	Text            string `yaml:"text"`
	TextNoStop      string `yaml:"text_no_stop"`
	Aspect1         string `yaml:"aspect1"`
	Aspect2         string `yaml:"aspect2"`
	AspectScore     string `yaml:"aspect_score"`
	Aspect1Keywords string `yaml:"aspect1_keywords"`
	Aspect2Keywords string `yaml:"aspect2_keywords"`
	Date            string `yaml:"date"`
}

// DefaultColumns matches the headers produced by the labeling pipeline.
func DefaultColumns() Columns {
	return Columns{
		Topic:           "Topik",
		Source:          "Sumber",
		Sentiment:       "sentiment",
		Text:            "Text_rf",
		TextNoStop:      "Text_rf_nostop",
		Aspect1:         "Aspect_1",
		Aspect2:         "Aspect_2",
		AspectScore:     "aspect_score",
		Aspect1Keywords: "Aspect_1_matched_keywords",
		Aspect2Keywords: "Aspect_2_matched_keywords",
		Date:            "Date_std",
	}
}

// withDefaults fills blank column names from DefaultColumns.
func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&c.Topic, d.Topic)
	fill(&c.Source, d.Source)
	fill(&c.Sentiment, d.Sentiment)
	fill(&c.Text, d.Text)
	fill(&c.TextNoStop, d.TextNoStop)
	fill(&c.Aspect1, d.Aspect1)
	fill(&c.Aspect2, d.Aspect2)
	fill(&c.AspectScore, d.AspectScore)
	fill(&c.Aspect1Keywords, d.Aspect1Keywords)
	fill(&c.Aspect2Keywords, d.Aspect2Keywords)
	fill(&c.Date, d.Date)
	return c
}

// ReadRows parses a header-first CSV stream. Missing columns yield empty
// fields; rows that cannot be parsed are logged and skipped, never fatal.
func ReadRows(r io.Reader, cols Columns, log logrus.FieldLogger) ([]record.RawRow, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	cols = cols.withDefaults()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []record.RawRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	rows := []record.RawRow{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				log.WithError(err).WithField("line", perr.Line).Warn("skipping malformed row")
				continue
			}
			return nil, fmt.Errorf("read rows: %w", err)
		}
		if blank(row) {
			continue
		}
		rows = append(rows, record.RawRow{
			Topic:           field(row, cols.Topic),
			Source:          field(row, cols.Source),
			Sentiment:       field(row, cols.Sentiment),
			Text:            field(row, cols.Text),
			TextNoStop:      field(row, cols.TextNoStop),
			Aspect1:         field(row, cols.Aspect1),
			Aspect2:         field(row, cols.Aspect2),
			AspectScore:     field(row, cols.AspectScore),
			Aspect1Keywords: field(row, cols.Aspect1Keywords),
			Aspect2Keywords: field(row, cols.Aspect2Keywords),
			Date:            field(row, cols.Date),
		})
	}
	return rows, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
