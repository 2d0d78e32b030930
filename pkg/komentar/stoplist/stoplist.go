// Package stoplist holds the stopword set used by frequency views over
// display text.
package stoplist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Fillers are laughter and interjection markers that are added to every
// active stopword set.
var Fillers = []string{"wkwk", "haha", "hehe", "lol", "wkwkwk", "awokwok", "hix", "huft"}

// fallback is the built-in Indonesian list used when no file can be read.
var fallback = []string{
	"yang", "di", "dan", "ini", "itu", "dari", "ke", "pada", "untuk", "dengan",
	"adalah", "saya", "tidak", "karena", "yg", "ya", "gak", "bisa", "ada",
	"aku", "mau", "kalau", "tapi", "saja", "juga", "sudah", "telah", "bagi", "atau",
	"kami", "kita", "kamu", "dia", "mereka", "anda", "akan", "bukan", "tak", "tp",
	"sdh", "udah", "bgt", "dong", "kan", "sih", "kok", "mah", "deh", "yuk", "loh",
	"lagi", "apa", "kenapa", "gimana", "siapa", "kapan", "dimana", "bagaimana",
	"semoga", "terima", "kasih", "tolong", "mohon", "mas", "mbak", "kak", "bang",
	"pak", "bu", "ibu", "bapak", "min", "nya", "dr", "dlm", "utk", "dgn",
	"sm", "sy", "klo", "kalo", "jd", "jgn", "ga", "gk", "wkwk", "haha", "hehe",
	"wkwkwk", "awokwok", "lah", "kah", "pun", "man", "wan", "com", "http", "https",
	"www", "rt", "via", "aja", "doang",
}

// Set is a lowercase stopword set. A nil *Set is empty.
type Set struct {
	words map[string]struct{}
}

// New creates a set from words, lowercasing and trimming each.
func New(words []string) *Set {
	s := &Set{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Default returns the built-in list plus fillers.
func Default() *Set {
	s := New(fallback)
	s.AddFillers()
	return s
}

// IsStop checks if a token is a stopword
func (s *Set) IsStop(token string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[token]
	return ok
}

// Add adds a word to the set. Blank words are ignored.
func (s *Set) Add(word string) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return
	}
	s.words[w] = struct{}{}
}

// Remove removes a word from the set
func (s *Set) Remove(word string) {
	delete(s.words, strings.ToLower(strings.TrimSpace(word)))
}

// AddFillers adds the filler tokens.
func (s *Set) AddFillers() {
	for _, f := range Fillers {
		s.Add(f)
	}
}

// Len returns the number of stopwords.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// All returns all stopwords in sorted order.
func (s *Set) All() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Read parses a plain-text list, one word per line. Blank lines and lines
// starting with '#' are skipped.
func Read(r io.Reader) (*Set, error) {
	s := New(nil)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.Add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// yamlList is the YAML stoplist format: a top-level "terms" sequence.
type yamlList struct {
	Terms []string `yaml:"terms"`
}

// Load reads a stopword file. Files ending in .yaml or .yml are read as
// {terms: [...]}; anything else as one word per line. Fillers are added.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stoplist %s: %w", path, err)
	}

	var s *Set
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var list yamlList
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parse stoplist %s: %w", path, err)
		}
		s = New(list.Terms)
	default:
		s, err = Read(strings.NewReader(string(data)))
		if err != nil {
			return nil, fmt.Errorf("parse stoplist %s: %w", path, err)
		}
	}
	s.AddFillers()
	return s, nil
}

// LoadOrDefault loads path and falls back to Default on any failure. The
// failure is logged, never returned.
func LoadOrDefault(path string, log logrus.FieldLogger) *Set {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if path == "" {
		log.Debug("no stoplist configured, using built-in list")
		return Default()
	}
	s, err := Load(path)
	if err != nil {
		log.WithError(err).Warn("failed to load stoplist, using built-in list")
		return Default()
	}
	log.WithField("words", s.Len()).Info("stoplist loaded")
	return s
}
