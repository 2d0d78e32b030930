// Package nlp implements the lexical text pipeline behind word-frequency
// views: tokenization, n-gram construction and term ranking.
//
// The tokenizer is deliberately shallow. It lowercases, strips URLs and
// keeps only ASCII letters and digits; there is no stemming.
package nlp

import (
	"regexp"
	"strings"
	"unicode"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Tokenize splits text into lowercase [a-z0-9] tokens. URLs are removed
// before splitting and every other character becomes a separator.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	clean := urlPattern.ReplaceAllString(strings.ToLower(text), "")

	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}

// isNumericOnly returns true if the token consists only of ASCII digits.
func isNumericOnly(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
