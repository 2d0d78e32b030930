package nlp

import (
	"strings"

	"github.com/cognicore/komentar/pkg/komentar/stoplist"
)

// DefaultMinTokenLen is applied when Options.MinTokenLen is zero.
const DefaultMinTokenLen = 3

// Options controls which n-gram windows are kept.
type Options struct {
	// RemoveStopwords drops windows containing a stopword. It has no effect
	// when the stopword set is empty.
	RemoveStopwords bool
	// MinTokenLen drops windows containing a shorter token. Zero means
	// DefaultMinTokenLen; 1 disables the check.
	MinTokenLen int
	// DropPureNumber drops windows containing an all-digit token.
	DropPureNumber bool
}

// DefaultOptions are the word-cloud settings for pre-cleaned text.
func DefaultOptions() Options {
	return Options{MinTokenLen: DefaultMinTokenLen, DropPureNumber: true}
}

func (o Options) minLen() int {
	if o.MinTokenLen == 0 {
		return DefaultMinTokenLen
	}
	return o.MinTokenLen
}

// BuildNgrams slides a window of n tokens over tokens and joins each
// surviving window with single spaces. Output follows token order and may
// contain duplicates. A zero opts.MinTokenLen applies DefaultMinTokenLen;
// pass 1 to keep tokens of any length.
func BuildNgrams(tokens []string, n int, stops *stoplist.Set, opts Options) []string {
	if n <= 0 || len(tokens) < n {
		return nil
	}

	checkStops := opts.RemoveStopwords && stops.Len() > 0
	minLen := opts.minLen()

	result := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		window := tokens[i : i+n]
		if keepWindow(window, stops, checkStops, minLen, opts.DropPureNumber) {
			result = append(result, strings.Join(window, " "))
		}
	}
	return result
}

func keepWindow(window []string, stops *stoplist.Set, checkStops bool, minLen int, dropNumbers bool) bool {
	for _, tok := range window {
		if checkStops && stops.IsStop(tok) {
			return false
		}
		if len(tok) < minLen {
			return false
		}
		if dropNumbers && isNumericOnly(tok) {
			return false
		}
	}
	return true
}
