package question

import (
	"strings"
	"unicode/utf8"
)

// MaxSummaryLength is the display limit for a summary, in characters.
const MaxSummaryLength = 100

// NormalizeSummary trims surrounding whitespace and cuts the text to MaxSummaryLength runes.
func NormalizeSummary(text string) string {
	s := strings.TrimSpace(text)
	if utf8.RuneCountInString(s) <= MaxSummaryLength {
		return s
	}

	runes := []rune(s)
	return strings.TrimSpace(string(runes[:MaxSummaryLength]))
}
