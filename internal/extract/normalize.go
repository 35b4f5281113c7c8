package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text, replaces every character that is neither a word
// character nor whitespace with a space, and collapses runs of whitespace.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ToLower(text)
	text = nonWordRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// lowerCollapsed lowercases text and collapses whitespace while keeping
// punctuation, for patterns that depend on symbols such as "+", "#" or ".".
func lowerCollapsed(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ToLower(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// lowerLines lowercases text and keeps its line structure intact.
func lowerLines(text string) string {
	return strings.ToLower(norm.NFKC.String(text))
}

// containsPhrase reports whether phrase occurs in normalized text on token boundaries.
func containsPhrase(normalized, phrase string) bool {
	if phrase == "" || normalized == "" {
		return false
	}
	return strings.Contains(" "+normalized+" ", " "+phrase+" ")
}
