package causelist

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// SentenceTerminator splits a snippet into sub-sentences for field recovery.
const SentenceTerminator = "."

// CourtFallbackMinLength is the number of characters a sub-sentence must
// exceed to be used as a court label when no court indicator is present.
const CourtFallbackMinLength = 30

// SerialIndicators mark a sub-sentence that carries a serial number.
// Matching is case-insensitive and by substring.
var SerialIndicators = []string{"sl no", "sr no", "sl.", "sr.", "serial", "s.no", "s no"}

// CourtIndicators mark a sub-sentence that names a court or judge.
// Matching is case-insensitive and by substring.
var CourtIndicators = []string{"court", "judge", "bench", "magistrate"}

var (
	serialPattern        = regexp.MustCompile(`\b(\d{1,4})\b`)
	leadingSerialPattern = regexp.MustCompile(`^\s*(\d{1,4})\b`)
)

// FieldHeuristics holds best-effort metadata recovered from a snippet.
// Nil fields were not found. Values are hints, not verified case data.
type FieldHeuristics struct {
	Serial *string `json:"serial"`
	Court  *string `json:"court"`
}

// Resolve recovers a serial number and a court label from a snippet.
func Resolve(snippet string) FieldHeuristics {
	sentences := splitSentences(snippet)
	return FieldHeuristics{
		Serial: resolveSerial(snippet, sentences),
		Court:  resolveCourt(sentences),
	}
}

// splitSentences splits s on SentenceTerminator and drops blank parts.
func splitSentences(s string) []string {
	parts := strings.Split(s, SentenceTerminator)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

func resolveSerial(snippet string, sentences []string) *string {
	for _, s := range sentences {
		if !containsAny(s, SerialIndicators) {
			continue
		}
		// Only the first indicator sentence that holds a number counts.
		if m := serialPattern.FindStringSubmatch(s); m != nil {
			return &m[1]
		}
	}
	if m := leadingSerialPattern.FindStringSubmatch(snippet); m != nil {
		return &m[1]
	}
	return nil
}

func resolveCourt(sentences []string) *string {
	for _, s := range sentences {
		if containsAny(s, CourtIndicators) {
			return &s
		}
	}
	for _, s := range sentences {
		if utf8.RuneCountInString(s) > CourtFallbackMinLength {
			return &s
		}
	}
	return nil
}

// containsAny reports whether s contains any of tokens, ignoring case.
func containsAny(s string, tokens []string) bool {
	lower := strings.ToLower(s)
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
