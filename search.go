package causelist

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SnippetRadius is the number of bytes of context kept on each side of a match.
const SnippetRadius = 120

// Occurrence is a single match of a query in a document's joined text.
type Occurrence struct {
	// Index is the byte offset of the match in the joined text.
	Index int

	// Start and End bound the snippet window in the joined text.
	Start int
	End   int

	// Snippet is text[Start:End] with newlines replaced by spaces and
	// surrounding whitespace trimmed. It keeps the original case.
	Snippet string
}

// ValidateQuery returns EINVALID for a query that cannot be searched for.
func ValidateQuery(query string) error {
	if query == "" {
		return Errorf(EINVALID, "search query required")
	}
	return nil
}

// Find returns every occurrence of query in text, matched case-insensitively.
//
// The scan is non-overlapping: after a match at index i the next match is
// looked for from i+len(query). A query such as "aa" is therefore found
// twice in "aaaa", not three times.
func Find(text, query string) ([]Occurrence, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	lowered := FoldCase(text)
	q := FoldCase(query)

	var occurrences []Occurrence
	for from := 0; from <= len(lowered)-len(q); {
		i := strings.Index(lowered[from:], q)
		if i < 0 {
			break
		}
		i += from

		start, end := snippetBounds(text, i, len(q))
		occurrences = append(occurrences, Occurrence{
			Index:   i,
			Start:   start,
			End:     end,
			Snippet: cleanSnippet(text[start:end]),
		})
		from = i + len(q)
	}
	return occurrences, nil
}

// snippetBounds returns the window of SnippetRadius bytes around a match,
// clamped to the text and narrowed to UTF-8 rune boundaries.
func snippetBounds(text string, index, length int) (start, end int) {
	start = max(0, index-SnippetRadius)
	end = min(len(text), index+length+SnippetRadius)

	for start < index && !utf8.RuneStart(text[start]) {
		start++
	}
	for end < len(text) && end > index+length && !utf8.RuneStart(text[end]) {
		end--
	}
	return start, end
}

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func cleanSnippet(s string) string {
	return strings.TrimSpace(newlineReplacer.Replace(s))
}

// FoldCase lower-cases s rune by rune, keeping any rune whose lower-case form
// has a different UTF-8 length. The result has the same length as s, so byte
// offsets found in it are valid in s.
func FoldCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			b.WriteByte(s[i])
			i++
			continue
		}
		if l := unicode.ToLower(r); l != r && utf8.RuneLen(l) == size {
			b.WriteRune(l)
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}
