package causelist

import "sort"

// Hit is an occurrence enriched with the heuristics recovered from its
// snippet. The occurrence itself is kept unchanged as evidence.
type Hit struct {
	Occurrence Occurrence

	// Page is the 1-indexed page the match starts on, or 0 if unknown.
	Page int

	Heuristics FieldHeuristics
}

// DocumentSearchResult holds the hits found in one document.
type DocumentSearchResult struct {
	// Position orders results in the report. It is the index of the
	// document in the searched list.
	Position int

	Path            string
	OccurrenceCount int
	Hits            []Hit
}

// NewDocumentSearchResult returns a result for path with its occurrence count set.
func NewDocumentSearchResult(position int, path string, hits []Hit) DocumentSearchResult {
	return DocumentSearchResult{
		Position:        position,
		Path:            path,
		OccurrenceCount: len(hits),
		Hits:            hits,
	}
}

// SearchReport is the outcome of searching a set of documents.
type SearchReport struct {
	Results          []DocumentSearchResult
	TotalOccurrences int

	// Failed counts documents that could not be read. They are absent
	// from Results.
	Failed int
}

// Aggregate builds a report from per-document results received in any order.
// Results are sorted by Position. The input slice is not modified.
func Aggregate(results []DocumentSearchResult) *SearchReport {
	sorted := make([]DocumentSearchResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	report := &SearchReport{Results: sorted}
	for _, r := range sorted {
		report.TotalOccurrences += r.OccurrenceCount
	}
	return report
}

// SummaryRow is one line of the tabular summary of a report.
type SummaryRow struct {
	PDF           string
	NumHits       int
	SampleSerial  string
	SampleCourt   string
	SampleSnippet string
}

// Summary projects the report into one row per document, sampled from each
// document's first hit. Documents without hits get empty sample fields.
func (r *SearchReport) Summary() []SummaryRow {
	rows := make([]SummaryRow, 0, len(r.Results))
	for _, res := range r.Results {
		row := SummaryRow{PDF: res.Path, NumHits: res.OccurrenceCount}
		if len(res.Hits) > 0 {
			first := res.Hits[0]
			row.SampleSerial = deref(first.Heuristics.Serial)
			row.SampleCourt = deref(first.Heuristics.Court)
			row.SampleSnippet = first.Occurrence.Snippet
		}
		rows = append(rows, row)
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
