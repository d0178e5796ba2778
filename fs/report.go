package fs

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/causelist"
)

// reportEntry is the on-disk shape of one searched document.
type reportEntry struct {
	PDF     string     `json:"pdf"`
	NumHits int        `json:"num_hits"`
	Hits    []hitEntry `json:"hits"`
}

type hitEntry struct {
	Snippet    string                    `json:"snippet"`
	Heuristics causelist.FieldHeuristics `json:"heuristics"`
}

func reportEntries(report *causelist.SearchReport) []reportEntry {
	entries := make([]reportEntry, 0, len(report.Results))
	for _, res := range report.Results {
		hits := make([]hitEntry, 0, len(res.Hits))
		for _, h := range res.Hits {
			hits = append(hits, hitEntry{Snippet: h.Occurrence.Snippet, Heuristics: h.Heuristics})
		}
		entries = append(entries, reportEntry{PDF: res.Path, NumHits: res.OccurrenceCount, Hits: hits})
	}
	return entries
}

// WriteReport writes report as an indented JSON array, one object per
// document.
func WriteReport(w io.Writer, report *causelist.SearchReport) error {
	return encodeJSON(w, reportEntries(report))
}

// ReadReport parses a JSON report written by WriteReport. Only the fields
// present in the file are restored; match offsets and pages are zero.
func ReadReport(r io.Reader) (*causelist.SearchReport, error) {
	var entries []reportEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, causelist.Errorf(causelist.EINVALID, "malformed search report: %v", err)
	}

	results := make([]causelist.DocumentSearchResult, 0, len(entries))
	for i, e := range entries {
		hits := make([]causelist.Hit, 0, len(e.Hits))
		for _, h := range e.Hits {
			hits = append(hits, causelist.Hit{
				Occurrence: causelist.Occurrence{Snippet: h.Snippet},
				Heuristics: h.Heuristics,
			})
		}
		res := causelist.NewDocumentSearchResult(i, e.PDF, hits)
		// A hand-edited file may disagree with its hit list; keep the stated count.
		res.OccurrenceCount = e.NumHits
		results = append(results, res)
	}
	return causelist.Aggregate(results), nil
}

// WriteSummary writes one CSV row per document. The sample_snippet column
// is included only when withSnippet is set.
func WriteSummary(w io.Writer, rows []causelist.SummaryRow, withSnippet bool) error {
	cw := csv.NewWriter(w)

	header := []string{"pdf", "num_hits", "sample_serial", "sample_court"}
	if withSnippet {
		header = append(header, "sample_snippet")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{row.PDF, strconv.Itoa(row.NumHits), row.SampleSerial, row.SampleCourt}
		if withSnippet {
			record = append(record, row.SampleSnippet)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// downloadEntry is the on-disk shape of one fetch attempt.
type downloadEntry struct {
	Label       string `json:"label"`
	URL         string `json:"url"`
	Path        string `json:"path,omitempty"`
	Error       string `json:"error,omitempty"`
	ContentHash string `json:"content_hash,omitempty"`
	Bytes       int64  `json:"bytes,omitempty"`
}

type manifestFile struct {
	RunID          string                        `json:"run_id"`
	SourceURL      string                        `json:"source_url"`
	Date           string                        `json:"date"`
	FoundPDFs      []causelist.DocumentReference `json:"found_pdfs"`
	Downloaded     []downloadEntry               `json:"downloaded"`
	HTMLSearchHits []causelist.RowHit            `json:"html_search_hits"`
	SearchResults  []reportEntry                 `json:"search_results"`
}

// WriteManifest writes m as indented JSON.
func WriteManifest(w io.Writer, m *causelist.Manifest) error {
	file := manifestFile{
		RunID:          m.RunID,
		SourceURL:      m.SourceURL,
		Date:           m.Date,
		FoundPDFs:      m.Found,
		Downloaded:     make([]downloadEntry, 0, len(m.Downloaded)),
		HTMLSearchHits: m.RowHits,
		SearchResults:  []reportEntry{},
	}
	if file.FoundPDFs == nil {
		file.FoundPDFs = []causelist.DocumentReference{}
	}
	if file.HTMLSearchHits == nil {
		file.HTMLSearchHits = []causelist.RowHit{}
	}
	for _, d := range m.Downloaded {
		entry := downloadEntry{
			Label:       d.Reference.Label,
			URL:         d.Reference.Location,
			Path:        d.Path,
			ContentHash: d.ContentHash,
			Bytes:       d.Bytes,
		}
		if d.Err != nil {
			entry.Error = d.Err.Error()
		}
		file.Downloaded = append(file.Downloaded, entry)
	}
	if m.Search != nil {
		file.SearchResults = reportEntries(m.Search)
	}
	return encodeJSON(w, file)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CreateFile creates path for writing, creating missing parent folders.
func CreateFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
