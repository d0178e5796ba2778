package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/causelist"
	"github.com/fwojciec/causelist/fs"
	"github.com/fwojciec/causelist/search"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	s := &search.Searcher{Extractor: deps.Extractor, Concurrency: deps.Config.Concurrency}

	progress := func(p search.Progress) {
		switch {
		case p.Error != nil:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", p.Path, p.Error)
		case p.Hits > 0:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s: %d hit(s)\n", p.Completed, p.Total, p.Path, p.Hits)
		}
	}

	report, err := s.SearchFolder(deps.Ctx, c.Folder, c.Query, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", causelist.ErrorMessage(err))
		return err
	}

	if deps.Verbose {
		printHits(deps, report)
	}

	jsonPath, csvPath := fs.ReportPaths(c.Folder, c.Query)
	if c.OutJSON != "" {
		jsonPath = c.OutJSON
	}
	if c.OutCSV != "" {
		csvPath = c.OutCSV
	}
	if err := writeReports(deps, report, jsonPath, csvPath, c.Snippets); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "PDFs searched: %d. Total hits: %d. Failed: %d\n",
		len(report.Results)+report.Failed, report.TotalOccurrences, report.Failed)
	return nil
}

// printHits lists every hit with its page and heuristic fields.
func printHits(deps *Dependencies, report *causelist.SearchReport) {
	for _, res := range report.Results {
		for _, h := range res.Hits {
			fmt.Fprintf(deps.Stdout, "  %s p.%d serial=%s court=%s\n    %s\n",
				res.Path, h.Page, orNone(h.Heuristics.Serial), orNone(h.Heuristics.Court), h.Occurrence.Snippet)
		}
	}
}

// writeReports writes the JSON report and CSV summary.
func writeReports(deps *Dependencies, report *causelist.SearchReport, jsonPath, csvPath string, withSnippet bool) error {
	if err := writeFile(jsonPath, func(f *os.File) error { return fs.WriteReport(f, report) }); err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to write %s: %v\n", jsonPath, err)
		return err
	}
	if err := writeFile(csvPath, func(f *os.File) error { return fs.WriteSummary(f, report.Summary(), withSnippet) }); err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to write %s: %v\n", csvPath, err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote JSON: %s\n", jsonPath)
	fmt.Fprintf(deps.Stdout, "Wrote CSV: %s\n", csvPath)
	return nil
}
