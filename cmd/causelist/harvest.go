package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/causelist"
	"github.com/fwojciec/causelist/fs"
	"github.com/fwojciec/causelist/harvest"
	"github.com/fwojciec/causelist/search"
)

// dateLayouts are the accepted --date formats.
var dateLayouts = []string{fs.DateLayout, "02-01-2006", "02/01/2006", "2 Jan 2006", "January 2, 2006"}

// ResolveDate returns the run date as YYYY-MM-DD.
func (c *HarvestCmd) ResolveDate(now time.Time) (string, error) {
	switch {
	case c.Tomorrow:
		return now.AddDate(0, 0, 1).Format(fs.DateLayout), nil
	case c.Date != "":
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(c.Date)); err == nil {
				return t.Format(fs.DateLayout), nil
			}
		}
		return "", causelist.Errorf(causelist.EINVALID, "invalid date %q, expected YYYY-MM-DD", c.Date)
	default:
		return now.Format(fs.DateLayout), nil
	}
}

// Run executes the harvest command.
func (c *HarvestCmd) Run(deps *Dependencies) error {
	date, err := c.ResolveDate(deps.Now())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", causelist.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Using date: %s\n", date)
	fmt.Fprintf(deps.Stdout, "Fetching URL: %s\n", c.URL)

	snap, err := deps.Renderer.Render(deps.Ctx, c.URL)
	if err != nil {
		if causelist.ErrorCode(err) == causelist.EUNAVAILABLE {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed for --render and --interactive")
		}
		fmt.Fprintf(deps.Stderr, "error: failed to fetch page: %s\n", causelist.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Page fetched: %s\n", snap.URL)

	if len(snap.Cookies) > 0 {
		if err := deps.Transport.SetCookies(snap.Cookies); err != nil {
			deps.Logger.Warn("cookie transfer failed", "err", err)
		}
	}

	refs, err := deps.Links.ExtractReferences(snap.HTML, snap.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", causelist.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Found %d PDF links on page.\n", len(refs))

	dir, err := fs.OutputDir(c.Out, snap.URL, date)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", causelist.ErrorMessage(err))
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	manifest := &causelist.Manifest{
		RunID:     deps.NewRunID(),
		SourceURL: snap.URL,
		Date:      date,
		Found:     refs,
	}

	if c.Download && len(refs) > 0 {
		if err := c.download(deps, dir, refs, manifest); err != nil {
			return err
		}
	}

	if c.CNR != "" {
		if err := c.searchPage(deps, snap.HTML, manifest); err != nil {
			return err
		}
		if err := c.searchDocuments(deps, dir, manifest); err != nil {
			return err
		}
	}

	path := fs.ManifestPath(dir, date)
	if err := writeFile(path, func(f *os.File) error { return fs.WriteManifest(f, manifest) }); err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to write results: %v\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Results saved to: %s\n", path)
	return nil
}

// download fetches every reference into dir and records the outcome.
func (c *HarvestCmd) download(deps *Dependencies, dir string, refs []causelist.DocumentReference, manifest *causelist.Manifest) error {
	fmt.Fprintln(deps.Stdout, "Downloading PDFs...")

	d := &harvest.Downloader{
		Fetcher:     deps.NewFetcher(dir),
		RateLimiter: deps.RateLimiter,
		Concurrency: deps.Config.Concurrency,
		RetryDelays: deps.Config.RetryDelays(),
		Logf: func(format string, args ...any) {
			fmt.Fprintf(deps.Stderr, format+"\n", args...)
		},
	}

	progress := func(p causelist.FetchProgress) {
		if p.Error != nil {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", p.Location, p.Error)
			return
		}
		fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", p.Completed, p.Total, harvest.TruncateURL(p.Location, 80))
	}

	result, err := d.FetchAll(deps.Ctx, refs, progress)
	manifest.Downloaded = result.Documents
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: download interrupted: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Downloaded %d PDFs (%s), %d failed.\n",
		result.Saved, harvest.FormatBytes(result.Bytes), result.Failed)
	return nil
}

// searchPage looks for the query in the page's table rows.
func (c *HarvestCmd) searchPage(deps *Dependencies, html string, manifest *causelist.Manifest) error {
	fmt.Fprintf(deps.Stdout, "Searching in HTML for %q ...\n", c.CNR)

	rows, err := deps.Rows.FindRows(html, c.CNR)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", causelist.ErrorMessage(err))
		return err
	}
	manifest.RowHits = rows

	if len(rows) == 0 {
		fmt.Fprintln(deps.Stdout, "Not found in HTML. Will search inside downloaded PDFs (if any).")
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Found %d hit(s) in HTML.\n", len(rows))
	for _, row := range rows {
		fmt.Fprintf(deps.Stdout, "  serial: %s court: %s\n", orNone(row.Serial), orNone(row.Court))
	}
	return nil
}

// searchDocuments runs the PDF search over the downloaded documents and
// writes the standard report files next to them.
func (c *HarvestCmd) searchDocuments(deps *Dependencies, dir string, manifest *causelist.Manifest) error {
	paths := downloadedPaths(manifest.Downloaded)
	if len(paths) == 0 {
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Searching inside downloaded PDFs for: %s\n", c.CNR)

	s := &search.Searcher{Extractor: deps.Extractor, Concurrency: deps.Config.Concurrency}
	report, err := s.Search(deps.Ctx, paths, c.CNR, nil)
	if causelist.ErrorCode(err) == causelist.EUNAVAILABLE {
		fmt.Fprintf(deps.Stderr, "warning: cannot search inside PDFs: %s\n", causelist.ErrorMessage(err))
		return nil
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", causelist.ErrorMessage(err))
		return err
	}
	manifest.Search = report

	for _, res := range report.Results {
		if res.OccurrenceCount > 0 {
			fmt.Fprintf(deps.Stdout, "  -> Found in %s: %d match(es)\n", res.Path, res.OccurrenceCount)
		}
	}

	jsonPath, csvPath := fs.ReportPaths(dir, c.CNR)
	return writeReports(deps, report, jsonPath, csvPath, false)
}

// downloadedPaths returns the distinct paths of successful downloads in
// reference order. References sharing a file name share a path.
func downloadedPaths(docs []*causelist.StoredDocument) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, d := range docs {
		if d == nil || !d.OK() || seen[d.Path] {
			continue
		}
		seen[d.Path] = true
		paths = append(paths, d.Path)
	}
	return paths
}

func orNone(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// writeFile creates path, including missing parent folders, and hands the
// file to write.
func writeFile(path string, write func(f *os.File) error) error {
	f, err := fs.CreateFile(filepath.Clean(path))
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
