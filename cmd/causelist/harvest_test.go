package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/causelist"
	main "github.com/fwojciec/causelist/cmd/causelist"
	"github.com/fwojciec/causelist/fs"
	"github.com/fwojciec/causelist/goquery"
	"github.com/fwojciec/causelist/mock"
	"github.com/fwojciec/causelist/pdf"
	"github.com/fwojciec/causelist/pdf/pdftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listPage = `<html><body>
<table>
<tr><th>Sl</th><th>Case</th><th>Court</th></tr>
<tr><td>12</td><td>MHAU01 State v. X</td><td>Court of Judge X</td></tr>
</table>
<a href="c1.pdf">Court 1</a>
<a href="/lists/c2.pdf">Court 2</a>
<a href="c1.pdf">Court 1 again</a>
</body></html>`

var fixedNow = time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

// harvestDeps returns dependencies whose renderer serves listPage and whose
// fetcher writes generated PDFs, keyed by file name, into the run folder.
func harvestDeps(t *testing.T, stdout, stderr *bytes.Buffer, pdfs map[string][]string) *main.Dependencies {
	t.Helper()

	var mu sync.Mutex
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: causelist.Config{Concurrency: 2, Retries: 0},
		Renderer: &mock.Renderer{
			RenderFn: func(_ context.Context, url string) (*causelist.Snapshot, error) {
				return &causelist.Snapshot{
					HTML:    listPage,
					URL:     "https://x.test/lists/today/",
					Cookies: []*http.Cookie{{Name: "SESSION", Value: "s1", Domain: "x.test"}},
				}, nil
			},
		},
		Transport: &mock.Transport{
			SetCookiesFn: func([]*http.Cookie) error { return nil },
		},
		Links:       goquery.NewLinkExtractor(),
		Rows:        goquery.NewRowFinder(),
		RateLimiter: &mock.HostLimiter{WaitFn: func(context.Context, string) error { return nil }},
		Extractor:   pdf.NewExtractor(),
		NewFetcher: func(dir string) causelist.DocumentFetcher {
			return &mock.DocumentFetcher{
				FetchFn: func(_ context.Context, ref causelist.DocumentReference) *causelist.StoredDocument {
					name := fs.DocumentName(ref.Location)
					pages, ok := pdfs[name]
					if !ok {
						return &causelist.StoredDocument{Reference: ref, Err: errors.New("HTTP 404")}
					}
					mu.Lock()
					defer mu.Unlock()
					require.NoError(t, os.MkdirAll(dir, 0755))
					path := pdftest.WriteFile(t, dir, name, pages...)
					return &causelist.StoredDocument{Reference: ref, Path: path, Bytes: 100}
				},
			}
		},
		Now:      func() time.Time { return fixedNow },
		NewRunID: func() string { return "run-1" },
	}
}

func readManifest(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestHarvestCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists references and writes manifest without downloading", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := harvestDeps(t, stdout, stderr, nil)
		deps.NewFetcher = nil

		cmd := &main.HarvestCmd{URL: "https://x.test/lists/today", Out: out}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Using date: 2024-05-06")
		assert.Contains(t, stdout.String(), "Found 2 PDF links on page.")

		path := filepath.Join(out, "x.test_lists_today", "2024-05-06", "result_2024-05-06.json")
		m := readManifest(t, path)
		assert.Equal(t, "run-1", m["run_id"])
		assert.Equal(t, "https://x.test/lists/today/", m["source_url"])
		found := m["found_pdfs"].([]any)
		require.Len(t, found, 2)
		assert.Equal(t, map[string]any{"label": "Court 1", "url": "https://x.test/lists/today/c1.pdf"}, found[0])
		assert.Equal(t, []any{}, m["downloaded"])
	})

	t.Run("transfers rendered session cookies to the transport", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := harvestDeps(t, stdout, stderr, nil)
		var got []*http.Cookie
		deps.Transport = &mock.Transport{
			SetCookiesFn: func(cookies []*http.Cookie) error {
				got = cookies
				return nil
			},
		}

		cmd := &main.HarvestCmd{URL: "https://x.test/lists/today", Out: t.TempDir()}
		require.NoError(t, cmd.Run(deps))

		require.Len(t, got, 1)
		assert.Equal(t, "SESSION", got[0].Name)
	})

	t.Run("downloads documents and continues past failures", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := harvestDeps(t, stdout, stderr, map[string][]string{
			"c1.pdf": {"Nothing here"},
		})

		cmd := &main.HarvestCmd{URL: "https://x.test/lists/today", Out: out, Download: true, Tomorrow: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Downloaded 1 PDFs")
		assert.Contains(t, stdout.String(), "1 failed")
		assert.Contains(t, stderr.String(), "skip https://x.test/lists/c2.pdf: HTTP 404")

		dir := filepath.Join(out, "x.test_lists_today", "2024-05-07")
		assert.FileExists(t, filepath.Join(dir, "c1.pdf"))
		m := readManifest(t, filepath.Join(dir, "result_2024-05-07.json"))
		downloaded := m["downloaded"].([]any)
		require.Len(t, downloaded, 2)
		assert.Equal(t, filepath.Join(dir, "c1.pdf"), downloaded[0].(map[string]any)["path"])
		assert.Equal(t, "HTTP 404", downloaded[1].(map[string]any)["error"])
	})

	t.Run("searches page rows and downloaded documents for the case", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := harvestDeps(t, stdout, stderr, map[string][]string{
			"c1.pdf": {"Sl No 12 Before the Court of Judge X", "Case MHAU01 listed"},
			"c2.pdf": {"Nothing listed"},
		})

		cmd := &main.HarvestCmd{URL: "https://x.test/lists/today", Out: out, Download: true, CNR: "mhau01"}
		err := cmd.Run(deps)

		require.NoError(t, err, stderr.String())
		assert.Contains(t, stdout.String(), "Found 1 hit(s) in HTML.")
		assert.Contains(t, stdout.String(), "serial: 12 court: Court of Judge X")
		assert.Contains(t, stdout.String(), "c1.pdf: 1 match(es)")

		dir := filepath.Join(out, "x.test_lists_today", "2024-05-06")
		m := readManifest(t, filepath.Join(dir, "result_2024-05-06.json"))
		rows := m["html_search_hits"].([]any)
		require.Len(t, rows, 1)
		assert.Equal(t, "12", rows[0].(map[string]any)["serial"])
		results := m["search_results"].([]any)
		require.Len(t, results, 2)
		assert.EqualValues(t, 1, results[0].(map[string]any)["num_hits"])

		assert.FileExists(t, filepath.Join(dir, "search_results_mhau01.json"))
		assert.FileExists(t, filepath.Join(dir, "search_summary_mhau01.csv"))
	})

	t.Run("reports missing text extraction without failing", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := harvestDeps(t, stdout, stderr, map[string][]string{"c1.pdf": {"x"}})
		deps.Extractor = &causelist.UnavailableTextExtractor{Reason: "pdftotext not found on PATH"}

		cmd := &main.HarvestCmd{URL: "https://x.test/lists/today", Out: t.TempDir(), Download: true, CNR: "MHAU01"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "cannot search inside PDFs")
	})

	t.Run("fails with hint when browser is unavailable", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := harvestDeps(t, stdout, stderr, nil)
		deps.Renderer = &causelist.UnavailableRenderer{Reason: "chromium not found"}

		cmd := &main.HarvestCmd{URL: "https://x.test/lists/today", Out: t.TempDir(), Render: true}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, causelist.EUNAVAILABLE, causelist.ErrorCode(err))
		assert.Contains(t, stderr.String(), "Chrome or Chromium")
	})

	t.Run("rejects invalid date before fetching", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := harvestDeps(t, stdout, stderr, nil)
		deps.Renderer = &mock.Renderer{}

		cmd := &main.HarvestCmd{URL: "https://x.test/lists/today", Out: t.TempDir(), Date: "not-a-date"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, causelist.EINVALID, causelist.ErrorCode(err))
		assert.True(t, strings.Contains(stderr.String(), "invalid date"))
	})
}

func TestHarvestCmd_ResolveDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cmd  main.HarvestCmd
		want string
	}{
		{name: "defaults to today", cmd: main.HarvestCmd{}, want: "2024-05-06"},
		{name: "today flag", cmd: main.HarvestCmd{Today: true}, want: "2024-05-06"},
		{name: "tomorrow flag", cmd: main.HarvestCmd{Tomorrow: true}, want: "2024-05-07"},
		{name: "explicit ISO date", cmd: main.HarvestCmd{Date: "2024-12-31"}, want: "2024-12-31"},
		{name: "day-first date", cmd: main.HarvestCmd{Date: "31-12-2024"}, want: "2024-12-31"},
		{name: "day-first slashed date", cmd: main.HarvestCmd{Date: "31/12/2024"}, want: "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.cmd.ResolveDate(fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
