package fs_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/causelist"
	"github.com/fwojciec/causelist/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *causelist.SearchReport {
	return causelist.Aggregate([]causelist.DocumentSearchResult{
		causelist.NewDocumentSearchResult(0, "out/a.pdf", []causelist.Hit{
			{
				Occurrence: causelist.Occurrence{Index: 40, Snippet: "Sl No 12 Before the Court. Case ABC123"},
				Page:       1,
				Heuristics: causelist.FieldHeuristics{Serial: strPtr("12"), Court: strPtr("Before the Court")},
			},
		}),
		causelist.NewDocumentSearchResult(1, "out/b.pdf", nil),
	})
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	t.Run("writes one object per document", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, fs.WriteReport(&buf, sampleReport()))

		var got []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)

		assert.Equal(t, "out/a.pdf", got[0]["pdf"])
		assert.EqualValues(t, 1, got[0]["num_hits"])
		hits := got[0]["hits"].([]any)
		require.Len(t, hits, 1)
		hit := hits[0].(map[string]any)
		assert.Equal(t, "Sl No 12 Before the Court. Case ABC123", hit["snippet"])
		assert.Equal(t, map[string]any{"serial": "12", "court": "Before the Court"}, hit["heuristics"])
	})

	t.Run("writes empty hits as array and missing fields as null", func(t *testing.T) {
		t.Parallel()

		report := causelist.Aggregate([]causelist.DocumentSearchResult{
			causelist.NewDocumentSearchResult(0, "a.pdf", []causelist.Hit{{Occurrence: causelist.Occurrence{Snippet: "x"}}}),
			causelist.NewDocumentSearchResult(1, "b.pdf", nil),
		})

		var buf bytes.Buffer
		require.NoError(t, fs.WriteReport(&buf, report))

		assert.Contains(t, buf.String(), `"serial": null`)
		assert.Contains(t, buf.String(), `"court": null`)
		assert.Contains(t, buf.String(), `"hits": []`)
	})

	t.Run("does not escape angle brackets", func(t *testing.T) {
		t.Parallel()

		report := causelist.Aggregate([]causelist.DocumentSearchResult{
			causelist.NewDocumentSearchResult(0, "a.pdf", []causelist.Hit{{Occurrence: causelist.Occurrence{Snippet: "<x> & y"}}}),
		})

		var buf bytes.Buffer
		require.NoError(t, fs.WriteReport(&buf, report))

		assert.Contains(t, buf.String(), "<x> & y")
	})
}

func TestReadReport(t *testing.T) {
	t.Parallel()

	t.Run("restores what WriteReport wrote", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, fs.WriteReport(&buf, sampleReport()))

		report, err := fs.ReadReport(&buf)

		require.NoError(t, err)
		require.Len(t, report.Results, 2)
		assert.Equal(t, 1, report.TotalOccurrences)
		assert.Equal(t, "out/a.pdf", report.Results[0].Path)
		assert.Equal(t, "12", *report.Results[0].Hits[0].Heuristics.Serial)
		assert.Equal(t, sampleReport().Summary(), report.Summary())
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		_, err := fs.ReadReport(strings.NewReader(`{"pdf": `))

		require.Error(t, err)
		assert.Equal(t, causelist.EINVALID, causelist.ErrorCode(err))
	})
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	t.Run("writes four columns by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, fs.WriteSummary(&buf, sampleReport().Summary(), false))

		assert.Equal(t,
			"pdf,num_hits,sample_serial,sample_court\n"+
				"out/a.pdf,1,12,Before the Court\n"+
				"out/b.pdf,0,,\n",
			buf.String())
	})

	t.Run("adds snippet column on request", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, fs.WriteSummary(&buf, sampleReport().Summary(), true))

		assert.Equal(t,
			"pdf,num_hits,sample_serial,sample_court,sample_snippet\n"+
				"out/a.pdf,1,12,Before the Court,Sl No 12 Before the Court. Case ABC123\n"+
				"out/b.pdf,0,,,\n",
			buf.String())
	})

	t.Run("quotes fields containing commas", func(t *testing.T) {
		t.Parallel()

		rows := []causelist.SummaryRow{{PDF: "a.pdf", NumHits: 1, SampleCourt: "Court of Judge X, Pune"}}

		var buf bytes.Buffer
		require.NoError(t, fs.WriteSummary(&buf, rows, false))

		assert.Contains(t, buf.String(), `"Court of Judge X, Pune"`)
	})
}

func TestWriteManifest(t *testing.T) {
	t.Parallel()

	m := &causelist.Manifest{
		RunID:     "run-1",
		SourceURL: "https://x.test/list/",
		Date:      "2024-05-06",
		Found: []causelist.DocumentReference{
			{Label: "Court 1", Location: "https://x.test/c1.pdf"},
			{Label: "Court 2", Location: "https://x.test/c2.pdf"},
		},
		Downloaded: []*causelist.StoredDocument{
			{Reference: causelist.DocumentReference{Label: "Court 1", Location: "https://x.test/c1.pdf"}, Path: "out/c1.pdf", ContentHash: "00000000000000ff", Bytes: 10},
			{Reference: causelist.DocumentReference{Label: "Court 2", Location: "https://x.test/c2.pdf"}, Err: errors.New("HTTP 404")},
		},
		Search: sampleReport(),
	}

	var buf bytes.Buffer
	require.NoError(t, fs.WriteManifest(&buf, m))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "run-1", got["run_id"])
	assert.Equal(t, "https://x.test/list/", got["source_url"])
	assert.Equal(t, "2024-05-06", got["date"])
	assert.Len(t, got["found_pdfs"], 2)
	assert.Equal(t, []any{}, got["html_search_hits"])
	assert.Len(t, got["search_results"], 2)

	downloaded := got["downloaded"].([]any)
	require.Len(t, downloaded, 2)
	assert.Equal(t, "out/c1.pdf", downloaded[0].(map[string]any)["path"])
	assert.Equal(t, "HTTP 404", downloaded[1].(map[string]any)["error"])
	assert.NotContains(t, downloaded[1].(map[string]any), "path")
}

func TestCreateFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reports", "nested", "summary.csv")

	f, err := fs.CreateFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
