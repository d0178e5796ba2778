package causelist

// Manifest records one harvest run: the page that was snapshotted, the
// references found on it, what was downloaded and any search results.
type Manifest struct {
	RunID     string
	SourceURL string
	Date      string

	Found      []DocumentReference
	Downloaded []*StoredDocument

	// RowHits holds matching table rows from the page itself.
	RowHits []RowHit

	// Search is nil when no document search was run.
	Search *SearchReport
}

// Counts returns how many documents were downloaded and how many failed.
func (m *Manifest) Counts() (ok, failed int) {
	for _, d := range m.Downloaded {
		if d.OK() {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
