package causelist

// Labels assigned to references that carry no visible anchor text.
const (
	UnknownLabel = "unknown"
	FrameLabel   = "iframe_pdf"
)

// DocumentExtension is the file extension that identifies a cause-list document.
const DocumentExtension = ".pdf"

// DocumentReference is a link to a cause-list document discovered on a page.
type DocumentReference struct {
	Label    string `json:"label"`
	Location string `json:"url"`
}

// LinkExtractor discovers document references in HTML.
type LinkExtractor interface {
	// ExtractReferences parses HTML and returns document references resolved
	// against baseURL. References are unique by Location and keep the order
	// and label of their first occurrence. Zero references is not an error.
	ExtractReferences(html string, baseURL string) ([]DocumentReference, error)
}

// RowHit is a table row of a cause-list page that contains a search query.
type RowHit struct {
	Text   string   `json:"row_text"`
	Serial *string  `json:"serial"`
	Court  *string  `json:"court"`
	Cells  []string `json:"cells"`
}

// RowFinder searches the table rows of a cause-list page.
type RowFinder interface {
	FindRows(html string, query string) ([]RowHit, error)
}
