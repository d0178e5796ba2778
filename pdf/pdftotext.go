package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fwojciec/causelist"
)

// Ensure Pdftotext implements causelist.TextExtractor at compile time.
var _ causelist.TextExtractor = (*Pdftotext)(nil)

// Pdftotext extracts text by running the poppler pdftotext binary, which
// separates pages with form feeds.
type Pdftotext struct {
	bin string
}

// NewPdftotext returns a pdftotext backend, or an unavailable stub when the
// binary is not on PATH.
func NewPdftotext() causelist.TextExtractor {
	bin, err := exec.LookPath("pdftotext")
	if err != nil {
		return &causelist.UnavailableTextExtractor{Reason: "pdftotext not found on PATH"}
	}
	return &Pdftotext{bin: bin}
}

func (p *Pdftotext) ExtractText(ctx context.Context, path string) (causelist.PageText, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.bin, "-layout", "-enc", "UTF-8", path, "-")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("pdftotext %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}
	return SplitPages(string(out)), nil
}

// SplitPages splits form-feed separated output into pages. The form feed
// that terminates the last page does not start a new one.
func SplitPages(text string) causelist.PageText {
	if text == "" {
		return causelist.PageText{}
	}
	text = strings.TrimSuffix(text, "\f")
	return causelist.PageText(strings.Split(text, "\f"))
}
