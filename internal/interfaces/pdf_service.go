package interfaces

import (
	"context"

	"github.com/ternarybob/docere/internal/models"
)

// PDFExtractor extracts plain text from PDF bytes.
type PDFExtractor interface {
	// ExtractText returns the document's text content. An empty result for a
	// structurally valid PDF (e.g. scanned images) is returned as an empty
	// string, not an error; callers decide how to treat it.
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// TranscriptRenderer renders a conversation thread as a downloadable PDF.
type TranscriptRenderer interface {
	RenderTranscript(thread *models.Thread, messages []*models.ThreadMessage) ([]byte, error)
}
