package interfaces

import (
	"context"

	"github.com/ternarybob/lingua/internal/models"
)

// IndexerService fetches a web page and builds a session-scoped vector index
// over its content.
type IndexerService interface {
	// BuildIndex fetches the page, reduces the HTML to text, splits it into
	// overlapping chunks, embeds each chunk, and returns the populated index.
	// Any fetch, parse, or embedding failure propagates; no partial index is
	// returned.
	BuildIndex(ctx context.Context, url string) (*models.VectorIndex, error)
}
