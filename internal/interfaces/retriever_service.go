package interfaces

import (
	"context"

	"github.com/ternarybob/lingua/internal/models"
)

// RetrieverService answers conversational questions against a vector index
// using the two-stage history-aware RAG pipeline: the latest user turn is
// rewritten into a standalone search query, matching chunks are retrieved,
// and the answer is generated with those chunks as the only grounding context.
type RetrieverService interface {
	// Answer computes the assistant reply for userTurn given the prior
	// history. The history is passed ordered and unsummarized to both
	// stages. Zero retrieved chunks still produce a grounded-answer call
	// with an empty context block.
	Answer(ctx context.Context, index *models.VectorIndex, history []models.Turn, userTurn string) (string, error)
}
