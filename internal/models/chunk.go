package models

import (
	"math"
	"sort"
	"time"
)

// Chunk is one overlapping text segment of an indexed page, with its
// embedding vector and source metadata.
type Chunk struct {
	ID        string    `json:"id"`
	SourceURL string    `json:"source_url"`
	Position  int       `json:"position"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"-"`
}

// ScoredChunk pairs a chunk with its similarity score for a query.
type ScoredChunk struct {
	Chunk *Chunk  `json:"chunk"`
	Score float64 `json:"score"`
}

// VectorIndex is a session-scoped, immutable nearest-neighbor index over the
// chunks of one website. The index is small (one page worth of chunks), so
// search is an exhaustive cosine scan rather than an ANN structure.
type VectorIndex struct {
	URL       string    `json:"url"`
	Chunks    []*Chunk  `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}

// Search returns the top-k chunks by cosine similarity to the query vector,
// highest score first. Returns fewer than k entries when the index is small;
// never returns an error for an empty index.
func (idx *VectorIndex) Search(query []float32, k int) []ScoredChunk {
	if k <= 0 || len(idx.Chunks) == 0 {
		return nil
	}

	scored := make([]ScoredChunk, 0, len(idx.Chunks))
	for _, c := range idx.Chunks {
		scored = append(scored, ScoredChunk{Chunk: c, Score: CosineSimilarity(query, c.Embedding)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Len returns the number of indexed chunks.
func (idx *VectorIndex) Len() int {
	return len(idx.Chunks)
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-length vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
