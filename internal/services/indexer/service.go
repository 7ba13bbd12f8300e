// -----------------------------------------------------------------------
// Indexer service - builds a session-scoped vector index over one web page
// -----------------------------------------------------------------------

package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/common"
	"github.com/ternarybob/lingua/internal/interfaces"
	"github.com/ternarybob/lingua/internal/models"
)

// Service implements the fetch -> chunk -> embed pipeline.
type Service struct {
	llm      interfaces.LLMService
	loader   *pageLoader
	splitter *splitter
	logger   arbor.ILogger
}

var _ interfaces.IndexerService = (*Service)(nil)

// NewService creates an indexer service from the configuration.
func NewService(cfg *common.Config, llm interfaces.LLMService, logger arbor.ILogger) (*Service, error) {
	fetchTimeout, err := time.ParseDuration(cfg.Indexer.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid indexer.fetch_timeout: %w", err)
	}

	return &Service{
		llm:      llm,
		loader:   newPageLoader(fetchTimeout, cfg.Indexer.UserAgent, cfg.Indexer.MaxBodySize, logger),
		splitter: newSplitter(cfg.Indexer.ChunkSize, cfg.Indexer.ChunkOverlap),
		logger:   logger,
	}, nil
}

// BuildIndex fetches the page, splits it into overlapping chunks, embeds
// each chunk, and returns the populated index. Any failure propagates and
// no partial index is returned.
func (s *Service) BuildIndex(ctx context.Context, url string) (*models.VectorIndex, error) {
	start := time.Now()

	markdown, err := s.loader.Load(ctx, url)
	if err != nil {
		return nil, err
	}

	pieces := s.splitter.Split(markdown)
	if len(pieces) == 0 {
		return nil, fmt.Errorf("page %q produced no indexable chunks", url)
	}

	chunks := make([]*models.Chunk, 0, len(pieces))
	for position, content := range pieces {
		embedding, err := s.llm.Embed(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d of %q: %w", position, url, err)
		}
		chunks = append(chunks, &models.Chunk{
			ID:        common.NewChunkID(),
			SourceURL: url,
			Position:  position,
			Content:   content,
			Embedding: embedding,
		})
	}

	s.logger.Info().
		Str("url", url).
		Int("chunks", len(chunks)).
		Dur("duration", time.Since(start)).
		Msg("Vector index built")

	return &models.VectorIndex{
		URL:       url,
		Chunks:    chunks,
		CreatedAt: time.Now(),
	}, nil
}
