package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/common"
	"github.com/ternarybob/lingua/internal/models"
	"github.com/ternarybob/lingua/internal/services/llm"
)

func testRetriever(maxChunks int) (*Retriever, *llm.OfflineService) {
	cfg := common.DefaultConfig()
	cfg.Chat.MaxChunks = maxChunks

	fake := llm.NewOfflineService(16, arbor.NewLogger())
	return NewRetriever(cfg, fake, arbor.NewLogger()), fake
}

// buildIndex creates an index whose chunk embeddings match the offline
// provider's deterministic embedding of the same content, so a query equal
// to a chunk's content retrieves that chunk first.
func buildIndex(t *testing.T, fake *llm.OfflineService, contents ...string) *models.VectorIndex {
	t.Helper()

	chunks := make([]*models.Chunk, 0, len(contents))
	for i, content := range contents {
		embedding, err := fake.Embed(context.Background(), content)
		require.NoError(t, err)
		chunks = append(chunks, &models.Chunk{
			ID:        common.NewChunkID(),
			SourceURL: "https://example.com/page",
			Position:  i,
			Content:   content,
			Embedding: embedding,
		})
	}
	return &models.VectorIndex{
		URL:       "https://example.com/page",
		Chunks:    chunks,
		CreatedAt: time.Now(),
	}
}

func TestRetriever_Answer_NoIndex(t *testing.T) {
	retriever, _ := testRetriever(4)

	_, err := retriever.Answer(context.Background(), nil, nil, "hello?")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoIndex))

	empty := &models.VectorIndex{URL: "https://example.com"}
	_, err = retriever.Answer(context.Background(), empty, nil, "hello?")
	assert.True(t, errors.Is(err, ErrNoIndex))
}

func TestRetriever_Answer_EmptyQuestion(t *testing.T) {
	retriever, fake := testRetriever(4)
	index := buildIndex(t, fake, "some content")

	_, err := retriever.Answer(context.Background(), index, nil, "  ")
	require.Error(t, err)
}

func TestRetriever_Answer_NoHistorySkipsRewrite(t *testing.T) {
	retriever, fake := testRetriever(4)
	index := buildIndex(t, fake, "pricing doubles next year", "support hours are 9 to 5")

	fake.Script("the grounded answer")

	answer, err := retriever.Answer(context.Background(), index, nil, "pricing doubles next year")
	require.NoError(t, err)
	assert.Equal(t, "the grounded answer", answer)

	// One chat call only: generation, no rewrite.
	calls := fake.ChatCalls()
	require.Len(t, calls, 1)

	generation := calls[0]
	assert.Equal(t, "system", generation[0].Role)
	assert.Contains(t, generation[0].Content, "based on the below context")
	assert.Contains(t, generation[0].Content, "pricing doubles next year")
	assert.Equal(t, "pricing doubles next year", generation[len(generation)-1].Content)
}

func TestRetriever_Answer_WithHistoryRunsBothStages(t *testing.T) {
	retriever, fake := testRetriever(2)
	index := buildIndex(t, fake, "the importer supports csv files", "exports run nightly")

	history := []models.Turn{
		{Role: models.TurnAssistant, Content: "Hello, how can I help?"},
		{Role: models.TurnHuman, Content: "tell me about the importer"},
		{Role: models.TurnAssistant, Content: "it loads data for you"},
	}

	fake.Script("the importer supports csv files", "it supports csv")

	answer, err := retriever.Answer(context.Background(), index, history, "which formats?")
	require.NoError(t, err)
	assert.Equal(t, "it supports csv", answer)

	calls := fake.ChatCalls()
	require.Len(t, calls, 2)

	// Stage one: full history, the new turn, then the rewrite instruction.
	rewrite := calls[0]
	require.Len(t, rewrite, len(history)+2)
	assert.Equal(t, "assistant", rewrite[0].Role)
	assert.Equal(t, "which formats?", rewrite[len(rewrite)-2].Content)
	assert.Contains(t, rewrite[len(rewrite)-1].Content, "search query")

	// Stage two: grounded context first, then history, then the ORIGINAL
	// turn rather than the rewritten query.
	generation := calls[1]
	assert.Equal(t, "system", generation[0].Role)
	assert.Contains(t, generation[0].Content, "importer supports csv")
	assert.Equal(t, "which formats?", generation[len(generation)-1].Content)
	assert.Equal(t, "Hello, how can I help?", generation[1].Content)
}

func TestRetriever_Answer_RespectsMaxChunks(t *testing.T) {
	retriever, fake := testRetriever(1)
	index := buildIndex(t, fake,
		"chunk about apples", "chunk about oranges", "chunk about pears")

	fake.Script("answer")

	_, err := retriever.Answer(context.Background(), index, nil, "chunk about apples")
	require.NoError(t, err)

	calls := fake.ChatCalls()
	require.Len(t, calls, 1)
	system := calls[0][0].Content

	// Exactly one chunk in the context block.
	count := 0
	for _, content := range []string{"apples", "oranges", "pears"} {
		if strings.Contains(system, content) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
