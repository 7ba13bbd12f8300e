// -----------------------------------------------------------------------
// Retriever service - two-stage history-aware RAG over a vector index
// -----------------------------------------------------------------------

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/common"
	"github.com/ternarybob/lingua/internal/interfaces"
	"github.com/ternarybob/lingua/internal/models"
)

// ErrNoIndex is returned when a question arrives before any page is indexed.
var ErrNoIndex = errors.New("no page indexed for this conversation")

// Retriever implements the two-stage pipeline: rewrite the latest turn into
// a standalone query, retrieve the nearest chunks, and answer grounded in
// those chunks only.
type Retriever struct {
	llm       interfaces.LLMService
	maxChunks int
	logger    arbor.ILogger
}

var _ interfaces.RetrieverService = (*Retriever)(nil)

// NewRetriever creates a retriever service.
func NewRetriever(cfg *common.Config, llm interfaces.LLMService, logger arbor.ILogger) *Retriever {
	return &Retriever{
		llm:       llm,
		maxChunks: cfg.Chat.MaxChunks,
		logger:    logger,
	}
}

// Answer computes the assistant reply for userTurn given the prior history.
func (r *Retriever) Answer(ctx context.Context, index *models.VectorIndex, history []models.Turn, userTurn string) (string, error) {
	if index == nil || index.Len() == 0 {
		return "", ErrNoIndex
	}
	if strings.TrimSpace(userTurn) == "" {
		return "", fmt.Errorf("question must not be empty")
	}

	query, err := r.rewriteQuery(ctx, history, userTurn)
	if err != nil {
		return "", err
	}

	queryEmbedding, err := r.llm.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed search query: %w", err)
	}

	matches := index.Search(queryEmbedding, r.maxChunks)

	r.logger.Debug().
		Str("url", index.URL).
		Str("query", query).
		Int("matches", len(matches)).
		Msg("Chunks retrieved")

	return r.generateAnswer(ctx, matches, history, userTurn)
}

// rewriteQuery condenses the conversation plus the new turn into a
// standalone search query. With no history the turn is already standalone
// and is used as the query directly.
func (r *Retriever) rewriteQuery(ctx context.Context, history []models.Turn, userTurn string) (string, error) {
	if len(history) == 0 {
		return userTurn, nil
	}

	messages := historyMessages(history)
	messages = append(messages,
		interfaces.Message{Role: "user", Content: userTurn},
		interfaces.Message{Role: "user", Content: rewriteInstruction},
	)

	query, err := r.llm.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to rewrite query: %w", err)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return userTurn, nil
	}
	return query, nil
}

// generateAnswer produces the grounded reply. The original user turn is
// sent, not the rewritten query; zero matches still run with an empty
// context block so the model can state it found nothing.
func (r *Retriever) generateAnswer(ctx context.Context, matches []models.ScoredChunk, history []models.Turn, userTurn string) (string, error) {
	var contextBlock strings.Builder
	for i, m := range matches {
		if i > 0 {
			contextBlock.WriteString("\n\n")
		}
		contextBlock.WriteString(m.Chunk.Content)
	}

	messages := []interfaces.Message{
		{Role: "system", Content: fmt.Sprintf(answerSystemTemplate, contextBlock.String())},
	}
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, interfaces.Message{Role: "user", Content: userTurn})

	answer, err := r.llm.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	return answer, nil
}

// historyMessages maps conversation turns onto chat roles.
func historyMessages(history []models.Turn) []interfaces.Message {
	messages := make([]interfaces.Message, 0, len(history))
	for _, turn := range history {
		role := "user"
		if turn.Role == models.TurnAssistant {
			role = "assistant"
		}
		messages = append(messages, interfaces.Message{Role: role, Content: turn.Content})
	}
	return messages
}
