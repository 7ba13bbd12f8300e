package llm

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/interfaces"
)

// OfflineService is a deterministic LLMService used when no hosted provider
// is configured: local development without an API key, and tests of the
// orchestration layer. Chat returns a scripted response (or an echo of the
// last user turn), and Embed derives a stable pseudo-embedding from the text
// so similarity search remains deterministic.
type OfflineService struct {
	dimension int
	logger    arbor.ILogger

	mu        sync.Mutex
	responses []string
	served    int
	chatCalls [][]interfaces.Message
}

// Compile-time interface assertion
var _ interfaces.LLMService = (*OfflineService)(nil)

// NewOfflineService creates an offline LLM service with the given embedding
// dimension.
func NewOfflineService(dimension int, logger arbor.ILogger) *OfflineService {
	if dimension <= 0 {
		dimension = 768
	}
	return &OfflineService{
		dimension: dimension,
		logger:    logger,
	}
}

// Script queues canned chat responses, served in order. Once the script is
// exhausted Chat falls back to echoing the last user turn.
func (s *OfflineService) Script(responses ...string) *OfflineService {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, responses...)
	return s
}

// ChatCalls returns a copy of every message slice Chat has received.
func (s *OfflineService) ChatCalls() [][]interfaces.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := make([][]interfaces.Message, len(s.chatCalls))
	copy(calls, s.chatCalls)
	return calls
}

// Chat returns a scripted or echoed response.
func (s *OfflineService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty for chat completion")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recorded := make([]interfaces.Message, len(messages))
	copy(recorded, messages)
	s.chatCalls = append(s.chatCalls, recorded)

	if s.served < len(s.responses) {
		response := s.responses[s.served]
		s.served++
		return response, nil
	}

	// Echo the last user turn so the conversation loop stays observable.
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return "offline: " + messages[i].Content, nil
		}
	}
	return "", fmt.Errorf("at least one message must have role 'user'")
}

// Embed derives a stable pseudo-embedding from the text content.
func (s *OfflineService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty for embedding generation")
	}

	embedding := make([]float32, s.dimension)
	h := fnv.New64a()
	for i := range embedding {
		h.Write([]byte(text))
		h.Write([]byte{byte(i)})
		// Map the hash into [-1, 1) for a well-behaved cosine space.
		embedding[i] = float32(int64(h.Sum64()%2000))/1000.0 - 1.0
	}
	return embedding, nil
}

// HealthCheck always succeeds for the offline provider.
func (s *OfflineService) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

// Provider returns the provider name.
func (s *OfflineService) Provider() string {
	return "offline"
}

// Close is a no-op for the offline provider.
func (s *OfflineService) Close() error {
	return nil
}
