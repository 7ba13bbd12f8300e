package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/common"
	"github.com/ternarybob/lingua/internal/interfaces"
)

// NewLLMService creates the LLM service implementation selected by
// llm.provider. The claude provider pairs Anthropic chat with Gemini
// embeddings; the offline provider needs no credentials.
func NewLLMService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	logger.Info().Str("provider", cfg.LLM.Provider).Msg("Initializing LLM service")

	switch cfg.LLM.Provider {
	case "gemini":
		return NewGeminiService(cfg, logger)

	case "claude":
		embedder, err := NewGeminiService(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding provider for claude: %w", err)
		}
		return NewClaudeService(cfg, embedder, logger)

	case "offline":
		return NewOfflineService(cfg.LLM.EmbedDimension, logger), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider '%s': must be 'gemini', 'claude', or 'offline'", cfg.LLM.Provider)
	}
}
