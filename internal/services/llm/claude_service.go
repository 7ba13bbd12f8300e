package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/common"
	"github.com/ternarybob/lingua/internal/interfaces"
	"golang.org/x/time/rate"
)

// ClaudeService implements the LLMService interface using the Anthropic API
// for chat completions. Anthropic does not expose an embeddings endpoint, so
// embeddings are delegated to a paired embedder (the Gemini service).
type ClaudeService struct {
	config   *common.LLMConfig
	logger   arbor.ILogger
	client   *anthropic.Client
	embedder interfaces.LLMService
	limiter  *rate.Limiter
	retry    *RetryConfig
	timeout  time.Duration
}

// Compile-time interface assertion
var _ interfaces.LLMService = (*ClaudeService)(nil)

// convertMessagesToClaude converts []interfaces.Message to Claude
// MessageParam format. System messages are extracted separately for the
// System parameter.
func convertMessagesToClaude(messages []interfaces.Message) ([]anthropic.MessageParam, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	hasUserMessage := false
	for _, msg := range messages {
		if msg.Role == "user" {
			hasUserMessage = true
			break
		}
	}
	if !hasUserMessage {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}

	claudeMessages := make([]anthropic.MessageParam, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			} else {
				systemText += "\n\n" + msg.Content
			}
			continue
		}

		switch msg.Role {
		case "assistant":
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		default:
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		}
	}

	return claudeMessages, systemText, nil
}

// NewClaudeService creates a new Claude LLM service instance. The embedder
// handles Embed calls and participates in health checks.
func NewClaudeService(config *common.Config, embedder interfaces.LLMService, logger arbor.ILogger) (*ClaudeService, error) {
	if config.LLM.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required for the Claude service (set LINGUA_ANTHROPIC_API_KEY or llm.anthropic_api_key in config)")
	}
	if embedder == nil {
		return nil, fmt.Errorf("an embedding provider is required when the claude provider is selected")
	}

	timeout, err := time.ParseDuration(config.LLM.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.LLM.Timeout, err)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.LLM.AnthropicAPIKey),
	)

	service := &ClaudeService{
		config:   &config.LLM,
		logger:   logger,
		client:   &client,
		embedder: embedder,
		limiter:  newCallLimiter(config.LLM.RatePerMinute),
		retry:    NewDefaultRetryConfig(),
		timeout:  timeout,
	}

	logger.Info().
		Str("model", config.LLM.ChatModelName).
		Dur("timeout", timeout).
		Int("max_tokens", config.LLM.MaxTokens).
		Msg("Claude LLM service initialized")

	return service, nil
}

// Chat generates a completion response based on the conversation history.
func (s *ClaudeService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty for chat completion")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter interrupted: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := withRetry(timeoutCtx, s.retry, s.logger, func() (string, error) {
		return s.generateCompletion(timeoutCtx, messages)
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("message_count", len(messages)).
			Msg("Chat completion failed")
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	return response, nil
}

// Embed delegates to the paired embedding provider.
func (s *ClaudeService) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.embedder.Embed(ctx, text)
}

// HealthCheck probes the chat model and the paired embedder.
func (s *ClaudeService) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("anthropic client is not initialized")
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	response, err := s.generateCompletion(probeCtx, []interfaces.Message{{Role: "user", Content: "ping"}})
	if err != nil {
		return fmt.Errorf("chat probe failed: %w", err)
	}
	if response == "" {
		return fmt.Errorf("chat probe returned empty response")
	}

	return s.embedder.HealthCheck(ctx)
}

// Provider returns the provider name.
func (s *ClaudeService) Provider() string {
	return "claude"
}

// Close releases client resources, including the paired embedder.
func (s *ClaudeService) Close() error {
	s.client = nil
	return s.embedder.Close()
}

func (s *ClaudeService) generateCompletion(ctx context.Context, messages []interfaces.Message) (string, error) {
	claudeMessages, systemText, err := convertMessagesToClaude(messages)
	if err != nil {
		return "", fmt.Errorf("failed to convert messages to Claude format: %w", err)
	}

	maxTokens := s.config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.ChatModelName),
		MaxTokens: int64(maxTokens),
		Messages:  claudeMessages,
	}
	if systemText != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemText}}
	}

	message, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var response string
	for _, block := range message.Content {
		if block.Type == "text" {
			response += block.Text
		}
	}

	if response == "" {
		return "", fmt.Errorf("no response generated from chat model")
	}

	return response, nil
}
