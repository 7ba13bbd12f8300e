package interfaces

import "context"

// Message represents a single message in a chat conversation.
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the interface for language model operations: chat
// completions and text embeddings. Implementations wrap hosted APIs
// (Gemini, Claude); errors propagate to the caller after the provider's
// own retry policy, never swallowed.
type LLMService interface {
	// Chat generates a completion for the conversation history. The messages
	// slice carries the full context in chronological order, including system
	// instructions, user messages, and prior assistant responses.
	Chat(ctx context.Context, messages []Message) (string, error)

	// Embed generates an embedding vector for the given text with the
	// provider's configured output dimensionality.
	Embed(ctx context.Context, text string) ([]float32, error)

	// HealthCheck verifies the provider is reachable and authenticated.
	HealthCheck(ctx context.Context) error

	// Provider returns the provider name ("gemini", "claude", "offline").
	Provider() string

	// Close releases client resources.
	Close() error
}
