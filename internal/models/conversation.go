package models

import "time"

// TurnRole identifies the author of a conversation turn.
type TurnRole string

const (
	TurnHuman     TurnRole = "human"
	TurnAssistant TurnRole = "assistant"
)

// Turn is a single message in a conversation, tagged by author.
type Turn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

// Conversation holds the ordered turn history for one indexed website.
// Turns are append-only: the first turn is always the assistant greeting,
// and every human turn is followed by exactly one assistant turn.
type Conversation struct {
	URL       string    `json:"url"`
	Turns     []Turn    `json:"turns"`
	StartedAt time.Time `json:"started_at"`
}

// NewConversation creates a conversation seeded with the localized greeting.
func NewConversation(url, greeting string) *Conversation {
	return &Conversation{
		URL:       url,
		Turns:     []Turn{{Role: TurnAssistant, Content: greeting}},
		StartedAt: time.Now(),
	}
}

// Append adds a human turn and its assistant reply, preserving strict
// human/assistant alternation.
func (c *Conversation) Append(question, answer string) {
	c.Turns = append(c.Turns,
		Turn{Role: TurnHuman, Content: question},
		Turn{Role: TurnAssistant, Content: answer},
	)
}
