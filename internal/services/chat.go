package services

import (
	"context"
	"strings"
	"sync"

	"niapath/guidance-api/internal/models"
)

// chatFallbackReply stands in for the assistant when a chat turn fails; the
// transcript itself carries the failure signal instead of a global error.
const chatFallbackReply = "Sorry, I encountered an error. Please try again."

// Chat holds one viewer session's transcript. Only one send can be in
// flight at a time, so transcript order is always request-issue order.
type Chat struct {
	functions FunctionClient

	mu         sync.Mutex
	busy       bool
	transcript []models.ChatMessage
}

func NewChat(functions FunctionClient) *Chat {
	return &Chat{functions: functions}
}

// Send appends the user message, forwards it with the recommendation
// context and the prior transcript to the chat function, and appends the
// reply. Blank input and sends while a request is in flight are no-ops.
// The busy flag clears on success and failure alike.
func (c *Chat) Send(ctx context.Context, auth FunctionAuth, recommendation *models.RecommendationResult, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return "", false
	}
	c.busy = true

	// The function receives the transcript as it stood before this message.
	history := make([]models.ChatMessage, len(c.transcript))
	copy(history, c.transcript)

	c.transcript = append(c.transcript, models.ChatMessage{
		Role:    models.RoleUser,
		Content: text,
	})
	c.mu.Unlock()

	reply, err := c.functions.Chat(ctx, auth, recommendation, history, text)
	if err != nil {
		reply = chatFallbackReply
	}

	c.mu.Lock()
	c.transcript = append(c.transcript, models.ChatMessage{
		Role:    models.RoleAssistant,
		Content: reply,
	})
	c.busy = false
	c.mu.Unlock()

	return reply, true
}

// Transcript returns a copy of the ordered transcript.
func (c *Chat) Transcript() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	transcript := make([]models.ChatMessage, len(c.transcript))
	copy(transcript, c.transcript)
	return transcript
}
