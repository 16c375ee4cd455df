package domain

import "time"

// ChatRole is the speaker of a ChatMessage.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

// ChatMessage is one turn of the visitor's conversation.
type ChatMessage struct {
	ID      string   `json:"id,omitempty"`
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ValidateConversation checks a transcript sent by the browser. Only visitor and
// assistant turns are accepted; the system turn is always built server-side.
func ValidateConversation(messages []ChatMessage) error {
	if len(messages) == 0 {
		return ErrEmptyConversation
	}
	for _, m := range messages {
		if m.Role != ChatRoleUser && m.Role != ChatRoleAssistant {
			return ErrInvalidMessageRole
		}
	}
	return nil
}

// LastUserUtterance returns the content of the final message of the transcript,
// which is what the browser just sent.
func LastUserUtterance(messages []ChatMessage) (string, bool) {
	if len(messages) == 0 {
		return "", false
	}
	return messages[len(messages)-1].Content, true
}

// AssistantSession binds a visitor session to a hosted assistant and its thread.
type AssistantSession struct {
	ID          string
	AssistantID string
	ThreadID    string
	CreatedAt   time.Time
}
