package ai

import (
	"context"

	"github.com/pkg/errors"
)

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrNotConfigured is returned by a ChatCompleter that has no API key.
var ErrNotConfigured = errors.New("GROQ_API_KEY not configured")

type Message struct {
	Role    string
	Content string
}

// ChatCompleter sends a conversation to a chat-completion model and returns the reply text.
type ChatCompleter interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
