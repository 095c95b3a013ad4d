package core

import (
	"context"
	"time"

	"lawzo/lawzo/agents/actions"
	"lawzo/lawzo/agents/memory"
	"lawzo/lawzo/config"
	"lawzo/lawzo/services/ratelimit"
	"lawzo/lawzo/sources/psql/models"
)

// ConversationStore is the persistence the pipeline needs.
// *dao.ConversationDAO satisfies it.
type ConversationStore interface {
	GetBySession(ctx context.Context, sessionID string) (*models.Conversation, error)
	EnsureConversation(ctx context.Context, sessionID, userID, category, title string) (*models.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
	AddMessage(ctx context.Context, conversationID, role, content string) (*models.Message, error)
}

// Components is the process wide registry built once at startup and shared
// by every transport.
type Components struct {
	Actions       *actions.LegalActions
	Memory        *memory.Store
	Conversations ConversationStore
	Limiter       *ratelimit.Limiter
	Catalog       *config.Catalog

	EnableTranslation bool
	Timeout           time.Duration
}
