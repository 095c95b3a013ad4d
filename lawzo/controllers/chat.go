// lawzo/controllers/chat.go
package controllers

import (
	"context"
	"fmt"
	"strings"

	"lawzo/lawzo/agents/core"
	"lawzo/lawzo/config"
	"lawzo/lawzo/sources/psql/dao"
	"lawzo/lawzo/sources/psql/models"
	"lawzo/lawzo/utils/types"

	"github.com/google/uuid"
)

type ChatMode int

const (
	// ModeGeneral answers without the relevance gate.
	ModeGeneral ChatMode = iota
	// ModeCategory enforces the category from the path.
	ModeCategory
	// ModePublic is ModeCategory with optional identity and an IP keyed limit.
	ModePublic
)

type ChatInput struct {
	Mode         ChatMode
	UserID       string
	ClientIP     string
	PathCategory string
	Request      types.ChatRequest
	Observer     core.StageObserver
}

type ChatController struct {
	pipeline    *core.Pipeline
	convDAO     *dao.ConversationDAO
	catalog     *config.Catalog
	userLimit   int
	publicLimit int
}

func NewChatController(pipeline *core.Pipeline, convDAO *dao.ConversationDAO, catalog *config.Catalog, cfg config.Config) *ChatController {
	return &ChatController{
		pipeline:    pipeline,
		convDAO:     convDAO,
		catalog:     catalog,
		userLimit:   cfg.RateLimitPerMinute,
		publicLimit: cfg.PublicRateLimitPerMinute,
	}
}

func (c *ChatController) Chat(ctx context.Context, in ChatInput) (*types.ChatResponse, error) {
	req := in.Request
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrInvalidRequest)
	}
	if req.Language != "" && !c.catalog.HasLanguage(req.Language) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLanguage, req.Language)
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	preq := core.Request{
		Query:     req.Query,
		Language:  req.Language,
		SessionID: req.SessionID,
		UserID:    in.UserID,
		Identity:  in.UserID,
		RateLimit: c.userLimit,
		Persist:   true,
		History:   req.Messages,
		Observer:  in.Observer,
	}

	switch in.Mode {
	case ModeGeneral:
		category := req.Category
		if canonical, ok := c.catalog.Canonical(category); ok {
			category = canonical
		}
		if strings.TrimSpace(category) == "" {
			return nil, fmt.Errorf("%w: category must not be empty", ErrInvalidCategory)
		}
		preq.Category = category
	case ModeCategory:
		if !c.catalog.HasCategory(in.PathCategory) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, in.PathCategory)
		}
		preq.Category = in.PathCategory
		preq.Strict = true
	case ModePublic:
		category, ok := c.catalog.Canonical(in.PathCategory)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, in.PathCategory)
		}
		preq.Category = category
		preq.Strict = true
		preq.Identity = "ip:" + in.ClientIP
		preq.RateLimit = c.publicLimit
		if in.UserID == "" {
			preq.Persist = false
			preq.ResponseID = "public-" + uuid.New().String()
		}
	}

	return c.pipeline.Handle(ctx, preq)
}

func (c *ChatController) CreateSession(userID string) types.SessionResponse {
	if userID == "" {
		userID = "anonymous"
	}
	return types.SessionResponse{SessionID: uuid.New().String(), UserID: userID}
}

func (c *ChatController) ListConversations(ctx context.Context, userID string, skip, limit int) (*types.ConversationListResponse, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	convs, total, err := c.convDAO.ListByUser(ctx, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	out := &types.ConversationListResponse{Conversations: make([]types.ConversationResponse, 0, len(convs)), Total: total}
	for _, conv := range convs {
		out.Conversations = append(out.Conversations, toConversationResponse(conv))
	}
	return out, nil
}

func (c *ChatController) GetConversation(ctx context.Context, userID, id string) (*types.ConversationDetailResponse, error) {
	conv, err := c.convDAO.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrNotFound
	}
	msgs, err := c.convDAO.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	out := &types.ConversationDetailResponse{
		ConversationResponse: toConversationResponse(*conv),
		Messages:             make([]types.MessageResponse, 0, len(msgs)),
	}
	for _, m := range msgs {
		out.Messages = append(out.Messages, types.MessageResponse{ID: m.ID, Role: m.Role, Content: m.Content, Timestamp: m.Timestamp})
	}
	return out, nil
}

func (c *ChatController) DeleteConversation(ctx context.Context, userID, id string) error {
	ok, err := c.convDAO.DeleteConversation(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func toConversationResponse(conv models.Conversation) types.ConversationResponse {
	return types.ConversationResponse{
		ID:        conv.ID,
		SessionID: conv.SessionID,
		Title:     conv.Title,
		Category:  conv.Category,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
}
