package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lawzo/lawzo/agents/actions"
	"lawzo/lawzo/agents/memory"
	"lawzo/lawzo/sources/psql/models"
	"lawzo/lawzo/utils/logging"
	"lawzo/lawzo/utils/types"

	"go.uber.org/zap"
)

const DefaultTimeout = 2 * time.Minute

// StageObserver is told when each stage starts.
type StageObserver func(stage Stage)

type Request struct {
	Query     string
	Category  string
	Language  string
	SessionID string
	UserID    string

	// Identity keys the rate limiter; RateLimit is requests per minute.
	Identity  string
	RateLimit int

	// Strict runs the relevance gate before generation.
	Strict bool
	// Persist stores the turn in the conversation store.
	Persist bool
	// ResponseID overrides the conversation id reported to the client.
	ResponseID string

	// History replaces the session window when present.
	History []types.HistoryMessage

	Observer StageObserver
}

type Pipeline struct {
	c *Components
}

func NewPipeline(c *Components) *Pipeline {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return &Pipeline{c: c}
}

func (p *Pipeline) Components() *Components {
	return p.c
}

// Handle runs one chat turn. Errors are only returned for a denied rate
// check or a store failure while syncing memory; every later failure turns
// into a degraded response with message type "error".
func (p *Pipeline) Handle(ctx context.Context, req Request) (*types.ChatResponse, error) {
	// the turn finishes even if the client goes away
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.c.Timeout)
	defer cancel()
	defer logging.LogDuration(ctx, "pipeline_handle")()

	if strings.TrimSpace(req.Query) == "" || req.SessionID == "" || req.Category == "" {
		return nil, newError(CodeInvalidRequest, StageRateCheck, errors.New("query, session id and category are required"))
	}
	if req.Language == "" {
		req.Language = p.generationLanguage()
	}
	t := &turn{p: p, req: req}

	t.enter(StageRateCheck)
	if !p.c.Limiter.Allow(ctx, req.Identity, req.RateLimit) {
		return nil, newError(CodeRateLimited, StageRateCheck, fmt.Errorf("identity %s over %d requests per minute", req.Identity, req.RateLimit))
	}

	t.enter(StageMemorySync)
	window, release := p.c.Memory.Acquire(windowKey(req))
	defer release()
	t.window = window
	if err := t.syncMemory(ctx); err != nil {
		return nil, err
	}

	return t.respond(ctx), nil
}

// windowKey keeps turns that are not persisted, and so skip the ownership
// check, out of the windows of persisted sessions.
func windowKey(req Request) string {
	if req.Persist {
		return req.SessionID
	}
	return "anon:" + req.Identity + ":" + req.SessionID
}

func (p *Pipeline) generationLanguage() string {
	if p.c.Catalog != nil && p.c.Catalog.GenerationLanguage != "" {
		return p.c.Catalog.GenerationLanguage
	}
	return "English"
}

// turn carries the state of one request through the stages.
type turn struct {
	p      *Pipeline
	req    Request
	window *memory.Window
	conv   *models.Conversation
	stage  Stage
}

func (t *turn) enter(s Stage) {
	t.stage = s
	if t.req.Observer != nil {
		t.req.Observer(s)
	}
}

func (t *turn) log() *zap.Logger {
	return logging.AppLogger.With(
		zap.String("session_id", t.req.SessionID),
		zap.String("category", t.req.Category),
		zap.String("stage", string(t.stage)),
	)
}

func (t *turn) syncMemory(ctx context.Context) error {
	store := t.p.c.Conversations
	if t.req.Persist && store != nil {
		conv, err := store.GetBySession(ctx, t.req.SessionID)
		if err != nil {
			return newError(CodeStoreUnavailable, StageMemorySync, err)
		}
		if conv != nil && conv.UserID != t.req.UserID {
			return newError(CodeForbidden, StageMemorySync, fmt.Errorf("session %s belongs to another user", t.req.SessionID))
		}
		if conv != nil && t.window.Len() == 0 && len(t.req.History) == 0 {
			msgs, err := store.ListMessages(ctx, conv.ID)
			if err != nil {
				return newError(CodeStoreUnavailable, StageMemorySync, err)
			}
			t.window.Rehydrate(toMemory(msgs))
			t.log().Info("window rehydrated", zap.Int("messages", t.window.Len()))
		}
		if conv == nil {
			conv, err = store.EnsureConversation(ctx, t.req.SessionID, t.req.UserID, t.req.Category, "")
			if err != nil {
				return newError(CodeStoreUnavailable, StageMemorySync, err)
			}
		}
		if _, err := store.AddMessage(ctx, conv.ID, models.RoleUser, t.req.Query); err != nil {
			return newError(CodeStoreUnavailable, StageMemorySync, err)
		}
		t.conv = conv
	}
	if len(t.req.History) > 0 {
		t.window.Rehydrate(fromHistory(t.req.History))
	}
	return nil
}

// respond runs the generative stages. It always produces a response.
func (t *turn) respond(ctx context.Context) (resp *types.ChatResponse) {
	defer func() {
		if r := recover(); r != nil {
			t.log().Error("pipeline panic", zap.Any("panic", r))
			logging.ErrorLogger.Error("pipeline panic", zap.String("stage", string(t.stage)), zap.Any("panic", r))
			resp = t.degraded(ctx, fmt.Errorf("panic: %v", r))
		}
	}()

	a := t.p.c.Actions
	req := t.req

	if req.Strict {
		t.enter(StageRelevanceGate)
		rel, err := a.CheckRelevance(ctx, req.Query, req.Category)
		if err != nil {
			return t.degraded(ctx, err)
		}
		if !rel.Relevant {
			t.enter(StageFollowUps)
			suggestions := a.SuggestDefaults(ctx, req.Category)
			t.enter(StageRespond)
			return &types.ChatResponse{
				Answer:             rel.Message,
				Sources:            []string{},
				ConversationID:     t.conversationID(),
				Timestamp:          time.Now().UTC(),
				SuggestedQuestions: suggestions,
				MessageType:        types.MessageSuggestion,
			}
		}
	}

	t.enter(StageGenerate)
	gen, err := a.Generate(ctx, req.Query, req.Category, t.window)
	if err != nil {
		return t.degraded(ctx, err)
	}

	t.enter(StageHumanize)
	mt := a.ClassifyMessage(req.Query)
	english := a.Humanize(ctx, gen.Answer, req.Query, mt)

	final := english
	if t.shouldTranslate() {
		t.enter(StageTranslate)
		translated, err := a.Translate(ctx, english, t.p.generationLanguage(), req.Language)
		if err != nil {
			t.log().Warn("translation failed, answering untranslated", zap.String("language", req.Language), zap.Error(err))
		} else {
			final = translated
		}
	}

	t.enter(StageFollowUps)
	followUps := a.Suggest(ctx, req.Query, final, req.Category)

	t.enter(StagePersist)
	t.window.AppendUser(req.Query)
	t.window.AppendAssistant(english)
	t.persistAssistant(ctx, final)

	t.enter(StageRespond)
	return &types.ChatResponse{
		Answer:             final,
		Sources:            gen.Sources,
		ConversationID:     t.conversationID(),
		Timestamp:          time.Now().UTC(),
		SuggestedQuestions: followUps,
		MessageType:        mt,
	}
}

func (t *turn) shouldTranslate() bool {
	return t.p.c.EnableTranslation && !strings.EqualFold(t.req.Language, t.p.generationLanguage())
}

// conversationID is the id reported to the client: the override, then the
// stored conversation, then the session.
func (t *turn) conversationID() string {
	switch {
	case t.req.ResponseID != "":
		return t.req.ResponseID
	case t.conv != nil:
		return t.conv.ID
	case t.req.SessionID != "":
		return t.req.SessionID
	}
	return actions.UnknownConversationID
}

// degraded builds the apology returned when a generative stage fails.
func (t *turn) degraded(ctx context.Context, cause error) *types.ChatResponse {
	failed := t.stage
	t.log().Error("pipeline degraded", zap.Error(cause))
	logging.ErrorLogger.Error("pipeline degraded",
		zap.String("session_id", t.req.SessionID),
		zap.String("stage", string(failed)),
		zap.Error(newError(CodeUpstream, failed, cause)),
	)

	answer := fmt.Sprintf("I'm sorry, I encountered an error while processing your question. "+
		"Please try again or ask a different question about %s.", t.req.Category)
	t.persistAssistant(ctx, answer)

	return &types.ChatResponse{
		Answer:             answer,
		Sources:            []string{},
		ConversationID:     t.conversationID(),
		Timestamp:          time.Now().UTC(),
		SuggestedQuestions: actions.DegradedQuestions(t.req.Category),
		MessageType:        types.MessageError,
	}
}

func (t *turn) persistAssistant(ctx context.Context, content string) {
	if t.conv == nil {
		return
	}
	if _, err := t.p.c.Conversations.AddMessage(ctx, t.conv.ID, models.RoleAssistant, content); err != nil {
		logging.ErrorLogger.Warn("failed to persist assistant message",
			zap.String("conversation_id", t.conv.ID), zap.Error(err))
	}
}

func toMemory(msgs []models.Message) []memory.Message {
	out := make([]memory.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, memory.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func fromHistory(msgs []types.HistoryMessage) []memory.Message {
	out := make([]memory.Message, 0, len(msgs))
	for _, m := range msgs {
		role := memory.RoleUser
		if m.Role == memory.RoleAssistant || m.Role == "ai" {
			role = memory.RoleAssistant
		}
		out = append(out, memory.Message{Role: role, Content: m.Content})
	}
	return out
}
