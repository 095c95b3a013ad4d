package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lawzo/lawzo/agents/configs"
	"lawzo/lawzo/agents/memory"
	"lawzo/lawzo/sources/vector"
	"lawzo/lawzo/utils/logging"

	"go.uber.org/zap"
)

// UnknownConversationID is reported when no session is attached to the turn.
const UnknownConversationID = "unknown"

var ErrEmptyAnswer = errors.New("model returned an empty answer")

type Generation struct {
	Answer         string
	Sources        []string
	ConversationID string
}

func AnnotateQuery(category, query string) string {
	return fmt.Sprintf("[Category: %s] %s", category, query)
}

// Generate answers query from the retrieved passages and the session window.
// The window is read, never written.
func (a *LegalActions) Generate(ctx context.Context, query, category string, window *memory.Window) (*Generation, error) {
	defer logging.LogDuration(ctx, "rag_generate")()

	if a.retriever == nil {
		return nil, errors.New("no retriever configured")
	}
	annotated := AnnotateQuery(category, query)
	passages, err := a.retriever.Search(ctx, annotated)
	if err != nil {
		return nil, fmt.Errorf("retrieve passages: %w", err)
	}

	var history []memory.Message
	convID := UnknownConversationID
	if window != nil {
		history = window.Messages()
		if id := window.SessionID(); id != "" {
			convID = id
		}
	}

	prompt := configs.Fill(a.cfg.Prompts.RAG,
		"assistant_name", a.cfg.AssistantName,
		"assistant_role", a.cfg.AssistantRole,
		"context", formatPassages(passages),
		"history", formatHistory(history),
		"query", annotated,
	)
	answer, err := a.model.Invoke(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	sources := DistinctSources(passages)
	logging.AppLogger.Info("answer generated",
		zap.String("conversation_id", convID),
		zap.Int("passages", len(passages)),
		zap.Strings("sources", sources),
	)
	return &Generation{Answer: answer, Sources: sources, ConversationID: convID}, nil
}

// DistinctSources lists passage sources in first-seen order. Passages
// without a source are skipped.
func DistinctSources(passages []vector.Passage) []string {
	seen := make(map[string]bool, len(passages))
	out := []string{}
	for _, p := range passages {
		src := p.Source()
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		out = append(out, src)
	}
	return out
}

func formatPassages(passages []vector.Passage) string {
	if len(passages) == 0 {
		return "(no reference passages found)"
	}
	var b strings.Builder
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d]", i+1)
		if src := p.Source(); src != "" {
			fmt.Fprintf(&b, " (%s)", src)
		}
		b.WriteString(" ")
		b.WriteString(strings.TrimSpace(p.Text))
	}
	return b.String()
}

func formatHistory(msgs []memory.Message) string {
	if len(msgs) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		speaker := "User"
		if m.Role == memory.RoleAssistant {
			speaker = "Assistant"
		}
		b.WriteString(speaker + ": " + m.Content)
	}
	return b.String()
}
