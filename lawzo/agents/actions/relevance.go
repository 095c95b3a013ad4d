package actions

import (
	"context"
	"fmt"
	"strings"

	"lawzo/lawzo/agents/configs"
	"lawzo/lawzo/utils/logging"

	"go.uber.org/zap"
)

// Relevance is the outcome of the category gate.
type Relevance struct {
	Relevant bool
	Message  string
}

func RejectionMessage(category string) string {
	return fmt.Sprintf("I'm sorry, but your question doesn't appear to be related to the '%s' category. "+
		"Please ask a question specifically about %s or select a different legal category.", category, category)
}

// CheckRelevance asks the model whether query belongs to category. Only a
// bare "YES" counts as relevant. A model error is returned to the caller and
// never treated as a pass.
func (a *LegalActions) CheckRelevance(ctx context.Context, query, category string) (Relevance, error) {
	defer logging.LogDuration(ctx, "relevance_gate")()

	prompt := configs.Fill(a.cfg.Prompts.Relevance, "category", category, "query", query)
	out, err := a.model.Invoke(ctx, prompt)
	if err != nil {
		return Relevance{}, fmt.Errorf("relevance check: %w", err)
	}
	if strings.EqualFold(strings.TrimSpace(out), "YES") {
		return Relevance{Relevant: true}, nil
	}
	logging.AppLogger.Info("query rejected by relevance gate",
		zap.String("category", category),
		zap.String("verdict", strings.TrimSpace(out)),
	)
	return Relevance{Relevant: false, Message: RejectionMessage(category)}, nil
}
