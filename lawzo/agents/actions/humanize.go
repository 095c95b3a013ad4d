package actions

import (
	"context"
	"strings"

	"lawzo/lawzo/agents/configs"
	"lawzo/lawzo/utils/logging"
	"lawzo/lawzo/utils/types"

	"go.uber.org/zap"
)

// Humanize reshapes the drafted answer for the message type. Acknowledgment
// and help get canned text without a model call. Any model failure returns
// draft unchanged.
func (a *LegalActions) Humanize(ctx context.Context, draft, query string, mt types.MessageType) string {
	defer logging.LogDuration(ctx, "humanize")()

	var prompt string
	switch mt {
	case types.MessageAcknowledgment:
		return a.cfg.AcknowledgmentResponse
	case types.MessageHelp:
		return a.cfg.HelpResponse
	case types.MessageGreeting:
		prompt = configs.Fill(a.cfg.Prompts.Greeting, "query", query, "draft", draft)
	default:
		prompt = configs.Fill(a.cfg.Prompts.Rewrite, "draft", draft)
	}

	out, err := a.model.Invoke(ctx, prompt)
	if err != nil {
		logging.ErrorLogger.Warn("humanize failed, keeping draft", zap.String("message_type", string(mt)), zap.Error(err))
		return draft
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return draft
	}
	return out
}
