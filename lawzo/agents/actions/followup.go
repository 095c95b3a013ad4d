package actions

import (
	"context"
	"fmt"
	"strings"

	"lawzo/lawzo/agents/configs"
	"lawzo/lawzo/utils/logging"

	"go.uber.org/zap"
)

const (
	maxFollowUps         = 3
	maxFollowUpQueryLen  = 100
	maxFollowUpAnswerLen = 500
)

// ParseQuestions keeps the trimmed lines of raw that end in "?", at most
// three of them.
func ParseQuestions(raw string) []string {
	out := []string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasSuffix(line, "?") {
			continue
		}
		out = append(out, line)
		if len(out) == maxFollowUps {
			break
		}
	}
	return out
}

// Truncate cuts s to n runes and marks the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func SuggestFallback(category string) []string {
	return []string{
		fmt.Sprintf("Can you explain more about %s?", category),
		fmt.Sprintf("What are the common issues in %s law?", category),
		fmt.Sprintf("How can I learn more about %s?", category),
	}
}

func DefaultQuestions(category string) []string {
	return []string{
		fmt.Sprintf("What are the basics of %s?", category),
		fmt.Sprintf("What rights do I have under %s law?", category),
		fmt.Sprintf("What recent developments have occurred in %s law?", category),
	}
}

// DegradedQuestions are attached to the apology when a turn fails.
func DegradedQuestions(category string) []string {
	return []string{
		fmt.Sprintf("What is %s?", category),
		fmt.Sprintf("Can you explain the basics of %s?", category),
		fmt.Sprintf("What are important concepts in %s?", category),
	}
}

// Suggest proposes follow-up questions for an answered turn. It tries the
// full prompt, then a shorter one, then falls back to fixed questions, so it
// never fails.
func (a *LegalActions) Suggest(ctx context.Context, query, answer, category string) []string {
	defer logging.LogDuration(ctx, "followups_suggest")()

	prompt := configs.Fill(a.cfg.Prompts.FollowUps,
		"category", category,
		"query", Truncate(query, maxFollowUpQueryLen),
		"answer", Truncate(answer, maxFollowUpAnswerLen),
	)
	if qs := a.askQuestions(ctx, prompt, "primary"); len(qs) > 0 {
		return qs
	}
	short := configs.Fill(a.cfg.Prompts.FollowUpsShort, "category", category)
	if qs := a.askQuestions(ctx, short, "simplified"); len(qs) > 0 {
		return qs
	}
	return SuggestFallback(category)
}

// SuggestDefaults proposes starter questions for a category, used when a
// query is redirected by the relevance gate.
func (a *LegalActions) SuggestDefaults(ctx context.Context, category string) []string {
	defer logging.LogDuration(ctx, "followups_defaults")()

	prompt := configs.Fill(a.cfg.Prompts.Suggestions, "category", category)
	if qs := a.askQuestions(ctx, prompt, "defaults"); len(qs) > 0 {
		return qs
	}
	return DefaultQuestions(category)
}

func (a *LegalActions) askQuestions(ctx context.Context, prompt, attempt string) []string {
	out, err := a.model.Invoke(ctx, prompt)
	if err != nil {
		logging.ErrorLogger.Warn("follow-up generation failed", zap.String("attempt", attempt), zap.Error(err))
		return nil
	}
	return ParseQuestions(out)
}
