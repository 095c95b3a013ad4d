package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lawzo/lawzo/agents/configs"
	"lawzo/lawzo/utils/logging"
)

var ErrEmptyTranslation = errors.New("model returned an empty translation")

// Translate renders text in target. Equal languages are returned untouched
// without calling the model.
func (a *LegalActions) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(source), strings.TrimSpace(target)) {
		return text, nil
	}
	defer logging.LogDuration(ctx, "translate")()

	prompt := configs.Fill(a.cfg.Prompts.Translate, "source", source, "target", target, "text", text)
	out, err := a.model.Invoke(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", target, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}
