package actions

import (
	"regexp"
	"strings"

	"lawzo/lawzo/agents/configs"
	"lawzo/lawzo/utils/types"
)

// Classifier sorts a user message into greeting, acknowledgment, help or
// answer by keyword. Keywords match whole words only, so "hi" does not fire
// on "which".
type Classifier struct {
	greeting       []*regexp.Regexp
	acknowledgment []*regexp.Regexp
	help           []*regexp.Regexp
}

func NewClassifier(cfg *configs.AssistantConfig) *Classifier {
	return &Classifier{
		greeting:       compileKeywords(cfg.GreetingKeywords),
		acknowledgment: compileKeywords(cfg.AcknowledgmentKeywords),
		help:           compileKeywords(cfg.HelpKeywords),
	}
}

func compileKeywords(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		parts := strings.Fields(w)
		if len(parts) == 0 {
			continue
		}
		for i := range parts {
			parts[i] = regexp.QuoteMeta(parts[i])
		}
		out = append(out, regexp.MustCompile(`(?i)\b`+strings.Join(parts, `\s+`)+`\b`))
	}
	return out
}

func matchAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Classify checks greeting first, then acknowledgment, then help.
func (c *Classifier) Classify(query string) types.MessageType {
	switch {
	case matchAny(c.greeting, query):
		return types.MessageGreeting
	case matchAny(c.acknowledgment, query):
		return types.MessageAcknowledgment
	case matchAny(c.help, query):
		return types.MessageHelp
	default:
		return types.MessageAnswer
	}
}

func (a *LegalActions) ClassifyMessage(query string) types.MessageType {
	return a.classifier.Classify(query)
}
