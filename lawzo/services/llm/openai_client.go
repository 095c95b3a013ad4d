// lawzo/services/llm/openai_client.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lawzo/lawzo/utils/logging"

	"github.com/sashabaranov/go-openai"
)

var providerBaseURLs = map[string]string{
	"groq":     "https://api.groq.com/openai/v1",
	"openai":   "https://api.openai.com/v1",
	"deepseek": "https://api.deepseek.com",
}

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint
// (Groq, OpenAI, DeepSeek).
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAIClient(provider, apiKey, baseURL, model string) (*OpenAIClient, error) {
	if model == "" {
		return nil, errors.New("llm: model must not be empty")
	}
	if baseURL == "" {
		baseURL = providerBaseURLs[strings.ToLower(provider)]
	}
	if baseURL == "" {
		return nil, fmt.Errorf("llm: no base URL for provider %q", provider)
	}
	cc := openai.DefaultConfig(apiKey)
	cc.BaseURL = strings.TrimRight(baseURL, "/")
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cc),
		model:       model,
		temperature: 0.2,
	}, nil
}

// Run executes a single non-streaming chat completion.
func (c *OpenAIClient) Run(ctx context.Context, req ChatRequest) (string, error) {
	defer logging.LogDuration(ctx, "openai_service_run")()

	model := req.Model
	if model == "" {
		model = c.model
	}
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    msgs,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Invoke(ctx context.Context, prompt string) (string, error) {
	return c.Run(ctx, ChatRequest{
		Messages: []Message{{Role: openai.ChatMessageRoleUser, Content: prompt}},
	})
}
