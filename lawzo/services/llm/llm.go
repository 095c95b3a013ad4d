// lawzo/services/llm/llm.go
package llm

import (
	"context"
	"fmt"
	"strings"

	"lawzo/lawzo/config"
	httputils "lawzo/lawzo/utils/http"
	"lawzo/lawzo/utils/logging"
)

// Client is a single request/response language model.
type Client interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

type ChatRequest struct {
	Model    string      `json:"model"`
	Messages []Message   `json:"messages"`
	Stream   bool        `json:"stream"`
	Options  interface{} `json:"options,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

type OllamaClient struct {
	baseURL string
	model   string
}

func NewOllamaClient(baseURL, model string) *OllamaClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaClient{baseURL: strings.TrimRight(baseURL, "/"), model: model}
}

func (c *OllamaClient) Run(ctx context.Context, req ChatRequest) (string, error) {
	defer logging.LogDuration(ctx, "ollama_service_run")()
	if req.Model == "" {
		req.Model = c.model
	}
	req.Stream = false
	var resp ChatResponse
	if err := httputils.PostJSON(ctx, c.baseURL+"/api/chat", req, &resp); err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

func (c *OllamaClient) Invoke(ctx context.Context, prompt string) (string, error) {
	return c.Run(ctx, ChatRequest{Messages: []Message{{Role: "user", Content: prompt}}})
}

// NewClient builds the model client named by cfg.LLMProvider, throttled to
// cfg.LLMRequestsPerMinute when that is positive.
func NewClient(cfg config.Config) (Client, error) {
	var client Client
	switch strings.ToLower(cfg.LLMProvider) {
	case "ollama":
		client = NewOllamaClient(cfg.LLMBaseURL, cfg.LLMModel)
	case "groq", "openai", "deepseek":
		c, err := NewOpenAIClient(cfg.LLMProvider, cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		client = c
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
	if cfg.LLMRequestsPerMinute > 0 {
		client = NewThrottled(client, cfg.LLMRequestsPerMinute)
	}
	return client, nil
}
