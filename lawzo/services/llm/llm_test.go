package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lawzo/lawzo/config"
	httputils "lawzo/lawzo/utils/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaInvoke(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(ChatResponse{Message: Message{Role: "assistant", Content: "YES"}, Done: true})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "llama3:8b")
	out, err := c.Invoke(context.Background(), "is this criminal law?")
	require.NoError(t, err)
	assert.Equal(t, "YES", out)
	assert.Equal(t, "llama3:8b", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "is this criminal law?", got.Messages[0].Content)
}

func TestOllamaInvokeBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewOllamaClient(srv.URL, "m").Invoke(context.Background(), "hi")
	var statusErr *httputils.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestOpenAIClientInvoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3-70b-8192", body["model"])
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"llama3-70b-8192",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Theft is punishable."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient("groq", "secret", srv.URL, "llama3-70b-8192")
	require.NoError(t, err)
	out, err := c.Invoke(context.Background(), "What is the punishment for theft?")
	require.NoError(t, err)
	assert.Equal(t, "Theft is punishable.", out)
}

func TestOpenAIClientNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient("openai", "k", srv.URL, "m")
	require.NoError(t, err)
	_, err = c.Invoke(context.Background(), "hi")
	require.Error(t, err)
}

func TestNewOpenAIClientValidation(t *testing.T) {
	_, err := NewOpenAIClient("groq", "k", "", "")
	require.Error(t, err)
	_, err = NewOpenAIClient("mystery", "k", "", "m")
	require.Error(t, err)
	_, err = NewOpenAIClient("deepseek", "k", "", "deepseek-chat")
	require.NoError(t, err)
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(config.Config{LLMProvider: "ollama", LLMModel: "llama3:8b"})
	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, c)

	c, err = NewClient(config.Config{LLMProvider: "Groq", LLMModel: "m", LLMRequestsPerMinute: 30})
	require.NoError(t, err)
	assert.IsType(t, &Throttled{}, c)

	_, err = NewClient(config.Config{LLMProvider: "carrier-pigeon"})
	require.Error(t, err)
}

type countingClient struct{ calls int }

func (c *countingClient) Invoke(context.Context, string) (string, error) {
	c.calls++
	return "ok", nil
}

func TestThrottledHonoursContext(t *testing.T) {
	inner := &countingClient{}
	th := NewThrottled(inner, 1)

	_, err := th.Invoke(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = th.Invoke(ctx, "second")
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
