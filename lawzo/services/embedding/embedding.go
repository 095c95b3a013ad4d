package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lawzo/lawzo/utils/logging"

	"github.com/sashabaranov/go-openai"
)

// Embedder turns text into a vector comparable with the stored passages.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

type Service struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewService creates an embedder against any OpenAI-compatible endpoint.
func NewService(apiKey, baseURL, model string, dimensions int) (*Service, error) {
	if model == "" {
		return nil, errors.New("embedding: model must not be empty")
	}
	cc := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cc.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Service{
		client:     openai.NewClientWithConfig(cc),
		model:      model,
		dimensions: dimensions,
	}, nil
}

func (s *Service) Dimensions() int {
	return s.dimensions
}

func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	defer logging.LogDuration(ctx, "embedding_service_embed")()

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(s.model),
		Dimensions: s.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("empty embedding result")
	}
	return resp.Data[0].Embedding, nil
}
