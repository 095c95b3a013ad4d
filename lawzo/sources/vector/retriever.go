package vector

import (
	"context"
	"fmt"

	"lawzo/lawzo/services/embedding"
	"lawzo/lawzo/sources/psql/models"
	"lawzo/lawzo/utils/logging"
)

const DefaultK = 4

// Passage is a retrieved chunk of reference text. Metadata["source"] names the
// document it came from.
type Passage struct {
	Text     string
	Metadata map[string]string
}

func (p Passage) Source() string {
	return p.Metadata["source"]
}

type Retriever interface {
	Search(ctx context.Context, query string) ([]Passage, error)
}

type nearestFinder interface {
	Nearest(ctx context.Context, embedding []float32, k int) ([]models.Passage, error)
}

// PGRetriever embeds the query and runs a nearest neighbour search over the
// passages table.
type PGRetriever struct {
	embedder embedding.Embedder
	passages nearestFinder
	k        int
}

func NewPGRetriever(embedder embedding.Embedder, passages nearestFinder, k int) *PGRetriever {
	if k <= 0 {
		k = DefaultK
	}
	return &PGRetriever{embedder: embedder, passages: passages, k: k}
}

func (r *PGRetriever) Search(ctx context.Context, query string) ([]Passage, error) {
	defer logging.LogDuration(ctx, "vector_search")()

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	rows, err := r.passages.Nearest(ctx, vec, r.k)
	if err != nil {
		return nil, fmt.Errorf("nearest passages: %w", err)
	}
	out := make([]Passage, 0, len(rows))
	for _, row := range rows {
		meta := map[string]string{}
		if row.Source != "" {
			meta["source"] = row.Source
		}
		if row.Category != "" {
			meta["category"] = row.Category
		}
		out = append(out, Passage{Text: row.Content, Metadata: meta})
	}
	return out, nil
}
