package actions

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"lawzo/lawzo/agents/configs"
	"lawzo/lawzo/utils/logging"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	longDocumentThreshold = 15000
	chunkSize             = 5000
	chunkOverlap          = 500
	chunkWorkers          = 3
)

var analysisHeaders = []string{"SUMMARY:", "KEY_POINTS:", "SUGGESTIONS:"}

type Analysis struct {
	Summary     string
	KeyPoints   []string
	Suggestions []string
}

// AnalyzeDocument produces a summary, key points and suggestions for a legal
// document. Documents longer than 15000 characters are condensed chunk by
// chunk before the analysis prompt runs.
func (a *LegalActions) AnalyzeDocument(ctx context.Context, text, documentType string) (*Analysis, error) {
	defer logging.LogDuration(ctx, "document_analysis")()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("document is empty")
	}
	if len([]rune(text)) > longDocumentThreshold {
		condensed, err := a.summarizeChunks(ctx, SplitChunks(text, chunkSize, chunkOverlap))
		if err != nil {
			return nil, err
		}
		text = condensed
	}

	docType := strings.ToLower(strings.TrimSpace(documentType))
	if docType == "" {
		docType = "other"
	}
	prompt := configs.Fill(a.cfg.Prompts.Analysis,
		"document_type", docType,
		"document_text", text,
		"focus", a.cfg.AnalysisFocus[docType],
	)
	out, err := a.model.Invoke(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("analyze document: %w", err)
	}
	result := ParseAnalysis(out)
	return &result, nil
}

func (a *LegalActions) summarizeChunks(ctx context.Context, chunks []string) (string, error) {
	summaries := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(chunkWorkers)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			out, err := a.model.Invoke(gctx, configs.Fill(a.cfg.Prompts.SummarizeChunk, "text", chunk))
			if err != nil {
				return fmt.Errorf("summarize chunk %d: %w", i, err)
			}
			summaries[i] = strings.TrimSpace(out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	logging.AppLogger.Info("long document condensed", zap.Int("chunks", len(chunks)))
	return strings.Join(summaries, "\n\n"), nil
}

// SplitChunks cuts text into pieces of at most size runes where consecutive
// pieces share overlap runes. Cuts prefer the last whitespace in the second
// half of a piece.
func SplitChunks(text string, size, overlap int) []string {
	r := []rune(text)
	if len(r) <= size {
		return []string{text}
	}
	if overlap >= size {
		overlap = 0
	}
	var chunks []string
	start := 0
	for start < len(r) {
		end := start + size
		if end >= len(r) {
			chunks = append(chunks, string(r[start:]))
			break
		}
		for i := end; i > start+size/2; i-- {
			if unicode.IsSpace(r[i-1]) {
				end = i
				break
			}
		}
		chunks = append(chunks, string(r[start:end]))
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// ParseAnalysis splits the model output into its SUMMARY, KEY_POINTS and
// SUGGESTIONS sections. Missing sections stay empty.
func ParseAnalysis(raw string) Analysis {
	res := Analysis{KeyPoints: []string{}, Suggestions: []string{}}
	if body, ok := section(raw, "SUMMARY:"); ok {
		res.Summary = strings.TrimSpace(body)
	}
	if body, ok := section(raw, "KEY_POINTS:"); ok {
		res.KeyPoints = listItems(body)
	}
	if body, ok := section(raw, "SUGGESTIONS:"); ok {
		res.Suggestions = listItems(body)
	}
	return res
}

func section(raw, header string) (string, bool) {
	idx := strings.Index(raw, header)
	if idx < 0 {
		return "", false
	}
	body := raw[idx+len(header):]
	end := len(body)
	for _, h := range analysisHeaders {
		if h == header {
			continue
		}
		if j := strings.Index(body, h); j >= 0 && j < end {
			end = j
		}
	}
	return body[:end], true
}

func listItems(body string) []string {
	out := []string{}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), "- ")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
