// Package actions implements the individual steps of a legal chat turn:
// relevance checking, retrieval augmented generation, humanizing, translation,
// follow-up suggestions and document analysis. Every step talks to the
// language model through llm.Client so tests can script it.
package actions

import (
	"lawzo/lawzo/agents/configs"
	"lawzo/lawzo/services/llm"
	"lawzo/lawzo/sources/vector"
)

// LegalActions bundles the model, retriever and assistant configuration
// shared by the pipeline steps.
type LegalActions struct {
	model      llm.Client
	retriever  vector.Retriever
	cfg        *configs.AssistantConfig
	classifier *Classifier
}

// NewLegalActions wires the steps to their dependencies.
//
// Parameters:
//   - model: the chat model used by every generative step.
//   - retriever: passage search used by Generate. May be nil for callers that
//     only analyse documents.
//   - cfg: prompts, canned replies and classifier keywords.
func NewLegalActions(model llm.Client, retriever vector.Retriever, cfg *configs.AssistantConfig) *LegalActions {
	return &LegalActions{
		model:      model,
		retriever:  retriever,
		cfg:        cfg,
		classifier: NewClassifier(cfg),
	}
}
