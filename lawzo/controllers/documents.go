package controllers

import (
	"context"
	"fmt"
	"strings"

	"lawzo/lawzo/agents/actions"
	"lawzo/lawzo/config"
	"lawzo/lawzo/utils/logging"
	"lawzo/lawzo/utils/types"

	"go.uber.org/zap"
)

const maxDocumentChars = 200000

var documentTypes = map[string]bool{
	"contract":  true,
	"will":      true,
	"lease":     true,
	"affidavit": true,
	"other":     true,
}

// DocumentStore keeps the original text of analysed documents.
type DocumentStore interface {
	PutDocument(ctx context.Context, userID, name, docType, text string) (string, error)
}

type DocumentController struct {
	actions *actions.LegalActions
	store   DocumentStore
	catalog *config.Catalog
}

func NewDocumentController(a *actions.LegalActions, store DocumentStore, catalog *config.Catalog) *DocumentController {
	return &DocumentController{actions: a, store: store, catalog: catalog}
}

func (c *DocumentController) Analyze(ctx context.Context, userID string, req types.DocumentAnalysisRequest) (*types.DocumentAnalysisResponse, error) {
	docType := strings.ToLower(strings.TrimSpace(req.DocumentType))
	if docType == "" {
		docType = "other"
	}
	if !documentTypes[docType] {
		return nil, fmt.Errorf("%w: unknown document type %q", ErrInvalidRequest, req.DocumentType)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: document content is empty", ErrInvalidRequest)
	}
	if len([]rune(req.Content)) > maxDocumentChars {
		return nil, fmt.Errorf("%w: document exceeds %d characters", ErrInvalidRequest, maxDocumentChars)
	}
	if req.Language != "" && !c.catalog.HasLanguage(req.Language) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLanguage, req.Language)
	}
	name := req.DocumentName
	if name == "" {
		name = "document.txt"
	}

	var key string
	if c.store != nil {
		k, err := c.store.PutDocument(ctx, userID, name, docType, req.Content)
		if err != nil {
			logging.ErrorLogger.Warn("failed to store document", zap.String("user_id", userID), zap.Error(err))
		} else {
			key = k
		}
	}

	res, err := c.actions.AnalyzeDocument(ctx, req.Content, docType)
	if err != nil {
		return nil, err
	}
	summary := res.Summary
	if req.Language != "" && !strings.EqualFold(req.Language, c.catalog.GenerationLanguage) && summary != "" {
		translated, err := c.actions.Translate(ctx, summary, c.catalog.GenerationLanguage, req.Language)
		if err != nil {
			logging.ErrorLogger.Warn("summary translation failed", zap.String("language", req.Language), zap.Error(err))
		} else {
			summary = translated
		}
	}
	return &types.DocumentAnalysisResponse{
		Summary:      summary,
		KeyPoints:    res.KeyPoints,
		Suggestions:  res.Suggestions,
		DocumentName: name,
		StorageKey:   key,
	}, nil
}
