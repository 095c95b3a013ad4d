package types

type DocumentAnalysisRequest struct {
	DocumentName string `json:"document_name"`
	DocumentType string `json:"document_type"`
	Language     string `json:"language,omitempty"`
	Content      string `json:"content"`
}

type DocumentAnalysisResponse struct {
	Summary      string   `json:"summary"`
	KeyPoints    []string `json:"key_points"`
	Suggestions  []string `json:"suggestions"`
	DocumentName string   `json:"document_name"`
	StorageKey   string   `json:"storage_key,omitempty"`
}
