package domain

import (
	"time"
)

// DocumentType identifies a generatable legal document. The set is closed;
// prompt and template dispatch switch exhaustively over it.
type DocumentType string

const (
	DocumentTypeTermsOfService    DocumentType = "terms_of_service"
	DocumentTypePrivacyPolicy     DocumentType = "privacy_policy"
	DocumentTypeAIUsagePolicy     DocumentType = "ai_usage_policy"
	DocumentTypeDisclaimer        DocumentType = "disclaimer"
	DocumentTypeDataHandlingRules DocumentType = "data_handling_rules"
)

// AllDocumentTypes lists every generatable document type.
func AllDocumentTypes() []DocumentType {
	return []DocumentType{
		DocumentTypeTermsOfService,
		DocumentTypePrivacyPolicy,
		DocumentTypeAIUsagePolicy,
		DocumentTypeDisclaimer,
		DocumentTypeDataHandlingRules,
	}
}

// ParseDocumentType validates a wire value against the closed enum.
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(s)
	switch t {
	case DocumentTypeTermsOfService, DocumentTypePrivacyPolicy,
		DocumentTypeAIUsagePolicy, DocumentTypeDisclaimer,
		DocumentTypeDataHandlingRules:
		return t, nil
	}
	return "", ErrInvalidDocumentType
}

// DisplayTitle returns the human-facing (Japanese) title for a document type.
func (t DocumentType) DisplayTitle() string {
	switch t {
	case DocumentTypeTermsOfService:
		return "利用規約"
	case DocumentTypePrivacyPolicy:
		return "プライバシーポリシー"
	case DocumentTypeAIUsagePolicy:
		return "AI利用ポリシー"
	case DocumentTypeDisclaimer:
		return "免責事項"
	case DocumentTypeDataHandlingRules:
		return "データ取扱規程"
	}
	return string(t)
}

// GeneratedDocument is one generated legal document. Not persisted.
type GeneratedDocument struct {
	Type        DocumentType `json:"type"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// GeneratorInput describes a document generation request. Diagnosis,
// DiagnosisInput and ChatHistory are optional enrichment.
type GeneratorInput struct {
	DocumentTypes     []DocumentType   `json:"documentTypes"`
	CompanyName       string           `json:"companyName"`
	ContactEmail      string           `json:"contactEmail"`
	GoverningLaw      string           `json:"governingLaw"`
	AdditionalClauses []string         `json:"additionalClauses"`
	Diagnosis         *DiagnosisResult `json:"diagnosis,omitempty"`
	DiagnosisInput    *DiagnosisInput  `json:"diagnosisInput,omitempty"`
	ChatHistory       []ChatMessage    `json:"chatHistory,omitempty"`
}

// Validate checks the minimum fields required to generate documents.
func (in *GeneratorInput) Validate() error {
	if len(in.DocumentTypes) == 0 {
		return ErrNoDocumentTypes
	}
	for _, t := range in.DocumentTypes {
		if _, err := ParseDocumentType(string(t)); err != nil {
			return err
		}
	}
	return nil
}

// ProgressEventType tags a document generation progress event.
type ProgressEventType string

const (
	ProgressEventStart    ProgressEventType = "start"
	ProgressEventProgress ProgressEventType = "progress"
	ProgressEventComplete ProgressEventType = "complete"
	ProgressEventError    ProgressEventType = "error"
	ProgressEventDone     ProgressEventType = "done"
)

// ProgressEvent is one frame of the streaming generation endpoint.
type ProgressEvent struct {
	Type                 ProgressEventType  `json:"type"`
	DocumentType         DocumentType       `json:"documentType,omitempty"`
	Title                string             `json:"title,omitempty"`
	Completed            int                `json:"completed"`
	Total                int                `json:"total"`
	EstimatedRemainingMS int64              `json:"estimatedRemainingMs,omitempty"`
	Document             *GeneratedDocument `json:"document,omitempty"`
	Error                string             `json:"error,omitempty"`
}

// Document is an uploaded (or seeded default) source document stored in the
// graph. Default documents are organization-wide and cannot be deleted via
// the member API.
type Document struct {
	Title        string    `json:"title"`
	FileName     string    `json:"fileName"`
	Source       string    `json:"source"`
	PageCount    int       `json:"pageCount"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadedAt"`
	Organization string    `json:"organization,omitempty"`
	IsDefault    bool      `json:"isDefault"`
	ChunkCount   int       `json:"chunkCount,omitempty"`
	DownloadURL  string    `json:"downloadUrl,omitempty"`
}

// Chunk is a bounded slice of a document's extracted text, immutable after
// creation and deleted together with its parent document.
type Chunk struct {
	Content        string    `json:"content"`
	PageNumber     int       `json:"pageNumber"`
	ChunkIndex     int       `json:"chunkIndex"`
	CreatedAt      time.Time `json:"createdAt"`
	RelevanceScore float64   `json:"relevanceScore,omitempty"`
}

// Entity is a recognized legal term mentioned by chunks, merged on name.
type Entity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// WebSource records the provenance of web-search-derived chunks.
type WebSource struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Query     string    `json:"query"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// LegalUpdate flags a web source that looks like a change in law or guidance.
type LegalUpdate struct {
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Importance string    `json:"importance"`
	DetectedAt time.Time `json:"detectedAt"`
}

// SearchResult is one ranked (source, chunk) pair from graph retrieval.
type SearchResult struct {
	Title      string  `json:"title"`
	Source     string  `json:"source"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
	PageNumber int     `json:"pageNumber,omitempty"`
	IsDefault  bool    `json:"isDefault,omitempty"`
}
