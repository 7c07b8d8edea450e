package model

// DocumentCategory identifies what kind of artifact an extraction task is
// built for. Distinct from Category: this classifies the evidence, not the
// complaint.
type DocumentCategory string

const (
	DocFinanceAgreement DocumentCategory = "finance-agreement"
	DocBankStatement    DocumentCategory = "bank-statement"
	DocCorrespondence   DocumentCategory = "correspondence"
	DocGeneric          DocumentCategory = "generic"
	DocNarrative        DocumentCategory = "narrative"
)

// ExtractionTask pairs the prompt and response schema used to analyse one
// artifact. Chosen once per artifact and never mutated.
type ExtractionTask struct {
	Category DocumentCategory
	Prompt   string
	// Schema is the JSON schema the extraction response must satisfy.
	Schema map[string]any
}

// SourceKind distinguishes document analyses from the narrative analysis.
type SourceKind string

const (
	SourceDocument  SourceKind = "document"
	SourceNarrative SourceKind = "narrative"
)

// AnalysisStatus is the terminal per-artifact state.
type AnalysisStatus string

const (
	AnalysisDone  AnalysisStatus = "done"
	AnalysisError AnalysisStatus = "error"
)

// RawAnalysisResult is the immutable output of analysing one artifact or
// the narrative. Confidence is self-reported by the extraction step and
// advisory only.
type RawAnalysisResult struct {
	SourceID          string         `json:"source_id"`
	SourceKind        SourceKind     `json:"source_kind"`
	DocumentTypeGuess string         `json:"document_type_guess,omitempty"`
	Fields            map[string]any `json:"fields,omitempty"`
	IssuesFound       []string       `json:"issues_found,omitempty"`
	// MissingInformation and FollowUpQuestions are only populated by the
	// narrative analysis.
	MissingInformation []string           `json:"missing_information,omitempty"`
	FollowUpQuestions  []FollowUpQuestion `json:"follow_up_questions,omitempty"`
	Confidence         int                `json:"confidence"`
	Status             AnalysisStatus     `json:"status"`
	Error              string             `json:"error,omitempty"`
	Usage              TokenUsage         `json:"usage,omitempty"`
}

// TokenUsage mirrors the client-level usage counters so results can carry
// cost attribution without importing the client package.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}
