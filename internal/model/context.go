package model

// PrecedentSummary is one prior successful-outcome case relevant to a
// category.
type PrecedentSummary struct {
	Summary             string   `json:"summary"`
	SuccessfulArguments []string `json:"successful_arguments"`
	LegalReferences     []string `json:"legal_references"`
}

// PrecedentContext is the read-only snapshot fetched once per finalized
// profile. An empty Summaries slice is a valid, expected result.
type PrecedentContext struct {
	Category  Category           `json:"category"`
	Summaries []PrecedentSummary `json:"summaries"`
}

// Empty reports whether no precedent was found.
func (pc PrecedentContext) Empty() bool {
	return len(pc.Summaries) == 0
}

// LetterContext is the complete generation context handed to the letter
// composition capability, plus the evidence checklist shown to the user.
type LetterContext struct {
	Category          Category `json:"category"`
	LegalArgument     string   `json:"legal_argument"`
	FactsRendered     string   `json:"facts_rendered"`
	PrecedentRendered string   `json:"precedent_rendered,omitempty"`
	KeyIssues         []string `json:"key_issues"`
	EvidenceChecklist []string `json:"evidence_checklist"`
}

// FactPair is one rendered extracted fact.
type FactPair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// IntakeResult is the observable output contract of the pipeline handed
// back to the session layer.
type IntakeResult struct {
	Category           Category           `json:"category"`
	CategoryLabel      string             `json:"category_label"`
	Confidence         int                `json:"confidence"`
	KeyIssues          []string           `json:"key_issues"`
	SuggestedQuestions []FollowUpQuestion `json:"suggested_questions"`
	ExtractedFacts     []FactPair         `json:"extracted_facts"`
	MissingInformation []string           `json:"missing_information"`
	LetterContext      *LetterContext     `json:"letter_context,omitempty"`
}
