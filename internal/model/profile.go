package model

// Display caps applied when a profile is finalized.
const (
	MaxKeyIssues          = 5
	MaxMissingInformation = 5
	MaxFollowUpQuestions  = 4
	MaxConfidence         = 95
)

// FollowUpQuestion is one suggested question with the reason it matters.
type FollowUpQuestion struct {
	Question  string `json:"question"`
	Rationale string `json:"rationale"`
}

// ComplaintProfile is the aggregate built up across merges during one
// intake session. It is exclusively owned by the aggregator until
// finalized, then read-only.
type ComplaintProfile struct {
	Category           Category           `json:"category"`
	Confidence         int                `json:"confidence"`
	ExtractedFacts     map[string]any     `json:"extracted_facts"`
	KeyIssues          []string           `json:"key_issues"`
	MissingInformation []string           `json:"missing_information"`
	FollowUpQuestions  []FollowUpQuestion `json:"follow_up_questions"`
}

// NewProfile creates an empty profile with the caller's category hint, or
// the default category when the hint is empty or unknown.
func NewProfile(hint string) *ComplaintProfile {
	p := &ComplaintProfile{
		Category:       CategoryOther,
		ExtractedFacts: make(map[string]any),
	}
	if hint != "" {
		if c := Category(hint); c.Valid() && c != CategoryOther {
			p.Category = c
		}
	}
	return p
}
