package model

import "time"

// SessionStatus represents the current state of an intake session. No
// transition skips a state; composed is terminal.
type SessionStatus string

const (
	SessionCollecting  SessionStatus = "collecting"
	SessionAggregating SessionStatus = "aggregating"
	SessionClassified  SessionStatus = "classified"
	SessionRetrieved   SessionStatus = "retrieved"
	SessionComposed    SessionStatus = "composed"
	SessionAbandoned   SessionStatus = "abandoned"
)

// Artifact is one uploaded document submitted for analysis.
type Artifact struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	MediaType string `json:"media_type"`
	// Data is the raw artifact payload, base64-encoded for transport.
	Data string `json:"data"`
	// Category is an optional caller-supplied document category; when
	// empty it is inferred from the filename.
	Category string `json:"category,omitempty"`
}

// IntakeRequest is everything the caller supplies to start a session.
type IntakeRequest struct {
	SessionID    string     `json:"session_id,omitempty"`
	CategoryHint string     `json:"category_hint,omitempty"`
	Narrative    string     `json:"narrative,omitempty"`
	Artifacts    []Artifact `json:"artifacts,omitempty"`
}

// Session tracks one intake run from collection through composition.
type Session struct {
	ID        string              `json:"id"`
	Status    SessionStatus       `json:"status"`
	Profile   *ComplaintProfile   `json:"profile,omitempty"`
	Analyses  []RawAnalysisResult `json:"analyses,omitempty"`
	Precedent PrecedentContext    `json:"precedent,omitempty"`
	Result    *IntakeResult       `json:"result,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
