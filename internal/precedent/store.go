// Package precedent provides the store of prior complaint outcomes and
// the retriever that fetches category-relevant precedent for letter
// generation.
package precedent

import (
	"context"
	"time"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
)

// Precedent is one stored prior case.
type Precedent struct {
	ID                  string         `json:"id"`
	Category            model.Category `json:"category"`
	Summary             string         `json:"summary"`
	SuccessfulArguments []string       `json:"successful_arguments"`
	LegalReferences     []string       `json:"legal_references"`
	Successful          bool           `json:"successful"`
	DecidedAt           time.Time      `json:"decided_at"`
	CreatedAt           time.Time      `json:"created_at"`
}

// Store defines the persistence interface for precedents.
type Store interface {
	// SearchByCategory returns up to limit precedents for the category,
	// optionally restricted to successful outcomes, newest decisions
	// first.
	SearchByCategory(ctx context.Context, category model.Category, successfulOnly bool, limit int) ([]Precedent, error)

	// Add inserts one precedent, assigning its ID.
	Add(ctx context.Context, p *Precedent) error

	// Count returns the number of stored precedents.
	Count(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
