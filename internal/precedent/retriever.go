package precedent

import (
	"context"

	"go.uber.org/zap"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
	"github.com/Kofibk/icomplain.ai-sub000/internal/resilience"
)

// DefaultLimit bounds how many precedents one retrieval fetches.
const DefaultLimit = 5

// Retriever fetches precedent context for a finalized profile. Every
// failure mode resolves to an empty PrecedentContext: store unreachable,
// zero rows and malformed rows are all expected, non-fatal outcomes.
// One attempt per profile, no retry; a circuit breaker stops hammering
// a store that keeps failing across sessions.
type Retriever struct {
	store   Store
	limit   int
	breaker *resilience.CircuitBreaker
}

// NewRetriever builds a Retriever over the store. limit <= 0 uses
// DefaultLimit.
func NewRetriever(store Store, limit int) *Retriever {
	if limit <= 0 {
		limit = DefaultLimit
	}
	cfg := resilience.DefaultCircuitBreakerConfig()
	cfg.OnStateChange = func(from, to resilience.CircuitState) {
		zap.L().Warn("precedent store circuit state changed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
	return &Retriever{
		store:   store,
		limit:   limit,
		breaker: resilience.NewCircuitBreaker(cfg),
	}
}

// Retrieve fetches successful-outcome precedents for the category.
// Never returns an error: degradation to empty context is the contract.
func (r *Retriever) Retrieve(ctx context.Context, category model.Category) model.PrecedentContext {
	empty := model.PrecedentContext{Category: category}

	if r.store == nil {
		return empty
	}

	rows, err := resilience.ExecuteVal(ctx, r.breaker, func(ctx context.Context) ([]Precedent, error) {
		return r.store.SearchByCategory(ctx, category, true, r.limit)
	})
	if err != nil {
		zap.L().Warn("precedent retrieval failed, proceeding without precedent",
			zap.String("category", string(category)),
			zap.Error(err),
		)
		return empty
	}

	summaries := make([]model.PrecedentSummary, 0, len(rows))
	for _, row := range rows {
		if row.Summary == "" {
			continue
		}
		summaries = append(summaries, model.PrecedentSummary{
			Summary:             row.Summary,
			SuccessfulArguments: row.SuccessfulArguments,
			LegalReferences:     row.LegalReferences,
		})
	}

	if len(summaries) == 0 {
		zap.L().Debug("no precedent found",
			zap.String("category", string(category)),
		)
		return empty
	}

	return model.PrecedentContext{Category: category, Summaries: summaries}
}
