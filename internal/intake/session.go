package intake

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
	"github.com/Kofibk/icomplain.ai-sub000/internal/templates"
)

// Retriever fetches precedent context for a category. Implemented by
// precedent.Retriever; never fails, degrades to empty context.
type Retriever interface {
	Retrieve(ctx context.Context, category model.Category) model.PrecedentContext
}

// Runner drives one intake session through the full state machine:
// collecting, aggregating, classified, retrieved, composed. Each session
// owns its profile; nothing is shared across concurrent sessions.
type Runner struct {
	analyzer      *Analyzer
	retriever     Retriever
	composer      *Composer
	lib           *templates.Library
	maxConcurrent int
}

// NewRunner assembles the pipeline.
func NewRunner(analyzer *Analyzer, retriever Retriever, lib *templates.Library, maxConcurrent int) *Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Runner{
		analyzer:      analyzer,
		retriever:     retriever,
		composer:      NewComposer(lib),
		lib:           lib,
		maxConcurrent: maxConcurrent,
	}
}

// Run executes the session to its terminal state. Composed is reached
// even when every analysis failed, and even when the request carries no
// artifacts and no narrative at all: an empty result is valid output,
// not a pipeline failure. Callers that want to refuse empty requests do
// so at their own boundary.
func (r *Runner) Run(ctx context.Context, req model.IntakeRequest) (*model.Session, error) {
	narrative := strings.TrimSpace(req.Narrative)

	session := &model.Session{
		ID:        req.SessionID,
		Status:    model.SessionCollecting,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	zap.L().Info("intake session started",
		zap.String("session_id", session.ID),
		zap.Int("artifacts", len(req.Artifacts)),
		zap.Bool("narrative", narrative != ""),
		zap.String("category_hint", req.CategoryHint),
	)

	profile := model.NewProfile(req.CategoryHint)

	// Analyses run concurrently, one outstanding call per artifact. The
	// results channel is the single serialization point: merges are
	// applied one at a time, in completion order. The narrative is just
	// one more result competing for merge order, so the final category
	// can depend on which analysis completes last.
	results := make(chan model.RawAnalysisResult, len(req.Artifacts)+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrent)

	for _, artifact := range req.Artifacts {
		g.Go(func() error {
			results <- r.analyzer.AnalyzeArtifact(gctx, artifact)
			return nil
		})
	}
	if narrative != "" {
		g.Go(func() error {
			results <- r.analyzer.AnalyzeNarrative(gctx, session.ID, narrative)
			return nil
		})
	}

	go func() {
		g.Wait() //nolint:errcheck // analysis goroutines never return errors
		close(results)
	}()

	failed := 0
	for result := range results {
		session.Analyses = append(session.Analyses, result)
		if result.Status == model.AnalysisError {
			failed++
		}
		Merge(profile, result)
	}

	r.setStatus(session, model.SessionAggregating)
	Finalize(profile, r.lib)
	session.Profile = profile

	Classify(profile)
	r.setStatus(session, model.SessionClassified)

	session.Precedent = r.retriever.Retrieve(ctx, profile.Category)
	r.setStatus(session, model.SessionRetrieved)

	letterCtx := r.composer.Compose(profile, session.Precedent)
	session.Result = r.composer.Result(profile, letterCtx)
	r.setStatus(session, model.SessionComposed)

	zap.L().Info("intake session composed",
		zap.String("session_id", session.ID),
		zap.String("category", string(profile.Category)),
		zap.Int("confidence", profile.Confidence),
		zap.Int("analyses", len(session.Analyses)),
		zap.Int("failed", failed),
		zap.Int("precedents", len(session.Precedent.Summaries)),
	)

	return session, nil
}

// Abandon discards an in-flight session. Idempotent: abandoning twice,
// or abandoning after composition, is a no-op.
func (r *Runner) Abandon(session *model.Session) {
	if session == nil {
		return
	}
	switch session.Status {
	case model.SessionComposed, model.SessionAbandoned:
		return
	}
	session.Profile = nil
	session.Result = nil
	r.setStatus(session, model.SessionAbandoned)
	zap.L().Info("intake session abandoned", zap.String("session_id", session.ID))
}

func (r *Runner) setStatus(session *model.Session, status model.SessionStatus) {
	session.Status = status
	session.UpdatedAt = time.Now().UTC()
	zap.L().Debug("session status",
		zap.String("session_id", session.ID),
		zap.String("status", string(status)),
	)
}
