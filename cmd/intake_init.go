package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Kofibk/icomplain.ai-sub000/internal/intake"
	"github.com/Kofibk/icomplain.ai-sub000/internal/precedent"
	"github.com/Kofibk/icomplain.ai-sub000/internal/templates"
	anthropicpkg "github.com/Kofibk/icomplain.ai-sub000/pkg/anthropic"
)

// intakeEnv holds the initialized store, template library and runner
// shared by the analyze and serve commands.
type intakeEnv struct {
	Store  precedent.Store
	Runner *intake.Runner
}

// Close releases resources held by the intake environment.
func (ie *intakeEnv) Close() {
	if ie.Store != nil {
		_ = ie.Store.Close()
	}
}

// initStore opens the precedent store selected by config. The sqlite
// driver serves local development; postgres is the deployment default.
func initStore(ctx context.Context) (precedent.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return precedent.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres", "":
		return precedent.NewPostgres(ctx, cfg.Store)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initIntake sets up the store, template library, analyzer and runner.
// Callers should defer env.Close().
func initIntake(ctx context.Context, mode string) (*intakeEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	lib, err := templates.Load()
	if err != nil {
		return nil, err
	}

	// The precedent store is optional: when it cannot be reached the
	// pipeline runs with empty precedent context.
	var store precedent.Store
	if cfg.Store.DatabaseURL != "" {
		store, err = initStore(ctx)
		if err != nil {
			zap.L().Warn("precedent store unavailable, sessions run without precedent",
				zap.Error(err),
			)
			store = nil
		} else if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
	}

	client := anthropicpkg.NewClient(cfg.Anthropic.Key)
	analyzer := intake.NewAnalyzer(client, cfg.Anthropic, cfg.Intake)
	retriever := precedent.NewRetriever(store, cfg.Intake.PrecedentLimit)
	runner := intake.NewRunner(analyzer, retriever, lib, cfg.Intake.MaxConcurrentAnalyses)

	return &intakeEnv{Store: store, Runner: runner}, nil
}
