// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"time"

	"swot_backend/internal/feature/swot/adapters/gemini"
	"swot_backend/internal/feature/swot/adapters/tokencount"
	"swot_backend/internal/feature/swot/domain/entity"
	"swot_backend/internal/feature/swot/transport/handler"
	"swot_backend/internal/feature/swot/usecase"
	"swot_backend/internal/platform/config"
	infrahttp "swot_backend/internal/platform/http"
	"swot_backend/internal/shared/ratelimiter"
)

// SwotUsecase is the full set of operations the entrypoints need.
type SwotUsecase interface {
	handler.SwotUsecase
	Analyze(ctx context.Context, companyDetails string) (*entity.Analysis, error)
}

// NewSwotUsecase wires the Gemini generator and tokenizer from cfg.
// The generator is throttled to cfg.RequestsPerMin; token counts fall back
// to a local estimate when the countTokens call fails.
func NewSwotUsecase(ctx context.Context, cfg *config.Config) (SwotUsecase, error) {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	client, err := gemini.NewClient(ctx, cfg.APIKey, cfg.BaseURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("init gemini: %w", err)
	}

	limiter := ratelimiter.NewRateLimiter(cfg.RequestsPerMin, time.Minute)
	generator := gemini.NewGenerator(client, cfg.Model, limiter)
	tokenizer := tokencount.Fallback{
		Primary:   gemini.NewTokenizer(client, cfg.Model),
		Secondary: tokencount.Estimator{},
	}
	return usecase.NewSwotUsecase(generator, tokenizer), nil
}

// NewSwotHandler builds the HTTP handler on top of NewSwotUsecase.
func NewSwotHandler(ctx context.Context, cfg *config.Config) (*handler.SwotHandler, error) {
	uc, err := NewSwotUsecase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return handler.NewSwotHandler(uc), nil
}
