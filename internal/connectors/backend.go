// Package connectors selects the SST backend implementation for the
// configured mode and exposes it as the union of the interfaces consumed by
// the API, the EMO builder and the persistence activities.
package connectors

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sgsst/profesiograma-go/internal/config"
	"github.com/sgsst/profesiograma-go/internal/connectors/sstapi"
	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/emo"
	"github.com/sgsst/profesiograma-go/internal/persist"
	"github.com/sgsst/profesiograma-go/internal/ratelimit"
	"github.com/sgsst/profesiograma-go/internal/testutil"
)

// Backend is everything the binaries need from the SST backend.
//   - ListHazardFactors, ListProfiles -> catalog and overview reads
//   - ListVersions, SaveProfile -> persist.Store
//   - SuggestJustification -> emo.Suggester
type Backend interface {
	persist.Store
	emo.Suggester
	ListHazardFactors(ctx context.Context, activeOnly bool) ([]domain.HazardFactor, error)
	ListProfiles(ctx context.Context, positionID int) ([]domain.SavedProfile, error)
}

// Compile-time checks.
var (
	_ Backend = (*sstapi.Client)(nil)
	_ Backend = (*testutil.StubBackend)(nil)
)

// NewBackend returns the fixture-backed stub in stub mode and the HTTP client
// in production mode.
func NewBackend(cfg config.Config, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Mode {
	case config.ModeProduction:
		rates := ratelimit.DefaultServiceRates()
		rates.Suggestion = cfg.SuggestionRPS
		c, err := sstapi.New(sstapi.Config{
			BaseURL: cfg.APIBaseURL,
			Token:   cfg.APIToken,
			Tracing: cfg.OTelEnabled,
			Limiter: ratelimit.NewServiceLimiter(rates),
			Logger:  logger.With("component", "sstapi"),
		})
		if err != nil {
			return nil, fmt.Errorf("connectors: %w", err)
		}
		return c, nil
	case config.ModeStub, "":
		dir := cfg.FixturesDir
		if dir == "" {
			dir = testutil.FixturesDir()
		}
		return testutil.NewStubBackend(dir), nil
	default:
		return nil, fmt.Errorf("connectors: unknown mode %q", cfg.Mode)
	}
}
