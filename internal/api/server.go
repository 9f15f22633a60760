// Package api serves the risk assessment engine over HTTP: scoring, VLP
// checks, control suggestions, profile validation and analysis, the EMO
// justification builder and profile submissions.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sgsst/profesiograma-go/internal/agui"
	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/emo"
	"github.com/sgsst/profesiograma-go/internal/observability"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/temporal/querier"
)

// Backend is the read side of the SST backend used by the API.
type Backend interface {
	ListHazardFactors(ctx context.Context, activeOnly bool) ([]domain.HazardFactor, error)
	ListProfiles(ctx context.Context, positionID int) ([]domain.SavedProfile, error)
}

// Deps are the collaborators of the server. A nil Querier disables the
// submission routes; a nil Backend disables catalog lookups; a nil Sessions
// disables the EMO builder routes.
type Deps struct {
	Querier   querier.WorkflowQuerier
	Backend   Backend
	Sessions  *emo.Sessions
	Validator *policy.Validator
	Metrics   *observability.Metrics
}

// Config holds transport settings.
type Config struct {
	CORSOrigins []string
	OIDC        OIDCConfig
	Tracing     bool
	Logger      *slog.Logger
	// Stream tunes the submission event stream; zero takes agui.DefaultConfig.
	Stream agui.StreamConfig
}

// Server is the HTTP API server.
type Server struct {
	deps    Deps
	logger  *slog.Logger
	mux     *http.ServeMux
	handler http.Handler
	stream  agui.StreamConfig
}

// New creates a Server. With OIDC enabled it runs provider discovery
// against the issuer, which needs ctx.
func New(ctx context.Context, deps Deps, cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Validator == nil {
		deps.Validator = policy.NewValidator()
	}
	stream := cfg.Stream
	if stream.PollInterval <= 0 || stream.MaxDuration <= 0 {
		stream = agui.DefaultConfig()
	}
	s := &Server{deps: deps, logger: logger, mux: http.NewServeMux(), stream: stream}
	s.routes()

	var h http.Handler = s.mux
	if cfg.OIDC.Enabled {
		provider, err := oidc.NewProvider(ctx, cfg.OIDC.IssuerURL)
		if err != nil {
			return nil, fmt.Errorf("api: oidc discovery: %w", err)
		}
		h = oidcAuth(provider, cfg.OIDC.Audience)(h)
	}
	h = requestID(logging(logger, cors(cfg.CORSOrigins, h)))
	if cfg.Tracing {
		h = otelhttp.NewHandler(h, "profesiograma-api")
	}
	s.handler = h
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)

	s.mux.HandleFunc("GET /api/v1/catalog/classifications", s.handleClassifications)
	s.mux.HandleFunc("GET /api/v1/catalog/classifications/{code}/measured-options", s.handleMeasuredOptions)
	s.mux.HandleFunc("GET /api/v1/catalog/hazard-factors", s.handleHazardFactors)

	s.mux.HandleFunc("POST /api/v1/score", s.handleScore)
	s.mux.HandleFunc("POST /api/v1/vlp/check", s.handleVLPCheck)
	s.mux.HandleFunc("POST /api/v1/controls/suggest", s.handleSuggestControls)
	s.mux.HandleFunc("POST /api/v1/profiles/validate", s.handleValidate)
	s.mux.HandleFunc("POST /api/v1/profiles/analyze", s.handleAnalyze)

	s.mux.HandleFunc("GET /api/v1/positions/{id}/overview", s.handlePositionOverview)
	s.mux.HandleFunc("POST /api/v1/positions/{id}/emo/justification", s.handleEMOUpdate)
	s.mux.HandleFunc("PUT /api/v1/positions/{id}/emo/justification", s.handleEMOEdit)
	s.mux.HandleFunc("DELETE /api/v1/positions/{id}/emo/justification", s.handleEMOClose)

	s.mux.HandleFunc("POST /api/v1/profiles/submit", s.handleSubmit)
	s.mux.HandleFunc("GET /api/v1/submissions", s.handleListSubmissions)
	s.mux.HandleFunc("GET /api/v1/submissions/{id}", s.handleGetSubmission)
	s.mux.HandleFunc("POST /api/v1/submissions/{id}/confirm", s.handleConfirm)
	s.mux.HandleFunc("POST /api/v1/submissions/{id}/decline", s.handleDecline)
	s.mux.HandleFunc("GET /api/v1/submissions/{id}/events", s.handleSubmissionEvents)
}
