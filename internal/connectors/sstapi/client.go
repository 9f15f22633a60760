// Package sstapi is the HTTP client for the SST backend, which owns the
// hazard factor catalog, the stored position profiles and the EMO
// justification suggestion service.
package sstapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/emo"
	"github.com/sgsst/profesiograma-go/internal/ratelimit"
)

var (
	// ErrNotFound matches a 404 from the backend.
	ErrNotFound = errors.New("sstapi: not found")
	// ErrCircuitOpen is returned while the breaker rejects calls.
	ErrCircuitOpen = errors.New("sstapi: circuit open")
)

// StatusError is a non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sstapi: %s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	Tracing    bool
	Limiter    *ratelimit.ServiceLimiter
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the SST backend. All calls share one circuit breaker.
type Client struct {
	base       *url.URL
	token      string
	httpClient *http.Client
	limiter    *ratelimit.ServiceLimiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// New creates a client for cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("sstapi: invalid base URL %q", cfg.BaseURL)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	if cfg.Tracing {
		rt := hc.Transport
		if rt == nil {
			rt = http.DefaultTransport
		}
		traced := *hc
		traced.Transport = otelhttp.NewTransport(rt)
		hc = &traced
	}

	c := &Client{base: base, token: cfg.Token, httpClient: hc, limiter: cfg.Limiter, logger: logger}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "sst-backend",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < 500
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c, nil
}

// ListHazardFactors returns the catalog, optionally only active entries.
func (c *Client) ListHazardFactors(ctx context.Context, activeOnly bool) ([]domain.HazardFactor, error) {
	q := url.Values{}
	if activeOnly {
		q.Set("activo", "true")
	}
	var raw []factorDTO
	if err := c.do(ctx, ratelimit.ServiceCatalog, http.MethodGet, "/profesiogramas/catalogos/factores-riesgo", q, nil, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.HazardFactor, 0, len(raw))
	for _, f := range raw {
		hf := f.toDomain()
		if err := domain.ValidateHazardFactor(hf); err != nil {
			c.logger.Warn("skipping invalid catalog factor", "factor_id", f.ID, "error", err)
			continue
		}
		out = append(out, hf)
	}
	return out, nil
}

// ListProfiles returns the stored profiles of a position, newest first. A
// position without profiles yields an empty slice.
func (c *Client) ListProfiles(ctx context.Context, positionID int) ([]domain.SavedProfile, error) {
	var raw []profileDTO
	err := c.do(ctx, ratelimit.ServicePersistence, http.MethodGet, positionPath(positionID), nil, nil, nil, &raw)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]domain.SavedProfile, len(raw))
	for i, p := range raw {
		out[i] = p.toDomain()
	}
	return out, nil
}

// ListVersions returns the version tags stored for a position.
func (c *Client) ListVersions(ctx context.Context, positionID int) ([]string, error) {
	profiles, err := c.ListProfiles(ctx, positionID)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Version
	}
	return out, nil
}

// SaveProfile stores p as a new version. An empty idempotencyKey gets a
// random one.
func (c *Client) SaveProfile(ctx context.Context, p domain.PositionRiskProfile, idempotencyKey string) (domain.SavedProfile, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	h := http.Header{}
	h.Set("Idempotency-Key", idempotencyKey)
	var out profileDTO
	if err := c.do(ctx, ratelimit.ServicePersistence, http.MethodPost, positionPath(p.PositionID), nil, h, newSaveDTO(p), &out); err != nil {
		return domain.SavedProfile{}, err
	}
	return out.toDomain(), nil
}

// SuggestJustification asks the backend for an EMO periodicity
// justification draft.
func (c *Client) SuggestJustification(ctx context.Context, req emo.Request) (emo.Suggestion, error) {
	body := emoRequestDTO{Periodicity: int(req.Periodicity), Factors: make([]emoFactorDTO, len(req.Factors))}
	for i, f := range req.Factors {
		body.Factors[i] = emoFactorDTO{FactorID: f.FactorID, ND: intPtr(f.ND), NE: intPtr(f.NE), NC: intPtr(f.NC)}
	}
	var out emoSuggestionDTO
	if err := c.do(ctx, ratelimit.ServiceSuggestion, http.MethodPost, positionPath(req.PositionID)+"/emo/justificacion", nil, nil, body, &out); err != nil {
		return emo.Suggestion{}, err
	}
	return out.toDomain(req.PositionID), nil
}

func positionPath(id int) string {
	return "/profesiogramas/cargos/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, service, method, path string, q url.Values, h http.Header, in, out any) error {
	if err := c.limiter.Wait(ctx, service); err != nil {
		return fmt.Errorf("sstapi: %w", err)
	}

	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("sstapi: encode request: %w", err)
		}
		payload = b
	}

	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = q.Encode()

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, u.String(), path, h, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	if err != nil {
		return err
	}
	c.logger.Debug("sst backend call", "method", method, "path", path, "duration_ms", time.Since(start).Milliseconds())

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("sstapi: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, rawURL, path string, h http.Header, payload []byte) ([]byte, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return nil, fmt.Errorf("sstapi: build request: %w", err)
	}
	for k, vs := range h {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sstapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("sstapi: read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: snippet(body)}
	}
	return body, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
