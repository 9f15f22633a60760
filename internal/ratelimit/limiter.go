// Package ratelimit provides token-bucket limiters for calls to the SST
// backend and per-position activity budgets.
package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// Backend services with their own rate.
const (
	ServiceCatalog     = "Catalog"
	ServiceSuggestion  = "Suggestion"
	ServicePersistence = "Persistence"
)

// ServiceRates configures per-service request rates (requests per second).
type ServiceRates struct {
	Catalog     float64
	Suggestion  float64
	Persistence float64
}

// DefaultServiceRates returns conservative rates for the SST backend.
func DefaultServiceRates() ServiceRates {
	return ServiceRates{
		Catalog:     10,
		Suggestion:  5,
		Persistence: 5,
	}
}

// ServiceLimiter rate-limits backend calls per service using token buckets.
type ServiceLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewServiceLimiter creates a limiter with the given per-service rates. A
// non-positive rate leaves the service unlimited.
func NewServiceLimiter(rates ServiceRates) *ServiceLimiter {
	limiters := make(map[string]*rate.Limiter, 3)
	for name, r := range map[string]float64{
		ServiceCatalog:     rates.Catalog,
		ServiceSuggestion:  rates.Suggestion,
		ServicePersistence: rates.Persistence,
	} {
		if r <= 0 {
			continue
		}
		limiters[name] = rate.NewLimiter(rate.Limit(r), max(1, int(r)))
	}
	return &ServiceLimiter{limiters: limiters}
}

// Wait blocks until a token is available for the named service, or ctx is cancelled.
func (sl *ServiceLimiter) Wait(ctx context.Context, service string) error {
	if sl == nil {
		return nil
	}
	sl.mu.RLock()
	limiter, ok := sl.limiters[service]
	sl.mu.RUnlock()
	if !ok {
		return nil // unknown service = no limit
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", service, err)
	}
	return nil
}
