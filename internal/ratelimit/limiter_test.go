package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceLimiter_Wait(t *testing.T) {
	sl := NewServiceLimiter(ServiceRates{Catalog: 100, Suggestion: 100, Persistence: 100})

	// Should not block at high rate.
	err := sl.Wait(context.Background(), ServiceSuggestion)
	require.NoError(t, err)
}

func TestServiceLimiter_UnknownService(t *testing.T) {
	sl := NewServiceLimiter(DefaultServiceRates())

	// Unknown service should pass through.
	err := sl.Wait(context.Background(), "UnknownService")
	assert.NoError(t, err)
}

func TestServiceLimiter_ZeroRateIsUnlimited(t *testing.T) {
	sl := NewServiceLimiter(ServiceRates{Suggestion: 1})
	for i := 0; i < 5; i++ {
		require.NoError(t, sl.Wait(context.Background(), ServiceCatalog))
	}
}

func TestServiceLimiter_NilIsUnlimited(t *testing.T) {
	var sl *ServiceLimiter
	assert.NoError(t, sl.Wait(context.Background(), ServicePersistence))
}

func TestServiceLimiter_CancelledContext(t *testing.T) {
	// Create a very restrictive limiter.
	sl := NewServiceLimiter(ServiceRates{Suggestion: 0.001})

	// Consume the burst.
	_ = sl.Wait(context.Background(), ServiceSuggestion)

	// Next call with cancelled context should error.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sl.Wait(ctx, ServiceSuggestion)
	assert.Error(t, err)
}
