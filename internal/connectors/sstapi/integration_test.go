//go:build integration

// Integration tests against a live SST backend.
// Run with: PROFESIOGRAMA_API_BASE_URL=... go test -tags=integration ./internal/connectors/sstapi -v
package sstapi

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/emo"
)

func liveClient(t *testing.T) *Client {
	t.Helper()
	base := os.Getenv("PROFESIOGRAMA_API_BASE_URL")
	if base == "" {
		t.Skip("PROFESIOGRAMA_API_BASE_URL not set, skipping integration test")
	}
	c, err := New(Config{BaseURL: base, Token: os.Getenv("PROFESIOGRAMA_API_TOKEN"), Timeout: 20 * time.Second})
	require.NoError(t, err)
	return c
}

func livePosition(t *testing.T) int {
	t.Helper()
	id, err := strconv.Atoi(os.Getenv("TEST_POSITION_ID"))
	if err != nil || id <= 0 {
		t.Skip("TEST_POSITION_ID not set")
	}
	return id
}

func TestIntegration_ListHazardFactors(t *testing.T) {
	c := liveClient(t)
	factors, err := c.ListHazardFactors(context.Background(), true)
	require.NoError(t, err)
	require.NotEmpty(t, factors)
	for _, f := range factors {
		require.NoError(t, domain.ValidateHazardFactor(f))
		require.True(t, f.Active)
	}
}

func TestIntegration_ListProfiles(t *testing.T) {
	c := liveClient(t)
	profiles, err := c.ListProfiles(context.Background(), livePosition(t))
	require.NoError(t, err)
	active := 0
	for _, p := range profiles {
		if p.Status == domain.StatusActive {
			active++
		}
	}
	require.LessOrEqual(t, active, 1, "at most one active profile per position")
}

func TestIntegration_SuggestJustification(t *testing.T) {
	c := liveClient(t)
	pos := livePosition(t)
	s, err := c.SuggestJustification(context.Background(), emo.Request{PositionID: pos, Periodicity: domain.PeriodicityBiennial})
	require.NoError(t, err)
	require.Equal(t, pos, s.PositionID)
}
