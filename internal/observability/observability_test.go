package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestInitLoggerTo(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := InitLoggerTo(&buf, "warn", "worker")
	logger.Info("dropped")
	NewTemporalSlogAdapter(nil).With("workflow_id", "wf-1").Warn("kept", "attempt", 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), buf.String())
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "worker", rec["service"])
	assert.Equal(t, "wf-1", rec["workflow_id"])
	assert.EqualValues(t, 2, rec["attempt"])
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordValidation(ctx, "accepted", []string{"noise"})
		m.RecordSuggestion(ctx, "drafted")
		m.RecordConfirmationLatency(ctx, time.Minute, true)
		m.RecordActivity(ctx, "PersistProfile")
	})
}

func TestNewMetrics(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordValidation(context.Background(), "requires_confirmation", []string{"noise", "lighting"})
	})
}

func TestInitTracerDisabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "api", false)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
