package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the OTel instruments of the risk assessment engine. A nil
// *Metrics records nothing.
type Metrics struct {
	Validations         metric.Int64Counter
	Breaches            metric.Int64Counter
	SuggestionCalls     metric.Int64Counter
	ConfirmationLatency metric.Float64Histogram
	ActivityCalls       metric.Int64Counter
}

// NewMetrics creates the instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("profesiograma")

	validations, err := meter.Int64Counter("profesiograma.validation.count",
		metric.WithDescription("Profiles validated, by decision"),
	)
	if err != nil {
		return nil, err
	}

	breaches, err := meter.Int64Counter("profesiograma.vlp.breaches",
		metric.WithDescription("Measured values outside their permissible limit, by classification"),
	)
	if err != nil {
		return nil, err
	}

	suggestions, err := meter.Int64Counter("profesiograma.emo.suggestions",
		metric.WithDescription("EMO justification builder updates, by action"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("profesiograma.confirmation.latency_seconds",
		metric.WithDescription("Time from a breach confirmation request to the operator's answer"),
	)
	if err != nil {
		return nil, err
	}

	activityCalls, err := meter.Int64Counter("profesiograma.activity.calls",
		metric.WithDescription("Number of activity invocations"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Validations:         validations,
		Breaches:            breaches,
		SuggestionCalls:     suggestions,
		ConfirmationLatency: latency,
		ActivityCalls:       activityCalls,
	}, nil
}

// RecordValidation records one validator run and its breaches.
func (m *Metrics) RecordValidation(ctx context.Context, decision string, breachClassifications []string) {
	if m == nil {
		return
	}
	m.Validations.Add(ctx, 1, metric.WithAttributes(attribute.String("decision", decision)))
	for _, c := range breachClassifications {
		m.Breaches.Add(ctx, 1, metric.WithAttributes(attribute.String("classification", c)))
	}
}

// RecordSuggestion records a builder update by its action.
func (m *Metrics) RecordSuggestion(ctx context.Context, action string) {
	if m == nil {
		return
	}
	m.SuggestionCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

// RecordConfirmationLatency records how long the operator took to answer.
func (m *Metrics) RecordConfirmationLatency(ctx context.Context, d time.Duration, acknowledged bool) {
	if m == nil {
		return
	}
	m.ConfirmationLatency.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.Bool("acknowledged", acknowledged)))
}

// RecordActivity records an activity invocation.
func (m *Metrics) RecordActivity(ctx context.Context, name string) {
	if m == nil {
		return
	}
	m.ActivityCalls.Add(ctx, 1,
		metric.WithAttributes(attribute.String("activity", name)),
	)
}
