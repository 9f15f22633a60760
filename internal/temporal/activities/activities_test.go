package activities_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/emo"
	"github.com/sgsst/profesiograma-go/internal/persist"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/ratelimit"
	"github.com/sgsst/profesiograma-go/internal/temporal/activities"
	"github.com/sgsst/profesiograma-go/internal/testutil"
	"github.com/sgsst/profesiograma-go/internal/verifier"
)

func newTestActivities(backend *testutil.StubBackend) *activities.Activities {
	return &activities.Activities{
		Suggester: backend,
		Saver:     persist.NewSaver(backend),
		Profiles:  backend,
	}
}

func noiseProfile(measured string) domain.PositionRiskProfile {
	p := domain.NewPositionRiskProfile(domain.Position{ID: 21, Name: "Soldador"})
	f := domain.NewFactorAssessment(1, "Ruido")
	f.ND, f.NE, f.NC = domain.DeficiencyHigh.Ptr(), domain.ExposureFrequent.Ptr(), domain.ConsequenceSerious.Ptr()
	f.Classification = domain.Noise
	f.MeasuredValue = measured
	p.Factors = []domain.FactorAssessment{f}
	p.Exams = []domain.ExamSchedule{domain.NewExamSchedule(1, true)}
	return p
}

func TestDraftEmoJustification_HappyPath(t *testing.T) {
	backend := testutil.NewStubBackend(testutil.FixturesDir())
	backend.Workers = emo.WorkerCounts{Total: 9}
	a := newTestActivities(backend)

	p := noiseProfile("80")
	p.EMOPeriodicity = 24
	out, err := a.DraftEmoJustification(context.Background(), activities.DraftJustificationInput{
		Request: emo.RequestFromProfile(p),
	})
	require.NoError(t, err)
	assert.Equal(t, 21, out.Suggestion.PositionID)
	assert.NotEmpty(t, out.Suggestion.DraftJustification)
	assert.Equal(t, 9, out.Suggestion.Workers.Total)
	assert.Equal(t, 1, backend.SuggestCalls())
}

func TestDraftEmoJustification_Budget(t *testing.T) {
	backend := testutil.NewStubBackend(testutil.FixturesDir())
	a := newTestActivities(backend)
	a.Budget = ratelimit.NewActivityBudget(1, time.Hour)
	in := activities.DraftJustificationInput{Request: emo.Request{PositionID: 4, Periodicity: 24}}

	_, err := a.DraftEmoJustification(context.Background(), in)
	require.NoError(t, err)
	_, err = a.DraftEmoJustification(context.Background(), in)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, appErr.NonRetryable())
	assert.Equal(t, "BudgetExceeded", appErr.Type())
}

func TestDraftEmoJustification_SuggesterError(t *testing.T) {
	backend := testutil.NewStubBackend(testutil.FixturesDir())
	backend.SuggestErr = errors.New("backend unavailable")
	_, err := newTestActivities(backend).DraftEmoJustification(context.Background(), activities.DraftJustificationInput{
		Request: emo.Request{PositionID: 4, Periodicity: 24},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestPersistProfile_HappyPath(t *testing.T) {
	backend := testutil.NewStubBackend(testutil.FixturesDir())
	out, err := newTestActivities(backend).PersistProfile(context.Background(), activities.PersistProfileInput{
		Profile:        noiseProfile("80"),
		IdempotencyKey: "k-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "1.0", out.Version)
	assert.Equal(t, 21, out.Saved.PositionID)
	assert.Len(t, backend.Stored(21), 1)
	require.NotNil(t, out.Verification)
	assert.Equal(t, verifier.RecommendClose, out.Verification.Recommendation)
}

func TestPersistProfile_GateIsNonRetryable(t *testing.T) {
	backend := testutil.NewStubBackend(testutil.FixturesDir())
	_, err := newTestActivities(backend).PersistProfile(context.Background(), activities.PersistProfileInput{
		Profile: noiseProfile("95"),
	})
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, appErr.NonRetryable())
	assert.Equal(t, "SaveGate", appErr.Type())
	assert.ErrorIs(t, err, policy.ErrConfirmationRequired)
	assert.Empty(t, backend.Stored(21))
}

func TestPersistProfile_Acknowledged(t *testing.T) {
	backend := testutil.NewStubBackend(testutil.FixturesDir())
	out, err := newTestActivities(backend).PersistProfile(context.Background(), activities.PersistProfileInput{
		Profile:      noiseProfile("95"),
		Confirmation: &policy.Confirmation{Acknowledged: true, By: "coordinador-sst"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1.0", out.Version)
}

func TestActivities_Unconfigured(t *testing.T) {
	a := &activities.Activities{}
	_, err := a.PersistProfile(context.Background(), activities.PersistProfileInput{Profile: noiseProfile("80")})
	require.Error(t, err)
	_, err = a.DraftEmoJustification(context.Background(), activities.DraftJustificationInput{})
	require.Error(t, err)
}
