package activities

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/temporal"

	"github.com/sgsst/profesiograma-go/internal/emo"
	"github.com/sgsst/profesiograma-go/internal/observability"
	"github.com/sgsst/profesiograma-go/internal/persist"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/ratelimit"
	"github.com/sgsst/profesiograma-go/internal/verifier"
)

// Activities holds the dependencies for all Temporal activities.
// Each method is registered as a Temporal activity.
type Activities struct {
	Suggester emo.Suggester
	Saver     *persist.Saver
	Budget    *ratelimit.ActivityBudget // nil = no budget enforcement
	Metrics   *observability.Metrics    // nil = no metrics
	Profiles  verifier.ProfileLister    // nil = no read-back after save
}

// DraftEmoJustification asks the suggestion service for a periodicity
// justification draft.
func (a *Activities) DraftEmoJustification(ctx context.Context, in DraftJustificationInput) (DraftJustificationOutput, error) {
	a.Metrics.RecordActivity(ctx, NameDraftEmoJustification)
	if a.Suggester == nil {
		return DraftJustificationOutput{}, temporal.NewNonRetryableApplicationError(
			"draft justification activity: no suggester configured", "Unconfigured", nil)
	}
	if err := a.Budget.Allow(ratelimit.PositionKey(in.Request.PositionID), NameDraftEmoJustification); err != nil {
		return DraftJustificationOutput{}, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("draft justification activity: %v", err), "BudgetExceeded", err)
	}
	s, err := a.Suggester.SuggestJustification(ctx, in.Request.Sorted())
	if err != nil {
		return DraftJustificationOutput{}, fmt.Errorf("draft justification activity: %w", err)
	}
	return DraftJustificationOutput{Suggestion: s}, nil
}

// PersistProfile runs the save pipeline. Gate refusals, shape errors and
// budget exhaustion are non-retryable.
func (a *Activities) PersistProfile(ctx context.Context, in PersistProfileInput) (PersistProfileOutput, error) {
	a.Metrics.RecordActivity(ctx, NamePersistProfile)
	if a.Saver == nil {
		return PersistProfileOutput{}, temporal.NewNonRetryableApplicationError(
			"persist activity: no saver configured", "Unconfigured", nil)
	}
	rec, err := a.Saver.Save(ctx, persist.Request{
		Profile:        in.Profile,
		Confirmation:   in.Confirmation,
		IdempotencyKey: in.IdempotencyKey,
	})
	if err != nil {
		msg := fmt.Sprintf("persist activity: %v", err)
		switch {
		case errors.Is(err, policy.ErrRejected), errors.Is(err, policy.ErrConfirmationRequired):
			return PersistProfileOutput{}, temporal.NewNonRetryableApplicationError(msg, "SaveGate", err)
		case errors.Is(err, persist.ErrInvalidProfile):
			return PersistProfileOutput{}, temporal.NewNonRetryableApplicationError(msg, "InvalidProfile", err)
		case errors.Is(err, ratelimit.ErrBudgetExceeded):
			return PersistProfileOutput{}, temporal.NewNonRetryableApplicationError(msg, "BudgetExceeded", err)
		}
		return PersistProfileOutput{}, fmt.Errorf("persist activity: %w", err)
	}
	out := PersistProfileOutput{Saved: rec.Saved, Version: rec.Snapshot.Version}
	if a.Profiles != nil {
		saved := rec.Saved
		if saved.Version == "" {
			saved.Version = rec.Snapshot.Version
		}
		res, err := verifier.Verify(ctx, a.Profiles, saved)
		if err != nil {
			// The save already happened; a failed read-back must not retry it.
			slog.Default().Warn("read-back verification failed", "position_id", saved.PositionID, "error", err)
		} else {
			out.Verification = &res
		}
	}
	return out, nil
}
