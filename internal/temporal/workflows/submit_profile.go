// Package workflows defines the Temporal workflow functions.
package workflows

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/emo"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/temporal/activities"
	"github.com/sgsst/profesiograma-go/internal/temporal/versioning"
	"github.com/sgsst/profesiograma-go/internal/verifier"
)

// UpdateNameConfirmation is the Temporal Update handler name for the VLP
// breach confirmation.
const UpdateNameConfirmation = "vlp_confirmation"

// QueryNameState is the Temporal Query handler name exposing the live result.
const QueryNameState = "state"

// ConfirmationTimeout is how long the workflow waits for the operator.
const ConfirmationTimeout = 24 * time.Hour

// TerminationReason describes why the workflow ended.
type TerminationReason string

const (
	ReasonCompleted            TerminationReason = "completed"
	ReasonRejected             TerminationReason = "rejected"
	ReasonDeclined             TerminationReason = "declined"
	ReasonConfirmationTimedOut TerminationReason = "confirmation_timed_out"
	ReasonPersistError         TerminationReason = "persist_error"
)

// Phases reported in SubmissionState.Phase.
const (
	PhaseDraft        = "draft"
	PhaseValidate     = "validate"
	PhaseConfirmation = "awaiting_confirmation"
	PhasePersist      = "persist"
	PhaseDone         = "done"
)

// SubmitInput is the input to the submission workflow.
type SubmitInput struct {
	Profile                domain.PositionRiskProfile `json:"profile"`
	SubmittedBy            string                     `json:"submitted_by,omitempty"`
	AutoDraftJustification bool                       `json:"auto_draft_justification,omitempty"`
}

// SubmissionState is the live state of a submission.
type SubmissionState struct {
	Phase                   string               `json:"phase"`
	PositionID              int                  `json:"position_id"`
	SubmittedBy             string               `json:"submitted_by,omitempty"`
	DraftedJustification    bool                 `json:"drafted_justification,omitempty"`
	Outcome                 *policy.Outcome      `json:"outcome,omitempty"`
	ConfirmationRequestedAt *time.Time           `json:"confirmation_requested_at,omitempty"`
	Confirmation            *policy.Confirmation `json:"confirmation,omitempty"`
	Saved                   *domain.SavedProfile `json:"saved,omitempty"`
	Verification            *verifier.Result     `json:"verification,omitempty"`
	Error                   *string              `json:"error,omitempty"`
}

// AwaitingConfirmation reports whether the workflow waits for the operator.
func (s SubmissionState) AwaitingConfirmation() bool {
	return s.Phase == PhaseConfirmation && s.Confirmation == nil
}

// WorkflowResult is the output of the submission workflow. The workflow
// returns this on all paths; only infra failures produce workflow-level
// errors. Reason is empty while the workflow runs.
type WorkflowResult struct {
	State  SubmissionState   `json:"state"`
	Reason TerminationReason `json:"reason,omitempty"`
}

// SubmitProfileWorkflow takes a profile from the form to the store:
//
//	draft? -> validate -> confirmation? -> persist -> END
//
// Validation runs in-workflow (pure function, no I/O, determinism-safe).
// Each step may short-circuit to END via early returns.
func SubmitProfileWorkflow(ctx workflow.Context, input SubmitInput) (WorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	result := WorkflowResult{State: SubmissionState{
		PositionID:  input.Profile.PositionID,
		SubmittedBy: input.SubmittedBy,
	}}
	state := &result.State

	if err := workflow.SetQueryHandler(ctx, QueryNameState, func() (WorkflowResult, error) {
		return result, nil
	}); err != nil {
		return WorkflowResult{}, fmt.Errorf("register state query: %w", err)
	}

	fail := func(reason TerminationReason, err error) (WorkflowResult, error) {
		msg := err.Error()
		state.Error = &msg
		state.Phase = PhaseDone
		result.Reason = reason
		return result, nil
	}

	profile := input.Profile

	// ------------------------------------------------------------------
	// Draft: fill a missing EMO justification from the suggestion service
	// ------------------------------------------------------------------
	if input.AutoDraftJustification && profile.EMOPeriodicity.RequiresJustification() &&
		domain.Blank(profile.PeriodicityJustification) {
		state.Phase = PhaseDraft
		draftCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
			StartToCloseTimeout: 30 * time.Second,
			RetryPolicy: &temporal.RetryPolicy{
				MaximumAttempts: 1,
			},
		})
		var out activities.DraftJustificationOutput
		err := workflow.ExecuteActivity(draftCtx, activities.NameDraftEmoJustification, activities.DraftJustificationInput{
			Request: emo.RequestFromProfile(profile),
		}).Get(ctx, &out)
		switch {
		case err != nil:
			logger.Warn("justification draft failed, validating without it", "error", err)
		case !domain.Blank(out.Suggestion.DraftJustification):
			profile.PeriodicityJustification = out.Suggestion.DraftJustification
			state.DraftedJustification = true
		}
	}

	// ------------------------------------------------------------------
	// Validate
	// ------------------------------------------------------------------
	state.Phase = PhaseValidate
	if err := domain.ValidateProfileShape(profile); err != nil {
		return fail(ReasonRejected, err)
	}
	outcome := policy.NewValidator().Validate(profile)
	state.Outcome = &outcome
	logger.Info("profile validated", "position_id", profile.PositionID, "decision", outcome.Decision)

	var confirmation *policy.Confirmation
	switch outcome.Decision {
	case policy.DecisionRejected:
		state.Phase = PhaseDone
		result.Reason = ReasonRejected
		return result, nil

	case policy.DecisionRequiresConfirmation:
		state.Phase = PhaseConfirmation
		now := workflow.Now(ctx)
		state.ConfirmationRequestedAt = &now
		c, err := waitForConfirmation(ctx)
		if err != nil {
			return WorkflowResult{}, fmt.Errorf("confirmation gate: %w", err)
		}
		if c == nil {
			logger.Info("confirmation timed out", "position_id", profile.PositionID)
			state.Phase = PhaseDone
			result.Reason = ReasonConfirmationTimedOut
			return result, nil
		}
		state.Confirmation = c
		if !c.Acknowledged {
			state.Phase = PhaseDone
			result.Reason = ReasonDeclined
			return result, nil
		}
		confirmation = c
	}

	// ------------------------------------------------------------------
	// Persist: gate, version and save (no retries for safety)
	// ------------------------------------------------------------------
	state.Phase = PhasePersist
	persistCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           versioning.QueuePersist,
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})
	var out activities.PersistProfileOutput
	err := workflow.ExecuteActivity(persistCtx, activities.NamePersistProfile, activities.PersistProfileInput{
		Profile:        profile,
		Confirmation:   confirmation,
		IdempotencyKey: workflow.GetInfo(ctx).WorkflowExecution.ID,
	}).Get(ctx, &out)
	if err != nil {
		return fail(ReasonPersistError, fmt.Errorf("persist failed: %w", err))
	}
	saved := out.Saved
	if saved.Version == "" {
		saved.Version = out.Version
	}
	state.Saved = &saved
	state.Verification = out.Verification
	state.Phase = PhaseDone
	result.Reason = ReasonCompleted
	logger.Info("profile saved", "position_id", profile.PositionID, "version", saved.Version)
	return result, nil
}

// errAlreadyConfirmed rejects a second answer.
var errAlreadyConfirmed = errors.New("confirmation already received")

// waitForConfirmation registers the confirmation Update handler and waits
// for the operator's answer or the timeout, whichever comes first. A nil
// confirmation means the timeout fired.
func waitForConfirmation(ctx workflow.Context) (*policy.Confirmation, error) {
	logger := workflow.GetLogger(ctx)

	var answer *policy.Confirmation
	timedOut := false

	err := workflow.SetUpdateHandlerWithOptions(
		ctx,
		UpdateNameConfirmation,
		func(ctx workflow.Context, c policy.Confirmation) (string, error) {
			if answer != nil || timedOut {
				return "", errAlreadyConfirmed
			}
			answer = &c
			if c.Acknowledged {
				logger.Info("VLP breach acknowledged", "by", c.By)
				return "acknowledged", nil
			}
			logger.Info("VLP breach declined", "by", c.By, "reason", c.Reason)
			return "declined", nil
		},
		workflow.UpdateHandlerOptions{
			Validator: func(c policy.Confirmation) error {
				if c.By == "" {
					return fmt.Errorf("confirmation 'by' field is required")
				}
				if answer != nil || timedOut {
					return errAlreadyConfirmed
				}
				return nil
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("register confirmation handler: %w", err)
	}

	ok, err := workflow.AwaitWithTimeout(ctx, ConfirmationTimeout, func() bool { return answer != nil })
	if err != nil {
		return nil, fmt.Errorf("await confirmation: %w", err)
	}
	if !ok {
		timedOut = true
		return nil, nil
	}
	return answer, nil
}
