package workflows_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/emo"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/temporal/activities"
	"github.com/sgsst/profesiograma-go/internal/temporal/workflows"
	"github.com/sgsst/profesiograma-go/internal/verifier"
)

type SubmitProfileSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *SubmitProfileSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	// Register activity struct so string-based OnActivity mocks work.
	s.env.RegisterActivity(&activities.Activities{})
}

func (s *SubmitProfileSuite) AfterTest(_, _ string) {
	s.env.AssertExpectations(s.T())
}

func (s *SubmitProfileSuite) result() workflows.WorkflowResult {
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	var result workflows.WorkflowResult
	s.NoError(s.env.GetWorkflowResult(&result))
	return result
}

func (s *SubmitProfileSuite) onPersist() *testsuite.MockCallWrapper {
	return s.env.OnActivity(activities.NamePersistProfile, testAnyCtx, testAnyInput)
}

func saved(version string) activities.PersistProfileOutput {
	return activities.PersistProfileOutput{
		Saved:        domain.SavedProfile{ID: 7, PositionID: 12, Version: version, Status: domain.StatusActive},
		Version:      version,
		Verification: &verifier.Result{Found: true, Active: true, Recommendation: verifier.RecommendClose},
	}
}

// 1. Accepted: no confirmation, persist called once.
func (s *SubmitProfileSuite) TestAccepted() {
	s.onPersist().Return(saved("1.0"), nil).Once()

	s.env.ExecuteWorkflow(workflows.SubmitProfileWorkflow, workflows.SubmitInput{Profile: testProfile("80"), SubmittedBy: "sst"})
	result := s.result()
	s.Equal(workflows.ReasonCompleted, result.Reason)
	s.Equal(policy.DecisionAccepted, result.State.Outcome.Decision)
	s.Require().NotNil(result.State.Saved)
	s.Equal("1.0", result.State.Saved.Version)
	s.Equal(workflows.PhaseDone, result.State.Phase)
	s.Nil(result.State.Confirmation)
	s.Require().NotNil(result.State.Verification)
	s.Equal(verifier.RecommendClose, result.State.Verification.Recommendation)
}

// 2. Rejected: short justification, nothing persisted.
func (s *SubmitProfileSuite) TestRejected() {
	p := testProfile("80")
	p.EMOPeriodicity = 24
	p.PeriodicityJustification = "muy corta"

	s.env.ExecuteWorkflow(workflows.SubmitProfileWorkflow, workflows.SubmitInput{Profile: p})
	result := s.result()
	s.Equal(workflows.ReasonRejected, result.Reason)
	s.Equal(policy.CodeJustificationTooShort, result.State.Outcome.Violations[0].Code)
	s.Nil(result.State.Saved)
}

// 3. InvalidShape: a profile without a position is rejected before validation.
func (s *SubmitProfileSuite) TestInvalidShape() {
	p := testProfile("80")
	p.PositionID = 0

	s.env.ExecuteWorkflow(workflows.SubmitProfileWorkflow, workflows.SubmitInput{Profile: p})
	result := s.result()
	s.Equal(workflows.ReasonRejected, result.Reason)
	s.Nil(result.State.Outcome)
	s.NotNil(result.State.Error)
}

// 4. AutoDraft: a blank justification is drafted before validation.
func (s *SubmitProfileSuite) TestAutoDraft() {
	p := testProfile("80")
	p.EMOPeriodicity = 24

	s.env.OnActivity(activities.NameDraftEmoJustification, testAnyCtx,
		mock.MatchedBy(func(in activities.DraftJustificationInput) bool {
			return in.Request.PositionID == 12 && in.Request.Periodicity == 24 && len(in.Request.Factors) == 1
		}),
	).Return(activities.DraftJustificationOutput{Suggestion: emo.Suggestion{
		PositionID:         12,
		DraftJustification: longJustification,
	}}, nil).Once()
	s.env.OnActivity(activities.NamePersistProfile, testAnyCtx,
		mock.MatchedBy(func(in activities.PersistProfileInput) bool {
			return in.Profile.PeriodicityJustification == longJustification
		}),
	).Return(saved("1.1"), nil).Once()

	s.env.ExecuteWorkflow(workflows.SubmitProfileWorkflow, workflows.SubmitInput{Profile: p, AutoDraftJustification: true})
	result := s.result()
	s.Equal(workflows.ReasonCompleted, result.Reason)
	s.True(result.State.DraftedJustification)
}

// 5. AutoDraftFailure: the draft is attempted once, its error is ignored and
// validation rejects.
func (s *SubmitProfileSuite) TestAutoDraftFailure() {
	p := testProfile("80")
	p.EMOPeriodicity = 36

	calls := 0
	s.env.OnActivity(activities.NameDraftEmoJustification, testAnyCtx, testAnyInput).
		Return(func(context.Context, activities.DraftJustificationInput) (activities.DraftJustificationOutput, error) {
			calls++
			return activities.DraftJustificationOutput{}, errors.New("suggestion service down")
		})

	s.env.ExecuteWorkflow(workflows.SubmitProfileWorkflow, workflows.SubmitInput{Profile: p, AutoDraftJustification: true})
	result := s.result()
	s.Equal(1, calls, "the suggestion service is not retried")
	s.Equal(workflows.ReasonRejected, result.Reason)
	s.False(result.State.DraftedJustification)
	s.Require().NotNil(result.State.Outcome)
	s.Equal(policy.CodeJustificationTooShort, result.State.Outcome.Violations[0].Code)
}

// 6. NoDraftWhenJustified: an existing justification is never replaced.
func (s *SubmitProfileSuite) TestNoDraftWhenJustified() {
	p := testProfile("80")
	p.EMOPeriodicity = 24
	p.PeriodicityJustification = longJustification
	s.onPersist().Return(saved("1.0"), nil).Once()

	s.env.ExecuteWorkflow(workflows.SubmitProfileWorkflow, workflows.SubmitInput{Profile: p, AutoDraftJustification: true})
	result := s.result()
	s.Equal(workflows.ReasonCompleted, result.Reason)
	s.False(result.State.DraftedJustification)
}

// 7. BreachAcknowledged: the confirmation travels to the persist activity.
func (s *SubmitProfileSuite) TestBreachAcknowledged() {
	s.env.OnActivity(activities.NamePersistProfile, testAnyCtx,
		mock.MatchedBy(func(in activities.PersistProfileInput) bool {
			return in.Confirmation != nil && in.Confirmation.Acknowledged && in.Confirmation.By == "coordinador-sst"
		}),
	).Return(saved("1.0"), nil).Once()

	s.env.RegisterDelayedCallback(func() {
		s.env.UpdateWorkflowNoRejection(workflows.UpdateNameConfirmation, "confirm-1", s.T(),
			policy.Confirmation{Acknowledged: true, By: "coordinador-sst"})
	}, time.Minute)

	s.env.ExecuteWorkflow(workflows.SubmitProfileWorkflow, workflows.SubmitInput{Profile: testProfile("92 dB")})
	result := s.result()
	s.Equal(workflows.ReasonCompleted, result.Reason)
	s.Equal(policy.DecisionRequiresConfirmation, result.State.Outcome.Decision)
	s.Require().Len(result.State.Outcome.Breaches, 1)
	s.Equal("92 > 85 dB", result.State.Outcome.Breaches[0].Summary())
	s.NotNil(result.State.ConfirmationRequestedAt)
	s.True(result.State.Confirmation.Acknowledged)
}

// 8. BreachDeclined: the operator refuses, nothing persisted.
func (s *SubmitProfileSuite) TestBreachDeclined() {
	s.env.RegisterDelayedCallback(func() {
		s.env.UpdateWorkflowNoRejection(workflows.UpdateNameConfirmation, "decline-1", s.T(),
			policy.Confirmation{Acknowledged: false, By: "coordinador-sst", Reason: "repetir medición"})
	}, time.Minute)

	s.env.ExecuteWorkflow(workflows.SubmitProfileWorkflow, workflows.SubmitInput{Profile: testProfile("92")})
	result := s.result()
	s.Equal(workflows.ReasonDeclined, result.Reason)
	s.Equal("repetir medición", result.State.Confirmation.Reason)
	s.Nil(result.State.Saved)
}

// 9. ConfirmationTimeout: no answer within the window.
func (s *SubmitProfileSuite) TestConfirmationTimeout() {
	s.env.ExecuteWorkflow(workflows.SubmitProfileWorkflow, workflows.SubmitInput{Profile: testProfile("92")})
	result := s.result()
	s.Equal(workflows.ReasonConfirmationTimedOut, result.Reason)
	s.Nil(result.State.Confirmation)
}

// 10. ConfirmationValidator: an anonymous answer is rejected, a later valid one wins.
func (s *SubmitProfileSuite) TestConfirmationRequiresBy() {
	s.onPersist().Return(saved("1.0"), nil).Once()

	rejected := false
	s.env.RegisterDelayedCallback(func() {
		s.env.UpdateWorkflow(workflows.UpdateNameConfirmation, "anon", &testsuite.TestUpdateCallback{
			OnAccept:   func() { s.Fail("anonymous confirmation must be rejected") },
			OnReject:   func(error) { rejected = true },
			OnComplete: func(any, error) {},
		}, policy.Confirmation{Acknowledged: true})
	}, time.Minute)
	s.env.RegisterDelayedCallback(func() {
		s.env.UpdateWorkflowNoRejection(workflows.UpdateNameConfirmation, "named", s.T(),
			policy.Confirmation{Acknowledged: true, By: "sst"})
	}, 2*time.Minute)

	s.env.ExecuteWorkflow(workflows.SubmitProfileWorkflow, workflows.SubmitInput{Profile: testProfile("92")})
	result := s.result()
	s.True(rejected)
	s.Equal(workflows.ReasonCompleted, result.Reason)
}

// 11. QueryWhileWaiting: the state query reports the pending confirmation.
func (s *SubmitProfileSuite) TestQueryWhileWaiting() {
	s.env.RegisterDelayedCallback(func() {
		encoded, err := s.env.QueryWorkflow(workflows.QueryNameState)
		s.Require().NoError(err)
		var live workflows.WorkflowResult
		s.Require().NoError(encoded.Get(&live))
		s.True(live.State.AwaitingConfirmation())
		s.Empty(live.Reason)
		s.Equal(12, live.State.PositionID)

		s.env.UpdateWorkflowNoRejection(workflows.UpdateNameConfirmation, "q-1", s.T(),
			policy.Confirmation{Acknowledged: false, By: "sst"})
	}, time.Hour)

	s.env.ExecuteWorkflow(workflows.SubmitProfileWorkflow, workflows.SubmitInput{Profile: testProfile("92")})
	s.Equal(workflows.ReasonDeclined, s.result().Reason)
}

// 12. PersistError: the activity failure ends the workflow with a reason.
func (s *SubmitProfileSuite) TestPersistError() {
	s.onPersist().Return(activities.PersistProfileOutput{}, errors.New("backend down")).Once()

	s.env.ExecuteWorkflow(workflows.SubmitProfileWorkflow, workflows.SubmitInput{Profile: testProfile("80")})
	result := s.result()
	s.Equal(workflows.ReasonPersistError, result.Reason)
	s.Require().NotNil(result.State.Error)
	s.Contains(*result.State.Error, "backend down")
}

func TestSubmitProfileSuite(t *testing.T) {
	suite.Run(t, new(SubmitProfileSuite))
}
