// Package persist runs the save pipeline of a position risk profile: shape
// check, validation and save gate, payload cleaning, next version and the
// call to the persistence collaborator with an immutable snapshot.
package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/ratelimit"
	"github.com/sgsst/profesiograma-go/internal/vlp"
)

// ErrInvalidProfile wraps shape errors found before validation.
var ErrInvalidProfile = errors.New("invalid profile")

// ActivityName is the budget key of saves.
const ActivityName = "PersistProfile"

// Request is one save attempt.
type Request struct {
	Profile        domain.PositionRiskProfile `json:"profile"`
	Confirmation   *policy.Confirmation       `json:"confirmation,omitempty"`
	IdempotencyKey string                     `json:"idempotency_key,omitempty"`
}

// Receipt describes a save. Outcome is set whenever validation ran, also
// when the gate refused the save.
type Receipt struct {
	Outcome  policy.Outcome             `json:"outcome"`
	Saved    domain.SavedProfile        `json:"saved"`
	Snapshot domain.PositionRiskProfile `json:"snapshot"`
}

// Saver persists profiles that pass the save gate.
type Saver struct {
	store     Store
	validator *policy.Validator
	budget    *ratelimit.ActivityBudget
	logger    *slog.Logger
}

// Option configures a Saver.
type Option func(*Saver)

// WithBudget limits saves per position.
func WithBudget(b *ratelimit.ActivityBudget) Option { return func(s *Saver) { s.budget = b } }

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option { return func(s *Saver) { s.logger = l } }

// WithValidator replaces the default validator.
func WithValidator(v *policy.Validator) Option { return func(s *Saver) { s.validator = v } }

// NewSaver creates a Saver backed by store.
func NewSaver(store Store, opts ...Option) *Saver {
	s := &Saver{store: store, validator: policy.NewValidator(), logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Validate runs the shape check and the assessment validator without saving.
func (s *Saver) Validate(p domain.PositionRiskProfile) (policy.Outcome, error) {
	if err := domain.ValidateProfileShape(p); err != nil {
		return policy.Outcome{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return s.validator.Validate(p), nil
}

// Save validates req.Profile, enforces the save gate and stores a cleaned
// snapshot under the next version. Nothing reaches the store unless the
// gate passes.
func (s *Saver) Save(ctx context.Context, req Request) (Receipt, error) {
	outcome, err := s.Validate(req.Profile)
	if err != nil {
		return Receipt{}, err
	}
	rec := Receipt{Outcome: outcome}
	if err := policy.EnforceSaveGate(outcome, req.Confirmation); err != nil {
		return rec, err
	}

	positionID := req.Profile.PositionID
	if err := s.budget.Allow(ratelimit.PositionKey(positionID), ActivityName); err != nil {
		return rec, fmt.Errorf("persist: %w", err)
	}

	versions, err := s.store.ListVersions(ctx, positionID)
	if err != nil {
		return rec, fmt.Errorf("persist: list versions of position %d: %w", positionID, err)
	}

	snapshot := req.Profile.Cleaned()
	snapshot.Version = domain.NextVersion(versions)
	if snapshot.Status == "" {
		snapshot.Status = domain.StatusActive
	}
	stampBreaches(&snapshot, outcome, req.Confirmation)

	saved, err := s.store.SaveProfile(ctx, snapshot.Clone(), req.IdempotencyKey)
	if err != nil {
		return rec, fmt.Errorf("persist: save position %d: %w", positionID, err)
	}
	rec.Saved = saved
	rec.Snapshot = snapshot

	attrs := []any{"position_id", positionID, "version", saved.Version, "profile_id", saved.ID}
	if outcome.Decision == policy.DecisionRequiresConfirmation {
		attrs = append(attrs, "breaches", len(outcome.Breaches), "confirmed_by", req.Confirmation.By)
	}
	s.logger.Info("profile saved", attrs...)
	return rec, nil
}

// stampBreaches writes each factor's VLP verdict onto the snapshot and, when
// the save went through on an acknowledgment, who accepted which breaches.
func stampBreaches(p *domain.PositionRiskProfile, outcome policy.Outcome, c *policy.Confirmation) {
	for i := range p.Factors {
		p.Factors[i].VLPVerdict = string(vlp.CheckAssessment(p.Factors[i]).Verdict)
	}
	p.BreachAcknowledgment = nil
	if outcome.Decision != policy.DecisionRequiresConfirmation || c == nil {
		return
	}
	ack := &domain.BreachAcknowledgment{By: c.By, Reason: c.Reason, Breaches: make([]string, len(outcome.Breaches))}
	for i, b := range outcome.Breaches {
		ack.Breaches[i] = b.String()
	}
	p.BreachAcknowledgment = ack
}
