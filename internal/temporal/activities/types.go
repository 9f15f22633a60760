// Package activities defines the Temporal activity I/O structs and the
// Activities implementation that bridges Temporal's serialization boundary
// to the pure-logic packages in internal/.
package activities

import (
	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/emo"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/verifier"
)

// Activity names, used by workflows and by OnActivity mocks.
const (
	NameDraftEmoJustification = "DraftEmoJustification"
	NamePersistProfile        = "PersistProfile"
)

// DraftJustificationInput is the activity input for an EMO justification draft.
type DraftJustificationInput struct {
	Request emo.Request `json:"request"`
}

// DraftJustificationOutput is the activity output of an EMO justification draft.
type DraftJustificationOutput struct {
	Suggestion emo.Suggestion `json:"suggestion"`
}

// PersistProfileInput is the activity input for a save. The confirmation is
// the operator's answer collected by the workflow, nil when none was needed.
type PersistProfileInput struct {
	Profile        domain.PositionRiskProfile `json:"profile"`
	Confirmation   *policy.Confirmation       `json:"confirmation,omitempty"`
	IdempotencyKey string                     `json:"idempotency_key"`
}

// PersistProfileOutput is the activity output of a save.
type PersistProfileOutput struct {
	Saved        domain.SavedProfile `json:"saved"`
	Version      string              `json:"version"`
	Verification *verifier.Result    `json:"verification,omitempty"`
}
