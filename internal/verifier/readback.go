// Package verifier checks a save against what the SST backend reports
// afterwards.
package verifier

import (
	"context"
	"fmt"
	"time"

	"github.com/sgsst/profesiograma-go/internal/domain"
)

// ProfileLister lists the stored profiles of a position.
type ProfileLister interface {
	ListProfiles(ctx context.Context, positionID int) ([]domain.SavedProfile, error)
}

// Recommendation is the follow-up suggested by a verification.
type Recommendation string

const (
	RecommendClose       Recommendation = "close"
	RecommendInvestigate Recommendation = "investigate"
)

// Result is the outcome of a read-back verification.
type Result struct {
	VerifiedAt     string         `json:"verified_at"`
	Found          bool           `json:"found"`
	Active         bool           `json:"active"`
	ActiveVersions []string       `json:"active_versions,omitempty"`
	Details        string         `json:"details"`
	Recommendation Recommendation `json:"recommendation"`
}

// Verify reads the position's profiles back and checks that the saved
// version exists and is the only active one.
func Verify(ctx context.Context, lister ProfileLister, saved domain.SavedProfile) (Result, error) {
	profiles, err := lister.ListProfiles(ctx, saved.PositionID)
	if err != nil {
		return Result{}, fmt.Errorf("verifier: list profiles of position %d: %w", saved.PositionID, err)
	}

	res := Result{VerifiedAt: time.Now().UTC().Format(time.RFC3339)}
	for _, p := range profiles {
		if p.Status == domain.StatusActive {
			res.ActiveVersions = append(res.ActiveVersions, p.Version)
		}
		if p.Version == saved.Version {
			res.Found = true
			res.Active = p.Status == domain.StatusActive
		}
	}

	switch {
	case !res.Found:
		res.Details = fmt.Sprintf("version %s not listed for position %d", saved.Version, saved.PositionID)
	case !res.Active:
		res.Details = fmt.Sprintf("version %s is stored but not active", saved.Version)
	case len(res.ActiveVersions) > 1:
		res.Details = fmt.Sprintf("%d active versions for position %d", len(res.ActiveVersions), saved.PositionID)
	default:
		res.Details = fmt.Sprintf("version %s is the active profile", saved.Version)
		res.Recommendation = RecommendClose
		return res, nil
	}
	res.Recommendation = RecommendInvestigate
	return res, nil
}
