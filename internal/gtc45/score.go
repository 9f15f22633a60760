// Package gtc45 computes the GTC-45 risk valuation of a factor assessment:
// probability level NP = ND×NE, risk level NR = NP×NC and the classifications
// derived from NR. All functions are pure. An absent or out-of-domain input
// leaves the dependent levels undefined (nil); rejecting such inputs is the
// assessment validator's job.
package gtc45

import "github.com/sgsst/profesiograma-go/internal/domain"

// NR thresholds. Every boundary is inclusive.
const (
	CriticalThreshold = 600
	UrgentThreshold   = 150
	ImproveThreshold  = 40
)

// ProbabilityLevel returns NP, or nil unless both ND and NE are defined.
func ProbabilityLevel(nd *domain.Deficiency, ne *domain.Exposure) *int {
	if nd == nil || ne == nil || !nd.Valid() || !ne.Valid() {
		return nil
	}
	np := int(*nd) * int(*ne)
	return &np
}

// RiskLevel returns NR, or nil unless ND, NE and NC are all defined.
func RiskLevel(nd *domain.Deficiency, ne *domain.Exposure, nc *domain.Consequence) *int {
	np := ProbabilityLevel(nd, ne)
	if np == nil || nc == nil || !nc.Valid() {
		return nil
	}
	nr := *np * int(*nc)
	return &nr
}

// ClassifyIntervention maps NR to its intervention level. An undefined NR
// has no classification and returns "".
func ClassifyIntervention(nr *int) domain.InterventionLevel {
	if nr == nil {
		return ""
	}
	switch {
	case *nr >= CriticalThreshold:
		return domain.InterventionCritical
	case *nr >= UrgentThreshold:
		return domain.InterventionUrgent
	case *nr >= ImproveThreshold:
		return domain.InterventionImprove
	default:
		return domain.InterventionAcceptable
	}
}

// ClassifyAcceptability maps NR to its acceptability. An undefined NR
// returns "".
func ClassifyAcceptability(nr *int) domain.Acceptability {
	if nr == nil {
		return ""
	}
	switch {
	case *nr >= UrgentThreshold:
		return domain.NotAcceptable
	case *nr >= ImproveThreshold:
		return domain.AcceptableWithControls
	default:
		return domain.Acceptable
	}
}

// MapExposureLevel buckets NR into the categorical level persisted on the
// factor. It is total: an undefined NR maps to low.
func MapExposureLevel(nr *int) domain.ExposureLevel {
	if nr == nil {
		return domain.ExposureLevelLow
	}
	switch {
	case *nr >= CriticalThreshold:
		return domain.ExposureLevelVeryHigh
	case *nr >= UrgentThreshold:
		return domain.ExposureLevelHigh
	case *nr >= ImproveThreshold:
		return domain.ExposureLevelMedium
	default:
		return domain.ExposureLevelLow
	}
}

// Result is the full derived valuation of one assessment.
type Result struct {
	NP            *int                     `json:"np"`
	NR            *int                     `json:"nr"`
	Intervention  domain.InterventionLevel `json:"intervention,omitempty"`
	Acceptability domain.Acceptability     `json:"acceptability,omitempty"`
	ExposureLevel domain.ExposureLevel     `json:"exposure_level"`
	Complete      bool                     `json:"complete"`
}

// Score derives the valuation from raw levels.
func Score(nd *domain.Deficiency, ne *domain.Exposure, nc *domain.Consequence) Result {
	nr := RiskLevel(nd, ne, nc)
	return Result{
		NP:            ProbabilityLevel(nd, ne),
		NR:            nr,
		Intervention:  ClassifyIntervention(nr),
		Acceptability: ClassifyAcceptability(nr),
		ExposureLevel: MapExposureLevel(nr),
		Complete:      nr != nil,
	}
}

// Evaluate derives the valuation of an assessment.
func Evaluate(a domain.FactorAssessment) Result {
	return Score(a.ND, a.NE, a.NC)
}
