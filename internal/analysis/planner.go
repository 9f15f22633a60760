// Package analysis reviews a position risk profile as a whole: it scores
// every factor, checks measured values against their limits and summarizes
// the position's exposure for the operator.
package analysis

import (
	"fmt"
	"strings"

	"github.com/sgsst/profesiograma-go/internal/catalog"
	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/gtc45"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/vlp"
)

// FactorAnalysis is the derived view of one factor assessment.
type FactorAnalysis struct {
	FactorID   int          `json:"factor_id"`
	FactorName string       `json:"factor_name"`
	Score      gtc45.Result `json:"score"`
	VLP        vlp.Result   `json:"vlp"`
	// ControlProfile is the default control set the factor maps to, if any.
	ControlProfile catalog.ControlProfile `json:"control_profile,omitempty"`
	// NeedsControls marks a critical or urgent factor with no entry in
	// its control hierarchy.
	NeedsControls bool `json:"needs_controls"`
}

// ProfileAnalysis is the result of Analyze.
type ProfileAnalysis struct {
	PositionID      int                     `json:"position_id"`
	Factors         []FactorAnalysis        `json:"factors"`
	Breaches        []policy.Breach         `json:"breaches,omitempty"`
	Recommendations []policy.Recommendation `json:"recommendations,omitempty"`
	Incomplete      []int                   `json:"incomplete_factor_ids,omitempty"`
	HighestNR       *int                    `json:"highest_nr,omitempty"`
	OverallExposure domain.ExposureLevel    `json:"overall_exposure"`
	DeclaredLevel   domain.ExposureLevel    `json:"declared_risk_level,omitempty"`
	// DeclaredBelowComputed is set when the declared position risk level
	// is lower than the highest factor exposure.
	DeclaredBelowComputed bool   `json:"declared_below_computed"`
	JustificationRequired bool   `json:"justification_required"`
	Narrative             string `json:"narrative"`
}

// Analyze derives scores, VLP verdicts, breaches and the overall exposure of
// p. It never fails: incomplete factors are listed instead of scored.
func Analyze(p domain.PositionRiskProfile) ProfileAnalysis {
	out := ProfileAnalysis{
		PositionID:            p.PositionID,
		Factors:               make([]FactorAnalysis, 0, len(p.Factors)),
		DeclaredLevel:         p.DeclaredRiskLevel,
		JustificationRequired: p.EMOPeriodicity.RequiresJustification(),
	}

	for _, f := range p.Factors {
		fa := FactorAnalysis{
			FactorID:   f.FactorID,
			FactorName: f.DisplayName(),
			Score:      gtc45.Evaluate(f),
			VLP:        vlp.CheckAssessment(f),
		}
		if cp, ok := catalog.ControlProfileFor(f.FactorName); ok {
			fa.ControlProfile = cp
		} else if cp, ok := catalog.ControlProfileForClassification(f.Classification); ok {
			fa.ControlProfile = cp
		}
		if !fa.Score.Complete {
			out.Incomplete = append(out.Incomplete, f.FactorID)
		} else {
			if out.HighestNR == nil || *fa.Score.NR > *out.HighestNR {
				nr := *fa.Score.NR
				out.HighestNR = &nr
			}
			urgent := *fa.Score.NR >= gtc45.UrgentThreshold
			fa.NeedsControls = urgent && hierarchyEmpty(f.Hierarchy)
		}
		out.Factors = append(out.Factors, fa)
	}

	out.OverallExposure = gtc45.MapExposureLevel(out.HighestNR)
	out.Breaches = policy.ScanBreaches(p.Factors)
	out.Recommendations = policy.RecommendEscalation(p.Factors, out.Breaches)
	if p.DeclaredRiskLevel.Valid() && out.HighestNR != nil {
		out.DeclaredBelowComputed = domain.ExposureRank[p.DeclaredRiskLevel] < domain.ExposureRank[out.OverallExposure]
	}
	out.Narrative = narrative(out)
	return out
}

func hierarchyEmpty(h domain.ControlHierarchy) bool {
	for _, v := range []string{h.Elimination, h.Substitution, h.Engineering, h.Administrative, h.Signage, h.PPE} {
		if !domain.Blank(v) {
			return false
		}
	}
	return true
}

func narrative(a ProfileAnalysis) string {
	parts := []string{fmt.Sprintf("%d factors assessed", len(a.Factors))}
	if a.HighestNR != nil {
		parts = append(parts, fmt.Sprintf("highest NR %d (%s)", *a.HighestNR, gtc45.ClassifyIntervention(a.HighestNR)))
	}
	if n := len(a.Incomplete); n > 0 {
		parts = append(parts, fmt.Sprintf("%d without a complete valuation", n))
	}
	if n := len(a.Breaches); n > 0 {
		parts = append(parts, fmt.Sprintf("%d VLP breaches", n))
	}
	if a.DeclaredBelowComputed {
		parts = append(parts, fmt.Sprintf("declared risk level %s is below the computed %s", a.DeclaredLevel, a.OverallExposure))
	}
	return strings.Join(parts, "; ")
}
