package domain

import (
	"fmt"
	"time"
)

// ValidateHazardFactor checks required fields on a catalog entry.
func ValidateHazardFactor(f HazardFactor) error {
	if f.ID <= 0 {
		return fmt.Errorf("id must be positive, got %d", f.ID)
	}
	if Blank(f.Name) {
		return fmt.Errorf("name is required")
	}
	if !f.Category.Valid() {
		return fmt.Errorf("invalid category: %q", f.Category)
	}
	return nil
}

// ValidateProfileShape checks the identity and reference fields of a profile.
// GTC-45 and periodicity rules are enforced by the assessment validator.
func ValidateProfileShape(p PositionRiskProfile) error {
	if p.PositionID <= 0 {
		return fmt.Errorf("position_id is required")
	}
	seen := make(map[int]bool, len(p.Factors))
	for _, f := range p.Factors {
		if f.FactorID <= 0 {
			return fmt.Errorf("factor_id must be positive, got %d", f.FactorID)
		}
		if seen[f.FactorID] {
			return fmt.Errorf("duplicate factor_id %d", f.FactorID)
		}
		seen[f.FactorID] = true
		if f.Classification != "" && !f.Classification.Valid() {
			return fmt.Errorf("factor %d: unknown classification %q", f.FactorID, f.Classification)
		}
	}
	exams := make(map[int]bool, len(p.Exams))
	for _, e := range p.Exams {
		if e.ExamTypeID <= 0 {
			return fmt.Errorf("exam_type_id must be positive, got %d", e.ExamTypeID)
		}
		if exams[e.ExamTypeID] {
			return fmt.Errorf("duplicate exam_type_id %d", e.ExamTypeID)
		}
		exams[e.ExamTypeID] = true
		for o := range e.Occasions {
			if !o.Valid() {
				return fmt.Errorf("exam %d: invalid occasion %q", e.ExamTypeID, o)
			}
		}
	}
	if p.Status != "" && !p.Status.Valid() {
		return fmt.Errorf("invalid status: %q", p.Status)
	}
	if p.DeclaredRiskLevel != "" && !p.DeclaredRiskLevel.Valid() {
		return fmt.Errorf("invalid declared_risk_level: %q", p.DeclaredRiskLevel)
	}
	if p.ReviewDate != "" {
		if _, err := time.Parse(time.DateOnly, p.ReviewDate); err != nil {
			return fmt.Errorf("review_date must be YYYY-MM-DD, got %q", p.ReviewDate)
		}
	}
	return nil
}
