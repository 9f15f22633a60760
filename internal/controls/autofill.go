package controls

import "github.com/sgsst/profesiograma-go/internal/domain"

// Autofill completes the identification fields of a from its catalog factor
// and the position it belongs to: zone, hazard type, classification,
// description, legal requirement and unit. Only empty fields are written.
// It returns the JSON names of the fields it filled.
func Autofill(a *domain.FactorAssessment, f domain.HazardFactor, pos domain.Position) []string {
	var filled []string
	set := func(dst *string, val, field string) {
		if domain.Blank(val) || !domain.Blank(*dst) {
			return
		}
		*dst = val
		filled = append(filled, field)
	}
	set(&a.FactorName, f.Name, "factor_name")
	set(&a.Zone, pos.Zone(), "zone")
	if f.Category.Valid() {
		set(&a.HazardType, f.Category.Label(), "hazard_type")
	}
	if a.Classification == "" {
		if c, ok := domain.ParseClassification(f.Name); ok {
			a.Classification = c
			filled = append(filled, "classification")
		}
	}
	set(&a.HazardDescription, f.Description, "hazard_description")
	set(&a.LegalRequirement, f.Regulation, "legal_requirement")
	set(&a.Unit, f.DefaultUnit(), "unit")
	return filled
}
