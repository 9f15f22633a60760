package vlp

import (
	"github.com/sgsst/profesiograma-go/internal/catalog"
	"github.com/sgsst/profesiograma-go/internal/domain"
)

// Field names reported by SuggestFields.
const (
	FieldUnit              = "unit"
	FieldLegalRequirement  = "legal_requirement"
	FieldPermissibleLimit  = "permissible_limit"
	FieldHazardDescription = "hazard_description"
	FieldPossibleEffects   = "possible_effects"
)

// SuggestFields fills the catalog-derived fields of an assessment after its
// classification is chosen: unit, legal requirement and permissible-limit
// text from the VLP entry, then the first candidate description and health
// effect. Only empty or whitespace-only fields are written. It returns the
// names of the fields it filled.
func SuggestFields(a *domain.FactorAssessment) []string {
	var filled []string
	set := func(dst *string, val, name string) {
		if val == "" || !domain.Blank(*dst) {
			return
		}
		*dst = val
		filled = append(filled, name)
	}
	if v, ok := catalog.LookupVLP(a.Classification); ok {
		set(&a.Unit, v.Unit, FieldUnit)
		set(&a.LegalRequirement, v.Regulation, FieldLegalRequirement)
		set(&a.PermissibleLimit, v.LimitText(), FieldPermissibleLimit)
	}
	if t, ok := catalog.LookupText(a.Classification); ok {
		set(&a.HazardDescription, first(t.Descriptions), FieldHazardDescription)
		set(&a.PossibleEffects, first(t.Effects), FieldPossibleEffects)
	}
	return filled
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
