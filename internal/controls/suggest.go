// Package controls proposes default text for the control fields of a factor
// assessment and completes its identification fields from the factor
// catalog. Suggestions never overwrite a field that already has content.
package controls

import (
	"fmt"

	"github.com/sgsst/profesiograma-go/internal/catalog"
	"github.com/sgsst/profesiograma-go/internal/domain"
)

// Field names reported in Report.Applied.
const (
	FieldSource           = "source_control"
	FieldMedium           = "medium_control"
	FieldIndividual       = "individual_control"
	FieldWorstConsequence = "worst_consequence"
	FieldElimination      = "elimination"
	FieldSubstitution     = "substitution"
	FieldEngineering      = "engineering_controls"
	FieldAdministrative   = "administrative_controls"
	FieldSignage          = "signage"
	FieldPPE              = "required_ppe"
)

// Report describes what Apply did. A missing profile is informational.
type Report struct {
	Profile catalog.ControlProfile `json:"profile,omitempty"`
	Found   bool                   `json:"found"`
	Applied []string               `json:"applied"`
	Message string                 `json:"message"`
}

// Apply fills the empty control fields of a with the defaults for the
// hazard. The hazard is resolved from hazardName first, then from the
// assessment's factor name and classification. Applying twice is a no-op.
func Apply(a *domain.FactorAssessment, hazardName string) Report {
	profile, ok := resolve(hazardName, a.FactorName, string(a.Classification))
	if !ok {
		name := hazardName
		if domain.Blank(name) {
			name = a.DisplayName()
		}
		return Report{Message: fmt.Sprintf("no predefined controls for %q; enter them manually", name)}
	}
	d, _ := catalog.LookupControls(profile)

	rep := Report{Profile: profile, Found: true, Applied: []string{}}
	fill := func(dst *string, val, field string) {
		if val == "" || !domain.Blank(*dst) {
			return
		}
		*dst = val
		rep.Applied = append(rep.Applied, field)
	}
	fill(&a.SourceControl, d.Source, FieldSource)
	fill(&a.MediumControl, d.Medium, FieldMedium)
	fill(&a.IndividualControl, d.Individual, FieldIndividual)
	fill(&a.WorstConsequence, d.WorstConsequence, FieldWorstConsequence)
	fill(&a.Hierarchy.Elimination, d.Hierarchy.Elimination, FieldElimination)
	fill(&a.Hierarchy.Substitution, d.Hierarchy.Substitution, FieldSubstitution)
	fill(&a.Hierarchy.Engineering, d.Hierarchy.Engineering, FieldEngineering)
	fill(&a.Hierarchy.Administrative, d.Hierarchy.Administrative, FieldAdministrative)
	fill(&a.Hierarchy.Signage, d.Hierarchy.Signage, FieldSignage)
	fill(&a.Hierarchy.PPE, d.Hierarchy.PPE, FieldPPE)

	if len(rep.Applied) == 0 {
		rep.Message = "fields are already completed"
	} else {
		rep.Message = "typical controls applied"
	}
	return rep
}

func resolve(names ...string) (catalog.ControlProfile, bool) {
	for _, n := range names {
		if p, ok := catalog.ControlProfileFor(n); ok {
			return p, true
		}
	}
	return "", false
}
