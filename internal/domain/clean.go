package domain

import "strings"

// Cleaned trims every free-text field. Blank fields become empty and are
// omitted from the wire form.
func (a FactorAssessment) Cleaned() FactorAssessment {
	for _, f := range []*string{
		&a.FactorName, &a.Process, &a.Activity, &a.Task, &a.Zone, &a.HazardType,
		&a.HazardDescription, &a.PossibleEffects, &a.MeasuredValue, &a.PermissibleLimit,
		&a.Unit, &a.ExistingControls, &a.SourceControl, &a.MediumControl,
		&a.IndividualControl, &a.WorstConsequence, &a.LegalRequirement,
		&a.Hierarchy.Elimination, &a.Hierarchy.Substitution, &a.Hierarchy.Engineering,
		&a.Hierarchy.Administrative, &a.Hierarchy.Signage, &a.Hierarchy.PPE,
	} {
		*f = strings.TrimSpace(*f)
	}
	return a
}

// Cleaned returns a deep copy with every free-text field trimmed.
func (p PositionRiskProfile) Cleaned() PositionRiskProfile {
	out := p.Clone()
	for _, f := range []*string{
		&out.PositionName, &out.Version, &out.PredominantPosture, &out.ActivitiesDescription,
		&out.PeriodicityJustification, &out.ReviewDate, &out.Observations,
	} {
		*f = strings.TrimSpace(*f)
	}
	for i := range out.Factors {
		out.Factors[i] = out.Factors[i].Cleaned()
	}
	for i := range out.Exams {
		out.Exams[i].ExamName = strings.TrimSpace(out.Exams[i].ExamName)
	}
	return out
}
