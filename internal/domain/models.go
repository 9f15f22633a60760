package domain

import (
	"strconv"
	"strings"
	"time"
)

// DefaultExposureHours is the daily exposure assumed for a newly added factor.
const DefaultExposureHours = 8.0

func today() string {
	return time.Now().UTC().Format(time.DateOnly)
}

// Ptr helpers keep table literals short.
func (d Deficiency) Ptr() *Deficiency   { return &d }
func (e Exposure) Ptr() *Exposure       { return &e }
func (c Consequence) Ptr() *Consequence { return &c }

// HazardFactor is an administrator-maintained catalog entry. The engine
// never mutates it.
type HazardFactor struct {
	ID              int            `json:"id"`
	Code            string         `json:"code"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Category        HazardCategory `json:"category"`
	Active          bool           `json:"active"`
	ActionThreshold string         `json:"action_threshold,omitempty"`
	Unit            string         `json:"unit,omitempty"`
	UnitSymbol      string         `json:"unit_symbol,omitempty"`
	Instrument      string         `json:"instrument,omitempty"`
	Regulation      string         `json:"regulation,omitempty"`
}

// DefaultUnit prefers the unit name and falls back to its symbol.
func (f HazardFactor) DefaultUnit() string {
	if !Blank(f.Unit) {
		return strings.TrimSpace(f.Unit)
	}
	return strings.TrimSpace(f.UnitSymbol)
}

// Position is the job position a profile belongs to.
type Position struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Area           string `json:"area,omitempty"`
	Location       string `json:"location,omitempty"`
	Department     string `json:"department,omitempty"`
	EMOPeriodicity string `json:"emo_periodicity,omitempty"`
}

// Zone is the first non-blank of area, location and department.
func (p Position) Zone() string {
	for _, v := range []string{p.Area, p.Location, p.Department} {
		if !Blank(v) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// DefaultPeriodicity derives the EMO interval from the position's free text.
func (p Position) DefaultPeriodicity() Periodicity {
	return PeriodicityFromText(p.EMOPeriodicity)
}

// ControlHierarchy is the ESIAE hierarchy plus required PPE.
type ControlHierarchy struct {
	Elimination    string `json:"elimination,omitempty"`
	Substitution   string `json:"substitution,omitempty"`
	Engineering    string `json:"engineering,omitempty"`
	Administrative string `json:"administrative,omitempty"`
	Signage        string `json:"signage,omitempty"`
	PPE            string `json:"ppe,omitempty"`
}

// FactorAssessment is the GTC-45 evaluation of one hazard factor for one
// position. NP, NR and their classifications are derived on demand and are
// never stored here.
type FactorAssessment struct {
	FactorID   int    `json:"factor_id"`
	FactorName string `json:"factor_name,omitempty"`

	Process  string `json:"process,omitempty"`
	Activity string `json:"activity,omitempty"`
	Task     string `json:"task,omitempty"`
	Routine  *bool  `json:"routine,omitempty"`

	Zone              string         `json:"zone,omitempty"`
	HazardType        string         `json:"hazard_type,omitempty"`
	Classification    Classification `json:"classification,omitempty"`
	HazardDescription string         `json:"hazard_description,omitempty"`
	PossibleEffects   string         `json:"possible_effects,omitempty"`

	ND *Deficiency  `json:"nd,omitempty"`
	NE *Exposure    `json:"ne,omitempty"`
	NC *Consequence `json:"nc,omitempty"`

	ExposureHours    float64 `json:"exposure_hours"`
	MeasuredValue    string  `json:"measured_value,omitempty"`
	PermissibleLimit string  `json:"permissible_limit,omitempty"`
	Unit             string  `json:"unit,omitempty"`

	// VLPVerdict is stamped when the profile is saved.
	VLPVerdict string `json:"vlp_verdict,omitempty"`

	ExistingControls  string `json:"existing_controls,omitempty"`
	SourceControl     string `json:"source_control,omitempty"`
	MediumControl     string `json:"medium_control,omitempty"`
	IndividualControl string `json:"individual_control,omitempty"`
	WorstConsequence  string `json:"worst_consequence,omitempty"`
	LegalRequirement  string `json:"legal_requirement,omitempty"`

	Hierarchy ControlHierarchy `json:"hierarchy"`
}

// NewFactorAssessment returns an assessment with the default exposure hours.
func NewFactorAssessment(factorID int, name string) FactorAssessment {
	return FactorAssessment{
		FactorID:      factorID,
		FactorName:    name,
		ExposureHours: DefaultExposureHours,
	}
}

// DisplayName is the factor name, or "factor <id>" when unnamed.
func (a FactorAssessment) DisplayName() string {
	if !Blank(a.FactorName) {
		return strings.TrimSpace(a.FactorName)
	}
	return "factor " + strconv.Itoa(a.FactorID)
}

// OccasionConfig configures one evaluation occasion of an exam.
type OccasionConfig struct {
	Enabled           bool        `json:"enabled"`
	Obligatory        bool        `json:"obligatory"`
	PeriodicityMonths Periodicity `json:"periodicity_months,omitempty"`
}

// ExamSchedule is the set of occasions at which one exam type is performed.
type ExamSchedule struct {
	ExamTypeID int                                   `json:"exam_type_id"`
	ExamName   string                                `json:"exam_name,omitempty"`
	Occasions  map[EvaluationOccasion]OccasionConfig `json:"occasions"`
}

// NewExamSchedule returns every occasion obligatory, the periodic occasion
// preset to 12 months and only the entry occasion optionally enabled.
func NewExamSchedule(examTypeID int, entryEnabled bool) ExamSchedule {
	occ := make(map[EvaluationOccasion]OccasionConfig, len(AllOccasions()))
	for _, o := range AllOccasions() {
		occ[o] = OccasionConfig{Obligatory: true}
	}
	occ[OccasionEntry] = OccasionConfig{Enabled: entryEnabled, Obligatory: true}
	occ[OccasionPeriodic] = OccasionConfig{Obligatory: true, PeriodicityMonths: PeriodicityAnnual}
	return ExamSchedule{ExamTypeID: examTypeID, Occasions: occ}
}

// EnabledOccasions returns the enabled occasions in form order.
func (s ExamSchedule) EnabledOccasions() []EvaluationOccasion {
	var out []EvaluationOccasion
	for _, o := range AllOccasions() {
		if s.Occasions[o].Enabled {
			out = append(out, o)
		}
	}
	return out
}

// DisplayName is the exam name, or "exam <id>" when unnamed.
func (s ExamSchedule) DisplayName() string {
	if !Blank(s.ExamName) {
		return strings.TrimSpace(s.ExamName)
	}
	return "exam " + strconv.Itoa(s.ExamTypeID)
}

// PositionRiskProfile is the unit of validation and save.
type PositionRiskProfile struct {
	PositionID   int           `json:"position_id"`
	PositionName string        `json:"position_name,omitempty"`
	Version      string        `json:"version,omitempty"`
	Status       ProfileStatus `json:"status,omitempty"`

	PredominantPosture    string `json:"predominant_posture,omitempty"`
	ActivitiesDescription string `json:"activities_description,omitempty"`

	Factors              []FactorAssessment `json:"factors"`
	Exams                []ExamSchedule     `json:"exams"`
	ExclusionCriteriaIDs []int              `json:"exclusion_criteria_ids,omitempty"`
	ImmunizationIDs      []int              `json:"immunization_ids,omitempty"`

	EMOPeriodicity           Periodicity   `json:"emo_periodicity_months"`
	PeriodicityJustification string        `json:"periodicity_justification,omitempty"`
	DeclaredRiskLevel        ExposureLevel `json:"declared_risk_level,omitempty"`
	ReviewDate               string        `json:"review_date,omitempty"`
	Observations             string        `json:"observations,omitempty"`

	// BreachAcknowledgment is set on a saved version whose VLP breaches were
	// accepted by an operator.
	BreachAcknowledgment *BreachAcknowledgment `json:"breach_acknowledgment,omitempty"`
}

// BreachAcknowledgment records who accepted which VLP breaches.
type BreachAcknowledgment struct {
	By       string   `json:"by"`
	Reason   string   `json:"reason,omitempty"`
	Breaches []string `json:"breaches"`
}

// NewPositionRiskProfile returns an empty profile with the form defaults.
func NewPositionRiskProfile(p Position) PositionRiskProfile {
	return PositionRiskProfile{
		PositionID:        p.ID,
		PositionName:      p.Name,
		Status:            StatusActive,
		EMOPeriodicity:    p.DefaultPeriodicity(),
		DeclaredRiskLevel: ExposureLevelMedium,
		ReviewDate:        today(),
	}
}

// Factor returns the assessment for factorID.
func (p *PositionRiskProfile) Factor(factorID int) (*FactorAssessment, bool) {
	for i := range p.Factors {
		if p.Factors[i].FactorID == factorID {
			return &p.Factors[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy, used as the immutable snapshot of a save.
func (p PositionRiskProfile) Clone() PositionRiskProfile {
	out := p
	out.Factors = make([]FactorAssessment, len(p.Factors))
	for i, f := range p.Factors {
		if f.Routine != nil {
			r := *f.Routine
			f.Routine = &r
		}
		if f.ND != nil {
			f.ND = f.ND.Ptr()
		}
		if f.NE != nil {
			f.NE = f.NE.Ptr()
		}
		if f.NC != nil {
			f.NC = f.NC.Ptr()
		}
		out.Factors[i] = f
	}
	out.Exams = make([]ExamSchedule, len(p.Exams))
	for i, e := range p.Exams {
		occ := make(map[EvaluationOccasion]OccasionConfig, len(e.Occasions))
		for k, v := range e.Occasions {
			occ[k] = v
		}
		e.Occasions = occ
		out.Exams[i] = e
	}
	out.ExclusionCriteriaIDs = append([]int(nil), p.ExclusionCriteriaIDs...)
	out.ImmunizationIDs = append([]int(nil), p.ImmunizationIDs...)
	if p.BreachAcknowledgment != nil {
		ack := *p.BreachAcknowledgment
		ack.Breaches = append([]string(nil), ack.Breaches...)
		out.BreachAcknowledgment = &ack
	}
	return out
}

// SavedProfile is what the persistence collaborator returns for a save.
type SavedProfile struct {
	ID         int           `json:"id"`
	PositionID int           `json:"position_id"`
	Version    string        `json:"version"`
	Status     ProfileStatus `json:"status"`
	SavedAt    string        `json:"saved_at,omitempty"`
}
