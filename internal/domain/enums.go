package domain

// HazardCategory is the top-level GTC-45 hazard family of a catalog factor.
type HazardCategory string

const (
	CategoryPhysical         HazardCategory = "physical"
	CategoryChemical         HazardCategory = "chemical"
	CategoryBiological       HazardCategory = "biological"
	CategoryBiomechanical    HazardCategory = "biomechanical"
	CategoryPsychosocial     HazardCategory = "psychosocial"
	CategorySafetyConditions HazardCategory = "safety_conditions"
	CategoryPublic           HazardCategory = "public"
	CategoryNaturalPhenomena HazardCategory = "natural_phenomena"
)

func (c HazardCategory) Valid() bool {
	switch c {
	case CategoryPhysical, CategoryChemical, CategoryBiological, CategoryBiomechanical,
		CategoryPsychosocial, CategorySafetyConditions, CategoryPublic, CategoryNaturalPhenomena:
		return true
	}
	return false
}

// Label returns the hazard-type label used on the risk matrix.
func (c HazardCategory) Label() string {
	switch c {
	case CategoryPhysical:
		return "Físico"
	case CategoryChemical:
		return "Químico"
	case CategoryBiological:
		return "Biológico"
	case CategoryBiomechanical:
		return "Ergonómico/Biomecánico"
	case CategoryPsychosocial:
		return "Psicosocial"
	case CategorySafetyConditions:
		return "Condiciones de Seguridad"
	case CategoryPublic:
		return "Público"
	case CategoryNaturalPhenomena:
		return "Fenómenos Naturales"
	}
	return string(c)
}

// AllCategories lists the categories in matrix order.
func AllCategories() []HazardCategory {
	return []HazardCategory{
		CategoryPhysical, CategoryChemical, CategoryBiological, CategoryBiomechanical,
		CategoryPsychosocial, CategorySafetyConditions, CategoryPublic, CategoryNaturalPhenomena,
	}
}

// ParseCategory accepts the canonical value, the backend short codes
// ("fisico", "ergonomico", "seguridad", ...) or the matrix label.
func ParseCategory(s string) (HazardCategory, bool) {
	key := Fold(s)
	switch key {
	case "fisico":
		return CategoryPhysical, true
	case "quimico":
		return CategoryChemical, true
	case "biologico":
		return CategoryBiological, true
	case "ergonomico", "biomecanico":
		return CategoryBiomechanical, true
	case "seguridad":
		return CategorySafetyConditions, true
	case "publico":
		return CategoryPublic, true
	case "natural", "fenomenos naturales":
		return CategoryNaturalPhenomena, true
	}
	for _, c := range AllCategories() {
		if key == Fold(string(c)) || key == Fold(c.Label()) {
			return c, true
		}
	}
	return "", false
}

// Deficiency is the GTC-45 deficiency level (ND).
type Deficiency int

const (
	DeficiencyMedium   Deficiency = 2
	DeficiencyHigh     Deficiency = 6
	DeficiencyVeryHigh Deficiency = 10
)

func (d Deficiency) Valid() bool {
	switch d {
	case DeficiencyMedium, DeficiencyHigh, DeficiencyVeryHigh:
		return true
	}
	return false
}

// Exposure is the GTC-45 exposure level (NE).
type Exposure int

const (
	ExposureSporadic   Exposure = 1
	ExposureOccasional Exposure = 2
	ExposureFrequent   Exposure = 3
	ExposureContinuous Exposure = 4
)

func (e Exposure) Valid() bool {
	switch e {
	case ExposureSporadic, ExposureOccasional, ExposureFrequent, ExposureContinuous:
		return true
	}
	return false
}

// Consequence is the GTC-45 consequence level (NC).
type Consequence int

const (
	ConsequenceMild        Consequence = 10
	ConsequenceSerious     Consequence = 25
	ConsequenceVerySerious Consequence = 60
	ConsequenceFatal       Consequence = 100
)

func (c Consequence) Valid() bool {
	switch c {
	case ConsequenceMild, ConsequenceSerious, ConsequenceVerySerious, ConsequenceFatal:
		return true
	}
	return false
}

// Periodicity is an EMO or periodic-exam interval in months.
type Periodicity int

const (
	PeriodicitySemiannual Periodicity = 6
	PeriodicityAnnual     Periodicity = 12
	PeriodicityBiennial   Periodicity = 24
	PeriodicityTriennial  Periodicity = 36
)

// DefaultPeriodicity applies when nothing else is known about a position.
const DefaultPeriodicity = PeriodicityAnnual

func (p Periodicity) Valid() bool {
	switch p {
	case PeriodicitySemiannual, PeriodicityAnnual, PeriodicityBiennial, PeriodicityTriennial:
		return true
	}
	return false
}

// RequiresJustification reports whether the interval exceeds one year.
func (p Periodicity) RequiresJustification() bool {
	return p > PeriodicityAnnual
}

// InterventionLevel is the GTC-45 intervention classification of an NR value.
type InterventionLevel string

const (
	InterventionCritical   InterventionLevel = "I – Critical"
	InterventionUrgent     InterventionLevel = "II – Urgent"
	InterventionImprove    InterventionLevel = "III – Improve"
	InterventionAcceptable InterventionLevel = "IV – Acceptable"
)

func (l InterventionLevel) Valid() bool {
	switch l {
	case InterventionCritical, InterventionUrgent, InterventionImprove, InterventionAcceptable:
		return true
	}
	return false
}

// Acceptability is the GTC-45 risk acceptability of an NR value.
type Acceptability string

const (
	NotAcceptable          Acceptability = "Not acceptable"
	AcceptableWithControls Acceptability = "Acceptable with controls"
	Acceptable             Acceptability = "Acceptable"
)

func (a Acceptability) Valid() bool {
	switch a {
	case NotAcceptable, AcceptableWithControls, Acceptable:
		return true
	}
	return false
}

// ExposureLevel is the coarse bucket persisted for a factor. It also serves
// as the declared overall risk level of a position.
type ExposureLevel string

const (
	ExposureLevelLow      ExposureLevel = "low"
	ExposureLevelMedium   ExposureLevel = "medium"
	ExposureLevelHigh     ExposureLevel = "high"
	ExposureLevelVeryHigh ExposureLevel = "very_high"
)

func (l ExposureLevel) Valid() bool {
	switch l {
	case ExposureLevelLow, ExposureLevelMedium, ExposureLevelHigh, ExposureLevelVeryHigh:
		return true
	}
	return false
}

// ExposureRank orders exposure levels for comparison.
var ExposureRank = map[ExposureLevel]int{
	ExposureLevelLow:      1,
	ExposureLevelMedium:   2,
	ExposureLevelHigh:     3,
	ExposureLevelVeryHigh: 4,
}

// EvaluationOccasion is a moment at which a medical exam is performed.
type EvaluationOccasion string

const (
	OccasionEntry          EvaluationOccasion = "entry"
	OccasionPeriodic       EvaluationOccasion = "periodic"
	OccasionExit           EvaluationOccasion = "exit"
	OccasionPositionChange EvaluationOccasion = "position_change"
	OccasionPostLeave      EvaluationOccasion = "post_leave"
	OccasionReinstatement  EvaluationOccasion = "reinstatement"
)

func (o EvaluationOccasion) Valid() bool {
	switch o {
	case OccasionEntry, OccasionPeriodic, OccasionExit, OccasionPositionChange,
		OccasionPostLeave, OccasionReinstatement:
		return true
	}
	return false
}

// AllOccasions lists occasions in form order.
func AllOccasions() []EvaluationOccasion {
	return []EvaluationOccasion{
		OccasionEntry, OccasionPeriodic, OccasionExit,
		OccasionPositionChange, OccasionPostLeave, OccasionReinstatement,
	}
}

// ProfileStatus is the lifecycle state of a stored profile version.
type ProfileStatus string

const (
	StatusActive   ProfileStatus = "active"
	StatusInactive ProfileStatus = "inactive"
	StatusDraft    ProfileStatus = "draft"
)

func (s ProfileStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDraft:
		return true
	}
	return false
}
