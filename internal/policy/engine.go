// Package policy implements the deterministic assessment validator that
// decides whether a position risk profile may be persisted, is rejected, or
// needs an explicit operator override for permissible-limit breaches. It also
// provides the save gate that turns a decision into an error at the
// persistence boundary.
package policy

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/vlp"
)

// Decision is the validator verdict for a whole profile.
type Decision string

const (
	DecisionAccepted             Decision = "accepted"
	DecisionRejected             Decision = "rejected"
	DecisionRequiresConfirmation Decision = "requires_confirmation"
)

// ViolationCode identifies a structural rule.
type ViolationCode string

const (
	CodeInvalidPeriodicity     ViolationCode = "invalid_periodicity"
	CodeJustificationTooShort  ViolationCode = "justification_too_short"
	CodeMissingLevel           ViolationCode = "missing_level"
	CodeLevelOutOfDomain       ViolationCode = "level_out_of_domain"
	CodeInvalidExposureHours   ViolationCode = "invalid_exposure_hours"
	CodeNoOccasionEnabled      ViolationCode = "no_occasion_enabled"
	CodeInvalidExamPeriodicity ViolationCode = "invalid_exam_periodicity"
)

// Violation is one failed structural rule. Field is a path into the
// profile ("factors[2].nd").
type Violation struct {
	Code       ViolationCode `json:"code"`
	Field      string        `json:"field"`
	FactorID   int           `json:"factor_id,omitempty"`
	ExamTypeID int           `json:"exam_type_id,omitempty"`
	Message    string        `json:"message"`
}

// Breach is a factor whose measured value falls outside its permissible
// limit. Limit is the bound that was crossed.
type Breach struct {
	FactorID       int                   `json:"factor_id"`
	FactorName     string                `json:"factor_name"`
	Classification domain.Classification `json:"classification,omitempty"`
	Measured       float64               `json:"measured"`
	Limit          float64               `json:"limit"`
	Unit           string                `json:"unit,omitempty"`
	Verdict        vlp.Verdict           `json:"verdict"`
}

// Summary renders the comparison, e.g. "90 > 85 dB" or "150 < 300 lux".
func (b Breach) Summary() string {
	op := ">"
	if b.Verdict == vlp.BelowRange {
		op = "<"
	}
	s := num(b.Measured) + " " + op + " " + num(b.Limit)
	if b.Unit != "" {
		s += " " + b.Unit
	}
	return s
}

func (b Breach) String() string {
	return fmt.Sprintf("%s (%s)", b.FactorName, b.Summary())
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// Recommendation is a non-binding change the operator should consider.
type Recommendation struct {
	FactorID  int                `json:"factor_id"`
	Field     string             `json:"field"`
	Current   *domain.Deficiency `json:"current,omitempty"`
	Suggested domain.Deficiency  `json:"suggested"`
	Reason    string             `json:"reason"`
}

// BreachActions are the measures listed with every breach confirmation.
var BreachActions = []string{
	"Implement controls immediately",
	"Reduce exposure",
	"Assess worker relocation",
	"ND must be 10 (very high) per GTC 45",
}

// Outcome is the typed result of validating a profile.
type Outcome struct {
	Decision        Decision         `json:"decision"`
	Violations      []Violation      `json:"violations,omitempty"`
	Breaches        []Breach         `json:"breaches,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Actions         []string         `json:"actions,omitempty"`
	Details         string           `json:"details"`
}

// Validator checks a profile before save. The zero value is not usable; use
// NewValidator.
type Validator struct {
	MinJustificationLength int
}

// NewValidator returns a validator requiring a 50-character justification
// for periodicities above twelve months.
func NewValidator() *Validator {
	return &Validator{MinJustificationLength: 50}
}

// Validate runs the checks in order and stops at the first check that
// fails, reporting every violation of that check:
//  1. EMO periodicity is 6, 12, 24 or 36 months.
//  2. Above 12 months, the trimmed justification has the minimum length.
//  3. Every factor has ND, NE and NC in domain and positive exposure hours.
//  4. Every exam has an enabled occasion; a periodic occasion has a valid
//     periodicity.
//  5. Measured values outside their VLP require confirmation.
func (v *Validator) Validate(p domain.PositionRiskProfile) Outcome {
	if !p.EMOPeriodicity.Valid() {
		return reject([]Violation{{
			Code:    CodeInvalidPeriodicity,
			Field:   "emo_periodicity_months",
			Message: fmt.Sprintf("EMO periodicity must be 6, 12, 24 or 36 months, got %d", p.EMOPeriodicity),
		}})
	}

	if p.EMOPeriodicity.RequiresJustification() {
		n := utf8.RuneCountInString(strings.TrimSpace(p.PeriodicityJustification))
		if n < v.MinJustificationLength {
			return reject([]Violation{{
				Code:  CodeJustificationTooShort,
				Field: "periodicity_justification",
				Message: fmt.Sprintf("a periodicity of %d months needs a justification of at least %d characters, got %d",
					p.EMOPeriodicity, v.MinJustificationLength, n),
			}})
		}
	}

	var violations []Violation
	for i, f := range p.Factors {
		violations = append(violations, factorViolations(i, f)...)
	}
	if len(violations) > 0 {
		return reject(violations)
	}

	for i, e := range p.Exams {
		violations = append(violations, examViolations(i, e)...)
	}
	if len(violations) > 0 {
		return reject(violations)
	}

	breaches := ScanBreaches(p.Factors)
	if len(breaches) == 0 {
		return Outcome{Decision: DecisionAccepted, Details: "profile is valid"}
	}
	names := make([]string, len(breaches))
	for i, b := range breaches {
		names[i] = b.String()
	}
	return Outcome{
		Decision:        DecisionRequiresConfirmation,
		Breaches:        breaches,
		Recommendations: RecommendEscalation(p.Factors, breaches),
		Actions:         append([]string(nil), BreachActions...),
		Details:         "measured values exceed the permissible limit: " + strings.Join(names, "; "),
	}
}

func reject(vs []Violation) Outcome {
	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.Message
	}
	return Outcome{Decision: DecisionRejected, Violations: vs, Details: strings.Join(msgs, "; ")}
}

func factorViolations(i int, f domain.FactorAssessment) []Violation {
	var out []Violation
	name := f.DisplayName()
	add := func(code ViolationCode, field, msg string) {
		out = append(out, Violation{
			Code:     code,
			Field:    fmt.Sprintf("factors[%d].%s", i, field),
			FactorID: f.FactorID,
			Message:  name + ": " + msg,
		})
	}
	switch {
	case f.ND == nil:
		add(CodeMissingLevel, "nd", "ND is required")
	case !f.ND.Valid():
		add(CodeLevelOutOfDomain, "nd", fmt.Sprintf("ND must be 2, 6 or 10, got %d", *f.ND))
	}
	switch {
	case f.NE == nil:
		add(CodeMissingLevel, "ne", "NE is required")
	case !f.NE.Valid():
		add(CodeLevelOutOfDomain, "ne", fmt.Sprintf("NE must be 1, 2, 3 or 4, got %d", *f.NE))
	}
	switch {
	case f.NC == nil:
		add(CodeMissingLevel, "nc", "NC is required")
	case !f.NC.Valid():
		add(CodeLevelOutOfDomain, "nc", fmt.Sprintf("NC must be 10, 25, 60 or 100, got %d", *f.NC))
	}
	h := f.ExposureHours
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		add(CodeInvalidExposureHours, "exposure_hours", "exposure hours per day must be a number greater than 0")
	}
	return out
}

func examViolations(i int, e domain.ExamSchedule) []Violation {
	var out []Violation
	if len(e.EnabledOccasions()) == 0 {
		out = append(out, Violation{
			Code:       CodeNoOccasionEnabled,
			Field:      fmt.Sprintf("exams[%d].occasions", i),
			ExamTypeID: e.ExamTypeID,
			Message:    e.DisplayName() + ": at least one evaluation occasion must be enabled",
		})
	}
	if periodic := e.Occasions[domain.OccasionPeriodic]; periodic.Enabled && !periodic.PeriodicityMonths.Valid() {
		out = append(out, Violation{
			Code:       CodeInvalidExamPeriodicity,
			Field:      fmt.Sprintf("exams[%d].occasions.periodic.periodicity_months", i),
			ExamTypeID: e.ExamTypeID,
			Message:    e.DisplayName() + ": periodic exams need a periodicity of 6, 12, 24 or 36 months",
		})
	}
	return out
}

// ScanBreaches returns the factors whose measured value breaches its VLP, in
// input order. A factor whose ND, NE or NC is missing or out of domain is
// skipped, since its valuation is not yet meaningful.
func ScanBreaches(factors []domain.FactorAssessment) []Breach {
	var out []Breach
	for _, f := range factors {
		if !levelsValid(f) {
			continue
		}
		r := vlp.CheckAssessment(f)
		if !r.Verdict.Breach() || r.Measured == nil {
			continue
		}
		b := Breach{
			FactorID:       f.FactorID,
			FactorName:     f.DisplayName(),
			Classification: f.Classification,
			Measured:       *r.Measured,
			Unit:           r.Unit,
			Verdict:        r.Verdict,
		}
		switch {
		case r.Verdict == vlp.BelowRange && r.Min != nil:
			b.Limit = *r.Min
		case r.Verdict == vlp.AboveRange && r.Max != nil:
			b.Limit = *r.Max
		case r.Limit != nil:
			b.Limit = *r.Limit
		}
		out = append(out, b)
	}
	return out
}

func levelsValid(f domain.FactorAssessment) bool {
	return f.ND != nil && f.ND.Valid() && f.NE != nil && f.NE.Valid() && f.NC != nil && f.NC.Valid()
}

// RecommendEscalation proposes ND 10 for every breaching factor that does
// not have it yet.
func RecommendEscalation(factors []domain.FactorAssessment, breaches []Breach) []Recommendation {
	byID := make(map[int]domain.FactorAssessment, len(factors))
	for _, f := range factors {
		byID[f.FactorID] = f
	}
	var out []Recommendation
	for _, b := range breaches {
		f := byID[b.FactorID]
		if f.ND != nil && *f.ND == domain.DeficiencyVeryHigh {
			continue
		}
		out = append(out, Recommendation{
			FactorID:  b.FactorID,
			Field:     "nd",
			Current:   f.ND,
			Suggested: domain.DeficiencyVeryHigh,
			Reason:    fmt.Sprintf("%s: measured value breaches the VLP (%s)", b.FactorName, b.Summary()),
		})
	}
	return out
}

// Sentinel errors returned by EnforceSaveGate.
var (
	ErrRejected             = errors.New("profile rejected")
	ErrConfirmationRequired = errors.New("VLP breach confirmation required")
)

// Confirmation is the operator's answer to a RequiresConfirmation outcome.
type Confirmation struct {
	Acknowledged bool   `json:"acknowledged"`
	By           string `json:"by,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// EnforceSaveGate is the hard gate invoked before any save. It returns nil
// only for an accepted outcome or a breach outcome acknowledged by the
// operator.
func EnforceSaveGate(o Outcome, c *Confirmation) error {
	switch o.Decision {
	case DecisionAccepted:
		return nil
	case DecisionRejected:
		return fmt.Errorf("%w: %s", ErrRejected, o.Details)
	case DecisionRequiresConfirmation:
		if c == nil || !c.Acknowledged {
			return fmt.Errorf("%w: %s", ErrConfirmationRequired, o.Details)
		}
		return nil
	}
	return fmt.Errorf("cannot save: unknown decision %q", o.Decision)
}
