// Package vlp checks measured exposures against the permissible limits
// (Valor Límite Permisible) of the hazard catalog.
package vlp

import (
	"strconv"
	"strings"

	"github.com/sgsst/profesiograma-go/internal/catalog"
	"github.com/sgsst/profesiograma-go/internal/domain"
)

// Verdict is the outcome of comparing one measurement with its limit.
type Verdict string

const (
	WithinRange     Verdict = "within range"
	BelowRange      Verdict = "below range"
	AboveRange      Verdict = "above range"
	WithinLimit     Verdict = "within limit"
	ExceedsLimit    Verdict = "exceeds limit"
	NoApplicableVLP Verdict = "no applicable VLP"
)

// Breach reports whether the verdict requires operator acknowledgment.
func (v Verdict) Breach() bool {
	return v == BelowRange || v == AboveRange || v == ExceedsLimit
}

// Result is a verdict together with the limit it was measured against.
type Result struct {
	Classification domain.Classification `json:"classification,omitempty"`
	Verdict        Verdict               `json:"verdict"`
	Measured       *float64              `json:"measured,omitempty"`
	Limit          *float64              `json:"limit,omitempty"`
	Min            *float64              `json:"min,omitempty"`
	Max            *float64              `json:"max,omitempty"`
	Unit           string                `json:"unit,omitempty"`
	Regulation     string                `json:"regulation,omitempty"`
	// Custom is set when the limit came from the assessment's own
	// permissible-limit text rather than the catalog.
	Custom bool   `json:"custom,omitempty"`
	Action string `json:"action"`
}

func ptr(v float64) *float64 { return &v }

// CheckCompliance compares a numeric measurement against the catalog VLP of
// c. Boundary values pass. Unknown classifications and descriptive entries
// yield NoApplicableVLP.
func CheckCompliance(c domain.Classification, measured float64) Result {
	res := Result{Classification: c, Measured: ptr(measured)}
	v, ok := catalog.LookupVLP(c)
	if ok {
		res.Unit, res.Regulation = v.Unit, v.Regulation
	}
	if !ok || !v.Numeric() {
		res.Verdict = NoApplicableVLP
		res.Action = actionFor(res.Verdict)
		return res
	}
	compare(&res, v.Kind, v.Limit, v.Min, v.Max, measured)
	return res
}

func compare(res *Result, kind catalog.LimitKind, limit, lo, hi, measured float64) {
	switch kind {
	case catalog.LimitRange:
		res.Min, res.Max = ptr(lo), ptr(hi)
		switch {
		case measured < lo:
			res.Verdict = BelowRange
		case measured > hi:
			res.Verdict = AboveRange
		default:
			res.Verdict = WithinRange
		}
	case catalog.LimitSingle:
		res.Limit = ptr(limit)
		if measured > limit {
			res.Verdict = ExceedsLimit
		} else {
			res.Verdict = WithinLimit
		}
	default:
		res.Verdict = NoApplicableVLP
	}
	res.Action = actionFor(res.Verdict)
}

// CheckAssessment checks the measured value recorded on an assessment. A
// blank or descriptive measurement ("No aplica", "Evaluación cualitativa") is
// never compared. When the classification has no numeric catalog limit, a
// numeric permissible-limit text on the assessment is used as a single
// limit.
func CheckAssessment(a domain.FactorAssessment) Result {
	measured, ok := ParseMeasured(a.MeasuredValue)
	if !ok {
		res := Result{Classification: a.Classification, Verdict: NoApplicableVLP, Unit: a.Unit}
		res.Action = actionFor(res.Verdict)
		return res
	}
	res := CheckCompliance(a.Classification, measured)
	if res.Verdict != NoApplicableVLP {
		return res
	}
	limit, ok := ParseMeasured(a.PermissibleLimit)
	if !ok {
		if res.Unit == "" {
			res.Unit = strings.TrimSpace(a.Unit)
		}
		return res
	}
	res.Custom = true
	if u := strings.TrimSpace(a.Unit); u != "" {
		res.Unit = u
	}
	compare(&res, catalog.LimitSingle, limit, 0, 0, measured)
	return res
}

// ParseMeasured reads the leading decimal number of s, accepting a comma as
// the decimal separator ("90 dB", "2,5"). It reports false when s does not
// start with a number.
func ParseMeasured(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	digits, dot := 0, false
scan:
	for i, r := range s {
		switch {
		case (r == '+' || r == '-') && i == 0:
		case r >= '0' && r <= '9':
			digits++
		case (r == '.' || r == ',') && !dot:
			dot = true
		default:
			break scan
		}
		end = i + 1
	}
	if digits == 0 {
		return 0, false
	}
	num := strings.TrimRight(strings.Replace(s[:end], ",", ".", 1), ".")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func actionFor(v Verdict) string {
	switch v {
	case ExceedsLimit, AboveRange:
		return "Measured value exceeds the permissible limit: implement controls immediately, reduce exposure time and raise ND to 10."
	case BelowRange:
		return "Measured value is below the permissible range: correct the condition at the source and raise ND to 10."
	case WithinRange, WithinLimit:
		return "Within permissible values: keep existing controls and periodic measurement."
	}
	return "No tabulated permissible limit: evaluate qualitatively."
}
