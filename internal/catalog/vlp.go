// Package catalog holds the static reference data of the hazard matrix:
// permissible exposure limits, measured-value references, candidate hazard
// descriptions and default control text. Every table is keyed by the closed
// domain.Classification set; lookups report absence instead of falling back.
package catalog

import (
	"strconv"

	"github.com/sgsst/profesiograma-go/internal/domain"
)

// LimitKind tells how a VLP entry may be compared against a measurement.
type LimitKind string

const (
	// LimitDescriptive entries carry a unit and a regulation but no number.
	LimitDescriptive LimitKind = "descriptive"
	LimitSingle      LimitKind = "single"
	LimitRange       LimitKind = "range"
)

// VLP is the permissible exposure limit for one classification. Exactly one
// of Limit or [Min,Max] is meaningful, selected by Kind.
type VLP struct {
	Kind       LimitKind `json:"kind"`
	Limit      float64   `json:"limit,omitempty"`
	Min        float64   `json:"min,omitempty"`
	Max        float64   `json:"max,omitempty"`
	Unit       string    `json:"unit"`
	Regulation string    `json:"regulation"`
	Notes      string    `json:"notes,omitempty"`
}

// Numeric reports whether measurements can be compared against the entry.
func (v VLP) Numeric() bool {
	return v.Kind == LimitSingle || v.Kind == LimitRange
}

// LimitText renders the limit the way it is stored in the permissible-limit
// field: "85" for a single limit, "17-27" for a range, "" otherwise.
func (v VLP) LimitText() string {
	switch v.Kind {
	case LimitSingle:
		return formatNumber(v.Limit)
	case LimitRange:
		return formatNumber(v.Min) + "-" + formatNumber(v.Max)
	}
	return ""
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

const (
	regNoise        = "Resolución 1530/1996 - Ruido ocupacional"
	regMinimum      = "Resolución 0312/2019 - Estándares Mínimos SG-SST"
	regSafety       = "Resolución 2400/1979 - Estatuto de Seguridad"
	regChemical     = "Resolución 1409/2012 - Sustancias químicas"
	regGTC45        = "GTC 45:2012 - Guía Técnica Colombiana"
	regPsychosocial = "Resolución 2646/2008 - Riesgo psicosocial"
	notesBattery    = "Según batería de riesgo psicosocial"
	notesMSDS       = "Según MSDS de la sustancia"
)

var vlpTable = map[domain.Classification]VLP{
	domain.Noise: {
		Kind: LimitSingle, Limit: 85, Unit: "dB", Regulation: regNoise,
		Notes: "85 dB para jornada de 8 horas/día",
	},
	domain.Vibration: {
		Kind: LimitDescriptive, Unit: "m/s²", Regulation: "ISO 20816 - Vibración mecánica",
		Notes: "Según tipo de vibración (cuerpo entero o segmentaria)",
	},
	domain.InadequateLighting: {
		Kind: LimitRange, Min: 300, Max: 500, Unit: "lux", Regulation: regMinimum,
		Notes: "300-500 lux para oficinas",
	},
	domain.Temperature: {
		Kind: LimitRange, Min: 17, Max: 27, Unit: "°C", Regulation: regMinimum,
		Notes: "17-27°C para oficinas",
	},
	domain.Radiation: {
		Kind: LimitDescriptive, Unit: "mSv/año", Regulation: regSafety,
		Notes: "Según tipo de radiación",
	},
	domain.AbnormalPressure: {
		Kind: LimitDescriptive, Unit: "kPa", Regulation: regSafety,
		Notes: "Según condición de presión",
	},

	domain.Dusts: {
		Kind: LimitSingle, Limit: 10, Unit: "mg/m³", Regulation: "GTC 45 / Resolución 0773/2021",
		Notes: "10 mg/m³ polvo total",
	},
	domain.Vapors:     {Kind: LimitDescriptive, Unit: "ppm", Regulation: regChemical, Notes: notesMSDS},
	domain.Gases:      {Kind: LimitDescriptive, Unit: "ppm", Regulation: regChemical, Notes: notesMSDS},
	domain.MetalFumes: {Kind: LimitDescriptive, Unit: "mg/m³", Regulation: regChemical, Notes: "Según tipo de metal"},
	domain.Liquids:    {Kind: LimitDescriptive, Unit: "ppm", Regulation: regChemical, Notes: notesMSDS},
	domain.Mists:      {Kind: LimitDescriptive, Unit: "mg/m³", Regulation: regChemical, Notes: "Según composición"},

	domain.ForcedPostures: {
		Kind: LimitDescriptive, Unit: "horas/día", Regulation: regGTC45,
		Notes: "Tiempo de exposición a postura",
	},
	domain.RepetitiveMovements: {
		Kind: LimitDescriptive, Unit: "repeticiones/min", Regulation: regGTC45,
		Notes: "Frecuencia de movimiento",
	},
	domain.ManualLoadHandling: {
		Kind: LimitSingle, Limit: 25, Unit: "kg", Regulation: regSafety,
		Notes: "25 kg máximo por persona",
	},
	domain.Overexertion: {
		Kind: LimitDescriptive, Unit: "kg", Regulation: regGTC45,
		Notes: "Según tipo de esfuerzo",
	},
	domain.ProlongedPosture: {
		Kind: LimitSingle, Limit: 4, Unit: "horas/día", Regulation: "Resolución 2400/1997 - Video terminales",
		Notes: "4 horas continuas máximo para videoterminales",
	},

	domain.WorkStress:     {Kind: LimitDescriptive, Unit: "puntaje batería", Regulation: regPsychosocial, Notes: notesBattery},
	domain.MentalWorkload: {Kind: LimitDescriptive, Unit: "puntaje batería", Regulation: regPsychosocial, Notes: notesBattery},
	domain.ExtendedShifts: {
		Kind: LimitSingle, Limit: 8, Unit: "horas/día", Regulation: "Ley 1562/2012 - Sistema de Riesgos Laborales",
		Notes: "Jornada laboral máxima",
	},
	domain.WorkUnderPressure: {Kind: LimitDescriptive, Unit: "puntaje batería", Regulation: regPsychosocial, Notes: notesBattery},
	domain.LackOfTaskControl: {Kind: LimitDescriptive, Unit: "puntaje batería", Regulation: regPsychosocial, Notes: notesBattery},
	domain.WorkplaceHarassment: {
		Kind: LimitDescriptive, Unit: "cualitativa", Regulation: "Ley 1010/2006 - Acoso laboral",
		Notes: "Presencia o ausencia",
	},
}

// LookupVLP returns the VLP entry for c. Classifications with no tabulated
// entry (most biological, safety, public and natural hazards) return false.
func LookupVLP(c domain.Classification) (VLP, bool) {
	v, ok := vlpTable[c]
	return v, ok
}

// PermissibleLimitTextOptions are the accepted non-numeric values for the
// permissible-limit field.
func PermissibleLimitTextOptions() []string {
	return []string{
		"No aplica",
		"No aplica (evaluación cualitativa)",
		"No definido",
		"No definido por normativa",
		"Según criterio técnico",
		"Ver ficha de seguridad",
	}
}
