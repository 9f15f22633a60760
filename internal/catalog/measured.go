package catalog

import "github.com/sgsst/profesiograma-go/internal/domain"

// Band is a graded reference interval for a measurement. Open ends are nil.
type Band struct {
	Level       string   `json:"level"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Description string   `json:"description"`
}

// MeasuredReference lists typical readings and graded bands for one
// classification.
type MeasuredReference struct {
	Typical []float64 `json:"typical"`
	Bands   []Band    `json:"bands"`
	Unit    string    `json:"unit"`
}

// OptionKind distinguishes the sources of a measured-value option.
type OptionKind string

const (
	OptionText  OptionKind = "text"
	OptionValue OptionKind = "value"
	OptionBand  OptionKind = "band"
)

// MeasuredOption is one entry offered for the measured-value field.
type MeasuredOption struct {
	Kind        OptionKind `json:"kind"`
	Value       string     `json:"value"`
	Label       string     `json:"label"`
	Description string     `json:"description,omitempty"`
}

func bound(v float64) *float64 { return &v }

func below(hi float64, desc string) Band { return Band{Max: bound(hi), Description: desc} }

func above(lo float64, desc string) Band { return Band{Min: bound(lo), Description: desc} }

func between(lo, hi float64, desc string) Band {
	return Band{Min: bound(lo), Max: bound(hi), Description: desc}
}

func leveled(level string, b Band) Band {
	b.Level = level
	return b
}

const (
	levelLow      = "Bajo"
	levelMedium   = "Medio"
	levelHigh     = "Alto"
	levelVeryHigh = "Muy Alto"
)

func batteryReference() MeasuredReference {
	return MeasuredReference{
		Typical: []float64{10, 20, 30, 40, 50, 60, 70, 80},
		Bands: []Band{
			leveled(levelLow, below(25, "< 25 - Sin riesgo")),
			leveled(levelMedium, between(25, 50, "25-50 - Riesgo bajo")),
			leveled(levelHigh, between(50, 75, "50-75 - Riesgo medio")),
			leveled(levelVeryHigh, above(75, "> 75 - Riesgo alto")),
		},
		Unit: "puntaje batería",
	}
}

func ppmReference() MeasuredReference {
	return MeasuredReference{
		Typical: []float64{25, 50, 100, 200, 500},
		Bands: []Band{
			leveled(levelLow, below(50, "< 50 ppm - Bajo")),
			leveled(levelMedium, between(50, 200, "50-200 ppm - Moderado")),
			leveled(levelHigh, above(200, "> 200 ppm - Verificar MSDS")),
		},
		Unit: "ppm",
	}
}

var measuredTable = map[domain.Classification]MeasuredReference{
	domain.Noise: {
		Typical: []float64{70, 75, 80, 85, 90, 95},
		Bands: []Band{
			leveled(levelLow, below(70, "< 70 dB - Nivel aceptable")),
			leveled(levelMedium, between(70, 80, "70-80 dB - Moderado")),
			leveled(levelHigh, between(80, 85, "80-85 dB - Precaución")),
			leveled(levelVeryHigh, above(85, "> 85 dB - Excede VLP")),
		},
		Unit: "dB",
	},
	domain.Vibration: {
		Typical: []float64{0.5, 1, 2, 2.5, 5, 10},
		Bands: []Band{
			leveled(levelLow, below(0.5, "< 0.5 m/s² - Aceptable")),
			leveled(levelMedium, between(0.5, 2.5, "0.5-2.5 m/s² - Moderado")),
			leveled(levelHigh, between(2.5, 5, "2.5-5 m/s² - Precaución")),
			leveled(levelVeryHigh, above(5, "> 5 m/s² - Alto riesgo")),
		},
		Unit: "m/s²",
	},
	domain.InadequateLighting: {
		Typical: []float64{100, 200, 300, 400, 500, 600, 750, 1000},
		Bands: []Band{
			leveled(levelVeryHigh, below(200, "< 200 lux - Muy bajo")),
			leveled(levelHigh, between(200, 300, "200-300 lux - Bajo")),
			leveled(levelMedium, between(300, 500, "300-500 lux - Aceptable (oficinas)")),
			leveled(levelLow, above(500, "> 500 lux - Óptimo")),
		},
		Unit: "lux",
	},
	domain.Temperature: {
		Typical: []float64{15, 17, 20, 22, 24, 27, 30, 35},
		Bands: []Band{
			leveled(levelHigh, below(17, "< 17°C - Frío")),
			leveled(levelLow, between(17, 27, "17-27°C - Rango aceptable")),
			leveled(levelHigh, above(27, "> 27°C - Calor")),
		},
		Unit: "°C",
	},
	domain.Radiation: {
		Typical: []float64{0.1, 0.5, 1, 5, 10, 20},
		Bands: []Band{
			leveled(levelLow, below(1, "< 1 mSv/año - Público general")),
			leveled(levelMedium, between(1, 6, "1-6 mSv/año - Moderado")),
			leveled(levelHigh, between(6, 20, "6-20 mSv/año - Ocupacional")),
			leveled(levelVeryHigh, above(20, "> 20 mSv/año - Excede límite")),
		},
		Unit: "mSv/año",
	},

	domain.Dusts: {
		Typical: []float64{2, 5, 8, 10, 15, 20},
		Bands: []Band{
			leveled(levelLow, below(5, "< 5 mg/m³ - Aceptable")),
			leveled(levelMedium, between(5, 8, "5-8 mg/m³ - Moderado")),
			leveled(levelHigh, between(8, 10, "8-10 mg/m³ - Precaución")),
			leveled(levelVeryHigh, above(10, "> 10 mg/m³ - Excede VLP")),
		},
		Unit: "mg/m³",
	},
	domain.Vapors: ppmReference(),
	domain.Gases:  ppmReference(),
	domain.MetalFumes: {
		Typical: []float64{1, 2, 5, 10},
		Bands: []Band{
			leveled(levelLow, below(2, "< 2 mg/m³ - Aceptable")),
			leveled(levelMedium, between(2, 5, "2-5 mg/m³ - Moderado")),
			leveled(levelHigh, above(5, "> 5 mg/m³ - Alto")),
		},
		Unit: "mg/m³",
	},

	domain.ForcedPostures: {
		Typical: []float64{1, 2, 3, 4, 6, 8},
		Bands: []Band{
			leveled(levelLow, below(2, "< 2 h/día - Aceptable")),
			leveled(levelMedium, between(2, 4, "2-4 h/día - Moderado")),
			leveled(levelHigh, between(4, 6, "4-6 h/día - Alto")),
			leveled(levelVeryHigh, above(6, "> 6 h/día - Muy alto")),
		},
		Unit: "horas/día",
	},
	domain.RepetitiveMovements: {
		Typical: []float64{10, 15, 20, 25, 30, 40},
		Bands: []Band{
			leveled(levelLow, below(15, "< 15 rep/min - Aceptable")),
			leveled(levelMedium, between(15, 25, "15-25 rep/min - Moderado")),
			leveled(levelHigh, above(25, "> 25 rep/min - Alto riesgo")),
		},
		Unit: "repeticiones/min",
	},
	domain.ManualLoadHandling: {
		Typical: []float64{5, 10, 15, 20, 25, 30},
		Bands: []Band{
			leveled(levelLow, below(15, "< 15 kg - Aceptable")),
			leveled(levelMedium, between(15, 20, "15-20 kg - Moderado")),
			leveled(levelHigh, between(20, 25, "20-25 kg - Precaución")),
			leveled(levelVeryHigh, above(25, "> 25 kg - Excede VLP")),
		},
		Unit: "kg",
	},
	domain.Overexertion: {
		Typical: []float64{5, 10, 15, 20, 25},
		Bands: []Band{
			leveled(levelLow, below(10, "< 10 kg - Aceptable")),
			leveled(levelMedium, between(10, 20, "10-20 kg - Moderado")),
			leveled(levelHigh, above(20, "> 20 kg - Alto")),
		},
		Unit: "kg",
	},
	domain.ProlongedPosture: {
		Typical: []float64{2, 3, 4, 5, 6, 8},
		Bands: []Band{
			leveled(levelLow, below(2, "< 2 h continuas - Aceptable")),
			leveled(levelMedium, between(2, 4, "2-4 h continuas - Moderado")),
			leveled(levelHigh, above(4, "> 4 h continuas - Excede VLP")),
		},
		Unit: "horas/día",
	},

	domain.WorkStress:     batteryReference(),
	domain.MentalWorkload: batteryReference(),
	domain.ExtendedShifts: {
		Typical: []float64{6, 8, 10, 12},
		Bands: []Band{
			leveled(levelLow, below(8, "<= 8 h/día - Jornada normal")),
			leveled(levelMedium, between(8, 10, "8-10 h/día - Extendida")),
			leveled(levelHigh, above(10, "> 10 h/día - Excede límite")),
		},
		Unit: "horas/día",
	},
	domain.WorkUnderPressure: batteryReference(),
}

// LookupMeasured returns the measured-value reference for c.
func LookupMeasured(c domain.Classification) (MeasuredReference, bool) {
	r, ok := measuredTable[c]
	return r, ok
}

var descriptiveMeasured = []MeasuredOption{
	{Kind: OptionText, Value: "No aplica", Label: "No aplica", Description: "No requiere medición cuantitativa"},
	{Kind: OptionText, Value: "No definido", Label: "No definido", Description: "Pendiente de medición"},
	{Kind: OptionText, Value: "Evaluación cualitativa", Label: "Evaluación cualitativa", Description: "Se evalúa cualitativamente"},
	{
		Kind: OptionText, Value: "Contacto directo con agua durante las labores de aseo",
		Label: "Contacto directo con agua (aseo)", Description: "Exposición por contacto",
	},
	{
		Kind: OptionText, Value: "Superficies húmedas durante labores de aseo",
		Label: "Superficies húmedas (aseo)", Description: "Condición ambiental",
	},
	{Kind: OptionText, Value: "Presencia confirmada", Label: "Presencia confirmada", Description: "Se confirma presencia del peligro"},
	{Kind: OptionText, Value: "Presencia ocasional", Label: "Presencia ocasional", Description: "Presencia intermitente del peligro"},
}

// MeasuredValueOptions returns the descriptive options first, then the
// typical readings, then one option per reference band. A band's value is
// its lower bound, or its upper bound when open below.
func MeasuredValueOptions(c domain.Classification) []MeasuredOption {
	out := append([]MeasuredOption(nil), descriptiveMeasured...)
	ref, ok := measuredTable[c]
	if !ok {
		return out
	}
	for _, v := range ref.Typical {
		n := formatNumber(v)
		out = append(out, MeasuredOption{Kind: OptionValue, Value: n, Label: n + " " + ref.Unit})
	}
	for _, b := range ref.Bands {
		v := 0.0
		switch {
		case b.Min != nil:
			v = *b.Min
		case b.Max != nil:
			v = *b.Max
		}
		out = append(out, MeasuredOption{
			Kind:        OptionBand,
			Value:       formatNumber(v),
			Label:       b.Description,
			Description: "Nivel " + b.Level,
		})
	}
	return out
}
