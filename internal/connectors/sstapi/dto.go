package sstapi

import (
	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/emo"
	"github.com/sgsst/profesiograma-go/internal/gtc45"
)

// Wire shapes of the SST backend. Field names are the backend's.

type factorDTO struct {
	ID          int    `json:"id"`
	Code        string `json:"codigo"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
	Category    string `json:"categoria"`
	Active      bool   `json:"activo"`
	Threshold   string `json:"nivel_accion,omitempty"`
	Unit        string `json:"unidad_medida,omitempty"`
	UnitSymbol  string `json:"simbolo_unidad,omitempty"`
	Instrument  string `json:"instrumento_medida,omitempty"`
	Regulation  string `json:"normativa_aplicable,omitempty"`
}

func (f factorDTO) toDomain() domain.HazardFactor {
	cat, _ := domain.ParseCategory(f.Category)
	return domain.HazardFactor{
		ID:              f.ID,
		Code:            f.Code,
		Name:            f.Name,
		Description:     f.Description,
		Category:        cat,
		Active:          f.Active,
		ActionThreshold: f.Threshold,
		Unit:            f.Unit,
		UnitSymbol:      f.UnitSymbol,
		Instrument:      f.Instrument,
		Regulation:      f.Regulation,
	}
}

type profileDTO struct {
	ID         int    `json:"id"`
	PositionID int    `json:"cargo_id"`
	Version    string `json:"version"`
	Status     string `json:"estado"`
	ReviewDate string `json:"fecha_ultima_revision,omitempty"`
}

func (p profileDTO) toDomain() domain.SavedProfile {
	return domain.SavedProfile{
		ID:         p.ID,
		PositionID: p.PositionID,
		Version:    p.Version,
		Status:     statusFromWire(p.Status),
		SavedAt:    p.ReviewDate,
	}
}

var statusWire = map[domain.ProfileStatus]string{
	domain.StatusActive:   "activo",
	domain.StatusInactive: "inactivo",
	domain.StatusDraft:    "borrador",
}

func statusFromWire(s string) domain.ProfileStatus {
	for k, v := range statusWire {
		if v == s {
			return k
		}
	}
	return domain.ProfileStatus(s)
}

var exposureWire = map[domain.ExposureLevel]string{
	domain.ExposureLevelLow:      "bajo",
	domain.ExposureLevelMedium:   "medio",
	domain.ExposureLevelHigh:     "alto",
	domain.ExposureLevelVeryHigh: "muy_alto",
}

var occasionWire = map[domain.EvaluationOccasion]string{
	domain.OccasionEntry:          "ingreso",
	domain.OccasionPeriodic:       "periodico",
	domain.OccasionExit:           "retiro",
	domain.OccasionPositionChange: "cambio_cargo",
	domain.OccasionPostLeave:      "post_incapacidad",
	domain.OccasionReinstatement:  "reincorporacion",
}

type saveDTO struct {
	PositionID            int               `json:"cargo_id"`
	Version               string            `json:"version,omitempty"`
	Status                string            `json:"estado,omitempty"`
	PredominantPosture    string            `json:"posicion_predominante,omitempty"`
	ActivitiesDescription string            `json:"descripcion_actividades,omitempty"`
	Periodicity           int               `json:"periodicidad_emo_meses"`
	Justification         string            `json:"justificacion_periodicidad_emo,omitempty"`
	ReviewDate            string            `json:"fecha_ultima_revision,omitempty"`
	RiskLevel             string            `json:"nivel_riesgo_cargo,omitempty"`
	Factors               []saveFactorDTO   `json:"factores"`
	Exams                 []saveExamDTO     `json:"examenes"`
	ExclusionCriteriaIDs  []int             `json:"criterios_exclusion_ids"`
	Immunizations         []immunizationDTO `json:"inmunizaciones"`
	Observations          string            `json:"observaciones,omitempty"`

	BreachAcknowledgment *breachAckDTO `json:"confirmacion_vlp,omitempty"`
}

type breachAckDTO struct {
	By       string   `json:"confirmado_por"`
	Reason   string   `json:"motivo,omitempty"`
	Breaches []string `json:"excedencias"`
}

type saveFactorDTO struct {
	FactorID          int     `json:"factor_riesgo_id"`
	ExposureLevel     string  `json:"nivel_exposicion"`
	ExposureHours     float64 `json:"tiempo_exposicion_horas"`
	MeasuredValue     string  `json:"valor_medido,omitempty"`
	PermissibleLimit  string  `json:"valor_limite_permisible,omitempty"`
	Unit              string  `json:"unidad_medida,omitempty"`
	Process           string  `json:"proceso,omitempty"`
	Activity          string  `json:"actividad,omitempty"`
	Task              string  `json:"tarea,omitempty"`
	Routine           *bool   `json:"rutinario,omitempty"`
	Zone              string  `json:"zona_lugar,omitempty"`
	HazardType        string  `json:"tipo_peligro,omitempty"`
	Classification    string  `json:"clasificacion_peligro,omitempty"`
	HazardDescription string  `json:"descripcion_peligro,omitempty"`
	PossibleEffects   string  `json:"efectos_posibles,omitempty"`
	ND                *int    `json:"nd,omitempty"`
	NE                *int    `json:"ne,omitempty"`
	NC                *int    `json:"nc,omitempty"`
	ExistingControls  string  `json:"controles_existentes,omitempty"`
	Source            string  `json:"fuente,omitempty"`
	Medium            string  `json:"medio,omitempty"`
	Individual        string  `json:"individuo,omitempty"`
	WorstConsequence  string  `json:"peor_consecuencia,omitempty"`
	LegalRequirement  string  `json:"requisito_legal,omitempty"`
	Elimination       string  `json:"eliminacion,omitempty"`
	Substitution      string  `json:"sustitucion,omitempty"`
	Engineering       string  `json:"controles_ingenieria,omitempty"`
	Administrative    string  `json:"controles_administrativos,omitempty"`
	Signage           string  `json:"senalizacion,omitempty"`
	PPE               string  `json:"epp_requerido,omitempty"`
	VLPVerdict        string  `json:"veredicto_vlp,omitempty"`
}

type saveExamDTO struct {
	ExamTypeID  int    `json:"tipo_examen_id"`
	Occasion    string `json:"tipo_evaluacion"`
	Periodicity *int   `json:"periodicidad_meses,omitempty"`
	Obligatory  bool   `json:"obligatorio"`
}

type immunizationDTO struct {
	ID int `json:"inmunizacion_id"`
}

// newSaveDTO flattens a cleaned profile into the backend's save payload:
// one exam row per enabled occasion, and each factor's exposure level taken
// from its NR bucket.
func newSaveDTO(p domain.PositionRiskProfile) saveDTO {
	out := saveDTO{
		PositionID:            p.PositionID,
		Version:               p.Version,
		Status:                statusWire[p.Status],
		PredominantPosture:    p.PredominantPosture,
		ActivitiesDescription: p.ActivitiesDescription,
		Periodicity:           int(p.EMOPeriodicity),
		Justification:         p.PeriodicityJustification,
		ReviewDate:            p.ReviewDate,
		RiskLevel:             exposureWire[p.DeclaredRiskLevel],
		Factors:               make([]saveFactorDTO, 0, len(p.Factors)),
		Exams:                 []saveExamDTO{},
		ExclusionCriteriaIDs:  append([]int{}, p.ExclusionCriteriaIDs...),
		Immunizations:         make([]immunizationDTO, 0, len(p.ImmunizationIDs)),
		Observations:          p.Observations,
	}
	for _, f := range p.Factors {
		level := gtc45.MapExposureLevel(gtc45.RiskLevel(f.ND, f.NE, f.NC))
		var class string
		if f.Classification.Valid() {
			class = f.Classification.Label()
		}
		out.Factors = append(out.Factors, saveFactorDTO{
			FactorID:          f.FactorID,
			ExposureLevel:     exposureWire[level],
			ExposureHours:     f.ExposureHours,
			MeasuredValue:     f.MeasuredValue,
			PermissibleLimit:  f.PermissibleLimit,
			Unit:              f.Unit,
			Process:           f.Process,
			Activity:          f.Activity,
			Task:              f.Task,
			Routine:           f.Routine,
			Zone:              f.Zone,
			HazardType:        f.HazardType,
			Classification:    class,
			HazardDescription: f.HazardDescription,
			PossibleEffects:   f.PossibleEffects,
			ND:                intPtr(f.ND),
			NE:                intPtr(f.NE),
			NC:                intPtr(f.NC),
			ExistingControls:  f.ExistingControls,
			Source:            f.SourceControl,
			Medium:            f.MediumControl,
			Individual:        f.IndividualControl,
			WorstConsequence:  f.WorstConsequence,
			LegalRequirement:  f.LegalRequirement,
			Elimination:       f.Hierarchy.Elimination,
			Substitution:      f.Hierarchy.Substitution,
			Engineering:       f.Hierarchy.Engineering,
			Administrative:    f.Hierarchy.Administrative,
			Signage:           f.Hierarchy.Signage,
			PPE:               f.Hierarchy.PPE,
			VLPVerdict:        f.VLPVerdict,
		})
	}
	if a := p.BreachAcknowledgment; a != nil {
		out.BreachAcknowledgment = &breachAckDTO{By: a.By, Reason: a.Reason, Breaches: append([]string{}, a.Breaches...)}
	}
	for _, e := range p.Exams {
		for _, o := range e.EnabledOccasions() {
			cfg := e.Occasions[o]
			row := saveExamDTO{ExamTypeID: e.ExamTypeID, Occasion: occasionWire[o], Obligatory: cfg.Obligatory}
			if o == domain.OccasionPeriodic {
				n := int(cfg.PeriodicityMonths)
				row.Periodicity = &n
			}
			out.Exams = append(out.Exams, row)
		}
	}
	for _, id := range p.ImmunizationIDs {
		out.Immunizations = append(out.Immunizations, immunizationDTO{ID: id})
	}
	return out
}

type emoFactorDTO struct {
	FactorID int  `json:"factor_riesgo_id"`
	ND       *int `json:"nd,omitempty"`
	NE       *int `json:"ne,omitempty"`
	NC       *int `json:"nc,omitempty"`
}

type emoRequestDTO struct {
	Periodicity int            `json:"periodicidad_emo_meses"`
	Factors     []emoFactorDTO `json:"factores"`
}

type emoSuggestionDTO struct {
	PositionID           int    `json:"cargo_id"`
	SuggestedPeriodicity int    `json:"periodicidad_sugerida"`
	DraftPeriodicity     *int   `json:"periodicidad_borrador,omitempty"`
	ExposedWorkers       int    `json:"numero_trabajadores_expuestos"`
	Under21              int    `json:"menores_21"`
	TenureUnder2y        int    `json:"antiguedad_menor_2_anios"`
	MissingHireDate      int    `json:"sin_fecha_ingreso"`
	Draft                string `json:"justificacion_periodicidad_emo_borrador"`
}

func (s emoSuggestionDTO) toDomain(positionID int) emo.Suggestion {
	out := emo.Suggestion{
		PositionID:           s.PositionID,
		SuggestedPeriodicity: domain.Periodicity(s.SuggestedPeriodicity),
		Workers: emo.WorkerCounts{
			Total:           s.ExposedWorkers,
			Under21:         s.Under21,
			TenureUnder2y:   s.TenureUnder2y,
			MissingHireDate: s.MissingHireDate,
		},
		DraftJustification: s.Draft,
	}
	if out.PositionID == 0 {
		out.PositionID = positionID
	}
	if s.DraftPeriodicity != nil {
		p := domain.Periodicity(*s.DraftPeriodicity)
		out.DraftPeriodicity = &p
	}
	return out
}

func intPtr[T ~int](v *T) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
