package sstapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/emo"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/api", Token: "secret", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestListHazardFactors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/profesiogramas/catalogos/factores-riesgo", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("activo"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "codigo": "FIS-01", "nombre": "Ruido", "categoria": "fisico", "activo": true,
				"simbolo_unidad": "dB", "normativa_aplicable": "Resolución 1530/1996"},
			{"id": 2, "codigo": "X", "nombre": "Sin categoría", "categoria": "otro", "activo": true},
		})
	})

	factors, err := c.ListHazardFactors(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, factors, 1, "entries with an unknown category are skipped")
	f := factors[0]
	assert.Equal(t, domain.CategoryPhysical, f.Category)
	assert.Equal(t, "dB", f.DefaultUnit())
	assert.Equal(t, "Resolución 1530/1996", f.Regulation)
}

func TestListVersionsNotFoundIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
	})
	versions, err := c.ListVersions(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestListVersions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/profesiogramas/cargos/9", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":3,"cargo_id":9,"version":"1.1","estado":"activo"},{"id":2,"cargo_id":9,"version":"1.0","estado":"inactivo"}]`))
	})
	versions, err := c.ListVersions(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.1", "1.0"}, versions)
}

func TestSaveProfile(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/profesiogramas/cargos/10", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":44,"cargo_id":10,"version":"1.2","estado":"activo","fecha_ultima_revision":"2026-10-15"}`))
	})

	p := domain.NewPositionRiskProfile(domain.Position{ID: 10})
	p.Version = "1.2"
	p.DeclaredRiskLevel = domain.ExposureLevelHigh
	f := domain.NewFactorAssessment(1, "Ruido")
	f.ND, f.NE, f.NC = domain.DeficiencyHigh.Ptr(), domain.ExposureFrequent.Ptr(), domain.ConsequenceSerious.Ptr()
	f.Classification = domain.Noise
	f.MeasuredValue = "92 dB"
	f.VLPVerdict = "exceeds limit"
	p.Factors = []domain.FactorAssessment{f}
	p.BreachAcknowledgment = &domain.BreachAcknowledgment{By: "sst", Breaches: []string{"Ruido (92 > 85 dB)"}}
	exam := domain.NewExamSchedule(5, true)
	exam.Occasions[domain.OccasionPeriodic] = domain.OccasionConfig{Enabled: true, Obligatory: true, PeriodicityMonths: 24}
	p.Exams = []domain.ExamSchedule{exam}
	p.ImmunizationIDs = []int{8}

	saved, err := c.SaveProfile(context.Background(), p, "key-1")
	require.NoError(t, err)
	assert.Equal(t, 44, saved.ID)
	assert.Equal(t, domain.StatusActive, saved.Status)
	assert.Equal(t, "1.2", saved.Version)

	assert.Equal(t, "activo", got["estado"])
	assert.Equal(t, "alto", got["nivel_riesgo_cargo"])
	factors := got["factores"].([]any)
	require.Len(t, factors, 1)
	fac := factors[0].(map[string]any)
	assert.Equal(t, "alto", fac["nivel_exposicion"], "NR 450 maps to high")
	assert.Equal(t, "Ruido", fac["clasificacion_peligro"])
	assert.EqualValues(t, 6, fac["nd"])
	assert.Equal(t, "exceeds limit", fac["veredicto_vlp"])
	assert.Equal(t, map[string]any{"confirmado_por": "sst", "excedencias": []any{"Ruido (92 > 85 dB)"}}, got["confirmacion_vlp"])

	exams := got["examenes"].([]any)
	require.Len(t, exams, 2, "one row per enabled occasion")
	assert.Equal(t, "ingreso", exams[0].(map[string]any)["tipo_evaluacion"])
	assert.NotContains(t, exams[0].(map[string]any), "periodicidad_meses")
	assert.EqualValues(t, 24, exams[1].(map[string]any)["periodicidad_meses"])
	assert.Equal(t, []any{map[string]any{"inmunizacion_id": float64(8)}}, got["inmunizaciones"])
}

func TestSuggestJustification(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/profesiogramas/cargos/7/emo/justificacion", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 24, body["periodicidad_emo_meses"])
		fac := body["factores"].([]any)[0].(map[string]any)
		assert.EqualValues(t, 3, fac["factor_riesgo_id"])
		assert.NotContains(t, fac, "nc")
		_, _ = w.Write([]byte(`{"cargo_id":7,"periodicidad_sugerida":24,"periodicidad_borrador":24,
			"numero_trabajadores_expuestos":12,"menores_21":1,"antiguedad_menor_2_anios":4,"sin_fecha_ingreso":2,
			"justificacion_periodicidad_emo_borrador":"Se justifica una periodicidad de 24 meses"}`))
	})

	s, err := c.SuggestJustification(context.Background(), emo.Request{
		PositionID:  7,
		Periodicity: 24,
		Factors:     []emo.FactorInput{{FactorID: 3, ND: domain.DeficiencyMedium.Ptr(), NE: domain.ExposureOccasional.Ptr()}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Periodicity(24), s.SuggestedPeriodicity)
	require.NotNil(t, s.DraftPeriodicity)
	assert.Equal(t, emo.WorkerCounts{Total: 12, Under21: 1, TenureUnder2y: 4, MissingHireDate: 2}, s.Workers)
	assert.Equal(t, "Se justifica una periodicidad de 24 meses", s.DraftJustification)
}

func TestServerErrorsOpenTheCircuit(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := c.ListHazardFactors(ctx, false)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	}
	_, err := c.ListHazardFactors(ctx, false)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 5, calls)
}

func TestClientErrorsDoNotOpenTheCircuit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	for i := 0; i < 8; i++ {
		_, err := c.SaveProfile(context.Background(), domain.PositionRiskProfile{PositionID: 1}, "")
		var se *StatusError
		require.True(t, errors.As(err, &se), "call %d: %v", i, err)
	}
}
