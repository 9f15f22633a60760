package api

import (
	"net/http"

	"github.com/sgsst/profesiograma-go/internal/analysis"
	"github.com/sgsst/profesiograma-go/internal/catalog"
	"github.com/sgsst/profesiograma-go/internal/controls"
	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/gtc45"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/vlp"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClassifications(w http.ResponseWriter, r *http.Request) {
	var category domain.HazardCategory
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, ok := domain.ParseCategory(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown category "+raw)
			return
		}
		category = c
	}
	writeJSON(w, http.StatusOK, catalog.Entries(category))
}

func (s *Server) handleMeasuredOptions(w http.ResponseWriter, r *http.Request) {
	c, ok := domain.ParseClassification(r.PathValue("code"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown classification "+r.PathValue("code"))
		return
	}
	writeJSON(w, http.StatusOK, catalog.MeasuredValueOptions(c))
}

func (s *Server) handleHazardFactors(w http.ResponseWriter, r *http.Request) {
	if s.deps.Backend == nil {
		writeError(w, http.StatusServiceUnavailable, "hazard factor catalog not configured")
		return
	}
	factors, err := s.deps.Backend.ListHazardFactors(r.Context(), r.URL.Query().Get("all") != "true")
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, factors)
}

type scoreRequest struct {
	ND *domain.Deficiency  `json:"nd"`
	NE *domain.Exposure    `json:"ne"`
	NC *domain.Consequence `json:"nc"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, gtc45.Score(req.ND, req.NE, req.NC))
}

type vlpCheckRequest struct {
	Classification   string `json:"classification"`
	MeasuredValue    string `json:"measured_value"`
	PermissibleLimit string `json:"permissible_limit,omitempty"`
	Unit             string `json:"unit,omitempty"`
}

type vlpCheckResponse struct {
	Result     vlp.Result              `json:"result"`
	Assessment domain.FactorAssessment `json:"assessment"`
	Suggested  []string                `json:"suggested_fields"`
}

func (s *Server) handleVLPCheck(w http.ResponseWriter, r *http.Request) {
	var req vlpCheckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a := domain.FactorAssessment{
		MeasuredValue:    req.MeasuredValue,
		PermissibleLimit: req.PermissibleLimit,
		Unit:             req.Unit,
	}
	if !domain.Blank(req.Classification) {
		c, ok := domain.ParseClassification(req.Classification)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown classification "+req.Classification)
			return
		}
		a.Classification = c
	}
	suggested := vlp.SuggestFields(&a)
	if suggested == nil {
		suggested = []string{}
	}
	writeJSON(w, http.StatusOK, vlpCheckResponse{Result: vlp.CheckAssessment(a), Assessment: a, Suggested: suggested})
}

type suggestControlsRequest struct {
	HazardName string                  `json:"hazard_name"`
	Assessment domain.FactorAssessment `json:"assessment"`
	Position   *domain.Position        `json:"position,omitempty"`
}

type suggestControlsResponse struct {
	Assessment domain.FactorAssessment `json:"assessment"`
	Report     controls.Report         `json:"report"`
	Autofilled []string                `json:"autofilled,omitempty"`
}

// handleSuggestControls fills the control fields of an assessment. When the
// assessment names a catalog factor and the catalog is reachable, the
// identification fields are completed first.
func (s *Server) handleSuggestControls(w http.ResponseWriter, r *http.Request) {
	var req suggestControlsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a := req.Assessment
	var autofilled []string
	if s.deps.Backend != nil && a.FactorID > 0 {
		factors, err := s.deps.Backend.ListHazardFactors(r.Context(), false)
		if err != nil {
			s.logger.Warn("catalog unavailable, skipping autofill", "error", err)
		}
		for _, f := range factors {
			if f.ID == a.FactorID {
				var pos domain.Position
				if req.Position != nil {
					pos = *req.Position
				}
				autofilled = controls.Autofill(&a, f, pos)
				break
			}
		}
	}
	rep := controls.Apply(&a, req.HazardName)
	writeJSON(w, http.StatusOK, suggestControlsResponse{Assessment: a, Report: rep, Autofilled: autofilled})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var p domain.PositionRiskProfile
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := domain.ValidateProfileShape(p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	outcome := s.deps.Validator.Validate(p)
	s.deps.Metrics.RecordValidation(r.Context(), string(outcome.Decision), breachClassifications(outcome.Breaches))
	writeJSON(w, http.StatusOK, outcome)
}

func breachClassifications(bs []policy.Breach) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = string(b.Classification)
	}
	return out
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var p domain.PositionRiskProfile
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analysis.Analyze(p))
}
