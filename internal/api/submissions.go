package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sgsst/profesiograma-go/internal/agui"
	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/policy"
	"github.com/sgsst/profesiograma-go/internal/temporal/querier"
	"github.com/sgsst/profesiograma-go/internal/temporal/workflows"
)

type submitRequest struct {
	Profile                domain.PositionRiskProfile `json:"profile"`
	SubmittedBy            string                     `json:"submitted_by,omitempty"`
	AutoDraftJustification bool                       `json:"auto_draft_justification,omitempty"`
}

func (s *Server) requireQuerier(w http.ResponseWriter) bool {
	if s.deps.Querier == nil {
		writeError(w, http.StatusServiceUnavailable, "submissions not configured")
		return false
	}
	return true
}

// handleSubmit starts the submission workflow. The shape is checked here so
// malformed profiles never reach Temporal.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.requireQuerier(w) {
		return
	}
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := domain.ValidateProfileShape(req.Profile); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	by := UserNameFromContext(r.Context())
	if by == "" {
		by = strings.TrimSpace(req.SubmittedBy)
	}

	summary, err := s.deps.Querier.StartSubmission(r.Context(), workflows.SubmitInput{
		Profile:                req.Profile,
		SubmittedBy:            by,
		AutoDraftJustification: req.AutoDraftJustification,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("submission started", "workflow_id", summary.WorkflowID, "position_id", req.Profile.PositionID, "by", by)
	writeJSON(w, http.StatusAccepted, summary)
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	if !s.requireQuerier(w) {
		return
	}
	opts := querier.ListOptions{StatusFilter: r.URL.Query().Get("status")}
	if raw := r.URL.Query().Get("position_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid position_id "+raw)
			return
		}
		opts.PositionID = id
	}

	list, err := s.deps.Querier.ListWorkflows(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []querier.WorkflowSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	if !s.requireQuerier(w) {
		return
	}
	result, err := s.deps.Querier.GetWorkflowState(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	s.handleConfirmation(w, r, true)
}

func (s *Server) handleDecline(w http.ResponseWriter, r *http.Request) {
	s.handleConfirmation(w, r, false)
}

// handleConfirmation forwards the operator's answer to a submission that
// waits for a VLP breach confirmation.
func (s *Server) handleConfirmation(w http.ResponseWriter, r *http.Request, acknowledged bool) {
	if !s.requireQuerier(w) {
		return
	}
	id := r.PathValue("id")

	var body struct {
		By     string `json:"by"`
		Reason string `json:"reason,omitempty"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	by := strings.TrimSpace(body.By)
	if by == "" {
		by = UserNameFromContext(r.Context())
	}
	if by == "" {
		writeError(w, http.StatusBadRequest, "'by' field is required")
		return
	}

	state, err := s.deps.Querier.GetWorkflowState(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !state.State.AwaitingConfirmation() {
		writeError(w, http.StatusConflict, "submission is not waiting for a confirmation")
		return
	}

	result, err := s.deps.Querier.SubmitConfirmation(r.Context(), id, policy.Confirmation{
		Acknowledged: acknowledged,
		By:           by,
		Reason:       body.Reason,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if at := state.State.ConfirmationRequestedAt; at != nil {
		s.deps.Metrics.RecordConfirmationLatency(r.Context(), time.Since(*at), acknowledged)
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

// handleSubmissionEvents streams the submission state as AG-UI events.
func (s *Server) handleSubmissionEvents(w http.ResponseWriter, r *http.Request) {
	if !s.requireQuerier(w) {
		return
	}
	agui.StreamHandler(s.deps.Querier, s.stream)(w, r)
}
