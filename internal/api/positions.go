package api

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/emo"
)

// positionOverview is what the form needs to open a position.
type positionOverview struct {
	PositionID    int                   `json:"position_id"`
	Profiles      []domain.SavedProfile `json:"profiles"`
	ActiveVersion string                `json:"active_version,omitempty"`
	NextVersion   string                `json:"next_version"`
	Factors       []domain.HazardFactor `json:"factors"`
	Justification string                `json:"justification,omitempty"`
	Touched       bool                  `json:"touched"`
}

// handlePositionOverview loads the active catalog and the stored versions
// of a position concurrently.
func (s *Server) handlePositionOverview(w http.ResponseWriter, r *http.Request) {
	id, err := positionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.deps.Backend == nil {
		writeError(w, http.StatusServiceUnavailable, "backend not configured")
		return
	}

	out := positionOverview{PositionID: id}
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		factors, err := s.deps.Backend.ListHazardFactors(ctx, true)
		out.Factors = factors
		return err
	})
	g.Go(func() error {
		profiles, err := s.deps.Backend.ListProfiles(ctx, id)
		out.Profiles = profiles
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	versions := make([]string, len(out.Profiles))
	for i, p := range out.Profiles {
		versions[i] = p.Version
		if p.Status == domain.StatusActive && out.ActiveVersion == "" {
			out.ActiveVersion = p.Version
		}
	}
	out.NextVersion = domain.NextVersion(versions)
	if out.Profiles == nil {
		out.Profiles = []domain.SavedProfile{}
	}
	if out.Factors == nil {
		out.Factors = []domain.HazardFactor{}
	}
	if s.deps.Sessions != nil {
		if b, ok := s.deps.Sessions.Peek(id); ok {
			out.Justification, out.Touched = b.Justification(), b.Touched()
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type emoUpdateRequest struct {
	Periodicity domain.Periodicity `json:"periodicity"`
	Factors     []emo.FactorInput  `json:"factors"`
}

func (s *Server) builder(w http.ResponseWriter, r *http.Request) (*emo.Builder, int, bool) {
	id, err := positionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, 0, false
	}
	if s.deps.Sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "justification builder not configured")
		return nil, 0, false
	}
	return s.deps.Sessions.For(id), id, true
}

// handleEMOUpdate feeds a periodicity or factor change to the builder of the
// position. The response is the state after the change.
func (s *Server) handleEMOUpdate(w http.ResponseWriter, r *http.Request) {
	b, id, ok := s.builder(w, r)
	if !ok {
		return
	}
	var req emoUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Periodicity.Valid() {
		writeError(w, http.StatusBadRequest, "periodicity must be 6, 12, 24 or 36 months")
		return
	}
	res, err := b.Update(r.Context(), emo.Request{PositionID: id, Periodicity: req.Periodicity, Factors: req.Factors})
	if err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, context.Canceled) {
			// Client went away; nobody reads the response.
			status = 499
		}
		writeError(w, status, err.Error())
		return
	}
	s.deps.Metrics.RecordSuggestion(r.Context(), string(res.Action))
	writeJSON(w, http.StatusOK, res)
}

type emoEditRequest struct {
	Justification string `json:"justification"`
}

// handleEMOEdit records a manual edit; later updates no longer overwrite it.
func (s *Server) handleEMOEdit(w http.ResponseWriter, r *http.Request) {
	b, _, ok := s.builder(w, r)
	if !ok {
		return
	}
	var req emoEditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := b.Edit(req.Justification)
	s.deps.Metrics.RecordSuggestion(r.Context(), string(res.Action))
	writeJSON(w, http.StatusOK, res)
}

// handleEMOClose forgets the builder of a position when its form closes.
func (s *Server) handleEMOClose(w http.ResponseWriter, r *http.Request) {
	id, err := positionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.deps.Sessions != nil {
		s.deps.Sessions.Close(id)
	}
	w.WriteHeader(http.StatusNoContent)
}
