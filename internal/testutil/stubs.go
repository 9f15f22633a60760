package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/sgsst/profesiograma-go/internal/domain"
	"github.com/sgsst/profesiograma-go/internal/emo"
)

// StubBackend is an in-memory SST backend. It satisfies persist.Store,
// emo.Suggester and the catalog provider used by the API, and backs the
// stub mode of the binaries.
type StubBackend struct {
	FixturesDir string
	// Workers is reported in every suggestion.
	Workers emo.WorkerCounts
	// SuggestErr, when set, fails every suggestion call.
	SuggestErr error

	mu       sync.Mutex
	nextID   int
	profiles map[int][]domain.PositionRiskProfile
	saved    map[int][]domain.SavedProfile
	calls    int
}

// NewStubBackend returns a backend reading fixtures from dir.
func NewStubBackend(dir string) *StubBackend {
	return &StubBackend{
		FixturesDir: dir,
		profiles:    make(map[int][]domain.PositionRiskProfile),
		saved:       make(map[int][]domain.SavedProfile),
	}
}

func (s *StubBackend) load(name string, target any) error {
	data, err := os.ReadFile(filepath.Join(s.FixturesDir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func (s *StubBackend) ListHazardFactors(_ context.Context, activeOnly bool) ([]domain.HazardFactor, error) {
	var all []domain.HazardFactor
	if err := s.load("hazard_factors.json", &all); err != nil {
		return nil, err
	}
	if !activeOnly {
		return all, nil
	}
	out := all[:0]
	for _, f := range all {
		if f.Active {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *StubBackend) ListProfiles(_ context.Context, positionID int) ([]domain.SavedProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.saved[positionID]
	out := make([]domain.SavedProfile, len(list))
	// newest first, like the backend
	for i, p := range list {
		out[len(list)-1-i] = p
	}
	return out, nil
}

func (s *StubBackend) ListVersions(ctx context.Context, positionID int) ([]string, error) {
	profiles, err := s.ListProfiles(ctx, positionID)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Version
	}
	return out, nil
}

// SaveProfile stores p. Earlier active versions of the position become
// inactive.
func (s *StubBackend) SaveProfile(_ context.Context, p domain.PositionRiskProfile, _ string) (domain.SavedProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	for i := range s.saved[p.PositionID] {
		s.saved[p.PositionID][i].Status = domain.StatusInactive
	}
	sp := domain.SavedProfile{
		ID:         s.nextID,
		PositionID: p.PositionID,
		Version:    p.Version,
		Status:     p.Status,
		SavedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	s.saved[p.PositionID] = append(s.saved[p.PositionID], sp)
	s.profiles[p.PositionID] = append(s.profiles[p.PositionID], p.Clone())
	return sp, nil
}

// Stored returns the snapshots saved for a position, oldest first.
func (s *StubBackend) Stored(positionID int) []domain.PositionRiskProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PositionRiskProfile(nil), s.profiles[positionID]...)
}

// SuggestJustification drafts a deterministic Spanish justification.
func (s *StubBackend) SuggestJustification(_ context.Context, req emo.Request) (emo.Suggestion, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.SuggestErr != nil {
		return emo.Suggestion{}, s.SuggestErr
	}
	p := req.Periodicity
	return emo.Suggestion{
		PositionID:           req.PositionID,
		SuggestedPeriodicity: domain.PeriodicityAnnual,
		DraftPeriodicity:     &p,
		Workers:              s.Workers,
		DraftJustification: fmt.Sprintf(
			"Se propone una periodicidad de %d meses para los exámenes médicos ocupacionales periódicos del cargo, "+
				"considerando %d factores de riesgo evaluados con la metodología GTC 45 y %d trabajadores expuestos.",
			p, len(req.Factors), s.Workers.Total),
	}, nil
}

// SuggestCalls counts SuggestJustification calls.
func (s *StubBackend) SuggestCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// FixturesDir returns the absolute path to the testdata directory next to
// this file.
func FixturesDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata")
}
