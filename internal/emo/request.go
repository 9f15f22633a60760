// Package emo drafts the justification required when the periodic medical
// examination (EMO) interval of a position exceeds twelve months.
//
// A Builder tracks one editing session: it calls the suggestion service only
// when the relevant inputs change, stops calling once the operator writes the
// text by hand, and drops responses that were superseded by newer inputs.
package emo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sgsst/profesiograma-go/internal/domain"
)

// FactorInput is the part of a factor assessment the suggestion depends on.
type FactorInput struct {
	FactorID int                 `json:"factor_id"`
	ND       *domain.Deficiency  `json:"nd,omitempty"`
	NE       *domain.Exposure    `json:"ne,omitempty"`
	NC       *domain.Consequence `json:"nc,omitempty"`
}

// Request carries the inputs of one justification draft.
type Request struct {
	PositionID  int                `json:"position_id"`
	Periodicity domain.Periodicity `json:"periodicity_months"`
	Factors     []FactorInput      `json:"factors"`
}

// RequestFromProfile extracts the draft inputs of a profile.
func RequestFromProfile(p domain.PositionRiskProfile) Request {
	req := Request{PositionID: p.PositionID, Periodicity: p.EMOPeriodicity}
	for _, f := range p.Factors {
		req.Factors = append(req.Factors, FactorInput{FactorID: f.FactorID, ND: f.ND, NE: f.NE, NC: f.NC})
	}
	return req.Sorted()
}

// Sorted returns a copy with the factors ordered by id.
func (r Request) Sorted() Request {
	out := r
	out.Factors = append([]FactorInput(nil), r.Factors...)
	sort.SliceStable(out.Factors, func(i, j int) bool { return out.Factors[i].FactorID < out.Factors[j].FactorID })
	return out
}

// Signature identifies the inputs of r independently of factor order:
// "<position>|<periodicity>|<id>:<nd>:<ne>:<nc>|...". Absent levels render
// as empty strings.
func (r Request) Signature() string {
	s := r.Sorted()
	parts := make([]string, 0, len(s.Factors)+2)
	parts = append(parts, strconv.Itoa(s.PositionID), strconv.Itoa(int(s.Periodicity)))
	for _, f := range s.Factors {
		parts = append(parts, fmt.Sprintf("%d:%s:%s:%s", f.FactorID, level(f.ND), level(f.NE), level(f.NC)))
	}
	return strings.Join(parts, "|")
}

func level[T ~int](v *T) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(int(*v))
}

// WorkerCounts summarizes the workers exposed in the position.
type WorkerCounts struct {
	Total           int `json:"total"`
	Under21         int `json:"under_21"`
	TenureUnder2y   int `json:"tenure_under_2y"`
	MissingHireDate int `json:"missing_hire_date"`
}

// Suggestion is the suggestion service's answer.
type Suggestion struct {
	PositionID           int                 `json:"position_id"`
	SuggestedPeriodicity domain.Periodicity  `json:"suggested_periodicity_months,omitempty"`
	DraftPeriodicity     *domain.Periodicity `json:"draft_periodicity_months,omitempty"`
	Workers              WorkerCounts        `json:"workers"`
	DraftJustification   string              `json:"draft_justification"`
}

// Suggester produces a justification draft for a request.
type Suggester interface {
	SuggestJustification(ctx context.Context, req Request) (Suggestion, error)
}

// SuggesterFunc adapts a function to Suggester.
type SuggesterFunc func(ctx context.Context, req Request) (Suggestion, error)

func (f SuggesterFunc) SuggestJustification(ctx context.Context, req Request) (Suggestion, error) {
	return f(ctx, req)
}
