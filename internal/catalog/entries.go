package catalog

import "github.com/sgsst/profesiograma-go/internal/domain"

// Entry summarizes what the catalog knows about one classification.
type Entry struct {
	Code          domain.Classification `json:"code"`
	Label         string                `json:"label"`
	Category      domain.HazardCategory `json:"category"`
	CategoryLabel string                `json:"category_label"`
	VLP           *VLP                  `json:"vlp,omitempty"`
	Controls      ControlProfile        `json:"control_profile,omitempty"`
	HasReference  bool                  `json:"has_measured_reference"`
	HasText       bool                  `json:"has_descriptions"`
}

// Describe returns the catalog entry for c.
func Describe(c domain.Classification) Entry {
	e := Entry{
		Code:          c,
		Label:         c.Label(),
		Category:      c.Category(),
		CategoryLabel: c.Category().Label(),
	}
	if v, ok := vlpTable[c]; ok {
		e.VLP = &v
	}
	if p, ok := ControlProfileForClassification(c); ok {
		e.Controls = p
	}
	_, e.HasReference = measuredTable[c]
	_, e.HasText = textTable[c]
	return e
}

// Entries describes every classification, optionally restricted to one
// category. An empty category returns the whole catalog.
func Entries(category domain.HazardCategory) []Entry {
	list := domain.AllClassifications()
	if category != "" {
		list = domain.ClassificationsIn(category)
	}
	out := make([]Entry, 0, len(list))
	for _, c := range list {
		out = append(out, Describe(c))
	}
	return out
}
