package domain

import (
	"strings"
	"testing"
)

func validProfile() PositionRiskProfile {
	p := NewPositionRiskProfile(Position{ID: 7, Name: "Operario de planta"})
	f := NewFactorAssessment(1, "Ruido")
	f.Classification = Noise
	p.Factors = []FactorAssessment{f}
	p.Exams = []ExamSchedule{NewExamSchedule(3, true)}
	return p
}

func TestValidateProfileShape(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(p *PositionRiskProfile)
		wantErr string
	}{
		{name: "valid", mutate: func(*PositionRiskProfile) {}},
		{name: "missing position", mutate: func(p *PositionRiskProfile) { p.PositionID = 0 }, wantErr: "position_id"},
		{name: "duplicate factor", mutate: func(p *PositionRiskProfile) {
			p.Factors = append(p.Factors, p.Factors[0])
		}, wantErr: "duplicate factor_id"},
		{name: "unknown classification", mutate: func(p *PositionRiskProfile) {
			p.Factors[0].Classification = "asbestos"
		}, wantErr: "unknown classification"},
		{name: "duplicate exam", mutate: func(p *PositionRiskProfile) {
			p.Exams = append(p.Exams, NewExamSchedule(3, false))
		}, wantErr: "duplicate exam_type_id"},
		{name: "bad occasion", mutate: func(p *PositionRiskProfile) {
			p.Exams[0].Occasions["yearly"] = OccasionConfig{Enabled: true}
		}, wantErr: "invalid occasion"},
		{name: "bad risk level", mutate: func(p *PositionRiskProfile) { p.DeclaredRiskLevel = "extreme" }, wantErr: "declared_risk_level"},
		{name: "bad review date", mutate: func(p *PositionRiskProfile) { p.ReviewDate = "15/10/2026" }, wantErr: "review_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validProfile()
			tt.mutate(&p)
			err := ValidateProfileShape(p)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateHazardFactor(t *testing.T) {
	t.Parallel()
	ok := HazardFactor{ID: 1, Code: "FR-001", Name: "Ruido", Category: CategoryPhysical, Active: true}
	if err := ValidateHazardFactor(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := ok
	bad.Category = "locativo"
	if err := ValidateHazardFactor(bad); err == nil {
		t.Fatal("expected category error")
	}
	bad = ok
	bad.Name = "  "
	if err := ValidateHazardFactor(bad); err == nil {
		t.Fatal("expected name error")
	}
}

func TestNextVersion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		versions []string
		want     string
	}{
		{name: "first save", versions: nil, want: "1.0"},
		{name: "single", versions: []string{"1.0"}, want: "1.1"},
		{name: "max wins", versions: []string{"1.2", " 2.4 ", "1.9"}, want: "2.5"},
		{name: "rounding", versions: []string{"1.9"}, want: "2.0"},
		{name: "non numeric ignored", versions: []string{"draft", "v2", "1.3"}, want: "1.4"},
		{name: "only non numeric", versions: []string{"draft"}, want: "1.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NextVersion(tt.versions); got != tt.want {
				t.Errorf("NextVersion(%v) = %q, want %q", tt.versions, got, tt.want)
			}
		})
	}
}

func TestPeriodicityFromText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Periodicity
	}{
		{"", PeriodicityAnnual},
		{"Semestral", PeriodicitySemiannual},
		{"cada 6 meses", PeriodicitySemiannual},
		{"Anual", PeriodicityAnnual},
		{"Bianual", PeriodicityBiennial},
		{"24 meses", PeriodicityBiennial},
		{"Trienal", PeriodicityTriennial},
		{"36", PeriodicityTriennial},
		{"quincenal", PeriodicityAnnual},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := PeriodicityFromText(tt.in); got != tt.want {
				t.Errorf("PeriodicityFromText(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewExamScheduleDefaults(t *testing.T) {
	t.Parallel()
	s := NewExamSchedule(4, true)
	if got := s.EnabledOccasions(); len(got) != 1 || got[0] != OccasionEntry {
		t.Fatalf("EnabledOccasions = %v, want [entry]", got)
	}
	if s.Occasions[OccasionPeriodic].PeriodicityMonths != PeriodicityAnnual {
		t.Errorf("periodic default = %d, want 12", s.Occasions[OccasionPeriodic].PeriodicityMonths)
	}
	for _, o := range AllOccasions() {
		if !s.Occasions[o].Obligatory {
			t.Errorf("%s should default to obligatory", o)
		}
	}
	if got := NewExamSchedule(4, false).EnabledOccasions(); len(got) != 0 {
		t.Errorf("EnabledOccasions = %v, want none", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()
	p := validProfile()
	p.Factors[0].ND = DeficiencyHigh.Ptr()
	p.ImmunizationIDs = []int{5}

	c := p.Clone()
	*c.Factors[0].ND = DeficiencyVeryHigh
	c.Factors[0].FactorName = "changed"
	c.Exams[0].Occasions[OccasionExit] = OccasionConfig{Enabled: true}
	c.ImmunizationIDs[0] = 9

	if *p.Factors[0].ND != DeficiencyHigh {
		t.Error("ND pointer shared with clone")
	}
	if p.Factors[0].FactorName != "Ruido" {
		t.Error("factor slice shared with clone")
	}
	if p.Exams[0].Occasions[OccasionExit].Enabled {
		t.Error("occasion map shared with clone")
	}
	if p.ImmunizationIDs[0] != 5 {
		t.Error("immunization slice shared with clone")
	}
}

func TestCleanedTrims(t *testing.T) {
	t.Parallel()
	p := validProfile()
	p.Observations = "  revisar  "
	p.Factors[0].Hierarchy.PPE = "   "
	p.Factors[0].MeasuredValue = " 90 "

	c := p.Cleaned()
	if c.Observations != "revisar" {
		t.Errorf("Observations = %q", c.Observations)
	}
	if c.Factors[0].Hierarchy.PPE != "" {
		t.Errorf("PPE = %q, want empty", c.Factors[0].Hierarchy.PPE)
	}
	if c.Factors[0].MeasuredValue != "90" {
		t.Errorf("MeasuredValue = %q", c.Factors[0].MeasuredValue)
	}
	if p.Observations != "  revisar  " {
		t.Error("Cleaned mutated the original")
	}
}

func TestPositionDefaults(t *testing.T) {
	t.Parallel()
	pos := Position{ID: 2, Department: "Producción", EMOPeriodicity: "Bianual"}
	if pos.Zone() != "Producción" {
		t.Errorf("Zone = %q", pos.Zone())
	}
	p := NewPositionRiskProfile(pos)
	if p.EMOPeriodicity != PeriodicityBiennial {
		t.Errorf("EMOPeriodicity = %d, want 24", p.EMOPeriodicity)
	}
	if p.DeclaredRiskLevel != ExposureLevelMedium {
		t.Errorf("DeclaredRiskLevel = %q", p.DeclaredRiskLevel)
	}
}
