package workflows_test

import (
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/sgsst/profesiograma-go/internal/domain"
)

// Matchers for activity mocks -- match any context and any input.
var (
	testAnyCtx   = mock.Anything
	testAnyInput = mock.Anything
)

// testProfile returns a profile that validates as accepted; measured sets
// the noise reading (85 dB limit).
func testProfile(measured string) domain.PositionRiskProfile {
	p := domain.NewPositionRiskProfile(domain.Position{ID: 12, Name: "Operario de prensa"})
	p.EMOPeriodicity = 12
	f := domain.NewFactorAssessment(1, "Ruido")
	f.ND, f.NE, f.NC = domain.DeficiencyHigh.Ptr(), domain.ExposureFrequent.Ptr(), domain.ConsequenceSerious.Ptr()
	f.Classification = domain.Noise
	f.MeasuredValue = measured
	p.Factors = []domain.FactorAssessment{f}
	p.Exams = []domain.ExamSchedule{domain.NewExamSchedule(3, true)}
	return p
}

var longJustification = strings.Repeat("Exposición controlada y estable del grupo. ", 3)
