package risk

import (
	"context"

	"github.com/google/uuid"

	"github.com/chikere/bptracker-api/internal/model"
	"github.com/chikere/bptracker-api/internal/repository"
	"github.com/chikere/bptracker-api/pkg/logger"
	"github.com/chikere/bptracker-api/pkg/metrics"
)

// ClassifyReading maps one reading's values onto the severity taxonomy.
// Rules are evaluated top-down and the first match wins; systolic and
// diastolic are OR-combined except at the NORMAL/LOW boundary, which needs
// both above 80.
func ClassifyReading(systolic, diastolic int) model.RiskLevel {
	switch {
	case systolic >= 180 || diastolic >= 110:
		return model.RiskSevereHypertensive
	case systolic >= 160 || diastolic >= 100:
		return model.RiskModerateHypertensive
	case systolic >= 140 || diastolic >= 90:
		return model.RiskMildHypertensive
	case systolic >= 80 && diastolic >= 80:
		return model.RiskNormal
	default:
		return model.RiskLow
	}
}

// RuleBasedAssessor classifies a patient's most recent reading with the
// fixed threshold table. No AI involved.
type RuleBasedAssessor struct {
	patients repository.PatientRepository
	readings repository.ReadingRepository
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewRuleBasedAssessor(
	patients repository.PatientRepository,
	readings repository.ReadingRepository,
	m *metrics.Metrics,
	l *logger.Logger,
) *RuleBasedAssessor {
	return &RuleBasedAssessor{
		patients: patients,
		readings: readings,
		metrics:  m,
		logger:   l,
	}
}

// AssessImmediate classifies the latest reading for the patient. A missing
// patient or an empty reading history surfaces as a not-found error.
func (a *RuleBasedAssessor) AssessImmediate(ctx context.Context, patientID uuid.UUID) (model.RiskLevel, error) {
	patient, err := a.patients.Get(ctx, patientID)
	if err != nil {
		return model.RiskUnknown, err
	}

	latest, err := a.readings.Latest(ctx, patientID)
	if err != nil {
		return model.RiskUnknown, err
	}

	level := ClassifyReading(latest.Systolic, latest.Diastolic)

	a.logger.Info("assessed immediate reading",
		"patient", patient.FullName,
		"taken_at", latest.Timestamp,
		"level", level.String())

	a.metrics.RiskLevel.WithLabelValues(level.String(), metrics.MethodRuleBased).Inc()
	a.metrics.ReadingSystolic.Set(float64(latest.Systolic))
	a.metrics.ReadingDiastolic.Set(float64(latest.Diastolic))

	return level, nil
}
