package risk

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chikere/bptracker-api/internal/model"
	"github.com/chikere/bptracker-api/internal/repository"
	"github.com/chikere/bptracker-api/pkg/ai"
	"github.com/chikere/bptracker-api/pkg/circuitbreaker"
	apperrors "github.com/chikere/bptracker-api/pkg/errors"
	"github.com/chikere/bptracker-api/pkg/logger"
	"github.com/chikere/bptracker-api/pkg/metrics"
)

// minReadingsRequired is the history floor: fewer readings than this yields
// RiskUnknown rather than a collaborator call.
const minReadingsRequired = 3

const promptTemplate = `Based on these 3 recent blood pressure readings (systolic/diastolic):
%s

Please assess the patient's risk level and respond with one of the following options in CAPITAL LETTERS:
LOW, NORMAL, MILD_HYPERTENSIVE, MODERATE_HYPERTENSIVE, or SEVERE_HYPERTENSIVE.

First, explain your reasoning based on the readings.
Then, clearly state the risk level on a new line, as one of the five options.

Blood pressure classification:
- 80/80 and below: LOW
- 80-140/80-90: NORMAL
- 140-160/90-100: MILD_HYPERTENSIVE
- 160-180/100-110: MODERATE_HYPERTENSIVE
- 180/110 and above: SEVERE_HYPERTENSIVE`

// AIAssessor classifies a patient's short reading history by delegating to
// the text-generation collaborator and parsing the free-text reply back
// into the taxonomy. Every successful completion is recorded on the
// patient's notes, whatever the parse outcome.
type AIAssessor struct {
	patients  repository.PatientRepository
	readings  repository.ReadingRepository
	completer ai.Completer
	breaker   *circuitbreaker.CircuitBreaker
	metrics   *metrics.Metrics
	logger    *logger.Logger
	now       func() time.Time
}

func NewAIAssessor(
	patients repository.PatientRepository,
	readings repository.ReadingRepository,
	completer ai.Completer,
	breaker *circuitbreaker.CircuitBreaker,
	m *metrics.Metrics,
	l *logger.Logger,
) *AIAssessor {
	return &AIAssessor{
		patients:  patients,
		readings:  readings,
		completer: completer,
		breaker:   breaker,
		metrics:   m,
		logger:    l,
		now:       time.Now,
	}
}

// AssessWithHistory classifies the patient from their last 3 readings.
// Only a missing patient is an error; insufficient history, a failed or
// short-circuited collaborator call, and an unparseable response all come
// back as RiskUnknown.
func (a *AIAssessor) AssessWithHistory(ctx context.Context, patientID uuid.UUID) (model.RiskLevel, error) {
	if _, err := a.patients.Get(ctx, patientID); err != nil {
		return model.RiskUnknown, err
	}

	recent, err := a.readings.Recent(ctx, patientID, minReadingsRequired)
	if err != nil {
		return model.RiskUnknown, fmt.Errorf("failed to fetch recent readings: %w", err)
	}
	if len(recent) < minReadingsRequired {
		a.logger.Info("not enough readings for AI assessment",
			"patient_id", patientID, "count", len(recent))
		return model.RiskUnknown, nil
	}

	prompt := buildPrompt(formatReadings(recent))
	a.logger.Debug("prompt sent to AI", "prompt", prompt)

	response, err := a.breaker.Execute(func() (string, error) {
		return a.completer.Complete(ctx, prompt)
	})
	if err != nil {
		a.metrics.AICompletionFailure.Inc()
		a.logger.Error(err, "AI assessment call failed",
			"patient_id", patientID, "breaker_state", a.breaker.State())
		return model.RiskUnknown, nil
	}
	a.metrics.AICompletionSuccess.Inc()
	a.logger.Debug("AI response", "response", response)

	if err := a.recordAnalysis(ctx, patientID, response); err != nil {
		if apperrors.IsNotFound(err) {
			return model.RiskUnknown, err
		}
		// The completion itself succeeded; losing the audit note is not a
		// reason to discard the classification.
		a.logger.Error(err, "failed to append AI analysis to patient notes",
			"patient_id", patientID)
	}

	level := ExtractRiskLevel(response)
	a.metrics.RiskLevel.WithLabelValues(level.String(), metrics.MethodAIBased).Inc()
	return level, nil
}

// recordAnalysis appends the raw completion to the patient's notes as a
// timestamped audit block.
func (a *AIAssessor) recordAnalysis(ctx context.Context, patientID uuid.UUID, response string) error {
	note := fmt.Sprintf("[%s] AI Risk Analysis: %s", a.now().Format(time.RFC3339), response)
	return a.patients.AppendNotes(ctx, patientID, note)
}

// ExtractRiskLevel scans the response for the first level name, in
// declaration order, appearing as a substring. The collaborator's output
// format is not guaranteed, so this is deliberately lenient; no match means
// RiskUnknown.
func ExtractRiskLevel(response string) model.RiskLevel {
	for _, level := range model.RiskLevels {
		if strings.Contains(response, level.String()) {
			return level
		}
	}
	return model.RiskUnknown
}

// formatReadings serializes readings one per line, preserving the
// most-recent-first order the repository returns.
func formatReadings(readings []*model.Reading) string {
	lines := make([]string, 0, len(readings))
	for _, r := range readings {
		lines = append(lines, fmt.Sprintf("Systolic: %d, Diastolic: %d, Time: %s",
			r.Systolic, r.Diastolic, r.Timestamp.Format(time.RFC3339)))
	}
	return strings.Join(lines, "\n")
}

func buildPrompt(readingsSummary string) string {
	return fmt.Sprintf(promptTemplate, readingsSummary)
}
