// Package risk is the risk assessment core: a deterministic threshold
// classifier over the latest reading, an AI-backed classifier over the last
// three readings, and the facade callers go through.
package risk

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chikere/bptracker-api/internal/model"
	"github.com/chikere/bptracker-api/pkg/metrics"
)

type RiskService interface {
	AssessImmediate(ctx context.Context, patientID uuid.UUID) (model.RiskLevel, error)
	AssessWithAI(ctx context.Context, patientID uuid.UUID) (model.RiskLevel, error)
}

// Service dispatches to the two classifiers and times each call. Retry and
// circuit-breaking live below, in the AI assessor's breaker; the facade is
// dispatch plus observability only.
type Service struct {
	rules   *RuleBasedAssessor
	ai      *AIAssessor
	metrics *metrics.Metrics
}

func NewService(rules *RuleBasedAssessor, ai *AIAssessor, m *metrics.Metrics) *Service {
	return &Service{
		rules:   rules,
		ai:      ai,
		metrics: m,
	}
}

func (s *Service) AssessImmediate(ctx context.Context, patientID uuid.UUID) (model.RiskLevel, error) {
	timer := prometheus.NewTimer(s.metrics.RiskAssessDuration.WithLabelValues(metrics.MethodRuleBased))
	defer timer.ObserveDuration()

	level, err := s.rules.AssessImmediate(ctx, patientID)
	if err != nil {
		s.metrics.RiskAssessErrors.WithLabelValues(metrics.MethodRuleBased).Inc()
		return model.RiskUnknown, err
	}
	return level, nil
}

func (s *Service) AssessWithAI(ctx context.Context, patientID uuid.UUID) (model.RiskLevel, error) {
	timer := prometheus.NewTimer(s.metrics.RiskAssessDuration.WithLabelValues(metrics.MethodAIBased))
	defer timer.ObserveDuration()

	level, err := s.ai.AssessWithHistory(ctx, patientID)
	if err != nil {
		s.metrics.RiskAssessErrors.WithLabelValues(metrics.MethodAIBased).Inc()
		return model.RiskUnknown, err
	}
	return level, nil
}
