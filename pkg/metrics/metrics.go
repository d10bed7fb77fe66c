package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Assessment method label values.
const (
	MethodRuleBased = "rule-based"
	MethodAIBased   = "ai-based"
)

// Metrics holds all application metrics
type Metrics struct {
	// Risk assessment metrics
	RiskLevel          *prometheus.CounterVec
	RiskAssessDuration *prometheus.HistogramVec
	RiskAssessErrors   *prometheus.CounterVec
	ReadingSystolic    prometheus.Gauge
	ReadingDiastolic   prometheus.Gauge

	// AI collaborator metrics
	AICompletionSuccess prometheus.Counter
	AICompletionFailure prometheus.Counter
	AIChatSuccess       prometheus.Counter
	AIChatFailure       prometheus.Counter

	// Outbox related metrics
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RiskLevel: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bp_risk_level_total",
			Help:      "Risk assessments by resulting level and method",
		}, []string{"level", "method"}),
		RiskAssessDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bp_risk_assessment_duration_seconds",
			Help:      "Time spent assessing risk",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		RiskAssessErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bp_risk_assessment_errors_total",
			Help:      "Total number of failed risk assessments",
		}, []string{"method"}),
		ReadingSystolic: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bp_reading_systolic",
			Help:      "Systolic value of the most recently assessed reading",
		}),
		ReadingDiastolic: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bp_reading_diastolic",
			Help:      "Diastolic value of the most recently assessed reading",
		}),

		AICompletionSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_completion_success_total",
			Help:      "Successful text-generation calls on the risk path",
		}),
		AICompletionFailure: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_completion_failure_total",
			Help:      "Failed or short-circuited text-generation calls on the risk path",
		}),
		AIChatSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_chat_success_total",
			Help:      "Successful chat completions",
		}),
		AIChatFailure: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_chat_failure_total",
			Help:      "Failed or short-circuited chat completions",
		}),

		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully processed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent processing outbox events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),

		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
	}
}
