package risk

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chikere/bptracker-api/internal/model"
	"github.com/chikere/bptracker-api/internal/repository"
	"github.com/chikere/bptracker-api/internal/service/reading"
	"github.com/chikere/bptracker-api/internal/service/risk"
	"github.com/chikere/bptracker-api/pkg/httputil"
	"github.com/chikere/bptracker-api/pkg/metrics"
)

type Handler struct {
	service    risk.RiskService
	readings   reading.ReadingService
	outboxRepo repository.OutboxRepository
}

func NewHandler(service risk.RiskService, readings reading.ReadingService, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{service: service, readings: readings, outboxRepo: outboxRepo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	assessments := r.Group("/patients/:id/risk")
	{
		assessments.GET("/immediate", h.AssessImmediate)
		assessments.GET("/ai", h.AssessWithAI)
	}
}

func (h *Handler) AssessImmediate(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient ID"})
		return
	}

	level, err := h.service.AssessImmediate(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.publishAssessment(c, patientID, metrics.MethodRuleBased, level)
	httputil.RespondWithSuccess(c, gin.H{"risk_level": level})
}

func (h *Handler) AssessWithAI(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient ID"})
		return
	}

	// The classifier re-checks the history floor itself; declining early
	// here just avoids a pointless collaborator round trip.
	enough, err := h.readings.HasMinimumReadings(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if !enough {
		httputil.RespondWithSuccess(c, gin.H{"risk_level": model.RiskUnknown})
		return
	}

	level, err := h.service.AssessWithAI(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.publishAssessment(c, patientID, metrics.MethodAIBased, level)
	httputil.RespondWithSuccess(c, gin.H{"risk_level": level})
}

func (h *Handler) publishAssessment(c *gin.Context, patientID uuid.UUID, method string, level model.RiskLevel) {
	payload, err := json.Marshal(model.RiskAssessedPayload{
		PatientID: patientID,
		Method:    method,
		Level:     level,
	})
	if err != nil {
		return
	}
	if err := h.outboxRepo.Create(c.Request.Context(), &model.OutboxEvent{
		EventType: model.EventRiskAssessed,
		Payload:   payload,
	}); err != nil {
		log.Error().Err(err).Msg("failed to create outbox event")
	}
}
