package reading

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chikere/bptracker-api/internal/model"
	"github.com/chikere/bptracker-api/internal/repository"
	"github.com/chikere/bptracker-api/internal/service/reading"
	"github.com/chikere/bptracker-api/pkg/httputil"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bodyposition", func(fl validator.FieldLevel) bool {
			switch model.BodyPosition(fl.Field().String()) {
			case model.PositionSitting, model.PositionStanding, model.PositionLying:
				return true
			}
			return false
		})
		v.RegisterValidation("arm", func(fl validator.FieldLevel) bool {
			switch model.Arm(fl.Field().String()) {
			case model.ArmLeft, model.ArmRight:
				return true
			}
			return false
		})
	}
}

type Handler struct {
	service    reading.ReadingService
	outboxRepo repository.OutboxRepository
}

func NewHandler(service reading.ReadingService, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{service: service, outboxRepo: outboxRepo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	readings := r.Group("/readings")
	{
		readings.POST("", h.CreateReading)
		readings.GET("/:id", h.GetReading)
		readings.DELETE("/:id", h.DeleteReading)
	}

	patients := r.Group("/patients")
	{
		patients.GET("/:id/readings", h.ListForPatient)
		patients.GET("/:id/readings/latest", h.LatestForPatient)
		patients.GET("/:id/readings/export", h.ExportCSV)
	}
}

func (h *Handler) CreateReading(c *gin.Context) {
	var req model.CreateReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := h.service.CreateReading(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if payload, err := json.Marshal(r); err == nil {
		if err := h.outboxRepo.Create(c.Request.Context(), &model.OutboxEvent{
			EventType: model.EventReadingCreated,
			Payload:   payload,
		}); err != nil {
			log.Error().Err(err).Msg("failed to create outbox event")
		}
	}

	httputil.RespondWithCreated(c, r)
}

func (h *Handler) GetReading(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reading ID"})
		return
	}

	r, err := h.service.GetReading(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, r)
}

func (h *Handler) DeleteReading(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reading ID"})
		return
	}

	if err := h.service.DeleteReading(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": id})
}

func (h *Handler) ListForPatient(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient ID"})
		return
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		readings, err := h.service.RecentForPatient(c.Request.Context(), patientID, limit)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithSuccess(c, readings)
		return
	}

	readings, err := h.service.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, readings)
}

func (h *Handler) LatestForPatient(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient ID"})
		return
	}

	r, err := h.service.LatestForPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, r)
}

func (h *Handler) ExportCSV(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient ID"})
		return
	}

	csvData, err := h.service.ExportCSV(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=readings.csv")
	c.Data(http.StatusOK, "text/csv", []byte(csvData))
}
