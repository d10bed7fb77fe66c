package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chikere/bptracker-api/internal/service/chat"
	"github.com/chikere/bptracker-api/pkg/httputil"
)

type Handler struct {
	service *chat.Service
}

func NewHandler(service *chat.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chat", h.Ask)
}

type askRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Question  string `json:"question" binding:"required"`
}

func (h *Handler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer := h.service.Ask(c.Request.Context(), req.SessionID, req.Question)
	httputil.RespondWithSuccess(c, gin.H{"answer": answer})
}
