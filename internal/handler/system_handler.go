package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techquest/techquest-backend/internal/response"
	"github.com/techquest/techquest-backend/internal/service"
)

// SystemHandler reports platform health.
type SystemHandler struct {
	challengeService *service.ChallengeService
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(challengeService *service.ChallengeService) *SystemHandler {
	return &SystemHandler{challengeService: challengeService}
}

// Status godoc
// GET /api/v1/status
// Reports whether the challenge collection is reachable, how many
// records it holds, and one sampled record as proof of life.
func (h *SystemHandler) Status(c *gin.Context) {
	report, err := h.challengeService.Status(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusServiceUnavailable, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, report)
}
