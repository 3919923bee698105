package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/techquest/techquest-backend/internal/model"
	"github.com/techquest/techquest-backend/internal/response"
	"github.com/techquest/techquest-backend/internal/service"
	"github.com/techquest/techquest-backend/internal/validator"
)

// ChallengeHandler handles the public challenge endpoints.
type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

// NewChallengeHandler creates a new ChallengeHandler.
func NewChallengeHandler(challengeService *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

// List godoc
// GET /api/v1/challenges?level=junior&count=20&exclude=id1,id2
// Returns a random batch of approved challenges for the level.
func (h *ChallengeHandler) List(c *gin.Context) {
	level := c.Query("level")
	if level == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrLevelRequired)
		return
	}

	count, _ := strconv.Atoi(c.Query("count"))

	var exclude []string
	if raw := c.Query("exclude"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				exclude = append(exclude, id)
			}
		}
	}

	challenges, err := h.challengeService.List(c.Request.Context(), level, count, exclude)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLevel) {
			response.Fail(c, http.StatusBadRequest, response.ErrLevelRequired)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"challenges": model.PublicChallenges(challenges),
	})
}

// Contribute godoc
// POST /api/v1/challenges/contribute
// Accepts a community-submitted challenge into the review queue.
func (h *ChallengeHandler) Contribute(c *gin.Context) {
	var req model.ContributeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	challenge, err := h.challengeService.Contribute(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":     challenge.ID,
		"status": challenge.Status,
	})
}
