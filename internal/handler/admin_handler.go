package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techquest/techquest-backend/internal/genai"
	"github.com/techquest/techquest-backend/internal/model"
	"github.com/techquest/techquest-backend/internal/repository"
	"github.com/techquest/techquest-backend/internal/response"
	"github.com/techquest/techquest-backend/internal/service"
	"github.com/techquest/techquest-backend/internal/validator"
)

// AdminHandler handles admin authentication and the review queue.
type AdminHandler struct {
	authService      *service.AuthService
	challengeService *service.ChallengeService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(authService *service.AuthService, challengeService *service.ChallengeService) *AdminHandler {
	return &AdminHandler{
		authService:      authService,
		challengeService: challengeService,
	}
}

// Login godoc
// POST /api/v1/admin/login
// Exchanges the shared passcode for a short-lived admin token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, expiresIn, err := h.authService.Login(req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, model.AdminLoginResponse{
		Success:   true,
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// ListPending godoc
// GET /api/v1/admin/challenges/pending
// Returns the review queue, oldest submission first.
func (h *AdminHandler) ListPending(c *gin.Context) {
	challenges, err := h.challengeService.ListPending(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"challenges": challenges})
}

// Approve godoc
// PATCH /api/v1/admin/challenges/:id/approve
// Applies the admin's edits and publishes the challenge into the pool.
func (h *AdminHandler) Approve(c *gin.Context) {
	id := c.Param("id")

	var req model.ApproveChallengeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	challenge, err := h.challengeService.Approve(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrChallengeNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"challenge": challenge})
}

// Seed godoc
// POST /api/v1/admin/challenges/seed
// Synchronously generates and stores challenges for a level.
func (h *AdminHandler) Seed(c *gin.Context) {
	var req model.SeedRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	seeded, err := h.challengeService.Seed(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidLevel):
			response.Fail(c, http.StatusBadRequest, response.ErrLevelRequired)
		case errors.Is(err, genai.ErrNoAPIKey):
			response.Fail(c, http.StatusServiceUnavailable, response.ErrSeedingFailed)
		default:
			response.Fail(c, http.StatusBadGateway, response.ErrSeedingFailed)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"seeded": seeded})
}
