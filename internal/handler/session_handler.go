package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techquest/techquest-backend/internal/model"
	"github.com/techquest/techquest-backend/internal/repository"
	"github.com/techquest/techquest-backend/internal/response"
	"github.com/techquest/techquest-backend/internal/service"
	"github.com/techquest/techquest-backend/internal/session"
	"github.com/techquest/techquest-backend/internal/validator"
)

// SessionHandler handles the practice-session endpoints.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// sessionView shapes a session for the wire. Challenge review status
// never leaves the server, and the full batch is only exposed through
// the current cursor position.
func sessionView(sess *session.Session) gin.H {
	view := gin.H{
		"id":       sess.ID,
		"level":    sess.Level,
		"state":    sess.State,
		"cursor":   sess.Cursor,
		"total":    len(sess.Challenges),
		"answered": len(sess.Responses),
	}

	if current, ok := sess.Current(); ok {
		view["current"] = current.Public()
	}

	if sess.State == session.StateFinished {
		view["total_score"] = sess.TotalScore
		view["responses"] = sess.Responses
	}

	return view
}

// Start godoc
// POST /api/v1/sessions
// Begins a session; an exhausted pool resets the client's history and
// retries once before reporting an empty session.
func (h *SessionHandler) Start(c *gin.Context) {
	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.sessionService.Start(c.Request.Context(), req.ClientID, req.Level, req.Count)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLevel) {
			response.Fail(c, http.StatusBadRequest, response.ErrLevelRequired)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": sessionView(sess)})
}

// Advance godoc
// POST /api/v1/sessions/:id/advance
// Records the answer to the current challenge and steps forward.
func (h *SessionHandler) Advance(c *gin.Context) {
	id := c.Param("id")

	var req model.AdvanceSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.sessionService.Advance(c.Request.Context(), id, req.UserInput)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSessionNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		case errors.Is(err, session.ErrNotInProgress):
			response.Fail(c, http.StatusConflict, response.ErrSessionNotInProgress)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": sessionView(sess)})
}

// Get godoc
// GET /api/v1/sessions/:id
// Returns the current state of a session, including results once finished.
func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.sessionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": sessionView(sess)})
}

// Cancel godoc
// DELETE /api/v1/sessions/:id
// Abandons a session without recording anything to the seen-set.
func (h *SessionHandler) Cancel(c *gin.Context) {
	if err := h.sessionService.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "session cancelled"})
}
