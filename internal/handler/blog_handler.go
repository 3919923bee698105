package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/techquest/techquest-backend/internal/model"
	"github.com/techquest/techquest-backend/internal/repository"
	"github.com/techquest/techquest-backend/internal/response"
	"github.com/techquest/techquest-backend/internal/service"
	"github.com/techquest/techquest-backend/internal/validator"
)

// BlogHandler handles the public blog endpoints and admin blog CRUD.
type BlogHandler struct {
	blogService *service.BlogService
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blogService *service.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// List godoc
// GET /api/v1/blogs
func (h *BlogHandler) List(c *gin.Context) {
	blogs, err := h.blogService.ListPublished(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"blogs": blogs})
}

// GetBySlug godoc
// GET /api/v1/blogs/:slug
func (h *BlogHandler) GetBySlug(c *gin.Context) {
	blog, err := h.blogService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"blog": blog})
}

// Create godoc
// POST /api/v1/admin/blogs
func (h *BlogHandler) Create(c *gin.Context) {
	var req model.CreateBlogRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	blog, err := h.blogService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"blog": blog})
}

// Update godoc
// PUT /api/v1/admin/blogs/:id
func (h *BlogHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateBlogRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	blog, err := h.blogService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"blog": blog})
}

// Delete godoc
// DELETE /api/v1/admin/blogs/:id
func (h *BlogHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.blogService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "blog deleted"})
}
