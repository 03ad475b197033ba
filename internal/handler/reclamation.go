package handler

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"reclamation-portal/internal/middleware"
	"reclamation-portal/internal/models"
	"reclamation-portal/internal/service"
	"reclamation-portal/internal/upload"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Title and description bounds enforced before anything is persisted.
const (
	titleMinLen       = 5
	titleMaxLen       = 100
	descriptionMinLen = 20
	descriptionMaxLen = 1000
)

type ReclamationHandler interface {
	GetMine(c *gin.Context)
	Create(c *gin.Context)
	GetAll(c *gin.Context)
	UpdateStatus(c *gin.Context)
	GetStats(c *gin.Context)
}

type reclamationHandler struct {
	reclamations service.ReclamationService
	uploads      *upload.Validator
	logger       *zap.Logger
}

func NewReclamationHandler(reclamations service.ReclamationService, uploads *upload.Validator, logger *zap.Logger) ReclamationHandler {
	return &reclamationHandler{reclamations: reclamations, uploads: uploads, logger: logger}
}

// GetMine handles GET /reclamations/me
func (h *reclamationHandler) GetMine(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	recs, err := h.reclamations.ListMine(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list own reclamations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reclamations"})
		return
	}

	c.JSON(http.StatusOK, recs)
}

func validateReclamationInput(title, description string) string {
	switch {
	case utf8.RuneCountInString(title) < titleMinLen:
		return "Title must be at least 5 characters"
	case utf8.RuneCountInString(title) > titleMaxLen:
		return "Title cannot exceed 100 characters"
	case utf8.RuneCountInString(description) < descriptionMinLen:
		return "Description must be at least 20 characters"
	case utf8.RuneCountInString(description) > descriptionMaxLen:
		return "Description cannot exceed 1000 characters"
	default:
		return ""
	}
}

// Create handles POST /reclamations. The body is multipart form data:
// title, description and an optional file attachment. The attachment
// is validated and stored before the reclamation row is written, so a
// rejected file never leaves a committed reclamation behind.
func (h *reclamationHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	if msg := validateReclamationInput(title, description); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var fileURL *string
	fileHeader, err := c.FormFile("file")
	if err == nil {
		path, err := h.uploads.Store(fileHeader)
		if err != nil {
			switch {
			case errors.Is(err, upload.ErrFileTooLarge):
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds the 5 MB limit"})
			case errors.Is(err, upload.ErrUnsupportedType):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file format. Accepted formats: JPEG, PNG, PDF, DOC, DOCX"})
			default:
				h.logger.Error("Failed to store attachment", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store attachment"})
			}
			return
		}
		fileURL = &path
	} else if !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file upload"})
		return
	}

	rec, err := h.reclamations.Create(c.Request.Context(), user.ID, title, description, fileURL)
	if err != nil {
		h.logger.Error("Failed to create reclamation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reclamation"})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// GetAll handles GET /admin/reclamations
func (h *reclamationHandler) GetAll(c *gin.Context) {
	recs, err := h.reclamations.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list reclamations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reclamations"})
		return
	}

	c.JSON(http.StatusOK, recs)
}

type UpdateStatusRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /admin/reclamations/:id/status
func (h *reclamationHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.reclamations.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be PENDING, RESOLVED or REJECTED"})
		case errors.Is(err, service.ErrReclamationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reclamation not found"})
		default:
			h.logger.Error("Failed to update status", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		}
		return
	}

	c.JSON(http.StatusOK, rec)
}

// GetStats handles GET /admin/reclamations/stats
func (h *reclamationHandler) GetStats(c *gin.Context) {
	stats, err := h.reclamations.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
