package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobpass-backend/internal/feedback"
	"jobpass-backend/internal/shared/server/middleware"
	"jobpass-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// FeedbackReader loads stored feedback for the resume detail view.
type FeedbackReader interface {
	GetByResume(ctx context.Context, resumeID string) (feedback.Feedback, error)
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	Feedback FeedbackReader
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, feedbackRepo FeedbackReader) *Handler {
	return &Handler{Svc: svc, Feedback: feedbackRepo}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.upload)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.GET("/resumes/:id/file", h.file)
	rg.DELETE("/resumes/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	companyName := c.PostForm("companyName")
	jobTitle := c.PostForm("jobTitle")

	resume, err := h.Svc.Upload(c.Request.Context(), userID, companyName, jobTitle, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload resume", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"id":       resume.ID,
		"fileName": resume.FileName,
	})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}

	resp := make([]ListItem, 0, len(items))
	for _, item := range items {
		resp = append(resp, toListItem(item))
	}

	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")

	resume, err := h.Svc.Get(c.Request.Context(), userID, resumeID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "resume_not_found", "resume not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch resume", nil)
		}
		return
	}

	detail := DetailResponse{Response: toResponse(resume)}
	if h.Feedback != nil {
		fb, err := h.Feedback.GetByResume(c.Request.Context(), resumeID)
		switch {
		case err == nil:
			detail.Feedback = &fb
		case errors.Is(err, feedback.ErrNotFound):
			// not analyzed yet, feedback stays null
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch feedback", nil)
			return
		}
	}

	respond.JSON(c, http.StatusOK, detail)
}

func (h *Handler) file(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")

	resume, body, err := h.Svc.OpenFile(c.Request.Context(), userID, resumeID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "resume_not_found", "resume not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open file", nil)
		}
		return
	}
	defer body.Close()

	c.Header("Content-Type", resume.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", resume.FileName))
	if resume.SizeBytes > 0 {
		c.Header("Content-Length", strconv.FormatInt(resume.SizeBytes, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		// connection gone mid-stream, nothing left to report
		_ = err
	}
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")

	if err := h.Svc.Delete(c.Request.Context(), userID, resumeID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "resume_not_found", "resume not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete resume", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}
