package feedback

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobpass-backend/internal/ai"
	"jobpass-backend/internal/shared/server/middleware"
	"jobpass-backend/internal/shared/server/respond"
)

// Handler wires the analysis endpoints to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/:id/analyze", h.analyze)
	rg.GET("/resumes/:id/feedback", h.get)
}

type analyzeRequest struct {
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) analyze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")

	// The body is optional; an empty one binds as io.EOF.
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), userID, resumeID, req.JobDescription)
	if err != nil {
		switch {
		case errors.Is(err, ErrResumeNotFound):
			respond.Error(c, http.StatusNotFound, "resume_not_found", "resume not found", nil)
		case errors.Is(err, ErrAnalysisInFlight):
			respond.Error(c, http.StatusConflict, "analysis_in_flight", "analysis already running for this resume", nil)
		case errors.Is(err, ai.ErrRejected):
			respond.Error(c, http.StatusBadGateway, "provider_rejected", "AI provider rejected the request", nil)
		case errors.Is(err, ai.ErrUnavailable):
			respond.Error(c, http.StatusBadGateway, "provider_unavailable", "AI provider unavailable", nil)
		case errors.Is(err, ErrMalformedResponse):
			respond.Error(c, http.StatusBadGateway, "malformed_response", "AI response was not valid JSON", nil)
		case errors.Is(err, ErrInvalidStructure):
			respond.Error(c, http.StatusBadGateway, "invalid_feedback", "AI response did not match the feedback shape", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
		}
		return
	}

	resp := gin.H{
		"feedback":  result.Feedback,
		"persisted": result.Persisted,
	}
	if !result.Persisted {
		resp["warning"] = "storage_failed"
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")

	fb, err := h.Svc.GetByResume(c.Request.Context(), userID, resumeID)
	if err != nil {
		switch {
		case errors.Is(err, ErrResumeNotFound):
			respond.Error(c, http.StatusNotFound, "resume_not_found", "resume not found", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no feedback for this resume", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch feedback", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, fb)
}
