// Package handler exposes the domain analysis HTTP endpoint.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"domainintel_backend/internal/analysis/service"
	"domainintel_backend/internal/analysis/transport"
	"domainintel_backend/platform/httpkit"
	"domainintel_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request body"
	msgValidationFailed = "validation failed"
	msgMissingDomain    = "domain is required"
	msgInvalidClient    = "clientId must be a valid UUID"
)

// Handler handles HTTP requests for domain analysis.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new analysis handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the analysis routes on the given group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/domain", h.Analyze)
	group.GET("/domain", h.Analyze)
}

// Analyze runs the analysis pipeline for one domain.
// POST /api/v1/analysis/domain (primary), GET treated identically with the
// fields read from query parameters.
func (h *Handler) Analyze(c *gin.Context) {
	var req transport.AnalyzeRequest
	if c.Request.Method == http.MethodGet {
		if err := c.ShouldBindQuery(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	} else if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	// Input checks happen before any provider or store I/O.
	if req.Domain == "" {
		httpkit.Error(c, http.StatusBadRequest, msgMissingDomain, nil)
		return
	}

	var clientID *uuid.UUID
	if req.ClientID != "" {
		parsed, err := uuid.Parse(req.ClientID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidClient, nil)
			return
		}
		clientID = &parsed
	}

	result, err := h.svc.Analyze(c.Request.Context(), service.AnalyzeParams{
		Domain:    req.Domain,
		ClientID:  clientID,
		SkipCache: req.SkipCache,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewAnalyzeResponse(result))
}
