package handlers

import (
	stdErrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/milo0914/ChemPatent-Pro/internal/application/claims"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/patent"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// ClaimsHandler serves the claim analysis endpoints.
type ClaimsHandler struct {
	svc claims.Service
}

func NewClaimsHandler(svc claims.Service) *ClaimsHandler {
	return &ClaimsHandler{svc: svc}
}

// RegisterRoutes mounts the handler under rg (normally /api/v1).
func (h *ClaimsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/claims")
	g.POST("/analyze", h.Analyze)
	g.POST("/analyze/batch", h.AnalyzeBatch)
	g.GET("/analyses", h.ListAnalyses)
	g.GET("/analyses/:id", h.GetAnalysis)
}

// Analyze handles POST /claims/analyze.
func (h *ClaimsHandler) Analyze(c *gin.Context) {
	var req patent.AnalyzeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	res, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, res)
}

// AnalyzeBatch handles POST /claims/analyze/batch.  Item failures are
// reported inside a 200 response.
func (h *ClaimsHandler) AnalyzeBatch(c *gin.Context) {
	var req patent.BatchAnalyzeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	res, err := h.svc.AnalyzeBatch(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, res)
}

// GetAnalysis handles GET /claims/analyses/:id.
func (h *ClaimsHandler) GetAnalysis(c *gin.Context) {
	res, err := h.svc.GetAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, res)
}

// ListAnalyses handles GET /claims/analyses?limit=&offset=.
func (h *ClaimsHandler) ListAnalyses(c *gin.Context) {
	limit, offset := parseLimitOffset(c, defaultListLimit, maxListLimit)
	res, err := h.svc.ListAnalyses(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, res)
}

// bindJSON decodes the body.  An oversized body (see MaxBodySize) and
// malformed JSON are both client errors.
func bindJSON(c *gin.Context, dest interface{}) error {
	err := c.ShouldBindJSON(dest)
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	switch {
	case stdErrors.As(err, &tooLarge):
		return errors.Newf(errors.ErrCodeBadRequest, "request body exceeds %d bytes", tooLarge.Limit)
	case stdErrors.Is(err, io.EOF):
		return errors.New(errors.ErrCodeBadRequest, "request body is empty")
	default:
		return errors.Wrap(err, errors.ErrCodeBadRequest, "invalid JSON body")
	}
}

//Personal.AI order the ending
