package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/BigChungus31/Credit-Card-Recommendation-System/config"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/domain"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/usecase"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxBodySize caps recommendation request bodies
const maxBodySize = 64 << 10

// Recommender ranks the catalog for a profile
type Recommender interface {
	Recommend(ctx context.Context, profile *domain.UserProfile, topN int) (*domain.RecommendationResponse, error)
}

// CatalogManager exposes the catalog snapshot and on-demand reloads
type CatalogManager interface {
	Snapshot() (*domain.Catalog, error)
	Load(ctx context.Context) (*domain.Catalog, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommender Recommender
	catalog     CatalogManager
	validator   *validation.RequestValidator
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(recommender Recommender, catalog CatalogManager, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	validator, err := validation.NewRequestValidator()
	if err != nil {
		return nil, err
	}

	return &Handler{
		recommender: recommender,
		catalog:     catalog,
		validator:   validator,
		logger:      logger.Named("handler"),
	}, nil
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"service": "cardmatch",
		"version": "1.0.0",
	}

	if h.catalog != nil {
		if snap, err := h.catalog.Snapshot(); err == nil {
			resp["catalog_version"] = snap.Version
			resp["total_cards"] = len(snap.Cards)
		} else {
			resp["status"] = "degraded"
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Recommend handles POST /api/v1/recommendations
func (h *Handler) Recommend(c *gin.Context) {
	profile, topN, ok := h.bindProfile(c)
	if !ok {
		return
	}

	resp, err := h.recommender.Recommend(c.Request.Context(), profile, topN)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Display handles POST /api/v1/recommendations/display
func (h *Handler) Display(c *gin.Context) {
	profile, topN, ok := h.bindProfile(c)
	if !ok {
		return
	}

	resp, err := h.recommender.Recommend(c.Request.Context(), profile, topN)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, usecase.Present(resp, profile))
}

// ListCards handles GET /api/v1/cards
func (h *Handler) ListCards(c *gin.Context) {
	snap, err := h.catalog.Snapshot()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_cards":     len(snap.Cards),
		"catalog_version": snap.Version,
		"cards":           snap.Names(),
	})
}

// ReloadCatalog handles POST /api/v1/catalog/reload
func (h *Handler) ReloadCatalog(c *gin.Context) {
	snap, err := h.catalog.Load(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_cards": len(snap.Cards),
		"version":     snap.Version,
	})
}

// bindProfile reads, validates and normalizes the request body and top_n query parameter.
// On failure it writes the response and returns ok=false.
func (h *Handler) bindProfile(c *gin.Context) (*domain.UserProfile, int, bool) {
	if h.recommender == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recommendation service not configured"})
		return nil, 0, false
	}

	topN := 0
	if raw := c.Query("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > config.MaxTopN {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top_n must be an integer between 1 and 50"})
			return nil, 0, false
		}
		topN = n
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return nil, 0, false
	}

	profile, err := h.validator.DecodeProfile(body)
	if err != nil {
		h.respondError(c, err)
		return nil, 0, false
	}

	return profile, topN, true
}

// respondError maps domain errors onto HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCatalogNotLoaded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCatalogFormat), errors.Is(err, domain.ErrCatalogSourceFailure):
		h.logger.Error("catalog reload failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
