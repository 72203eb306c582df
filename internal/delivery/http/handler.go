package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodlens/backend/internal/domain"
)

// SearchService is the usecase surface the HTTP layer depends on
type SearchService interface {
	Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error)
	List(filter domain.FilterCriteria) []domain.Product
	Facets() domain.FacetValues
	Reload(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searchService SearchService
}

// NewHandler creates a new HTTP handler
func NewHandler(searchService SearchService) *Handler {
	return &Handler{searchService: searchService}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "foodlens-backend",
		"version": "1.0.0",
	})
}

// SearchProducts handles free-text product search requests.
// Returns the best match with chart data, or a suggestion list when no
// candidate clears the similarity threshold.
func (h *Handler) SearchProducts(c *gin.Context) {
	var request domain.SearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if strings.TrimSpace(request.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query must not be empty"})
		return
	}

	if !normalizeHarmfulFilter(&request.Filter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "harmful filter must be one of: all, yes, no"})
		return
	}

	response, err := h.searchService.Search(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Search failures are non-fatal: report and keep serving
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListProducts returns the catalog filtered by query parameters
func (h *Handler) ListProducts(c *gin.Context) {
	filter := domain.FilterCriteria{
		Category: c.Query("category"),
		Brands:   c.QueryArray("brand"),
		Harmful:  domain.HarmfulFilter(c.Query("harmful")),
	}
	if !normalizeHarmfulFilter(&filter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "harmful filter must be one of: all, yes, no"})
		return
	}

	products := h.searchService.List(filter)
	c.JSON(http.StatusOK, gin.H{
		"count":    len(products),
		"products": products,
	})
}

// GetFacets returns the distinct categories and brands for filter controls
func (h *Handler) GetFacets(c *gin.Context) {
	c.JSON(http.StatusOK, h.searchService.Facets())
}

// ReloadCatalog rebuilds the product snapshot and vector model from the
// dataset file and drops cached search responses
func (h *Handler) ReloadCatalog(c *gin.Context) {
	if err := h.searchService.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}

// normalizeHarmfulFilter lowercases the tri-state harmful criterion and maps
// the unset/"All" forms to HarmfulAll. Returns false for unknown values.
func normalizeHarmfulFilter(filter *domain.FilterCriteria) bool {
	switch domain.HarmfulFilter(strings.ToLower(string(filter.Harmful))) {
	case "", domain.HarmfulAll:
		filter.Harmful = domain.HarmfulAll
	case domain.HarmfulYes:
		filter.Harmful = domain.HarmfulYes
	case domain.HarmfulNo:
		filter.Harmful = domain.HarmfulNo
	default:
		return false
	}
	return true
}
