package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/foodlens/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL            time.Duration
	SimilarityThreshold float64
	EnableDebugLogging  bool
}

// SearchService answers product searches against the loaded catalog.
// The vector model is shared read-only state across searches; it is rebuilt
// as a whole on catalog reload, never mutated in place, so concurrent
// readers always see a consistent snapshot.
type SearchService struct {
	cache           domain.CacheRepository
	catalog         domain.ProductCatalog
	matchingService *MatchingService
	cacheTTL        time.Duration
	debugLogging    bool

	mu    sync.RWMutex
	model *VectorModel
}

// NewSearchService creates a search service and fits the vector model over
// the catalog's product names. Returns ErrEmptyCorpus when the catalog has
// no usable names, which is fatal to search functionality.
func NewSearchService(
	cache domain.CacheRepository,
	catalog domain.ProductCatalog,
	config SearchServiceConfig,
) (*SearchService, error) {
	matchingService := NewMatchingService(MatchConfig{
		SimilarityThreshold: config.SimilarityThreshold,
		EnableDebugLogging:  config.EnableDebugLogging,
	})

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	s := &SearchService{
		cache:           cache,
		catalog:         catalog,
		matchingService: matchingService,
		cacheTTL:        cacheTTL,
		debugLogging:    config.EnableDebugLogging,
	}

	if err := s.rebuildModel(); err != nil {
		return nil, err
	}

	return s, nil
}

// rebuildModel fits a fresh vector model over the full catalog. The model is
// always fit over all product names, not a filtered view, so term weights and
// search coverage stay independent of whatever filters are active.
func (s *SearchService) rebuildModel() error {
	products := s.catalog.Products()
	names := make([]string, len(products))
	for i := range products {
		names[i] = products[i].Name
	}

	model, err := BuildVectorModel(names)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.model = model
	s.mu.Unlock()

	if s.debugLogging {
		log.Printf("[SEARCH] Vector model fit: %d names, %d terms", len(names), model.VocabularySize())
	}
	return nil
}

// currentModel returns the active vector model snapshot
func (s *SearchService) currentModel() *VectorModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Search resolves a free-text query against the filtered catalog.
// Flow: check cache -> filter catalog -> best match or suggestions -> cache -> return
func (s *SearchService) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error) {
	if request == nil || strings.TrimSpace(request.Query) == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := s.generateCacheKey(request)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	candidates := request.Filter.Filter(s.catalog.Products())

	match, confident, err := s.matchingService.FindBestMatch(ctx, request.Query, candidates, s.currentModel())
	if err != nil {
		return nil, err
	}

	if !confident {
		// Substring fallback. Not cached: suggestion lists are cheap to
		// recompute and would otherwise dominate the cache with misses.
		response := &domain.SearchResponse{
			Matched:     false,
			Suggestions: s.matchingService.Suggest(request.Query, candidates),
		}
		return response, nil
	}

	response := &domain.SearchResponse{
		Matched: true,
		Match:   match,
	}
	if chart, ok := domain.ChartData(&match.Product); ok {
		response.Chart = &chart
	}

	if err := s.setInCache(ctx, cacheKey, response); err != nil && s.debugLogging {
		log.Printf("[SEARCH] Cache set failed for %q: %v", cacheKey, err)
	}

	return response, nil
}

// List returns the catalog subsequence matching the filter, preserving order
func (s *SearchService) List(filter domain.FilterCriteria) []domain.Product {
	return filter.Filter(s.catalog.Products())
}

// Facets returns the catalog's distinct categories and brands
func (s *SearchService) Facets() domain.FacetValues {
	return s.catalog.Facets()
}

// Reload swaps in a fresh catalog snapshot, refits the vector model over it,
// and drops all cached search responses. The old snapshot stays visible to
// in-flight searches until the swap completes.
func (s *SearchService) Reload(ctx context.Context) error {
	if err := s.catalog.Reload(); err != nil {
		return err
	}
	if err := s.rebuildModel(); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

// generateCacheKey creates a normalized cache key from a search request.
// Format: "search:{normalized_query}|{category}|{brands}|{harmful}"
func (s *SearchService) generateCacheKey(request *domain.SearchRequest) string {
	brands := append([]string(nil), request.Filter.Brands...)
	sort.Strings(brands)

	return fmt.Sprintf("search:%s|%s|%s|%s",
		normalizeForCacheKey(request.Query),
		normalizeForCacheKey(request.Filter.Category),
		normalizeForCacheKey(strings.Join(brands, " ")),
		request.Filter.Harmful,
	)
}

// normalizeForCacheKey normalizes a string for use as cache key component.
// Converts to lowercase, removes special characters, and trims whitespace.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// getFromCache retrieves a cached search response
func (s *SearchService) getFromCache(ctx context.Context, key string) (*domain.SearchResponse, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	response, ok := value.(*domain.SearchResponse)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return response, nil
}

// setInCache stores a search response in cache
func (s *SearchService) setInCache(ctx context.Context, key string, response *domain.SearchResponse) error {
	return s.cache.Set(ctx, key, response, s.cacheTTL)
}
