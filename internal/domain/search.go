package domain

// SearchRequest represents a product search request
type SearchRequest struct {
	Query  string         `json:"query" binding:"required"`
	Filter FilterCriteria `json:"filter,omitempty"`
}

// MatchResult represents the best-matching product for a query
type MatchResult struct {
	Product Product `json:"product"`
	// Score is the cosine similarity between query and product name, 0-1
	Score float64 `json:"score"`
}

// SearchResponse is the outcome of a product search. Exactly one of Match or
// Suggestions is meaningful: a confident match carries the product, its score
// and chart data; otherwise Matched is false and Suggestions holds the
// substring fallback (possibly empty).
type SearchResponse struct {
	Matched     bool             `json:"matched"`
	Match       *MatchResult     `json:"match,omitempty"`
	Chart       *IngredientChart `json:"chart,omitempty"`
	Suggestions []Product        `json:"suggestions,omitempty"`
}

// FacetValues lists the distinct categories and brands of the catalog,
// in first-occurrence order, for building filter controls
type FacetValues struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
}
