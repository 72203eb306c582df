package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/foodlens/backend/internal/domain"
)

// stubCatalog implements domain.ProductCatalog over a fixed slice
type stubCatalog struct {
	products  []domain.Product
	next      []domain.Product // swapped in on Reload
	reloadErr error
	reloads   int
}

func (c *stubCatalog) Products() []domain.Product { return c.products }

func (c *stubCatalog) Facets() domain.FacetValues {
	facets := domain.FacetValues{Categories: []string{}, Brands: []string{}}
	seen := make(map[string]bool)
	for _, p := range c.products {
		if !seen["c:"+p.Category] {
			seen["c:"+p.Category] = true
			facets.Categories = append(facets.Categories, p.Category)
		}
		if !seen["b:"+p.Brand] {
			seen["b:"+p.Brand] = true
			facets.Brands = append(facets.Brands, p.Brand)
		}
	}
	return facets
}

func (c *stubCatalog) Reload() error {
	c.reloads++
	if c.reloadErr != nil {
		return c.reloadErr
	}
	if c.next != nil {
		c.products = c.next
	}
	return nil
}

// stubCache implements domain.CacheRepository without TTL handling
type stubCache struct {
	data map[string]interface{}
	sets int
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]interface{})}
}

func (c *stubCache) Get(ctx context.Context, key string) (interface{}, error) {
	if value, exists := c.data[key]; exists {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.sets++
	c.data[key] = value
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *stubCache) Clear() {
	c.data = make(map[string]interface{})
}

func testProducts() []domain.Product {
	return []domain.Product{
		{
			Name:                   "Apple Juice",
			Brand:                  "Fresh Farms",
			Category:               "Beverages",
			IsHarmful:              true,
			HarmfulIngredientCount: 7,
			TotalIngredients:       10,
			NutritionalImpact:      "High in added sugar",
			HealthyAlternative:     "Fresh apples",
			AlternativeDescription: "Whole fruit keeps the fiber",
		},
		{
			Name:                   "Orange Juice",
			Brand:                  "Citrus Co",
			Category:               "Beverages",
			IsHarmful:              false,
			HarmfulIngredientCount: 0,
			TotalIngredients:       0,
			NutritionalImpact:      domain.NotAvailable,
			HealthyAlternative:     domain.NotAvailable,
			AlternativeDescription: domain.NotAvailable,
		},
		{
			Name:      "Potato Chips",
			Brand:     "Snack King",
			Category:  "Snacks",
			IsHarmful: true,
		},
	}
}

func newTestService(t *testing.T, catalog *stubCatalog, cache domain.CacheRepository) *SearchService {
	t.Helper()
	svc, err := NewSearchService(cache, catalog, SearchServiceConfig{})
	if err != nil {
		t.Fatalf("NewSearchService() error = %v", err)
	}
	return svc
}

func TestNewSearchService(t *testing.T) {
	t.Run("fails on empty catalog", func(t *testing.T) {
		_, err := NewSearchService(newStubCache(), &stubCatalog{}, SearchServiceConfig{})
		if !errors.Is(err, domain.ErrEmptyCorpus) {
			t.Errorf("error = %v, want ErrEmptyCorpus", err)
		}
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects nil and blank requests", func(t *testing.T) {
		svc := newTestService(t, &stubCatalog{products: testProducts()}, newStubCache())

		if _, err := svc.Search(ctx, nil); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest for nil request", err)
		}
		if _, err := svc.Search(ctx, &domain.SearchRequest{Query: "  "}); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest for blank query", err)
		}
	})

	t.Run("returns matched product with chart data", func(t *testing.T) {
		svc := newTestService(t, &stubCatalog{products: testProducts()}, newStubCache())

		response, err := svc.Search(ctx, &domain.SearchRequest{Query: "apple juice"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !response.Matched {
			t.Fatal("Matched = false, want true")
		}
		if response.Match.Product.Name != "Apple Juice" {
			t.Errorf("Product.Name = %q, want Apple Juice", response.Match.Product.Name)
		}
		if response.Chart == nil {
			t.Fatal("Chart = nil, want ingredient chart")
		}
		if response.Chart.Harmful != 7 || response.Chart.NonHarmful != 3 {
			t.Errorf("Chart = %+v, want {7 3}", *response.Chart)
		}
	})

	t.Run("omits chart when no ingredient data", func(t *testing.T) {
		svc := newTestService(t, &stubCatalog{products: testProducts()}, newStubCache())

		response, err := svc.Search(ctx, &domain.SearchRequest{Query: "orange juice"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !response.Matched {
			t.Fatal("Matched = false, want true")
		}
		if response.Chart != nil {
			t.Errorf("Chart = %+v, want nil for 0/0 ingredient counts", *response.Chart)
		}
	})

	t.Run("falls back to substring suggestions", func(t *testing.T) {
		// "juice" appears in 4 of 5 names, so its idf is low; against any
		// two-term name the best cosine is below the 0.5 threshold
		catalog := &stubCatalog{products: []domain.Product{
			{Name: "Apple Juice"},
			{Name: "Orange Juice"},
			{Name: "Grape Juice"},
			{Name: "Tomato Juice"},
			{Name: "Potato Chips"},
		}}
		svc := newTestService(t, catalog, newStubCache())

		response, err := svc.Search(ctx, &domain.SearchRequest{Query: "juice"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if response.Matched {
			t.Fatal("Matched = true, want suggestion fallback")
		}
		got := make([]string, len(response.Suggestions))
		for i, p := range response.Suggestions {
			got[i] = p.Name
		}
		want := []string{"Apple Juice", "Orange Juice", "Grape Juice", "Tomato Juice"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Suggestions = %v, want %v", got, want)
		}
	})

	t.Run("no overlap yields empty suggestions", func(t *testing.T) {
		svc := newTestService(t, &stubCatalog{products: testProducts()}, newStubCache())

		response, err := svc.Search(ctx, &domain.SearchRequest{Query: "banana smoothie"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if response.Matched {
			t.Fatal("Matched = true, want false for zero lexical overlap")
		}
		if len(response.Suggestions) != 0 {
			t.Errorf("Suggestions = %v, want empty", response.Suggestions)
		}
	})

	t.Run("filter narrows the candidate pool", func(t *testing.T) {
		svc := newTestService(t, &stubCatalog{products: testProducts()}, newStubCache())

		response, err := svc.Search(ctx, &domain.SearchRequest{
			Query:  "apple juice",
			Filter: domain.FilterCriteria{Category: "Snacks"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if response.Matched {
			t.Error("Matched = true, want false when the match is filtered out")
		}
		if len(response.Suggestions) != 0 {
			t.Errorf("Suggestions = %v, want empty within Snacks", response.Suggestions)
		}
	})

	t.Run("category All matches everything", func(t *testing.T) {
		svc := newTestService(t, &stubCatalog{products: testProducts()}, newStubCache())

		response, err := svc.Search(ctx, &domain.SearchRequest{
			Query:  "apple juice",
			Filter: domain.FilterCriteria{Category: "All"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !response.Matched {
			t.Error("Matched = false, want true with category All")
		}
	})

	t.Run("serves repeated queries from cache", func(t *testing.T) {
		cache := newStubCache()
		svc := newTestService(t, &stubCatalog{products: testProducts()}, cache)
		request := &domain.SearchRequest{Query: "apple juice"}

		first, err := svc.Search(ctx, request)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := svc.Search(ctx, request)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cache.sets != 1 {
			t.Errorf("cache sets = %d, want 1 (second search served from cache)", cache.sets)
		}
		if first != second {
			t.Error("expected the cached response instance on repeat query")
		}
	})

	t.Run("does not cache unmatched outcomes", func(t *testing.T) {
		cache := newStubCache()
		svc := newTestService(t, &stubCatalog{products: testProducts()}, cache)

		if _, err := svc.Search(ctx, &domain.SearchRequest{Query: "banana smoothie"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cache.sets != 0 {
			t.Errorf("cache sets = %d, want 0 for NoMatch outcome", cache.sets)
		}
	})
}

func TestList(t *testing.T) {
	svc := newTestService(t, &stubCatalog{products: testProducts()}, newStubCache())

	t.Run("applies brand and harmfulness criteria together", func(t *testing.T) {
		products := svc.List(domain.FilterCriteria{
			Brands:  []string{"Fresh Farms", "Snack King"},
			Harmful: domain.HarmfulYes,
		})
		if len(products) != 2 {
			t.Fatalf("List() = %d products, want 2", len(products))
		}
		if products[0].Name != "Apple Juice" || products[1].Name != "Potato Chips" {
			t.Errorf("List() order = %v, want corpus order", products)
		}
	})

	t.Run("zero criteria return the whole catalog", func(t *testing.T) {
		if got := len(svc.List(domain.FilterCriteria{})); got != 3 {
			t.Errorf("List() = %d products, want 3", got)
		}
	})
}

func TestReload(t *testing.T) {
	ctx := context.Background()

	t.Run("swaps catalog, refits model and drops cache", func(t *testing.T) {
		cache := newStubCache()
		catalog := &stubCatalog{
			products: testProducts(),
			next:     []domain.Product{{Name: "Banana Smoothie", TotalIngredients: 4}},
		}
		svc := newTestService(t, catalog, cache)

		// Warm the cache with the old corpus
		if _, err := svc.Search(ctx, &domain.SearchRequest{Query: "apple juice"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := svc.Reload(ctx); err != nil {
			t.Fatalf("Reload() error = %v", err)
		}
		if catalog.reloads != 1 {
			t.Errorf("catalog reloads = %d, want 1", catalog.reloads)
		}
		if len(cache.data) != 0 {
			t.Error("cache not cleared on reload")
		}

		// Old vocabulary is gone; new names are searchable
		response, err := svc.Search(ctx, &domain.SearchRequest{Query: "banana smoothie"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !response.Matched || response.Match.Product.Name != "Banana Smoothie" {
			t.Errorf("response = %+v, want match on reloaded corpus", response)
		}
	})

	t.Run("keeps old snapshot when reload fails", func(t *testing.T) {
		catalog := &stubCatalog{products: testProducts(), reloadErr: domain.ErrDatasetLoad}
		svc := newTestService(t, catalog, newStubCache())

		if err := svc.Reload(ctx); !errors.Is(err, domain.ErrDatasetLoad) {
			t.Errorf("Reload() error = %v, want ErrDatasetLoad", err)
		}

		response, err := svc.Search(ctx, &domain.SearchRequest{Query: "apple juice"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !response.Matched {
			t.Error("Matched = false, want old corpus still searchable")
		}
	})
}

func TestGenerateCacheKey(t *testing.T) {
	svc := newTestService(t, &stubCatalog{products: testProducts()}, newStubCache())

	t.Run("brand order does not change the key", func(t *testing.T) {
		a := svc.generateCacheKey(&domain.SearchRequest{
			Query:  "milk",
			Filter: domain.FilterCriteria{Brands: []string{"B", "A"}},
		})
		b := svc.generateCacheKey(&domain.SearchRequest{
			Query:  "milk",
			Filter: domain.FilterCriteria{Brands: []string{"A", "B"}},
		})
		if a != b {
			t.Errorf("keys differ by brand order: %q vs %q", a, b)
		}
	})

	t.Run("different filters produce different keys", func(t *testing.T) {
		a := svc.generateCacheKey(&domain.SearchRequest{Query: "milk"})
		b := svc.generateCacheKey(&domain.SearchRequest{
			Query:  "milk",
			Filter: domain.FilterCriteria{Harmful: domain.HarmfulNo},
		})
		if a == b {
			t.Error("expected distinct keys for distinct harmful filters")
		}
	})
}
