package dataset

import (
	"sync"

	"github.com/foodlens/backend/internal/domain"
)

// snapshot is an immutable view of the loaded dataset. A reload builds a new
// snapshot and swaps it in whole; readers never observe a partial rebuild.
type snapshot struct {
	products []domain.Product
	facets   domain.FacetValues
}

// Catalog holds the current product snapshot for a dataset file
type Catalog struct {
	path string

	mutex   sync.RWMutex
	current *snapshot
}

// NewCatalog loads the dataset at path and returns a catalog over it
func NewCatalog(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the dataset file and swaps in the new snapshot.
// On error the previous snapshot stays active.
func (c *Catalog) Reload() error {
	products, err := Load(c.path)
	if err != nil {
		return err
	}

	next := &snapshot{
		products: products,
		facets:   collectFacets(products),
	}

	c.mutex.Lock()
	c.current = next
	c.mutex.Unlock()
	return nil
}

// Products returns the current snapshot's products. Callers must treat the
// returned slice as read-only.
func (c *Catalog) Products() []domain.Product {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.current.products
}

// Facets returns the distinct categories and brands of the current snapshot
func (c *Catalog) Facets() domain.FacetValues {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.current.facets
}

// Size returns the number of products in the current snapshot
func (c *Catalog) Size() int {
	return len(c.Products())
}

// collectFacets gathers distinct categories and brands in first-occurrence
// order, skipping the "N/A" sentinel
func collectFacets(products []domain.Product) domain.FacetValues {
	facets := domain.FacetValues{
		Categories: []string{},
		Brands:     []string{},
	}

	seenCategories := make(map[string]bool)
	seenBrands := make(map[string]bool)
	for i := range products {
		if category := products[i].Category; category != domain.NotAvailable && !seenCategories[category] {
			seenCategories[category] = true
			facets.Categories = append(facets.Categories, category)
		}
		if brand := products[i].Brand; brand != domain.NotAvailable && !seenBrands[brand] {
			seenBrands[brand] = true
			facets.Brands = append(facets.Brands, brand)
		}
	}

	return facets
}
