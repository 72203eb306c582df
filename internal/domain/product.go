package domain

// NotAvailable is the sentinel stored in place of missing text fields so that
// every Product is fully populated after load.
const NotAvailable = "N/A"

// Product represents a single food product record from the loaded dataset
type Product struct {
	Name                   string `json:"name"`
	Brand                  string `json:"brand"`
	Category               string `json:"category"`
	IsHarmful              bool   `json:"isHarmful"`
	HarmfulIngredientCount int    `json:"harmfulIngredientCount"`
	TotalIngredients       int    `json:"totalIngredients"`
	NutritionalImpact      string `json:"nutritionalImpact"`
	HealthyAlternative     string `json:"healthyAlternative"`
	AlternativeDescription string `json:"alternativeDescription"`
}

// HarmfulFilter is the tri-state harmfulness criterion
type HarmfulFilter string

const (
	HarmfulAll HarmfulFilter = "all"
	HarmfulYes HarmfulFilter = "yes"
	HarmfulNo  HarmfulFilter = "no"
)

// FilterCriteria narrows the product catalog before searching or listing.
// The zero value matches every product.
type FilterCriteria struct {
	Category string        `json:"category,omitempty"` // "" or "All" means no category filter
	Brands   []string      `json:"brands,omitempty"`   // empty means no brand filter
	Harmful  HarmfulFilter `json:"harmful,omitempty"`  // "" or "all" means no harmfulness filter
}

// Matches reports whether a product passes every active criterion
func (f FilterCriteria) Matches(p *Product) bool {
	if f.Category != "" && f.Category != "All" && p.Category != f.Category {
		return false
	}
	if len(f.Brands) > 0 {
		found := false
		for _, b := range f.Brands {
			if p.Brand == b {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	switch f.Harmful {
	case HarmfulYes:
		return p.IsHarmful
	case HarmfulNo:
		return !p.IsHarmful
	}
	return true
}

// Filter returns the subsequence of products matching the criteria,
// preserving input order
func (f FilterCriteria) Filter(products []Product) []Product {
	filtered := make([]Product, 0, len(products))
	for i := range products {
		if f.Matches(&products[i]) {
			filtered = append(filtered, products[i])
		}
	}
	return filtered
}

// IngredientChart holds the two slices of the ingredient composition chart.
// NonHarmful is TotalIngredients minus HarmfulIngredientCount, floored at zero.
type IngredientChart struct {
	Harmful    int `json:"harmful"`
	NonHarmful int `json:"nonHarmful"`
}

// ChartData derives ingredient chart inputs for a product. The second return
// is false when both slices are zero and no chart can be drawn.
func ChartData(p *Product) (IngredientChart, bool) {
	nonHarmful := p.TotalIngredients - p.HarmfulIngredientCount
	if nonHarmful < 0 {
		nonHarmful = 0
	}
	chart := IngredientChart{
		Harmful:    p.HarmfulIngredientCount,
		NonHarmful: nonHarmful,
	}
	return chart, chart.Harmful+chart.NonHarmful > 0
}
