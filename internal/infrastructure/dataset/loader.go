package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/foodlens/backend/internal/domain"
)

// Column keys after normalization. The loader accepts a few aliases for the
// product name column since exported datasets are inconsistent about it.
const (
	colName                   = "name_of_product"
	colBrand                  = "brand"
	colCategory               = "category"
	colIsHarmful              = "is_harmful"
	colHarmfulIngredientCount = "harmful_ingredient_count"
	colTotalIngredients       = "total_ingredients"
	colNutritionalImpact      = "nutritional_impact"
	colHealthyAlternative     = "healthy_alternatives"
	colAlternativeDescription = "alternative_description"
)

// nameAliases are accepted column headers for the product name field
var nameAliases = []string{colName, "product_name", "name"}

// normalizeColumn standardizes a CSV header: trimmed, lowercased, spaces
// replaced with underscores
func normalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Load reads the product dataset from a CSV file. Header names are
// normalized before lookup, so "Name of Product" and "name_of_product" are
// the same column. Missing text fields are filled with the "N/A" sentinel,
// missing or malformed counts coerce to 0, and a missing harmful flag
// defaults to not harmful.
func Load(path string) ([]domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatasetLoad, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows; missing cells default

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatasetLoad, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrDatasetLoad, path)
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[normalizeColumn(header)] = i
	}

	nameIdx := -1
	for _, alias := range nameAliases {
		if idx, exists := columns[alias]; exists {
			nameIdx = idx
			break
		}
	}
	if nameIdx == -1 {
		return nil, fmt.Errorf("%w: no product name column in %s", domain.ErrDatasetLoad, path)
	}

	products := make([]domain.Product, 0, len(rows)-1)
	for _, row := range rows[1:] {
		products = append(products, domain.Product{
			Name:                   textField(row, nameIdx),
			Brand:                  textField(row, columnIndex(columns, colBrand)),
			Category:               textField(row, columnIndex(columns, colCategory)),
			IsHarmful:              boolField(row, columnIndex(columns, colIsHarmful)),
			HarmfulIngredientCount: countField(row, columnIndex(columns, colHarmfulIngredientCount)),
			TotalIngredients:       countField(row, columnIndex(columns, colTotalIngredients)),
			NutritionalImpact:      textField(row, columnIndex(columns, colNutritionalImpact)),
			HealthyAlternative:     textField(row, columnIndex(columns, colHealthyAlternative)),
			AlternativeDescription: textField(row, columnIndex(columns, colAlternativeDescription)),
		})
	}

	return products, nil
}

// columnIndex returns the column position or -1 when the column is absent
func columnIndex(columns map[string]int, key string) int {
	if idx, exists := columns[key]; exists {
		return idx
	}
	return -1
}

// textField returns the trimmed cell value, or the "N/A" sentinel when the
// column is absent, the row is short, or the cell is blank
func textField(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return domain.NotAvailable
	}
	value := strings.TrimSpace(row[idx])
	if value == "" {
		return domain.NotAvailable
	}
	return value
}

// countField parses a non-negative integer cell. Malformed or negative
// values coerce to 0 rather than failing the load.
func countField(row []string, idx int) int {
	if idx < 0 || idx >= len(row) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(row[idx]))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// boolField parses the harmful flag, accepting yes/no and true/false in any
// case. Anything else, including a missing cell, means not harmful.
func boolField(row []string, idx int) bool {
	if idx < 0 || idx >= len(row) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(row[idx])) {
	case "yes", "true", "1", "y":
		return true
	}
	return false
}
