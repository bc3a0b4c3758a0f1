package storefront

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/collection"
)

// SortKey selects the ordering of filtered products.
type SortKey string

const (
	SortNone     SortKey = ""
	SortPrice    SortKey = "price"
	SortCapacity SortKey = "capacity"
)

// ParseSortKey accepts "", "price" and "capacity".
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNone, SortPrice, SortCapacity:
		return k, nil
	default:
		return SortNone, fmt.Errorf("unknown sort key %q (want price or capacity)", s)
	}
}

// Filters narrows the product list. Zero values disable a gate.
type Filters struct {
	Query       string
	Capacity    models.Capacity
	EnergyClass models.EnergyClass
	Feature     models.Feature
	Sort        SortKey
}

// ParseCapacity accepts "8", "9" or "10.5"; "" means no filter.
func ParseCapacity(s string) (models.Capacity, error) {
	if s = strings.TrimSpace(s); s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || !models.Capacity(v).Valid() {
		return 0, fmt.Errorf("unknown capacity %q", s)
	}
	return models.Capacity(v), nil
}

// ParseEnergyClass accepts A, B or C in any case; "" means no filter.
func ParseEnergyClass(s string) (models.EnergyClass, error) {
	if s = strings.TrimSpace(s); s == "" {
		return "", nil
	}
	e := models.EnergyClass(strings.ToUpper(s))
	if !e.Valid() {
		return "", fmt.Errorf("unknown energy class %q", s)
	}
	return e, nil
}

// ParseFeature matches a feature label case-insensitively; "" means no
// filter.
func ParseFeature(s string) (models.Feature, error) {
	if s = strings.TrimSpace(s); s == "" {
		return "", nil
	}
	for _, f := range models.Features {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown feature %q", s)
}

// Apply filters products by code substring (case-insensitive), then by
// capacity, energy class and feature, then sorts them stably by the chosen
// key. Without a sort key the original order is kept. products is not
// modified.
func Apply(products []models.ProductData, f Filters) []models.ProductData {
	query := strings.ToLower(f.Query)

	out := collection.Filter(products, func(p models.ProductData) bool {
		if !strings.Contains(strings.ToLower(p.Code), query) {
			return false
		}
		if f.Capacity != 0 && p.Capacity != f.Capacity {
			return false
		}
		if f.EnergyClass != "" && p.EnergyClass != f.EnergyClass {
			return false
		}
		return f.Feature == "" || p.HasFeature(f.Feature)
	})

	switch f.Sort {
	case SortPrice:
		out = collection.SortBy(out, func(a, b models.ProductData) bool { return a.Price.Value < b.Price.Value })
	case SortCapacity:
		out = collection.SortBy(out, func(a, b models.ProductData) bool { return a.Capacity < b.Capacity })
	}
	return out
}
