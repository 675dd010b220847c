package catalog

import (
	"cmp"
	"slices"
	"strings"

	"inventory-catalog/internal/model"

	"github.com/shopspring/decimal"
)

// FilterAll disables the category and stock-status filters (matched case-insensitively).
const FilterAll = "all"

type SortKey string

const (
	SortNameAsc      SortKey = "NameAsc"
	SortNameDesc     SortKey = "NameDesc"
	SortPriceAsc     SortKey = "PriceAsc"
	SortPriceDesc    SortKey = "PriceDesc"
	SortCategoryAsc  SortKey = "CategoryAsc"
	SortCategoryDesc SortKey = "CategoryDesc"
	SortStockAsc     SortKey = "StockAsc"
	SortStockDesc    SortKey = "StockDesc"
)

var sortKeys = []SortKey{
	SortNameAsc, SortNameDesc,
	SortPriceAsc, SortPriceDesc,
	SortCategoryAsc, SortCategoryDesc,
	SortStockAsc, SortStockDesc,
}

// ParseSortKey resolves a sort key by case-insensitive name. Empty or unknown input yields SortNameAsc.
func ParseSortKey(raw string) SortKey {
	raw = strings.TrimSpace(raw)
	for _, k := range sortKeys {
		if strings.EqualFold(raw, string(k)) {
			return k
		}
	}
	return SortNameAsc
}

// ProductFilters are ANDed together; zero values mean "no filter".
type ProductFilters struct {
	Category    string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	StockStatus string
}

type ProductResult struct {
	Products   []model.Product
	TotalCount int
	// Drawn from the unfiltered source so the filter dropdown always shows the whole catalog.
	AvailableCategories []string
	AppliedSort         SortKey
}

// ComposeProducts filters and sorts source without mutating it.
//
// Products without a description have no price: they fail any price bound and sort after every
// priced product in both PriceAsc and PriceDesc. Products without a quantity row likewise sort
// last for StockAsc and StockDesc. Remaining ties keep source order.
func ComposeProducts(source []model.Product, filters ProductFilters, sortBy string) ProductResult {
	filtered := make([]model.Product, 0, len(source))
	for _, p := range source {
		if filters.matches(&p) {
			filtered = append(filtered, p)
		}
	}

	applied := ParseSortKey(sortBy)
	slices.SortStableFunc(filtered, productComparator(applied))

	return ProductResult{
		Products:            filtered,
		TotalCount:          len(filtered),
		AvailableCategories: availableCategories(source),
		AppliedSort:         applied,
	}
}

func (f ProductFilters) matches(p *model.Product) bool {
	if isActiveFilter(f.Category) && !strings.EqualFold(p.CategoryName(), strings.TrimSpace(f.Category)) {
		return false
	}

	if f.MinPrice != nil || f.MaxPrice != nil {
		price, ok := p.RetailPrice()
		if !ok {
			return false
		}
		if f.MinPrice != nil && price.LessThan(*f.MinPrice) {
			return false
		}
		if f.MaxPrice != nil && price.GreaterThan(*f.MaxPrice) {
			return false
		}
	}

	if isActiveFilter(f.StockStatus) {
		status := ClassifyStock(p.Stock())
		if !strings.EqualFold(string(status), strings.TrimSpace(f.StockStatus)) {
			return false
		}
	}
	return true
}

func isActiveFilter(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, FilterAll)
}

func productComparator(key SortKey) func(a, b model.Product) int {
	byName := func(a, b model.Product) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}

	switch key {
	case SortNameDesc:
		return func(a, b model.Product) int { return byName(b, a) }
	case SortPriceAsc, SortPriceDesc:
		desc := key == SortPriceDesc
		return func(a, b model.Product) int {
			pa, okA := a.RetailPrice()
			pb, okB := b.RetailPrice()
			if c, done := absentLast(okA, okB); done {
				return c
			}
			if desc {
				return pb.Cmp(pa)
			}
			return pa.Cmp(pb)
		}
	case SortCategoryAsc, SortCategoryDesc:
		desc := key == SortCategoryDesc
		return func(a, b model.Product) int {
			c := cmp.Compare(strings.ToLower(a.CategoryName()), strings.ToLower(b.CategoryName()))
			if desc {
				c = -c
			}
			if c != 0 {
				return c
			}
			return byName(a, b)
		}
	case SortStockAsc, SortStockDesc:
		desc := key == SortStockDesc
		return func(a, b model.Product) int {
			sa, sb := a.Stock(), b.Stock()
			if c, done := absentLast(sa != nil, sb != nil); done {
				return c
			}
			if desc {
				return cmp.Compare(*sb, *sa)
			}
			return cmp.Compare(*sa, *sb)
		}
	default:
		return byName
	}
}

// absentLast orders present values before absent ones. done is false when both are present.
func absentLast(presentA, presentB bool) (int, bool) {
	switch {
	case presentA && presentB:
		return 0, false
	case presentA:
		return -1, true
	case presentB:
		return 1, true
	default:
		return 0, true
	}
}

func availableCategories(source []model.Product) []string {
	seen := make(map[string]struct{})
	var names []string
	for i := range source {
		name := source[i].CategoryName()
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
