package catalog

import (
	"cmp"
	"slices"
	"strings"

	"inventory-catalog/internal/model"
)

// PredefinedCities are the only accepted location filters; anything else is ignored.
var PredefinedCities = []string{"Quezon City", "Manila", "Pasig", "Marikina", "Taguig"}

// Supplier sort orders as submitted by the list page's column headers.
const (
	SupplierSortName      = ""
	SupplierSortNameDesc  = "name_desc"
	SupplierSortEmail     = "Email"
	SupplierSortEmailDesc = "email_desc"
)

type SupplierFilters struct {
	Search   string
	Location string
	Status   string
}

type SupplierResult struct {
	Suppliers   []model.Supplier
	TotalCount  int
	Locations   []string
	AppliedSort string
}

// ComposeSuppliers applies the search box, location and portal-status filters, then sorts.
// Search matches case-insensitively on company, email, person and address; phone numbers match as typed.
func ComposeSuppliers(source []model.Supplier, filters SupplierFilters, sortOrder string) SupplierResult {
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	location := ""
	if slices.Contains(PredefinedCities, filters.Location) {
		location = strings.ToLower(filters.Location)
	}

	filtered := make([]model.Supplier, 0, len(source))
	for _, s := range source {
		if search != "" && !supplierMatchesSearch(&s, search) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(s.Address), location) {
			continue
		}
		if filters.Status != "" && s.PortalStatus != filters.Status {
			continue
		}
		filtered = append(filtered, s)
	}

	var compare func(a, b model.Supplier) int
	switch sortOrder {
	case SupplierSortNameDesc:
		compare = func(a, b model.Supplier) int { return cmp.Compare(b.CompanyName, a.CompanyName) }
	case SupplierSortEmail:
		compare = func(a, b model.Supplier) int { return cmp.Compare(a.Email, b.Email) }
	case SupplierSortEmailDesc:
		compare = func(a, b model.Supplier) int { return cmp.Compare(b.Email, a.Email) }
	default:
		sortOrder = SupplierSortName
		compare = func(a, b model.Supplier) int { return cmp.Compare(a.CompanyName, b.CompanyName) }
	}
	slices.SortStableFunc(filtered, compare)

	locations := slices.Clone(PredefinedCities)
	slices.Sort(locations)

	return SupplierResult{
		Suppliers:   filtered,
		TotalCount:  len(filtered),
		Locations:   locations,
		AppliedSort: sortOrder,
	}
}

func supplierMatchesSearch(s *model.Supplier, lowered string) bool {
	return strings.Contains(strings.ToLower(s.CompanyName), lowered) ||
		strings.Contains(strings.ToLower(s.Email), lowered) ||
		strings.Contains(s.PhoneNumber, lowered) ||
		strings.Contains(strings.ToLower(s.PersonName), lowered) ||
		strings.Contains(strings.ToLower(s.Address), lowered)
}
