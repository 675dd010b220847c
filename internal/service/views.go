package service

import (
	"inventory-catalog/internal/catalog"
	"inventory-catalog/internal/model"

	"github.com/shopspring/decimal"
)

// ProductForView is the one read model of a product in listings.
type ProductForView struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Category    string              `json:"category"`
	Price       *decimal.Decimal    `json:"price"`
	Stock       *int                `json:"stock"`
	StockStatus catalog.StockStatus `json:"stock_status"`
	ImageURL    string              `json:"image_url"`
}

func NewProductForView(p *model.Product) ProductForView {
	view := ProductForView{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.CategoryName(),
		Stock:       p.Stock(),
		StockStatus: catalog.ClassifyStock(p.Stock()),
		ImageURL:    catalog.ProductImageURL(p),
	}
	if price, ok := p.RetailPrice(); ok {
		view.Price = &price
	}
	return view
}

func productViews(products []model.Product) []ProductForView {
	views := make([]ProductForView, len(products))
	for i := range products {
		views[i] = NewProductForView(&products[i])
	}
	return views
}

// ProductListing is the product list page: the composed rows plus everything the filter bar needs.
type ProductListing struct {
	Products            []ProductForView `json:"products"`
	TotalCount          int              `json:"total_count"`
	Filters             ProductQuery     `json:"filters"`
	AppliedSort         catalog.SortKey  `json:"applied_sort"`
	AvailableCategories []string         `json:"available_categories"`
	StockStatuses       []string         `json:"stock_statuses"`
}

// ProductDetail is everything the detail page shows about one product.
type ProductDetail struct {
	ID               uint                `json:"id"`
	Name             string              `json:"name"`
	Category         string              `json:"category"`
	CategoryID       *uint               `json:"category_id"`
	Supplier         string              `json:"supplier"`
	SupplierID       *uint               `json:"supplier_id"`
	PrimaryImageURL  string              `json:"primary_image_url"`
	PrimaryImageID   *uint               `json:"primary_image_id"`
	AdditionalImages []string            `json:"additional_images"`
	ImageIDs         []uint              `json:"image_ids"`
	Stock            *int                `json:"stock"`
	StockStatus      catalog.StockStatus `json:"stock_status"`
	WholesalePrice   decimal.Decimal     `json:"wholesale_price"`
	RetailPrice      decimal.Decimal     `json:"retail_price"`
	Profit           decimal.Decimal     `json:"profit"`
	Color            string              `json:"color"`
	Height           string              `json:"height"`
	Width            string              `json:"width"`
	Weight           string              `json:"weight"`
	Description      string              `json:"description"`
	Version          uint                `json:"version"`
}

func NewProductDetail(p *model.Product) *ProductDetail {
	d := &ProductDetail{
		ID:              p.ID,
		Name:            p.Name,
		Category:        p.CategoryName(),
		CategoryID:      p.CategoryID,
		Supplier:        p.SupplierName,
		SupplierID:      p.SupplierID,
		PrimaryImageURL: catalog.ProductImageURL(p),
		PrimaryImageID:  p.PrimaryImageID,
		Stock:           p.Stock(),
		StockStatus:     catalog.ClassifyStock(p.Stock()),
		Version:         p.Version,
	}
	if p.Description != nil {
		d.WholesalePrice = p.Description.WholesalePrice
		d.RetailPrice = p.Description.RetailPrice
		d.Profit = p.Description.Profit
		d.Color = p.Description.Color
		d.Height = p.Description.Height
		d.Width = p.Description.Width
		d.Weight = p.Description.Weight
		d.Description = p.Description.Text
	}

	d.AdditionalImages = []string{}
	for _, img := range catalog.SortImages(p.Images) {
		d.ImageIDs = append(d.ImageIDs, img.ID)
		if p.PrimaryImageID != nil && img.ID == *p.PrimaryImageID {
			continue
		}
		d.AdditionalImages = append(d.AdditionalImages, catalog.ImageURL(img.ID))
	}
	return d
}

// ProductCSVRow is one line of the product export.
type ProductCSVRow struct {
	ID          uint   `csv:"id"`
	Name        string `csv:"name"`
	Category    string `csv:"category"`
	Price       string `csv:"retail_price"`
	Stock       string `csv:"stock"`
	StockStatus string `csv:"stock_status"`
	ImageURL    string `csv:"image_url"`
}

// SupplierSummary is one row of the supplier list.
type SupplierSummary struct {
	ID           uint   `json:"id"`
	CompanyName  string `json:"company_name"`
	PersonName   string `json:"person_name"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	Address      string `json:"address"`
	PortalStatus string `json:"portal_status"`
	ProductCount int64  `json:"product_count"`
	ImageURL     string `json:"image_url,omitempty"`
	Initial      string `json:"initial"`
	AvatarColor  string `json:"avatar_color"`
}

type SupplierListing struct {
	Suppliers   []SupplierSummary `json:"suppliers"`
	TotalCount  int               `json:"total_count"`
	Filters     SupplierQuery     `json:"filters"`
	AppliedSort string            `json:"applied_sort"`
	Locations   []string          `json:"locations"`
}

type ContactView struct {
	ID          uint   `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Initial     string `json:"initial"`
	AvatarColor string `json:"avatar_color"`
}

func newContactView(id uint, name, email, phone string) ContactView {
	initial := catalog.Initial(name, "C")
	return ContactView{
		ID:          id,
		Name:        name,
		Email:       email,
		Phone:       phone,
		Initial:     initial,
		AvatarColor: catalog.AvatarColor(initial),
	}
}

// SupplierDetail is the supplier detail panel.
type SupplierDetail struct {
	ID             uint             `json:"id"`
	CompanyName    string           `json:"company_name"`
	Department     string           `json:"department"`
	Address        string           `json:"address"`
	Currency       string           `json:"currency"`
	CurrencySymbol string           `json:"currency_symbol"`
	PaymentMethod  string           `json:"payment_method"`
	Courier        string           `json:"courier"`
	PortalStatus   string           `json:"portal_status"`
	ImageURL       string           `json:"image_url,omitempty"`
	Initial        string           `json:"initial"`
	AvatarColor    string           `json:"avatar_color"`
	PrimaryContact *ContactView     `json:"primary_contact"`
	ContactInitial string           `json:"contact_initial"`
	ContactColor   string           `json:"contact_avatar_color"`
	OtherContacts  []ContactView    `json:"other_contacts"`
	Products       []ProductForView `json:"products"`
	Version        uint             `json:"version"`
}

const noContactInitial = "?"

func NewSupplierDetail(s *model.Supplier) *SupplierDetail {
	initial := catalog.Initial(s.CompanyName, "S")
	d := &SupplierDetail{
		ID:             s.ID,
		CompanyName:    s.CompanyName,
		Department:     s.Department,
		Address:        s.Address,
		Currency:       s.Currency,
		CurrencySymbol: catalog.CurrencySymbol(s.Currency),
		PaymentMethod:  s.PaymentMethod,
		Courier:        s.Courier,
		PortalStatus:   s.PortalStatus,
		Initial:        initial,
		AvatarColor:    catalog.AvatarColor(initial),
		OtherContacts:  make([]ContactView, 0, len(s.Contacts)),
		Products:       productViews(s.Products),
		Version:        s.Version,
	}
	if s.HasProfileImage() {
		d.ImageURL = catalog.SupplierImageURL(s.ID)
	}

	if !catalog.ContactBlank(catalog.ContactFields{Name: s.PersonName, Email: s.Email, Phone: s.PhoneNumber}) {
		primary := newContactView(0, s.PersonName, s.Email, s.PhoneNumber)
		d.PrimaryContact = &primary
		d.ContactInitial = primary.Initial
	} else {
		d.ContactInitial = noContactInitial
	}
	d.ContactColor = catalog.AvatarColor(d.ContactInitial)
	for _, c := range s.Contacts {
		d.OtherContacts = append(d.OtherContacts, newContactView(c.ID, c.Name, c.Email, c.Phone))
	}
	return d
}

// FormOptions feeds the dropdowns of the product forms.
type FormOptions struct {
	Categories     []model.Category `json:"categories"`
	Suppliers      []string         `json:"suppliers"`
	DimensionUnits []string         `json:"dimension_units"`
	WeightUnits    []string         `json:"weight_units"`
}

// DashboardStats is the overview shown on the dashboard.
type DashboardStats struct {
	TotalProducts   int64                         `json:"total_products"`
	StockStatus     map[catalog.StockStatus]int64 `json:"stock_status"`
	TotalValuation  decimal.Decimal               `json:"total_valuation"`
	TotalSuppliers  int64                         `json:"total_suppliers"`
	TotalCategories int64                         `json:"total_categories"`
}
