package catalog

import (
	"cmp"
	"slices"
	"strings"

	"inventory-catalog/internal/model"

	"github.com/shopspring/decimal"
)

// ProductInput is the validated content of the create-product form.
type ProductInput struct {
	Name          string
	SupplierLabel string
	SupplierID    *uint
	CategoryID    *uint

	Text  string
	Color string

	HeightValue *decimal.Decimal
	HeightUnit  string
	WidthValue  *decimal.Decimal
	WidthUnit   string
	WeightValue *decimal.Decimal
	WeightUnit  string

	WholesalePrice *decimal.Decimal
	RetailPrice    *decimal.Decimal
	Profit         *decimal.Decimal

	Quantity int

	// Upload order is display order. Zero-length payloads are dropped.
	Images [][]byte
}

// BuildProduct assembles a Product with its Description, Quantity and ordered Images, ready to be
// created in one transaction. The primary image is left unset: it can only be chosen once the
// store has assigned image identities, see SelectPrimaryImage.
func BuildProduct(in ProductInput) *model.Product {
	supplier := strings.TrimSpace(in.SupplierLabel)
	if supplier == "" {
		supplier = model.SupplierNotAvailable
	}

	return &model.Product{
		Name:         strings.TrimSpace(in.Name),
		SupplierName: supplier,
		SupplierID:   in.SupplierID,
		CategoryID:   in.CategoryID,
		Description: &model.Description{
			Text:           in.Text,
			Color:          in.Color,
			Height:         FormatMeasure(in.HeightValue, unitOrDefault(in.HeightUnit, DefaultDimensionUnit)),
			Width:          FormatMeasure(in.WidthValue, unitOrDefault(in.WidthUnit, DefaultDimensionUnit)),
			Weight:         FormatMeasure(in.WeightValue, unitOrDefault(in.WeightUnit, DefaultWeightUnit)),
			WholesalePrice: moneyOrZero(in.WholesalePrice),
			RetailPrice:    moneyOrZero(in.RetailPrice),
			Profit:         moneyOrZero(in.Profit),
		},
		Quantity: &model.Quantity{Qty: in.Quantity},
		Images:   BuildImages(in.Images, 0),
	}
}

// BuildImages turns upload payloads into image rows numbered after, starting at after+1.
func BuildImages(payloads [][]byte, after int) []model.ImageData {
	var images []model.ImageData
	next := after
	for _, data := range payloads {
		if len(data) == 0 {
			continue
		}
		next++
		order := next
		images = append(images, model.ImageData{Data: data, Order: &order})
	}
	return images
}

// FormatMeasure renders "value unit", or "" when no value was supplied.
func FormatMeasure(value *decimal.Decimal, unit string) string {
	if value == nil {
		return ""
	}
	return value.String() + " " + unit
}

// SortImages orders images for display: by order number with unordered images last, ties by identity.
func SortImages(images []model.ImageData) []model.ImageData {
	sorted := slices.Clone(images)
	slices.SortStableFunc(sorted, func(a, b model.ImageData) int {
		if c, done := absentLast(a.Order != nil, b.Order != nil); done {
			if c != 0 {
				return c
			}
		} else if c := cmp.Compare(*a.Order, *b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sorted
}

// SelectPrimaryImage picks the image with the smallest order number, ties broken by the smallest
// identity. It returns nil for an empty set.
func SelectPrimaryImage(images []model.ImageData) *uint {
	if len(images) == 0 {
		return nil
	}
	id := SortImages(images)[0].ID
	return &id
}

// MaxImageOrder is the highest order number in use, 0 when none is.
func MaxImageOrder(images []model.ImageData) int {
	highest := 0
	for _, img := range images {
		if img.Order != nil && *img.Order > highest {
			highest = *img.Order
		}
	}
	return highest
}

func unitOrDefault(unit, fallback string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return fallback
	}
	return unit
}

func moneyOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
