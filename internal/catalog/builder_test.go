package catalog

import (
	"testing"

	"inventory-catalog/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decStr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func TestBuildProduct(t *testing.T) {
	categoryID := uint(3)
	in := ProductInput{
		Name:           "  Adidas Forum ",
		CategoryID:     &categoryID,
		Text:           "Low top",
		Color:          "White",
		HeightValue:    decStr(t, "12.5"),
		WidthValue:     decStr(t, "30"),
		WidthUnit:      "in",
		WeightValue:    decStr(t, "0.8"),
		RetailPrice:    decStr(t, "3000"),
		WholesalePrice: decStr(t, "2100.50"),
		Quantity:       45,
		Images:         [][]byte{{0xFF, 0xD8}, {0x89, 0x50}},
	}

	p := BuildProduct(in)

	assert.Equal(t, "Adidas Forum", p.Name)
	assert.Equal(t, model.SupplierNotAvailable, p.SupplierName)
	assert.Equal(t, &categoryID, p.CategoryID)
	require.NotNil(t, p.Description)
	assert.Equal(t, "12.5 cm", p.Description.Height)
	assert.Equal(t, "30 in", p.Description.Width)
	assert.Equal(t, "0.8 kg", p.Description.Weight)
	assert.True(t, p.Description.RetailPrice.Equal(decimal.NewFromInt(3000)))
	assert.True(t, p.Description.WholesalePrice.Equal(decimal.RequireFromString("2100.5")))
	assert.True(t, p.Description.Profit.IsZero())
	require.NotNil(t, p.Quantity)
	assert.Equal(t, 45, p.Quantity.Qty)

	require.Len(t, p.Images, 2)
	assert.Equal(t, 1, *p.Images[0].Order)
	assert.Equal(t, 2, *p.Images[1].Order)
	assert.Nil(t, p.PrimaryImageID, "primary is chosen after identities exist")
}

func TestBuildProductDefaults(t *testing.T) {
	p := BuildProduct(ProductInput{Name: "Plain", SupplierLabel: "Acme"})

	assert.Equal(t, "Acme", p.SupplierName)
	assert.Empty(t, p.Description.Height)
	assert.Empty(t, p.Description.Width)
	assert.Empty(t, p.Description.Weight)
	assert.True(t, p.Description.RetailPrice.IsZero())
	assert.Equal(t, 0, p.Quantity.Qty)
	assert.Empty(t, p.Images)
	assert.Nil(t, SelectPrimaryImage(p.Images))
}

func TestBuildProductSkipsEmptyUploads(t *testing.T) {
	p := BuildProduct(ProductInput{Name: "X", Images: [][]byte{{1}, {}, nil, {2}}})

	require.Len(t, p.Images, 2)
	assert.Equal(t, []byte{1}, p.Images[0].Data)
	assert.Equal(t, 1, *p.Images[0].Order)
	assert.Equal(t, []byte{2}, p.Images[1].Data)
	assert.Equal(t, 2, *p.Images[1].Order)
}

func TestBuildImagesContinuesNumbering(t *testing.T) {
	images := BuildImages([][]byte{{1}, {2}}, 4)
	require.Len(t, images, 2)
	assert.Equal(t, 5, *images[0].Order)
	assert.Equal(t, 6, *images[1].Order)
}

func TestSelectPrimaryImage(t *testing.T) {
	img := func(id uint, order *int) model.ImageData { return model.ImageData{ID: id, Order: order} }

	testCases := []struct {
		name     string
		images   []model.ImageData
		expected *uint
	}{
		{"none", nil, nil},
		{"smallest order wins", []model.ImageData{img(10, intPtr(2)), img(11, intPtr(1))}, uintPtr(11)},
		{"tie broken by identity", []model.ImageData{img(21, intPtr(1)), img(20, intPtr(1))}, uintPtr(20)},
		{"unordered images come last", []model.ImageData{img(1, nil), img(5, intPtr(3))}, uintPtr(5)},
		{"only unordered", []model.ImageData{img(9, nil), img(4, nil)}, uintPtr(4)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SelectPrimaryImage(tc.images))
		})
	}
}

func TestMaxImageOrder(t *testing.T) {
	assert.Equal(t, 0, MaxImageOrder(nil))
	assert.Equal(t, 7, MaxImageOrder([]model.ImageData{{Order: intPtr(7)}, {Order: nil}, {Order: intPtr(2)}}))
}

func uintPtr(v uint) *uint { return &v }
