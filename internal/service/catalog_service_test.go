package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"inventory-catalog/internal/catalog"
	"inventory-catalog/internal/model"
	"inventory-catalog/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	pngBytes  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x01}
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x02}
	gifBytes  = []byte("GIF89a\x03")
)

type catalogFixture struct {
	service    CatalogService
	products   *fakeProductRepo
	categories *fakeCategoryRepo
	suppliers  *fakeSupplierRepo
	events     *recordingPublisher
}

func newCatalogFixture() *catalogFixture {
	categories := newFakeCategoryRepo("Chairs", "Tables")
	products := newFakeProductRepo(categories)
	suppliers := newFakeSupplierRepo()
	events := &recordingPublisher{}
	svc := NewCatalogService(products, categories, suppliers, &fakeImageRepo{products: products}, events, zap.NewNop())
	return &catalogFixture{service: svc, products: products, categories: categories, suppliers: suppliers, events: events}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func uintRef(v uint) *uint { return &v }

var editor = Actor{ID: "u-1", Name: "Dana", Email: "dana@example.com"}

func TestCreateProductRoundTrip(t *testing.T) {
	f := newCatalogFixture()
	chairs := uintRef(1)

	req := &CreateProductRequest{
		ProductForm: ProductForm{
			Name:           "  Oak Chair ",
			CategoryID:     chairs,
			Description:    "Solid oak",
			Color:          "Brown",
			Height:         dec("95.5"),
			Width:          dec("45"),
			WidthUnit:      "m",
			Weight:         dec("7"),
			WholesalePrice: dec("40.00"),
			RetailPrice:    dec("79.99"),
			Profit:         dec("39.99"),
			Quantity:       25,
		},
		Images: [][]byte{pngBytes, nil, jpegBytes},
	}

	detail, err := f.service.CreateProduct(context.Background(), req, editor)
	require.NoError(t, err)
	require.NotZero(t, detail.ID)

	stored, err := f.products.FindByID(context.Background(), detail.ID)
	require.NoError(t, err)

	assert.Equal(t, "Oak Chair", stored.Name)
	assert.Equal(t, model.SupplierNotAvailable, stored.SupplierName)
	assert.Nil(t, stored.SupplierID)
	assert.Equal(t, "Chairs", stored.CategoryName())

	require.NotNil(t, stored.Description)
	assert.Equal(t, stored.ID, stored.Description.ProductID)
	assert.Equal(t, "Solid oak", stored.Description.Text)
	assert.Equal(t, "Brown", stored.Description.Color)
	assert.Equal(t, "95.5 cm", stored.Description.Height)
	assert.Equal(t, "45 m", stored.Description.Width)
	assert.Equal(t, "7 kg", stored.Description.Weight)
	assert.True(t, stored.Description.RetailPrice.Equal(decimal.RequireFromString("79.99")))

	require.NotNil(t, stored.Quantity)
	assert.Equal(t, 25, stored.Quantity.Qty)

	require.Len(t, stored.Images, 2)
	assert.Equal(t, pngBytes, stored.Images[0].Data)
	assert.Equal(t, 1, *stored.Images[0].Order)
	assert.Equal(t, jpegBytes, stored.Images[1].Data)
	assert.Equal(t, 2, *stored.Images[1].Order)

	require.NotNil(t, stored.PrimaryImageID)
	assert.Equal(t, stored.Images[0].ID, *stored.PrimaryImageID)

	assert.Equal(t, catalog.ImageURL(stored.Images[0].ID), detail.PrimaryImageURL)
	assert.Equal(t, []string{catalog.ImageURL(stored.Images[1].ID)}, detail.AdditionalImages)
	assert.Equal(t, "Chairs", detail.Category)
	assert.Equal(t, catalog.StockLow, detail.StockStatus)
	assert.Equal(t, uint(1), detail.Version)
	assert.Equal(t, "u-1", stored.CreatedBy)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, "created", f.events.events[0].Action)
	assert.Equal(t, "product", f.events.events[0].Entity)
	assert.Equal(t, "Dana", f.events.events[0].User)
}

func TestCreateProductPrimaryFixupFailureKeepsProduct(t *testing.T) {
	f := newCatalogFixture()
	f.products.setPrimaryErr = errors.New("connection reset")

	detail, err := f.service.CreateProduct(context.Background(), &CreateProductRequest{
		ProductForm: ProductForm{Name: "Stool", Quantity: 3},
		Images:      [][]byte{gifBytes, pngBytes},
	}, editor)
	require.NoError(t, err)

	stored, err := f.products.FindByID(context.Background(), detail.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PrimaryImageID)
	assert.Len(t, stored.Images, 2)
	assert.Nil(t, detail.PrimaryImageID)
	// thumbnail still resolves to the lowest-ordered image
	assert.Equal(t, catalog.ImageURL(stored.Images[0].ID), detail.PrimaryImageURL)
}

func TestCreateProductWithoutImages(t *testing.T) {
	f := newCatalogFixture()

	detail, err := f.service.CreateProduct(context.Background(), &CreateProductRequest{
		ProductForm: ProductForm{Name: "Bench"},
	}, editor)
	require.NoError(t, err)
	assert.Nil(t, detail.PrimaryImageID)
	assert.Equal(t, catalog.PlaceholderImageURL, detail.PrimaryImageURL)
	assert.Empty(t, detail.AdditionalImages)
}

func TestCreateProductLinksKnownSupplier(t *testing.T) {
	f := newCatalogFixture()
	require.NoError(t, f.suppliers.Create(context.Background(), &model.Supplier{CompanyName: "Acme"}))

	detail, err := f.service.CreateProduct(context.Background(), &CreateProductRequest{
		ProductForm: ProductForm{Name: "Desk", SupplierName: "Acme"},
	}, editor)
	require.NoError(t, err)
	require.NotNil(t, detail.SupplierID)
	assert.Equal(t, "Acme", detail.Supplier)

	detail, err = f.service.CreateProduct(context.Background(), &CreateProductRequest{
		ProductForm: ProductForm{Name: "Lamp", SupplierName: "Unknown Co"},
	}, editor)
	require.NoError(t, err)
	assert.Nil(t, detail.SupplierID)
	assert.Equal(t, "Unknown Co", detail.Supplier)
}

func TestCreateProductValidation(t *testing.T) {
	testCases := []struct {
		name  string
		form  ProductForm
		field string
	}{
		{name: "missing name", form: ProductForm{}, field: "name"},
		{name: "negative quantity", form: ProductForm{Name: "X", Quantity: -1}, field: "quantity"},
		{name: "negative price", form: ProductForm{Name: "X", RetailPrice: dec("-1")}, field: "retail_price"},
		{name: "unknown unit", form: ProductForm{Name: "X", HeightUnit: "yd"}, field: "height_unit"},
		{name: "unknown category", form: ProductForm{Name: "X", CategoryID: uintRef(99)}, field: "category_id"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCatalogFixture()

			_, err := f.service.CreateProduct(context.Background(), &CreateProductRequest{ProductForm: tc.form}, editor)

			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
			assert.Empty(t, f.products.products)
			assert.Empty(t, f.events.events)
		})
	}
}

func TestCreateProductPersistenceFault(t *testing.T) {
	f := newCatalogFixture()
	f.products.createErr = errors.New("disk full")

	_, err := f.service.CreateProduct(context.Background(), &CreateProductRequest{
		ProductForm: ProductForm{Name: "Shelf"},
	}, editor)

	require.ErrorIs(t, err, ErrPersistence)
	assert.NotContains(t, err.Error(), "disk full")
	assert.Empty(t, f.events.events)
}

func seedImaged(f *catalogFixture) *model.Product {
	one, two, three := 1, 2, 3
	p := f.products.seed(model.Product{
		Name:        "Sofa",
		Description: &model.Description{Text: "Grey"},
		Quantity:    &model.Quantity{Qty: 10},
		Images: []model.ImageData{
			{Data: pngBytes, Order: &one},
			{Data: jpegBytes, Order: &two},
			{Data: gifBytes, Order: &three},
		},
	})
	primary := p.Images[0].ID
	_ = f.products.SetPrimaryImage(context.Background(), p.ID, &primary)
	return p
}

func TestUpdateProductReconcilesImages(t *testing.T) {
	f := newCatalogFixture()
	p := seedImaged(f)
	a, b, c := p.Images[0].ID, p.Images[1].ID, p.Images[2].ID

	detail, err := f.service.UpdateProduct(context.Background(), p.ID, &UpdateProductRequest{
		ProductForm:  ProductForm{Name: "Sofa XL", Quantity: 60},
		Version:      1,
		KeepImageIDs: []uint{c, a},
		NewImages:    [][]byte{pngBytes},
	}, editor)
	require.NoError(t, err)

	changes := f.products.lastChanges
	assert.Equal(t, []uint{b}, changes.Delete)
	assert.Equal(t, map[uint]int{c: 1, a: 2}, changes.Reorder)
	require.Len(t, changes.Insert, 1)
	assert.Equal(t, 3, *changes.Insert[0].Order)

	assert.Equal(t, "Sofa XL", detail.Name)
	assert.Equal(t, uint(2), detail.Version)
	assert.Equal(t, catalog.StockOverstocked, detail.StockStatus)
	// the kept primary survives the edit
	require.NotNil(t, detail.PrimaryImageID)
	assert.Equal(t, a, *detail.PrimaryImageID)
	require.Len(t, detail.ImageIDs, 3)
	assert.Equal(t, c, detail.ImageIDs[0])
	assert.Equal(t, a, detail.ImageIDs[1])

	require.Len(t, f.events.events, 1)
	assert.Equal(t, "updated", f.events.events[0].Action)
}

func TestUpdateProductRecomputesPrimaryWhenRemoved(t *testing.T) {
	f := newCatalogFixture()
	p := seedImaged(f)
	b, c := p.Images[1].ID, p.Images[2].ID

	detail, err := f.service.UpdateProduct(context.Background(), p.ID, &UpdateProductRequest{
		ProductForm:  ProductForm{Name: "Sofa"},
		Version:      1,
		KeepImageIDs: []uint{c, b},
	}, editor)
	require.NoError(t, err)
	require.NotNil(t, detail.PrimaryImageID)
	assert.Equal(t, c, *detail.PrimaryImageID)
}

func TestUpdateProductExplicitPrimary(t *testing.T) {
	testCases := []struct {
		name    string
		primary func(p *model.Product) uint
		wantErr bool
	}{
		{name: "kept image", primary: func(p *model.Product) uint { return p.Images[2].ID }},
		{name: "removed image", primary: func(p *model.Product) uint { return p.Images[1].ID }, wantErr: true},
		{name: "foreign image", primary: func(p *model.Product) uint { return 999 }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCatalogFixture()
			p := seedImaged(f)
			primary := tc.primary(p)

			detail, err := f.service.UpdateProduct(context.Background(), p.ID, &UpdateProductRequest{
				ProductForm:    ProductForm{Name: "Sofa"},
				Version:        1,
				KeepImageIDs:   []uint{p.Images[0].ID, p.Images[2].ID},
				PrimaryImageID: &primary,
			}, editor)

			if tc.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, "primary_image_id")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, primary, *detail.PrimaryImageID)
		})
	}
}

func TestUpdateProductStaleVersionOnLoad(t *testing.T) {
	f := newCatalogFixture()
	p := seedImaged(f)

	_, err := f.service.UpdateProduct(context.Background(), p.ID, &UpdateProductRequest{
		ProductForm: ProductForm{Name: "Sofa (mine)"},
		Version:     7,
	}, editor)

	require.ErrorIs(t, err, ErrConcurrencyConflict)
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	current, ok := cerr.Current.(*ProductDetail)
	require.True(t, ok)
	assert.Equal(t, "Sofa", current.Name)
	assert.Equal(t, uint(1), current.Version)
	assert.Empty(t, f.events.events)
}

// racingProductRepo simulates another editor saving between the service's load and its write.
type racingProductRepo struct {
	*fakeProductRepo
}

func (r *racingProductRepo) UpdateAggregate(ctx context.Context, product *model.Product, images repository.ImageChanges) error {
	r.mu.Lock()
	stored := r.products[product.ID]
	stored.Name = "Sofa (theirs)"
	stored.Version++
	r.mu.Unlock()
	return r.fakeProductRepo.UpdateAggregate(ctx, product, images)
}

func TestUpdateProductStaleVersionOnSave(t *testing.T) {
	f := newCatalogFixture()
	p := seedImaged(f)
	racing := &racingProductRepo{fakeProductRepo: f.products}
	svc := NewCatalogService(racing, f.categories, f.suppliers, &fakeImageRepo{products: f.products}, f.events, zap.NewNop())

	_, err := svc.UpdateProduct(context.Background(), p.ID, &UpdateProductRequest{
		ProductForm: ProductForm{Name: "Sofa (mine)"},
		Version:     1,
	}, editor)

	require.ErrorIs(t, err, ErrConcurrencyConflict)
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	current := cerr.Current.(*ProductDetail)
	assert.Equal(t, "Sofa (theirs)", current.Name)
	assert.Equal(t, uint(2), current.Version)
	assert.Empty(t, f.events.events)
}

func TestUpdateProductNotFound(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.service.UpdateProduct(context.Background(), 42, &UpdateProductRequest{
		ProductForm: ProductForm{Name: "Ghost"},
		Version:     1,
	}, editor)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	f := newCatalogFixture()
	p := seedImaged(f)

	require.NoError(t, f.service.DeleteProduct(context.Background(), p.ID, editor))
	_, err := f.service.GetProduct(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, "deleted", f.events.events[0].Action)
	assert.Equal(t, "Sofa", f.events.events[0].Name)

	assert.ErrorIs(t, f.service.DeleteProduct(context.Background(), p.ID, editor), ErrNotFound)
}

func seedListing(f *catalogFixture) {
	chairs, tables := uintRef(1), uintRef(2)
	f.products.seed(model.Product{Name: "Oak Chair", CategoryID: chairs,
		Description: &model.Description{RetailPrice: decimal.RequireFromString("80")},
		Quantity:    &model.Quantity{Qty: 5}})
	f.products.seed(model.Product{Name: "Pine Table", CategoryID: tables,
		Description: &model.Description{RetailPrice: decimal.RequireFromString("250")},
		Quantity:    &model.Quantity{Qty: 40}})
	f.products.seed(model.Product{Name: "Birch Chair", CategoryID: chairs,
		Description: &model.Description{RetailPrice: decimal.RequireFromString("120")},
		Quantity:    &model.Quantity{Qty: 70}})
	f.products.seed(model.Product{Name: "Loose Part"})
}

func TestListProducts(t *testing.T) {
	testCases := []struct {
		name      string
		query     ProductQuery
		wantNames []string
		wantSort  catalog.SortKey
	}{
		{
			name:      "default sort by name",
			wantNames: []string{"Birch Chair", "Loose Part", "Oak Chair", "Pine Table"},
			wantSort:  catalog.SortNameAsc,
		},
		{
			name:      "category and price descending",
			query:     ProductQuery{Category: "Chairs", SortBy: "pricedesc"},
			wantNames: []string{"Birch Chair", "Oak Chair"},
			wantSort:  catalog.SortPriceDesc,
		},
		{
			name:      "price range",
			query:     ProductQuery{MinPrice: dec("100"), MaxPrice: dec("300")},
			wantNames: []string{"Birch Chair", "Pine Table"},
			wantSort:  catalog.SortNameAsc,
		},
		{
			name:      "stock status",
			query:     ProductQuery{StockStatus: "Danger"},
			wantNames: []string{"Oak Chair"},
			wantSort:  catalog.SortNameAsc,
		},
		{
			name:      "unknown sort falls back",
			query:     ProductQuery{SortBy: "bogus"},
			wantNames: []string{"Birch Chair", "Loose Part", "Oak Chair", "Pine Table"},
			wantSort:  catalog.SortNameAsc,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCatalogFixture()
			seedListing(f)

			listing, err := f.service.ListProducts(context.Background(), tc.query)
			require.NoError(t, err)

			names := make([]string, len(listing.Products))
			for i, p := range listing.Products {
				names[i] = p.Name
			}
			assert.Equal(t, tc.wantNames, names)
			assert.Equal(t, len(tc.wantNames), listing.TotalCount)
			assert.Equal(t, tc.wantSort, listing.AppliedSort)
			assert.Equal(t, string(tc.wantSort), listing.Filters.SortBy)
			assert.Equal(t, []string{"Chairs", "Tables"}, listing.AvailableCategories)
			assert.Equal(t, "All", listing.StockStatuses[0])
		})
	}
}

func TestListProductsPersistenceFault(t *testing.T) {
	f := newCatalogFixture()
	f.products.findAllErr = errors.New("timeout")

	_, err := f.service.ListProducts(context.Background(), ProductQuery{})
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestExportProducts(t *testing.T) {
	f := newCatalogFixture()
	seedListing(f)

	out, err := f.service.ExportProducts(context.Background(), ProductQuery{Category: "Chairs"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,category,retail_price,stock,stock_status,image_url", lines[0])
	assert.Contains(t, lines[1], "Birch Chair,Chairs,120.00,70,Overstocked")
	assert.Contains(t, lines[2], "Oak Chair,Chairs,80.00,5,Danger")
}

func TestFormOptions(t *testing.T) {
	f := newCatalogFixture()
	require.NoError(t, f.suppliers.Create(context.Background(), &model.Supplier{CompanyName: "Zeta"}))
	require.NoError(t, f.suppliers.Create(context.Background(), &model.Supplier{CompanyName: "Acme"}))

	opts, err := f.service.FormOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Zeta"}, opts.Suppliers)
	assert.Len(t, opts.Categories, 2)
	assert.Equal(t, catalog.DimensionUnits, opts.DimensionUnits)
	assert.Equal(t, catalog.WeightUnits, opts.WeightUnits)
}

func TestImage(t *testing.T) {
	f := newCatalogFixture()
	p := seedImaged(f)

	data, contentType, err := f.service.Image(context.Background(), p.Images[2].ID)
	require.NoError(t, err)
	assert.Equal(t, gifBytes, data)
	assert.Equal(t, catalog.ContentTypeGIF, contentType)

	_, _, err = f.service.Image(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
