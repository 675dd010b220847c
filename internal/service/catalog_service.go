package service

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"inventory-catalog/internal/catalog"
	"inventory-catalog/internal/model"
	"inventory-catalog/internal/repository"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CatalogService interface {
	ListProducts(ctx context.Context, q ProductQuery) (*ProductListing, error)
	GetProduct(ctx context.Context, id uint) (*ProductDetail, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest, actor Actor) (*ProductDetail, error)
	UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest, actor Actor) (*ProductDetail, error)
	DeleteProduct(ctx context.Context, id uint, actor Actor) error
	ExportProducts(ctx context.Context, q ProductQuery) ([]byte, error)
	FormOptions(ctx context.Context) (*FormOptions, error)
	Image(ctx context.Context, id uint) (data []byte, contentType string, err error)
}

// ProductQuery is the list page's filter bar and sort selection.
type ProductQuery struct {
	Category    string           `json:"category"`
	MinPrice    *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice    *decimal.Decimal `json:"max_price,omitempty"`
	StockStatus string           `json:"stock_status"`
	SortBy      string           `json:"sort_by"`
}

// ProductForm holds the fields shared by the create and edit forms.
type ProductForm struct {
	Name         string `json:"name" validate:"required,max=255"`
	SupplierName string `json:"supplier_name" validate:"max=100"`
	CategoryID   *uint  `json:"category_id,omitempty"`
	Description  string `json:"description"`
	Color        string `json:"color" validate:"max=50"`

	Height     *decimal.Decimal `json:"height,omitempty" validate:"omitempty,gte=0"`
	HeightUnit string           `json:"height_unit" validate:"omitempty,oneof=cm m in ft"`
	Width      *decimal.Decimal `json:"width,omitempty" validate:"omitempty,gte=0"`
	WidthUnit  string           `json:"width_unit" validate:"omitempty,oneof=cm m in ft"`
	Weight     *decimal.Decimal `json:"weight,omitempty" validate:"omitempty,gte=0"`
	WeightUnit string           `json:"weight_unit" validate:"omitempty,oneof=kg g lb oz"`

	WholesalePrice *decimal.Decimal `json:"wholesale_price,omitempty" validate:"omitempty,gte=0"`
	RetailPrice    *decimal.Decimal `json:"retail_price,omitempty" validate:"omitempty,gte=0"`
	Profit         *decimal.Decimal `json:"profit,omitempty" validate:"omitempty,gte=0"`

	Quantity int `json:"quantity" validate:"gte=0"`
}

type CreateProductRequest struct {
	ProductForm
	// Upload order is display order.
	Images [][]byte `json:"-"`
}

type UpdateProductRequest struct {
	ProductForm
	Version uint `json:"version" validate:"required"`

	// Images to keep, in their new display order. Images left out are deleted.
	KeepImageIDs   []uint   `json:"keep_image_ids"`
	PrimaryImageID *uint    `json:"primary_image_id,omitempty"`
	NewImages      [][]byte `json:"-"`
}

func (f *ProductForm) input(supplierID *uint, images [][]byte) catalog.ProductInput {
	return catalog.ProductInput{
		Name:           f.Name,
		SupplierLabel:  f.SupplierName,
		SupplierID:     supplierID,
		CategoryID:     f.CategoryID,
		Text:           f.Description,
		Color:          f.Color,
		HeightValue:    f.Height,
		HeightUnit:     f.HeightUnit,
		WidthValue:     f.Width,
		WidthUnit:      f.WidthUnit,
		WeightValue:    f.Weight,
		WeightUnit:     f.WeightUnit,
		WholesalePrice: f.WholesalePrice,
		RetailPrice:    f.RetailPrice,
		Profit:         f.Profit,
		Quantity:       f.Quantity,
		Images:         images,
	}
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	imageRepo    repository.ImageRepository
	events       Publisher
	log          *zap.Logger
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	imageRepo repository.ImageRepository,
	events Publisher,
	log *zap.Logger,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		imageRepo:    imageRepo,
		events:       events,
		log:          log.Named("catalog"),
	}
}

func (s *catalogService) ListProducts(ctx context.Context, q ProductQuery) (*ProductListing, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, persistenceFault(s.log, "list products", err)
	}

	res := catalog.ComposeProducts(products, catalog.ProductFilters{
		Category:    q.Category,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		StockStatus: q.StockStatus,
	}, q.SortBy)

	statuses := []string{"All"}
	for _, st := range catalog.StockStatuses {
		statuses = append(statuses, string(st))
	}

	q.SortBy = string(res.AppliedSort)
	return &ProductListing{
		Products:            productViews(res.Products),
		TotalCount:          res.TotalCount,
		Filters:             q,
		AppliedSort:         res.AppliedSort,
		AvailableCategories: res.AvailableCategories,
		StockStatuses:       statuses,
	}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*ProductDetail, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistenceFault(s.log, "get product", err)
	}
	return NewProductDetail(product), nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req *CreateProductRequest, actor Actor) (*ProductDetail, error) {
	// 1. Validate request
	if err := validate(req); err != nil {
		return nil, err
	}
	category, err := s.checkCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	supplierID, err := s.linkSupplier(ctx, req.SupplierName)
	if err != nil {
		return nil, err
	}

	// 2. Build the aggregate
	product := catalog.BuildProduct(req.input(supplierID, req.Images))
	product.Category = category
	product.Version = 1
	product.CreatedBy = actor.auditID()
	product.UpdatedBy = actor.auditID()

	// 3. Persist product, description, quantity and images together
	if err := s.productRepo.CreateAggregate(ctx, product); err != nil {
		return nil, s.writeFailure("create product", err)
	}

	// 4. Primary image needs the identities assigned above. Failing here leaves a valid product
	// without a primary image.
	if primary := catalog.SelectPrimaryImage(product.Images); primary != nil {
		if err := s.productRepo.SetPrimaryImage(ctx, product.ID, primary); err != nil {
			s.log.Warn("primary image not set",
				zap.Uint("product_id", product.ID),
				zap.Uint("image_id", *primary),
				zap.Error(err))
		} else {
			product.PrimaryImageID = primary
		}
	}

	publish(s.events, "created", "product", product.ID, product.Name, actor)
	return NewProductDetail(product), nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest, actor Actor) (*ProductDetail, error) {
	// 1. Validate request
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Load the current aggregate
	existing, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistenceFault(s.log, "load product", err)
	}
	if existing.Version != req.Version {
		return nil, &ConflictError{Current: NewProductDetail(existing)}
	}

	if _, err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	supplierID, err := s.linkSupplier(ctx, req.SupplierName)
	if err != nil {
		return nil, err
	}

	// 3. Reconcile the image set
	persisted := make([]uint, len(existing.Images))
	for i, img := range existing.Images {
		persisted[i] = img.ID
	}
	submitted := make([]catalog.Entry[catalog.ImageSlot], 0, len(req.KeepImageIDs)+len(req.NewImages))
	for _, keep := range req.KeepImageIDs {
		submitted = append(submitted, catalog.Entry[catalog.ImageSlot]{ID: keep})
	}
	for _, data := range req.NewImages {
		submitted = append(submitted, catalog.Entry[catalog.ImageSlot]{Fields: catalog.ImageSlot{Data: data}})
	}
	plan := catalog.Reconcile(persisted, submitted, catalog.ImageSlotBlank)

	changes := repository.ImageChanges{
		Delete:  plan.ToDelete,
		Reorder: make(map[uint]int, len(plan.ToUpdate)),
	}
	kept := make([]uint, 0, len(plan.ToUpdate))
	for i, e := range plan.ToUpdate {
		changes.Reorder[e.ID] = i + 1
		kept = append(kept, e.ID)
	}
	uploads := make([][]byte, len(plan.ToInsert))
	for i, slot := range plan.ToInsert {
		uploads[i] = slot.Data
	}
	changes.Insert = catalog.BuildImages(uploads, len(plan.ToUpdate))

	// 4. Primary image: explicit choice, else the current one if kept, else recomputed on save
	var primary *uint
	switch {
	case req.PrimaryImageID != nil:
		if !slices.Contains(kept, *req.PrimaryImageID) {
			return nil, invalidField("primary_image_id", "The primary image must be one of the product's images.")
		}
		primary = req.PrimaryImageID
	case existing.PrimaryImageID != nil && slices.Contains(kept, *existing.PrimaryImageID):
		primary = existing.PrimaryImageID
	}

	// 5. Apply the edit
	built := catalog.BuildProduct(req.input(supplierID, nil))
	updated := &model.Product{
		BaseModel:      existing.BaseModel,
		Name:           built.Name,
		SupplierName:   built.SupplierName,
		SupplierID:     built.SupplierID,
		CategoryID:     built.CategoryID,
		PrimaryImageID: primary,
		Version:        req.Version,
		Description:    built.Description,
		Quantity:       built.Quantity,
	}
	updated.UpdatedBy = actor.auditID()

	if err := s.productRepo.UpdateAggregate(ctx, updated, changes); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, s.productConflict(ctx, id)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.writeFailure("update product", err)
	}

	publish(s.events, "updated", "product", updated.ID, updated.Name, actor)

	reloaded, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, persistenceFault(s.log, "reload product", err)
	}
	return NewProductDetail(reloaded), nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uint, actor Actor) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return persistenceFault(s.log, "load product", err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return persistenceFault(s.log, "delete product", err)
	}

	publish(s.events, "deleted", "product", id, product.Name, actor)
	return nil
}

// ExportProducts renders the composed listing as CSV.
func (s *catalogService) ExportProducts(ctx context.Context, q ProductQuery) ([]byte, error) {
	listing, err := s.ListProducts(ctx, q)
	if err != nil {
		return nil, err
	}

	rows := make([]*ProductCSVRow, len(listing.Products))
	for i, p := range listing.Products {
		row := &ProductCSVRow{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			StockStatus: string(p.StockStatus),
			ImageURL:    p.ImageURL,
		}
		if p.Price != nil {
			row.Price = p.Price.StringFixed(2)
		}
		if p.Stock != nil {
			row.Stock = strconv.Itoa(*p.Stock)
		}
		rows[i] = row
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		s.log.Error("csv export failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (s *catalogService) FormOptions(ctx context.Context) (*FormOptions, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, persistenceFault(s.log, "list categories", err)
	}
	suppliers, err := s.supplierRepo.FindAll(ctx)
	if err != nil {
		return nil, persistenceFault(s.log, "list suppliers", err)
	}

	names := make([]string, 0, len(suppliers))
	for _, sup := range suppliers {
		names = append(names, sup.CompanyName)
	}
	slices.Sort(names)

	return &FormOptions{
		Categories:     categories,
		Suppliers:      names,
		DimensionUnits: catalog.DimensionUnits,
		WeightUnits:    catalog.WeightUnits,
	}, nil
}

// Image returns a stored product image with its sniffed content type.
func (s *catalogService) Image(ctx context.Context, id uint) ([]byte, string, error) {
	img, err := s.imageRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", persistenceFault(s.log, "load image", err)
	}
	if len(img.Data) == 0 {
		return nil, "", ErrNotFound
	}
	return img.Data, catalog.SniffImageType(img.Data), nil
}

func (s *catalogService) checkCategory(ctx context.Context, id *uint) (*model.Category, error) {
	if id == nil {
		return nil, nil
	}
	category, err := s.categoryRepo.FindByID(ctx, *id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalidField("category_id", "Selected category does not exist.")
	}
	if err != nil {
		return nil, persistenceFault(s.log, "load category", err)
	}
	return category, nil
}

// linkSupplier resolves a supplier label to an existing supplier, if one has that company name.
func (s *catalogService) linkSupplier(ctx context.Context, label string) (*uint, error) {
	label = strings.TrimSpace(label)
	if label == "" || label == model.SupplierNotAvailable {
		return nil, nil
	}
	supplier, err := s.supplierRepo.FindByCompanyName(ctx, label)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceFault(s.log, "find supplier", err)
	}
	return &supplier.ID, nil
}

func (s *catalogService) productConflict(ctx context.Context, id uint) error {
	current, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return persistenceFault(s.log, "reload product", err)
	}
	return &ConflictError{Current: NewProductDetail(current)}
}

// writeFailure turns constraint violations into a form-level validation failure and
// everything else into a persistence fault.
func (s *catalogService) writeFailure(op string, err error) error {
	if errors.Is(err, repository.ErrDuplicate) || errors.Is(err, repository.ErrInUse) {
		s.log.Info("write rejected by constraint", zap.String("op", op), zap.Error(err))
		return invalidField("", "The product could not be saved because it conflicts with existing data.")
	}
	return persistenceFault(s.log, op, err)
}
