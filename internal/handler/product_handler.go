package handler

import (
	"strconv"
	"strings"

	"inventory-catalog/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	service service.CatalogService
}

func NewProductHandler(s service.CatalogService) *ProductHandler {
	return &ProductHandler{service: s}
}

func productQuery(c *fiber.Ctx) service.ProductQuery {
	return service.ProductQuery{
		Category:    c.Query("category"),
		MinPrice:    queryDecimal(c, "min_price"),
		MaxPrice:    queryDecimal(c, "max_price"),
		StockStatus: c.Query("stock_status"),
		SortBy:      c.Query("sort_by"),
	}
}

// queryDecimal reads an optional decimal query parameter; unparsable input counts as absent.
func queryDecimal(c *fiber.Ctx, key string) *decimal.Decimal {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// GetProducts returns the filtered, sorted product list
// GET /api/v1/products?category=&min_price=&max_price=&stock_status=&sort_by=
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	listing, err := h.service.ListProducts(c.UserContext(), productQuery(c))
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(listing)
}

// ExportProducts downloads the same listing as CSV
// GET /api/v1/products/export
func (h *ProductHandler) ExportProducts(c *fiber.Ctx) error {
	out, err := h.service.ExportProducts(c.UserContext(), productQuery(c))
	if err != nil {
		return respondError(c, err, nil)
	}
	c.Attachment("products.csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(out)
}

// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	detail, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(detail)
}

// GET /api/v1/products/form-options
func (h *ProductHandler) GetFormOptions(c *fiber.Ctx) error {
	opts, err := h.service.FormOptions(c.UserContext())
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(opts)
}

// CreateProduct accepts multipart/form-data (fields plus "images" files) or JSON without images.
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid form"})
		}
		if fields := bindProductForm(form.Value, &req.ProductForm); len(fields) > 0 {
			return respondError(c, &service.ValidationError{Fields: fields}, req)
		}
		if req.Images, err = readFiles(form, "images"); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Unreadable image upload"})
		}
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	detail, err := h.service.CreateProduct(c.UserContext(), &req, actor(c))
	if err != nil {
		return respondError(c, err, req)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": detail})
}

// UpdateProduct takes the edited fields, the version the edit started from, the kept image IDs in
// display order ("keep_image_ids"), an optional "primary_image_id" and new "new_images" files.
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.UpdateProductRequest
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid form"})
		}
		fields := bindProductForm(form.Value, &req.ProductForm)
		bindImageEdit(form.Value, &req, fields)
		if len(fields) > 0 {
			return respondError(c, &service.ValidationError{Fields: fields}, req)
		}
		if req.NewImages, err = readFiles(form, "new_images"); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Unreadable image upload"})
		}
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	detail, err := h.service.UpdateProduct(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respondError(c, err, req)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": detail})
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if err := h.service.DeleteProduct(c.UserContext(), id, actor(c)); err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

func formValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// bindProductForm copies multipart values into f and returns messages for fields that are not numbers.
func bindProductForm(values map[string][]string, f *service.ProductForm) map[string]string {
	fields := map[string]string{}

	f.Name = formValue(values, "name")
	f.SupplierName = formValue(values, "supplier_name")
	f.Description = formValue(values, "description")
	f.Color = formValue(values, "color")
	f.HeightUnit = formValue(values, "height_unit")
	f.WidthUnit = formValue(values, "width_unit")
	f.WeightUnit = formValue(values, "weight_unit")

	if raw := formValue(values, "category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			cid := uint(id)
			f.CategoryID = &cid
		} else {
			fields["category_id"] = "category_id is invalid."
		}
	}
	if raw := formValue(values, "quantity"); raw != "" {
		if qty, err := strconv.Atoi(raw); err == nil {
			f.Quantity = qty
		} else {
			fields["quantity"] = "quantity must be a whole number."
		}
	}

	for key, dst := range map[string]**decimal.Decimal{
		"height":          &f.Height,
		"width":           &f.Width,
		"weight":          &f.Weight,
		"wholesale_price": &f.WholesalePrice,
		"retail_price":    &f.RetailPrice,
		"profit":          &f.Profit,
	} {
		raw := formValue(values, key)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			fields[key] = key + " must be a number."
			continue
		}
		*dst = &d
	}
	return fields
}

// bindImageEdit reads the version and image-list fields of the edit form. keep_image_ids may be
// repeated or comma-separated.
func bindImageEdit(values map[string][]string, req *service.UpdateProductRequest, fields map[string]string) {
	if v, err := strconv.ParseUint(formValue(values, "version"), 10, 64); err == nil {
		req.Version = uint(v)
	}
	for _, entry := range values["keep_image_ids"] {
		for _, raw := range strings.Split(entry, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				fields["keep_image_ids"] = "keep_image_ids must list image IDs."
				continue
			}
			req.KeepImageIDs = append(req.KeepImageIDs, uint(id))
		}
	}
	if raw := formValue(values, "primary_image_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			fields["primary_image_id"] = "primary_image_id is invalid."
			return
		}
		pid := uint(id)
		req.PrimaryImageID = &pid
	}
}
