package handler

import (
	"inventory-catalog/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ImageHandler serves stored image bytes under the paths the read models link to.
type ImageHandler struct {
	catalog   service.CatalogService
	suppliers service.SupplierService
}

func NewImageHandler(catalog service.CatalogService, suppliers service.SupplierService) *ImageHandler {
	return &ImageHandler{catalog: catalog, suppliers: suppliers}
}

// GET /Image/GetImage/:id
func (h *ImageHandler) GetImage(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.SendStatus(404)
	}
	data, contentType, err := h.catalog.Image(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, nil)
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

// GET /Supplier/GetSupplierImage/:id
func (h *ImageHandler) GetSupplierImage(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.SendStatus(404)
	}
	data, contentType, err := h.suppliers.SupplierImage(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, nil)
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}
