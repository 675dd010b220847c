package handler

import (
	"inventory-catalog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	service service.SupplierService
}

func NewSupplierHandler(s service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: s}
}

// GET /api/v1/suppliers?search=&location=&status=&sort_order=
func (h *SupplierHandler) GetSuppliers(c *fiber.Ctx) error {
	var q service.SupplierQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query"})
	}
	listing, err := h.service.ListSuppliers(c.UserContext(), q)
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(listing)
}

// GET /api/v1/suppliers/:id
func (h *SupplierHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}
	detail, err := h.service.GetSupplierDetail(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(detail)
}

// CreateSupplier accepts JSON or multipart/form-data with an optional "profile_image" file.
// POST /api/v1/suppliers
func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.CreateSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	image, err := profileImage(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Unreadable profile image"})
	}
	req.ProfileImage = image

	detail, err := h.service.CreateSupplier(c.UserContext(), &req, actor(c))
	if err != nil {
		return respondError(c, err, req)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Supplier created", "data": detail})
}

// UpdateSupplier replaces the supplier's fields and its full list of other contacts.
// PUT /api/v1/suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}

	var req service.UpdateSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	image, err := profileImage(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Unreadable profile image"})
	}
	req.ProfileImage = image

	detail, err := h.service.UpdateSupplier(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respondError(c, err, req)
	}
	return c.JSON(fiber.Map{"message": "Supplier updated", "data": detail})
}

// DELETE /api/v1/suppliers/:id
func (h *SupplierHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}
	if err := h.service.DeleteSupplier(c.UserContext(), id, actor(c)); err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted"})
}

func profileImage(c *fiber.Ctx) ([]byte, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile("profile_image")
	if err != nil || fh.Size == 0 {
		// no upload keeps the stored image
		return nil, nil
	}
	return readFile(fh)
}
