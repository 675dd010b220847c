package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"

	"inventory-catalog/internal/service"

	"github.com/gofiber/fiber/v2"
)

// msgTryAgain is the only detail a client gets for an internal failure; the cause is logged by the service.
const msgTryAgain = "The request could not be completed. Try again, and if the problem persists contact your system administrator."

// actor builds the acting user from the JWT context set by RequireAuth.
func actor(c *fiber.Ctx) service.Actor {
	a := service.Actor{}
	if v, ok := c.Locals("user_id").(string); ok {
		a.ID = v
	}
	if v, ok := c.Locals("user_name").(string); ok {
		a.Name = v
	}
	if v, ok := c.Locals("user_email").(string); ok {
		a.Email = v
	}
	if a.ID == "" {
		return service.SystemActor
	}
	return a
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// respondError maps the service error taxonomy onto status codes. submitted is echoed back on
// validation failures so the client can redisplay the form.
func respondError(c *fiber.Ctx, err error, submitted interface{}) error {
	var verr *service.ValidationError
	var rerr *service.ReferentialError
	var cerr *service.ConflictError

	switch {
	case errors.As(err, &verr):
		return c.Status(422).JSON(fiber.Map{
			"error":  verr.Error(),
			"fields": verr.Fields,
			"form":   submitted,
		})
	case errors.As(err, &rerr):
		return c.Status(409).JSON(fiber.Map{"error": rerr.Error()})
	case errors.As(err, &cerr):
		return c.Status(409).JSON(fiber.Map{
			"error":   cerr.Error(),
			"current": cerr.Current,
		})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(500).JSON(fiber.Map{"error": msgTryAgain})
	}
}

// readFiles loads every non-empty upload under field, in submission order.
func readFiles(form *multipart.Form, field string) ([][]byte, error) {
	if form == nil {
		return nil, nil
	}
	var out [][]byte
	for _, fh := range form.File[field] {
		if fh.Size == 0 {
			continue
		}
		data, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
