package middleware

import (
	"net/http/httptest"
	"testing"

	"inventory-catalog/internal/model"
	"inventory-catalog/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedApp(signer *jwt.Signer) *fiber.App {
	app := fiber.New()
	app.Use(RequireAuth(signer))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_name").(string))
	})
	app.Delete("/products/1", RequirePrivilege(model.PrivProductDelete), func(c *fiber.Ctx) error {
		return c.SendStatus(204)
	})
	app.Post("/suppliers", RequireAnyPrivilege(model.PrivSupplierCreate, model.PrivSupplierUpdate), func(c *fiber.Ctx) error {
		return c.SendStatus(201)
	})
	return app
}

func TestRequireAuthAndPrivileges(t *testing.T) {
	signer := jwt.NewSigner("middleware-secret")
	admin, err := signer.GenerateToken(uuid.New(), "a@example.com", "Ana", model.RoleAdmin,
		[]string{model.PrivProductCreate, model.PrivSupplierUpdate})
	require.NoError(t, err)
	foreign, err := jwt.NewSigner("other-secret").GenerateToken(uuid.New(), "x@example.com", "X", model.RoleAdmin, nil)
	require.NoError(t, err)

	testCases := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
	}{
		{name: "missing header", method: "GET", path: "/whoami", wantStatus: 401},
		{name: "wrong scheme", method: "GET", path: "/whoami", header: "Basic abc", wantStatus: 401},
		{name: "foreign signature", method: "GET", path: "/whoami", header: "Bearer " + foreign, wantStatus: 401},
		{name: "valid token", method: "GET", path: "/whoami", header: "Bearer " + admin, wantStatus: 200},
		{name: "lacks privilege", method: "DELETE", path: "/products/1", header: "Bearer " + admin, wantStatus: 403},
		{name: "holds one of privileges", method: "POST", path: "/suppliers", header: "Bearer " + admin, wantStatus: 201},
	}

	app := newGuardedApp(signer)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}
