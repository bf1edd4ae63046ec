// FILE: internal/pkg/serverutils/jwt_middleware_test.go
package serverutils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signToken(t *testing.T, secret, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "0b9f1a7e-5d0a-4f52-9a44-3f2b6a1c8d90",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestJwtMiddleware_RoleGating(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	app := fiber.New()
	app.Get("/admin-only", JwtMiddleware, RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.JSON(SuccessResponse("ok", nil))
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "admin token passes",
			authHeader: "Bearer " + signToken(t, "test-secret", "admin"),
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "viewer token is forbidden",
			authHeader: "Bearer " + signToken(t, "test-secret", "viewer"),
			wantStatus: fiber.StatusForbidden,
		},
		{
			name:       "missing header is unauthorized",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "token signed with wrong secret is unauthorized",
			authHeader: "Bearer " + signToken(t, "other-secret", "admin"),
			wantStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/admin-only", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
