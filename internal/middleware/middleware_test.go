package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func decodeError(t *testing.T, r io.Reader) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

// newProtectedApp mounts JWT and tenant resolution in front of an echo handler.
func newProtectedApp() *fiber.App {
	app := fiber.New()
	cfg := &config.Config{JWTSecret: testSecret}
	app.Get("/p", JWTProtected(cfg), TenantRequired(), func(c *fiber.Ctx) error {
		userID, err := tenant.GetUserID(c)
		if err != nil {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.JSON(fiber.Map{"tenant_id": tenant.GetTenantID(c), "user_id": userID.String()})
	})
	return app
}

func TestJWTProtected_RejectsMissingToken(t *testing.T) {
	app := newProtectedApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/p", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthenticated", decodeError(t, resp.Body).Code)
}

func TestTenantRequired_Resolution(t *testing.T) {
	app := newProtectedApp()
	userID := uuid.New()

	tests := []struct {
		name       string
		claims     jwt.MapClaims
		header     string
		query      string
		wantStatus int
		wantTenant string
	}{
		{"claim wins over header", jwt.MapClaims{"tenant_id": "claim"}, "header", "", 200, "claim"},
		{"header", jwt.MapClaims{}, "header", "query", 200, "header"},
		{"query", jwt.MapClaims{}, "", "query", 200, "query"},
		{"missing", jwt.MapClaims{}, "", "", 400, ""},
		{"invalid", jwt.MapClaims{}, "bad tenant!", "", 400, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := jwt.MapClaims{"sub": userID.String(), "exp": time.Now().Add(time.Hour).Unix()}
			for k, v := range tt.claims {
				claims[k] = v
			}

			path := "/p"
			if tt.query != "" {
				path += "?tenant_id=" + tt.query
			}
			req := httptest.NewRequest("GET", path, nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
			if tt.header != "" {
				req.Header.Set("X-Tenant-ID", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus != fiber.StatusOK {
				assert.Equal(t, "invalid_request", decodeError(t, resp.Body).Code)
				return
			}
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantTenant, body["tenant_id"])
			assert.Equal(t, userID.String(), body["user_id"])
		})
	}
}

type fakeAuthorizer struct {
	err error
}

func (f fakeAuthorizer) Authorize(_ context.Context, _ string, _ uuid.UUID, _ services.Need) (services.RoleInfo, error) {
	if f.err != nil {
		return services.RoleInfo{}, f.err
	}
	return services.RoleInfo{Role: "creator", IsAdminOrCreator: true}, nil
}

func TestCreatorRequired(t *testing.T) {
	tests := []struct {
		name       string
		auth       fakeAuthorizer
		withUser   bool
		wantStatus int
		wantCode   string
	}{
		{"allowed", fakeAuthorizer{}, true, 200, ""},
		{"forbidden", fakeAuthorizer{err: services.ErrForbidden}, true, 403, "forbidden"},
		{"lookup failure", fakeAuthorizer{err: errors.New("db down")}, true, 503, "store_unavailable"},
		{"no user", fakeAuthorizer{}, false, 401, "unauthenticated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(func(c *fiber.Ctx) error {
				if tt.withUser {
					c.Locals("user", &jwt.Token{Valid: true, Claims: jwt.MapClaims{"sub": uuid.NewString()}})
				}
				c.Locals("tenant_id", "acme")
				return c.Next()
			})
			app.Get("/admin", CreatorRequired(tt.auth), func(c *fiber.Ctx) error {
				return c.SendString(c.Locals("role").(string))
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp.Body).Code)
			}
		})
	}
}

func TestRateLimit_MemoryFallback(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(&config.Config{RateLimit: 2, RateWindow: time.Minute}, nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestNewRedisStorage_Unreachable(t *testing.T) {
	_, err := NewRedisStorage("127.0.0.1:1")
	assert.ErrorContains(t, err, "redis ping")
}
