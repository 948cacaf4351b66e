package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/private", handler, func(c *fiber.Ctx) error {
		id, err := GetUserID(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user_id": id, "guest": IsGuest(c)})
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret-0123456789abcdef")
	app := protectedApp(AuthMiddleware)

	token, err := GenerateToken(42, "reader", true)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	for _, header := range []string{"", "Token " + token, "Bearer", "Bearer garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
	}
}

func TestAuthMiddleware_Expired(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret-0123456789abcdef")
	app := protectedApp(AuthMiddleware)

	claims := jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret()))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocketAuthMiddleware_QueryToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret-0123456789abcdef")
	app := protectedApp(WebSocketAuthMiddleware)

	token, err := GenerateToken(7, "listener", false)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/private?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTrustedIdentityMiddleware(t *testing.T) {
	app := fiber.New()
	app.Post("/identity", TrustedIdentityMiddleware("s3cret"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/identity", nil)
	req.Header.Set("X-Identity-Secret", "s3cret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/identity", nil)
	req.Header.Set("X-Identity-Secret", "wrong")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminKeyMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", AdminKeyMiddleware("op-key"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Admin-Key", "op-key")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The identity header is not accepted in place of the admin key.
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Identity-Secret", "op-key")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	open := fiber.New()
	open.Get("/admin", AdminKeyMiddleware(""), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	resp, err = open.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "an empty key never authorizes")
}

func TestRateLimiter(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	limiter := NewRateLimiter(2, 3600)

	app := fiber.New()
	app.Use(FiberRateLimitMiddleware(limiter))
	app.Get("/api/books", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/books", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimiter_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	limiter := NewRateLimiter(1, 3600)

	app := fiber.New()
	app.Use(FiberRateLimitMiddleware(limiter))
	app.Get("/api/books", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/books", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestRateLimiter_Prune(t *testing.T) {
	limiter := NewRateLimiter(5, 60)
	limiter.Allow("1.2.3.4")
	require.Len(t, limiter.buckets, 1)

	limiter.Prune(time.Hour)
	assert.Len(t, limiter.buckets, 1)

	limiter.Prune(-time.Second)
	assert.Empty(t, limiter.buckets)
}
