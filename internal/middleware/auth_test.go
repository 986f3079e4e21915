package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parley/internal/token"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authTestSecret = "middleware-test-secret"

func newAuthApp(rdb *redis.Client) *fiber.App {
	app := fiber.New()
	app.Get("/protected", AuthRequired(authTestSecret, rdb), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	})
	return app
}

func validToken(t *testing.T, userID uint) string {
	t.Helper()
	raw, err := token.Sign(authTestSecret, userID, "tester", time.Now())
	require.NoError(t, err)
	return raw
}

func TestAuthRequired(t *testing.T) {
	expired, err := token.Sign(authTestSecret, 1, "tester", time.Now().Add(-2*token.TTL))
	require.NoError(t, err)

	wrongSecret, err := token.Sign("some-other-secret", 1, "tester", time.Now())
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc123", http.StatusUnauthorized},
		{"malformed", "Bearer", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + wrongSecret, http.StatusUnauthorized},
		{"valid token", "Bearer " + validToken(t, 7), http.StatusOK},
	}

	app := newAuthApp(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestAuthRequiredRejectsBlacklistedJTI(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	app := newAuthApp(rdb)
	raw := validToken(t, 7)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+raw)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	id, err := token.Verify(raw, authTestSecret, time.Now())
	require.NoError(t, err)
	require.NoError(t, mr.Set("blacklist:"+id.JTI, "revoked"))

	resp, err = app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
