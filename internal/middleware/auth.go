package middleware

import (
	"context"
	"strings"
	"time"

	"parley/internal/models"
	"parley/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// UserIDHeader carries the authenticated user ID on requests forwarded by the
// gateway. Services still verify the bearer token themselves; the header only
// feeds logging and tracing.
const UserIDHeader = "X-User-ID"

// AuthRequired enforces a valid bearer token signed with the shared secret.
// When a redis client is supplied, revoked token IDs are rejected too.
// The decoded user ID lands in c.Locals("userID") and the request context.
func AuthRequired(secret string, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		id, err := token.Verify(parts[1], secret, time.Now())
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		// Check JTI for revocation
		if id.JTI != "" && rdb != nil {
			revoked, rerr := rdb.Exists(c.Context(), "blacklist:"+id.JTI).Result()
			if rerr == nil && revoked > 0 {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Token has been revoked"))
			}
		}

		c.Locals("userID", id.UserID)
		c.Locals("tokenJTI", id.JTI)
		ctx := context.WithValue(c.UserContext(), UserIDKey, id.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}
