// Package gateway implements the API gateway: the single public entry point
// that authenticates requests, routes them by path prefix to the owning
// domain service, and relays responses verbatim.
package gateway

import (
	"context"
	"strconv"
	"strings"
	"time"

	"parley/internal/config"
	"parley/internal/middleware"
	"parley/internal/models"
	"parley/internal/observability"
	"parley/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"github.com/redis/go-redis/v9"
)

// forwardTimeout bounds a single forward attempt. There are no retries: an
// unreachable target yields exactly one 502.
const forwardTimeout = 5 * time.Second

// Route maps a path prefix to a target service.
type Route struct {
	Prefix string
	Target string
	Name   string
}

// Server is the gateway. It holds no per-request state beyond the static
// routing table and the shared secret.
type Server struct {
	config *config.Config
	redis  *redis.Client
	routes []Route
}

// NewServer creates a gateway server with the routing table derived from
// configuration. rdb may be nil; token revocation checks are then skipped.
func NewServer(cfg *config.Config, rdb *redis.Client) *Server {
	return &Server{
		config: cfg,
		redis:  rdb,
		routes: []Route{
			{Prefix: "/login", Target: cfg.UserServiceURL, Name: "user"},
			{Prefix: "/logout", Target: cfg.UserServiceURL, Name: "user"},
			{Prefix: "/users", Target: cfg.UserServiceURL, Name: "user"},
			{Prefix: "/discussions", Target: cfg.DiscussionServiceURL, Name: "discussion"},
			{Prefix: "/comments", Target: cfg.CommentServiceURL, Name: "comment"},
			{Prefix: "/likes", Target: cfg.LikeServiceURL, Name: "like"},
			{Prefix: "/search", Target: cfg.SearchServiceURL, Name: "search"},
		},
	}
}

// SetupRoutes configures middleware, health endpoints and the catch-all
// proxy handler.
func (s *Server) SetupRoutes(app *fiber.App) {
	middleware.Setup(app, "api_gateway", s.config.TracingEnabled)

	app.Get("/health", s.Health)
	app.All("/*", s.Proxy)
}

// Health reports liveness.
func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

// resolve picks the target route for a path, or nil for unknown prefixes.
// Prefixes match on whole path segments: /users and /users/7 route to the
// user service, /usersfoo does not.
func (s *Server) resolve(path string) *Route {
	for i := range s.routes {
		r := &s.routes[i]
		if path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/") {
			return r
		}
	}
	return nil
}

// exempt reports whether the request may pass without a token:
// login and signup are the only ways to obtain one.
func exempt(method, path string) bool {
	if path == "/login" {
		return true
	}
	if method == fiber.MethodPost && path == "/users" {
		return true
	}
	return false
}

// Proxy is the per-request pipeline: Received -> Routed -> {Authenticated |
// Rejected} -> Forwarded -> Relayed. Terminal failures produce 404, 401 or
// 502 here; every other status is the target's and is relayed untouched.
func (s *Server) Proxy(c *fiber.Ctx) error {
	route := s.resolve(c.Path())
	if route == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: "Service not found"})
	}

	// the identity header is gateway-asserted, never client-supplied
	c.Request().Header.Del(middleware.UserIDHeader)

	if !exempt(c.Method(), c.Path()) {
		id, err := token.Verify(bearerToken(c), s.config.SecretKey, time.Now())
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}
		if s.revoked(c.Context(), id.JTI) {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Token has been revoked"))
		}

		c.Locals("userID", id.UserID)
		// forward the decoded identity for downstream logging
		c.Request().Header.Set(middleware.UserIDHeader, strconv.FormatUint(uint64(id.UserID), 10))
	}

	return s.forward(c, route)
}

// forward reissues the request to the target, preserving method, query
// string and body, and relays the response byte-for-byte. A transport
// failure maps to 502 with no retry.
func (s *Server) forward(c *fiber.Ctx, route *Route) error {
	url := route.Target + c.OriginalURL()

	if err := proxy.DoTimeout(c, url, forwardTimeout); err != nil {
		observability.GatewayForwards.WithLabelValues(route.Name, "error").Inc()
		return models.RespondWithError(c, fiber.StatusBadGateway, models.NewBadGatewayError(err))
	}

	observability.GatewayForwards.WithLabelValues(route.Name, "ok").Inc()
	// the proxied response is already written; strip the hop-added Server header
	c.Response().Header.Del(fiber.HeaderServer)
	return nil
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func (s *Server) revoked(ctx context.Context, jti string) bool {
	if jti == "" || s.redis == nil {
		return false
	}
	n, err := s.redis.Exists(ctx, "blacklist:"+jti).Result()
	return err == nil && n > 0
}
