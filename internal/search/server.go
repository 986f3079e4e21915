package search

import (
	"time"

	"parley/internal/config"
	"parley/internal/middleware"
	"parley/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Server is the search service: read-only queries over the search index.
type Server struct {
	config *config.Config
	client *Client
	redis  *redis.Client
}

// NewServer creates the search service server.
func NewServer(cfg *config.Config, client *Client, rdb *redis.Client) *Server {
	return &Server{config: cfg, client: client, redis: rdb}
}

// SetupRoutes configures middleware and routes on the app.
func (s *Server) SetupRoutes(app *fiber.App) {
	middleware.Setup(app, "search_service", s.config.TracingEnabled)

	app.Get("/health", s.Health)

	limited := middleware.RateLimit(s.redis, 30, time.Minute, "search")
	app.Get("/search", limited, s.SearchDiscussions)
	app.Get("/search/hashtags", limited, s.SearchHashtags)
	app.Get("/search/users", limited, s.SearchUsers)
}

// Health reports liveness.
func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

// SearchDiscussions handles GET /search?q= — free text over discussion text.
func (s *Server) SearchDiscussions(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		// the original exposed ?query=; keep accepting it
		q = c.Query("query")
	}
	if q == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("q query parameter is required"))
	}

	hits, err := s.client.SearchDiscussions(c.UserContext(), q)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	return c.JSON(hits)
}

// SearchHashtags handles GET /search/hashtags?tag= — exact hashtag match.
func (s *Server) SearchHashtags(c *fiber.Ctx) error {
	tag := c.Query("tag")
	if tag == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("tag query parameter is required"))
	}

	hits, err := s.client.SearchHashtag(c.UserContext(), tag)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	return c.JSON(hits)
}

// SearchUsers handles GET /search/users?name= — free text over user names.
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("name query parameter is required"))
	}

	hits, err := s.client.SearchUsers(c.UserContext(), name)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	return c.JSON(hits)
}
