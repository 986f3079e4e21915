// Package discussion implements the discussion service: posts with hashtags,
// mirrored into the search index on every write.
package discussion

import (
	"strconv"
	"time"

	"parley/internal/config"
	"parley/internal/middleware"
	"parley/internal/models"
	"parley/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Server is the discussion service.
type Server struct {
	config      *config.Config
	discussions *service.DiscussionService
	redis       *redis.Client
}

// NewServer creates the discussion service server.
func NewServer(cfg *config.Config, discussions *service.DiscussionService, rdb *redis.Client) *Server {
	return &Server{config: cfg, discussions: discussions, redis: rdb}
}

// SetupRoutes configures middleware and routes on the app.
func (s *Server) SetupRoutes(app *fiber.App) {
	middleware.Setup(app, "discussion_service", s.config.TracingEnabled)

	app.Get("/health", s.Health)

	auth := middleware.AuthRequired(s.config.SecretKey, s.redis)
	app.Post("/discussions", auth, middleware.RateLimit(s.redis, 10, time.Minute, "create_discussion"), s.Create)
	app.Get("/discussions", auth, s.List)
	// specific routes before the generic /:id
	app.Get("/discussions/search", auth, s.Search)
	app.Get("/discussions/:id", auth, s.Get)
	app.Put("/discussions/:id", auth, s.Update)
	app.Delete("/discussions/:id", auth, s.Delete)
}

// Health reports liveness.
func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

type discussionRequest struct {
	Text     string `json:"text"`
	Image    string `json:"image"`
	Hashtags string `json:"hashtags"`
}

// Create handles POST /discussions.
func (s *Server) Create(c *fiber.Ctx) error {
	var req discussionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondAppError(c, models.NewValidationError("Invalid request body"))
	}

	discussion, err := s.discussions.Create(c.UserContext(), service.CreateDiscussionInput{
		UserID:   actorID(c),
		Text:     req.Text,
		Image:    req.Image,
		Hashtags: req.Hashtags,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(discussion)
}

// List handles GET /discussions, newest first. ?user_id= filters to one author.
func (s *Server) List(c *fiber.Ctx) error {
	userID := uint(c.QueryInt("user_id", 0))
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	discussions, err := s.discussions.List(c.UserContext(), userID, limit, offset)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(discussions)
}

// Search handles GET /discussions/search?text= — a SQL LIKE lookup; full-text
// search lives in the search service.
func (s *Server) Search(c *fiber.Ctx) error {
	discussions, err := s.discussions.SearchByText(c.UserContext(), c.Query("text"))
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(discussions)
}

// Get handles GET /discussions/:id.
func (s *Server) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	discussion, err := s.discussions.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(discussion)
}

// Update handles PUT /discussions/:id. Only the author may update.
func (s *Server) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	var req discussionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondAppError(c, models.NewValidationError("Invalid request body"))
	}

	discussion, err := s.discussions.Update(c.UserContext(), service.UpdateDiscussionInput{
		ActorID:      actorID(c),
		DiscussionID: id,
		Text:         req.Text,
		Image:        req.Image,
		Hashtags:     req.Hashtags,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(discussion)
}

// Delete handles DELETE /discussions/:id. Only the author may delete.
func (s *Server) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	if err := s.discussions.Delete(c.UserContext(), actorID(c), id); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Discussion deleted successfully"})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid ID")
	}
	return uint(id), nil
}

func actorID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
