// Package like implements the like service: likes over polymorphic targets
// (discussions and comments).
package like

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

// Server is the like service.
type Server struct {
	config *config.Config
	likes  *service.LikeService
	redis  *redis.Client
}

// NewServer creates the like service server.
func NewServer(cfg *config.Config, likes *service.LikeService, rdb *redis.Client) *Server {
	return &Server{config: cfg, likes: likes, redis: rdb}
}

// SetupRoutes configures middleware and routes on the app.
func (s *Server) SetupRoutes(app *fiber.App) {
	middleware.Setup(app, "like_service", s.config.TracingEnabled)

	app.Get("/health", s.Health)

	auth := middleware.AuthRequired(s.config.SecretKey, s.redis)
	app.Post("/likes", auth, middleware.RateLimit(s.redis, 30, time.Minute, "create_like"), s.Create)
	app.Get("/likes", auth, s.List)
	app.Delete("/likes/:id", auth, s.Delete)
}

// Health reports liveness.
func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

type likeRequest struct {
	EntityType string `json:"entity_type"`
	EntityID   uint   `json:"entity_id"`
}

// Create handles POST /likes. One like per user per target; a second like on
// the same target is a conflict.
func (s *Server) Create(c *fiber.Ctx) error {
	var req likeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondAppError(c, models.NewValidationError("Invalid request body"))
	}

	like, err := s.likes.Create(c.UserContext(), service.CreateLikeInput{
		UserID:     actorID(c),
		TargetKind: models.TargetKind(req.EntityType),
		TargetID:   req.EntityID,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// List handles GET /likes. With ?entity_type=&entity_id= it lists the likes
// on one target; without, it pages through all likes.
func (s *Server) List(c *fiber.Ctx) error {
	entityType := c.Query("entity_type")
	entityID := uint(c.QueryInt("entity_id", 0))

	if entityType != "" || entityID != 0 {
		likes, err := s.likes.ListByTarget(c.UserContext(), models.TargetKind(entityType), entityID)
		if err != nil {
			return models.RespondAppError(c, err)
		}
		return c.JSON(likes)
	}

	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	likes, err := s.likes.List(c.UserContext(), limit, offset)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(likes)
}

// Delete handles DELETE /likes/:id. Only the liker may remove it.
func (s *Server) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return models.RespondAppError(c, models.NewValidationError("Invalid ID"))
	}

	if err := s.likes.Delete(c.UserContext(), actorID(c), uint(id)); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Like removed successfully"})
}

func actorID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
