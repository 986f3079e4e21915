// Package comment implements the comment service: replies attached to
// discussions.
package comment

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

// Server is the comment service.
type Server struct {
	config   *config.Config
	comments *service.CommentService
	redis    *redis.Client
}

// NewServer creates the comment service server.
func NewServer(cfg *config.Config, comments *service.CommentService, rdb *redis.Client) *Server {
	return &Server{config: cfg, comments: comments, redis: rdb}
}

// SetupRoutes configures middleware and routes on the app.
func (s *Server) SetupRoutes(app *fiber.App) {
	middleware.Setup(app, "comment_service", s.config.TracingEnabled)

	app.Get("/health", s.Health)

	auth := middleware.AuthRequired(s.config.SecretKey, s.redis)
	app.Post("/comments", auth, middleware.RateLimit(s.redis, 15, time.Minute, "create_comment"), s.Create)
	app.Get("/comments", auth, s.List)
	app.Get("/comments/:id", auth, s.Get)
	app.Put("/comments/:id", auth, s.Update)
	app.Delete("/comments/:id", auth, s.Delete)
}

// Health reports liveness.
func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

type commentRequest struct {
	Text         string `json:"text"`
	DiscussionID uint   `json:"discussion_id"`
}

// Create handles POST /comments.
func (s *Server) Create(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondAppError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.comments.Create(c.UserContext(), service.CreateCommentInput{
		UserID:       actorID(c),
		DiscussionID: req.DiscussionID,
		Text:         req.Text,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// List handles GET /comments. ?discussion_id= narrows to one discussion.
func (s *Server) List(c *fiber.Ctx) error {
	discussionID := uint(c.QueryInt("discussion_id", 0))
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	comments, err := s.comments.List(c.UserContext(), discussionID, limit, offset)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(comments)
}

// Get handles GET /comments/:id.
func (s *Server) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	comment, err := s.comments.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(comment)
}

// Update handles PUT /comments/:id. Only the author may update.
func (s *Server) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondAppError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.comments.Update(c.UserContext(), service.UpdateCommentInput{
		ActorID:   actorID(c),
		CommentID: id,
		Text:      req.Text,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(comment)
}

// Delete handles DELETE /comments/:id. Only the author may delete.
func (s *Server) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	if err := s.comments.Delete(c.UserContext(), actorID(c), id); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
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
