// Package user implements the user service: accounts, credentials and the
// follow graph.
package user

import (
	"strconv"
	"time"

	"parley/internal/config"
	"parley/internal/middleware"
	"parley/internal/models"
	"parley/internal/service"
	"parley/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Server is the user service.
type Server struct {
	config *config.Config
	users  *service.UserService
	redis  *redis.Client
}

// NewServer creates the user service server. rdb may be nil; rate limiting
// and logout are then disabled.
func NewServer(cfg *config.Config, users *service.UserService, rdb *redis.Client) *Server {
	return &Server{config: cfg, users: users, redis: rdb}
}

// SetupRoutes configures middleware and routes on the app.
func (s *Server) SetupRoutes(app *fiber.App) {
	middleware.Setup(app, "user_service", s.config.TracingEnabled)

	app.Get("/health", s.Health)

	app.Post("/users", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	app.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	auth := middleware.AuthRequired(s.config.SecretKey, s.redis)
	app.Post("/logout", auth, s.Logout)

	app.Get("/users", auth, s.List)
	// specific routes before the generic /:id
	app.Get("/users/search", auth, s.Search)
	app.Get("/users/:id/followers", auth, s.Followers)
	app.Get("/users/:id/following", auth, s.Following)
	app.Post("/users/:id/follow", auth, s.Follow)
	app.Delete("/users/:id/follow", auth, s.Unfollow)
	app.Get("/users/:id", auth, s.Get)
	app.Put("/users/:id", auth, s.Update)
	app.Delete("/users/:id", auth, s.Delete)
}

// Health reports liveness.
func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

type signupRequest struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile_no"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /users.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondAppError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.users.Signup(c.UserContext(), service.SignupInput{
		Name:     req.Name,
		Mobile:   req.Mobile,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login: credentials in, signed bearer token out.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondAppError(c, models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return models.RespondAppError(c, models.NewValidationError("Email and password are required"))
	}

	user, err := s.users.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	raw, err := token.Sign(s.config.SecretKey, user.ID, user.Name, time.Now())
	if err != nil {
		return models.RespondAppError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"token": raw, "user": user})
}

// Logout handles POST /logout: the token's jti goes on the blacklist until
// the token would have expired anyway.
func (s *Server) Logout(c *fiber.Ctx) error {
	jti, _ := c.Locals("tokenJTI").(string)
	if jti != "" && s.redis != nil {
		if err := s.redis.Set(c.Context(), "blacklist:"+jti, "revoked", token.TTL).Err(); err != nil {
			return models.RespondAppError(c, models.NewInternalError(err))
		}
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// List handles GET /users.
func (s *Server) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	users, err := s.users.List(c.UserContext(), limit, offset)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(users)
}

// Search handles GET /users/search?name= — a SQL LIKE lookup; full-text user
// search lives in the search service.
func (s *Server) Search(c *fiber.Ctx) error {
	users, err := s.users.SearchByName(c.UserContext(), c.Query("name"))
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(users)
}

// Get handles GET /users/:id.
func (s *Server) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	user, err := s.users.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(user)
}

type updateUserRequest struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile_no"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Update handles PUT /users/:id. Only the owner may update.
func (s *Server) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondAppError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.users.Update(c.UserContext(), service.UpdateUserInput{
		ActorID:  actorID(c),
		UserID:   id,
		Name:     req.Name,
		Mobile:   req.Mobile,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(user)
}

// Delete handles DELETE /users/:id. Only the owner may delete.
func (s *Server) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	if err := s.users.Delete(c.UserContext(), actorID(c), id); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// Follow handles POST /users/:id/follow: the caller follows :id.
func (s *Server) Follow(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	follow, err := s.users.Follow(c.UserContext(), actorID(c), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(follow)
}

// Unfollow handles DELETE /users/:id/follow.
func (s *Server) Unfollow(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	if err := s.users.Unfollow(c.UserContext(), actorID(c), id); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unfollowed successfully"})
}

// Followers handles GET /users/:id/followers.
func (s *Server) Followers(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	users, err := s.users.Followers(c.UserContext(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(users)
}

// Following handles GET /users/:id/following.
func (s *Server) Following(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	users, err := s.users.Following(c.UserContext(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(users)
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
