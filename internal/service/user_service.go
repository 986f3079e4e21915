// Package service contains the business logic of the domain services:
// input validation and the "owner may only modify their own rows" rules.
// Handlers translate AppError codes to HTTP statuses.
package service

import (
	"context"
	"errors"
	"log/slog"

	"parley/internal/middleware"
	"parley/internal/models"
	"parley/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserIndexer mirrors user profile writes into the search index.
// Like discussion indexing it is best-effort.
type UserIndexer interface {
	IndexUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uint) error
}

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	indexer    UserIndexer
}

type SignupInput struct {
	Name     string
	Mobile   string
	Email    string
	Password string
}

type UpdateUserInput struct {
	ActorID  uint
	UserID   uint
	Name     string
	Mobile   string
	Email    string
	Password string
}

// NewUserService creates a new UserService. indexer may be nil, in which case
// search mirroring is disabled.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository, indexer UserIndexer) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo, indexer: indexer}
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if in.Name == "" || in.Email == "" || in.Mobile == "" || in.Password == "" {
		return nil, models.NewValidationError("Name, mobile_no, email, and password are required")
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     in.Name,
		Mobile:   in.Mobile,
		Email:    in.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("User already exists")
		}
		return nil, err
	}

	s.index(ctx, user)
	return user, nil
}

// Authenticate checks the credentials and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", id)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) SearchByName(ctx context.Context, name string) ([]*models.User, error) {
	if name == "" {
		return nil, models.NewValidationError("name query parameter is required")
	}
	return s.userRepo.SearchByName(ctx, name)
}

func (s *UserService) Update(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	user, err := s.Get(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user.ID != in.ActorID {
		return nil, models.NewForbiddenError("You can only update your own account")
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Mobile != "" {
		user.Mobile = in.Mobile
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.Password != "" {
		if len(in.Password) < 8 {
			return nil, models.NewValidationError("Password must be at least 8 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Email or mobile already in use")
		}
		return nil, err
	}

	s.index(ctx, user)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actorID, userID uint) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.ID != actorID {
		return models.NewForbiddenError("You can only delete your own account")
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.DeleteUser(ctx, userID); err != nil {
			middleware.Logger.WarnContext(ctx, "search index delete failed",
				slog.Uint64("user_id", uint64(userID)),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

func (s *UserService) index(ctx context.Context, u *models.User) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexUser(ctx, u); err != nil {
		middleware.Logger.WarnContext(ctx, "search index write failed",
			slog.Uint64("user_id", uint64(u.ID)),
			slog.String("error", err.Error()),
		)
	}
}

// Follow makes follower follow followee.
func (s *UserService) Follow(ctx context.Context, followerID, followeeID uint) (*models.Follow, error) {
	if followerID == followeeID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.Get(ctx, followeeID); err != nil {
		return nil, err
	}

	existing, err := s.followRepo.Get(ctx, followerID, followeeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Already following this user")
	}

	follow := &models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Already following this user")
		}
		return nil, err
	}
	return follow, nil
}

func (s *UserService) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	existing, err := s.followRepo.Get(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if existing == nil {
		return models.NewNotFoundError("Follow", followeeID)
	}
	return s.followRepo.Delete(ctx, followerID, followeeID)
}

func (s *UserService) Followers(ctx context.Context, userID uint) ([]*models.User, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, userID)
}

func (s *UserService) Following(ctx context.Context, userID uint) ([]*models.User, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, userID)
}
