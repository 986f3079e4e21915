package service

import (
	"context"
	"errors"

	"parley/internal/models"
	"parley/internal/repository"
)

type LikeService struct {
	likeRepo repository.LikeRepository
}

type CreateLikeInput struct {
	UserID     uint
	TargetKind models.TargetKind
	TargetID   uint
}

func NewLikeService(likeRepo repository.LikeRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo}
}

// Create records a like. One like per user per target: a duplicate yields a
// CONFLICT error, backed by the unique index on (target_entity_id, user_id).
func (s *LikeService) Create(ctx context.Context, in CreateLikeInput) (*models.Like, error) {
	if !in.TargetKind.Valid() {
		return nil, models.NewValidationError("entity_type must be \"discussion\" or \"comment\"")
	}
	if in.TargetID == 0 {
		return nil, models.NewValidationError("entity_id is required")
	}

	target, err := s.likeRepo.ResolveTarget(ctx, in.TargetKind, in.TargetID)
	if err != nil {
		return nil, err
	}

	like := &models.Like{TargetEntityID: target.ID, UserID: in.UserID}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		if errors.Is(err, repository.ErrDuplicateLike) {
			return nil, models.NewConflictError("You already liked this")
		}
		return nil, err
	}
	like.TargetEntity = *target
	return like, nil
}

// ListByTarget returns the likes on (kind, targetID), newest first.
func (s *LikeService) ListByTarget(ctx context.Context, kind models.TargetKind, targetID uint) ([]*models.Like, error) {
	if !kind.Valid() {
		return nil, models.NewValidationError("entity_type must be \"discussion\" or \"comment\"")
	}
	if targetID == 0 {
		return nil, models.NewValidationError("entity_id is required")
	}
	target, err := s.likeRepo.ResolveTarget(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}
	return s.likeRepo.ListByTarget(ctx, target.ID)
}

func (s *LikeService) List(ctx context.Context, limit, offset int) ([]*models.Like, error) {
	return s.likeRepo.List(ctx, limit, offset)
}

func (s *LikeService) Delete(ctx context.Context, actorID, likeID uint) error {
	like, err := s.likeRepo.GetByID(ctx, likeID)
	if err != nil {
		return err
	}
	if like == nil {
		return models.NewNotFoundError("Like", likeID)
	}
	if like.UserID != actorID {
		return models.NewForbiddenError("You can only remove your own likes")
	}
	return s.likeRepo.Delete(ctx, likeID)
}
