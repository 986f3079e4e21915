package repository

import (
	"context"
	"errors"

	"parley/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicateLike is returned when a user likes the same target twice.
var ErrDuplicateLike = errors.New("like already exists")

// LikeRepository defines interface for like and target-entity operations.
type LikeRepository interface {
	// ResolveTarget returns the target entity row for (kind, targetID),
	// creating it if it does not exist yet.
	ResolveTarget(ctx context.Context, kind models.TargetKind, targetID uint) (*models.TargetEntity, error)
	Create(ctx context.Context, like *models.Like) error
	GetByID(ctx context.Context, id uint) (*models.Like, error)
	ListByTarget(ctx context.Context, targetEntityID uint) ([]*models.Like, error)
	List(ctx context.Context, limit, offset int) ([]*models.Like, error)
	Delete(ctx context.Context, id uint) error
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) ResolveTarget(ctx context.Context, kind models.TargetKind, targetID uint) (*models.TargetEntity, error) {
	var entity models.TargetEntity
	err := r.db.WithContext(ctx).
		Where(models.TargetEntity{Kind: kind, TargetID: targetID}).
		FirstOrCreate(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	err := r.db.WithContext(ctx).Create(like).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateLike
	}
	return err
}

func (r *likeRepository) GetByID(ctx context.Context, id uint) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).Preload("TargetEntity").First(&like, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) ListByTarget(ctx context.Context, targetEntityID uint) ([]*models.Like, error) {
	var likes []*models.Like
	err := r.db.WithContext(ctx).
		Where("target_entity_id = ?", targetEntityID).
		Order("created_at desc").
		Find(&likes).Error
	return likes, err
}

func (r *likeRepository) List(ctx context.Context, limit, offset int) ([]*models.Like, error) {
	var likes []*models.Like
	err := r.db.WithContext(ctx).Preload("TargetEntity").
		Order("created_at desc").Limit(limit).Offset(offset).
		Find(&likes).Error
	return likes, err
}

func (r *likeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Like{}, id).Error
}
