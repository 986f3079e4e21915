package repository

import (
	"context"
	"errors"

	"parley/internal/models"

	"gorm.io/gorm"
)

// DiscussionRepository defines interface for discussion operations
type DiscussionRepository interface {
	Create(ctx context.Context, discussion *models.Discussion) error
	GetByID(ctx context.Context, id uint) (*models.Discussion, error)
	List(ctx context.Context, userID uint, limit, offset int) ([]*models.Discussion, error)
	SearchByText(ctx context.Context, text string) ([]*models.Discussion, error)
	Update(ctx context.Context, discussion *models.Discussion) error
	Delete(ctx context.Context, id uint) error
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository creates a new DiscussionRepository
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) Create(ctx context.Context, discussion *models.Discussion) error {
	return r.db.WithContext(ctx).Create(discussion).Error
}

func (r *discussionRepository) GetByID(ctx context.Context, id uint) (*models.Discussion, error) {
	var discussion models.Discussion
	if err := r.db.WithContext(ctx).Preload("User").First(&discussion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discussion, nil
}

// List returns discussions newest first; userID 0 means all users.
func (r *discussionRepository) List(ctx context.Context, userID uint, limit, offset int) ([]*models.Discussion, error) {
	q := r.db.WithContext(ctx).Preload("User").Order("created_at desc").Limit(limit).Offset(offset)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var discussions []*models.Discussion
	err := q.Find(&discussions).Error
	return discussions, err
}

func (r *discussionRepository) SearchByText(ctx context.Context, text string) ([]*models.Discussion, error) {
	var discussions []*models.Discussion
	err := r.db.WithContext(ctx).
		Where("text LIKE ?", "%"+text+"%").
		Order("created_at desc").
		Find(&discussions).Error
	return discussions, err
}

func (r *discussionRepository) Update(ctx context.Context, discussion *models.Discussion) error {
	return r.db.WithContext(ctx).Save(discussion).Error
}

func (r *discussionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Discussion{}, id).Error
}
