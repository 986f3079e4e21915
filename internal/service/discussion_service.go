package service

import (
	"context"
	"log/slog"

	"parley/internal/middleware"
	"parley/internal/models"
	"parley/internal/repository"
)

const maxDiscussionLen = 10000

// DiscussionIndexer mirrors discussion writes into the search index.
// Indexing is best-effort: failures are logged and counted, never surfaced.
type DiscussionIndexer interface {
	IndexDiscussion(ctx context.Context, d *models.Discussion) error
	DeleteDiscussion(ctx context.Context, id uint) error
}

type DiscussionService struct {
	discussionRepo repository.DiscussionRepository
	indexer        DiscussionIndexer
}

type CreateDiscussionInput struct {
	UserID   uint
	Text     string
	Image    string
	Hashtags string
}

type UpdateDiscussionInput struct {
	ActorID      uint
	DiscussionID uint
	Text         string
	Image        string
	Hashtags     string
}

// NewDiscussionService creates a new DiscussionService. indexer may be nil,
// in which case search mirroring is disabled.
func NewDiscussionService(discussionRepo repository.DiscussionRepository, indexer DiscussionIndexer) *DiscussionService {
	return &DiscussionService{discussionRepo: discussionRepo, indexer: indexer}
}

func (s *DiscussionService) Create(ctx context.Context, in CreateDiscussionInput) (*models.Discussion, error) {
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(in.Text) > maxDiscussionLen {
		return nil, models.NewValidationError("Text too long (max 10000 characters)")
	}

	discussion := &models.Discussion{
		Text:     in.Text,
		Image:    in.Image,
		Hashtags: in.Hashtags,
		UserID:   in.UserID,
	}
	if err := s.discussionRepo.Create(ctx, discussion); err != nil {
		return nil, err
	}

	s.index(ctx, discussion)
	return discussion, nil
}

func (s *DiscussionService) Get(ctx context.Context, id uint) (*models.Discussion, error) {
	discussion, err := s.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if discussion == nil {
		return nil, models.NewNotFoundError("Discussion", id)
	}
	return discussion, nil
}

// List returns discussions newest first; userID 0 means all users.
func (s *DiscussionService) List(ctx context.Context, userID uint, limit, offset int) ([]*models.Discussion, error) {
	return s.discussionRepo.List(ctx, userID, limit, offset)
}

func (s *DiscussionService) SearchByText(ctx context.Context, text string) ([]*models.Discussion, error) {
	if text == "" {
		return nil, models.NewValidationError("text query parameter is required")
	}
	return s.discussionRepo.SearchByText(ctx, text)
}

func (s *DiscussionService) Update(ctx context.Context, in UpdateDiscussionInput) (*models.Discussion, error) {
	discussion, err := s.Get(ctx, in.DiscussionID)
	if err != nil {
		return nil, err
	}
	if discussion.UserID != in.ActorID {
		return nil, models.NewForbiddenError("You can only update your own discussions")
	}

	if in.Text != "" {
		if len(in.Text) > maxDiscussionLen {
			return nil, models.NewValidationError("Text too long (max 10000 characters)")
		}
		discussion.Text = in.Text
	}
	if in.Image != "" {
		discussion.Image = in.Image
	}
	if in.Hashtags != "" {
		discussion.Hashtags = in.Hashtags
	}

	if err := s.discussionRepo.Update(ctx, discussion); err != nil {
		return nil, err
	}

	s.index(ctx, discussion)
	return discussion, nil
}

func (s *DiscussionService) Delete(ctx context.Context, actorID, discussionID uint) error {
	discussion, err := s.Get(ctx, discussionID)
	if err != nil {
		return err
	}
	if discussion.UserID != actorID {
		return models.NewForbiddenError("You can only delete your own discussions")
	}

	if err := s.discussionRepo.Delete(ctx, discussionID); err != nil {
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.DeleteDiscussion(ctx, discussionID); err != nil {
			middleware.Logger.WarnContext(ctx, "search index delete failed",
				slog.Uint64("discussion_id", uint64(discussionID)),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

func (s *DiscussionService) index(ctx context.Context, d *models.Discussion) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexDiscussion(ctx, d); err != nil {
		middleware.Logger.WarnContext(ctx, "search index write failed",
			slog.Uint64("discussion_id", uint64(d.ID)),
			slog.String("error", err.Error()),
		)
	}
}
