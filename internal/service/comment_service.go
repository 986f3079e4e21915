package service

import (
	"context"

	"parley/internal/models"
	"parley/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
}

type CreateCommentInput struct {
	UserID       uint
	DiscussionID uint
	Text         string
}

type UpdateCommentInput struct {
	ActorID   uint
	CommentID uint
	Text      string
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(in.Text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}
	if in.DiscussionID == 0 {
		return nil, models.NewValidationError("discussion_id is required")
	}

	comment := &models.Comment{
		Text:         in.Text,
		DiscussionID: in.DiscussionID,
		UserID:       in.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, models.NewNotFoundError("Comment", id)
	}
	return comment, nil
}

func (s *CommentService) List(ctx context.Context, discussionID uint, limit, offset int) ([]*models.Comment, error) {
	if discussionID != 0 {
		return s.commentRepo.ListByDiscussion(ctx, discussionID)
	}
	return s.commentRepo.List(ctx, limit, offset)
}

func (s *CommentService) Update(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.Get(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != in.ActorID {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, actorID, commentID uint) error {
	comment, err := s.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != actorID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
