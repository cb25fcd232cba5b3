package service

import (
	"context"
	"time"

	"innovalley/internal/models"
	"innovalley/internal/observability"
	"innovalley/internal/repository"
	"innovalley/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	now         func() time.Time
}

type CreateCommentInput struct {
	PostID  uint
	Content string
}

type DeleteCommentInput struct {
	PostID    uint
	CommentID uint
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		now:         time.Now,
	}
}

// CreateComment appends a comment to a post. The post is not looked up
// first; a missing post surfaces from the store as not found.
func (s *CommentService) CreateComment(ctx context.Context, actor *models.Identity, in CreateCommentInput) (*models.Comment, error) {
	if actor == nil {
		return nil, models.ErrLoginRequired
	}
	if err := validation.ValidateCommentContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment := &models.Comment{
		PostID:    in.PostID,
		Username:  actor.Username,
		Role:      actor.Role,
		Content:   in.Content,
		CreatedAt: s.now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.BoardWritesTotal.WithLabelValues("comment", "create").Inc()
	return comment, nil
}

// ListComments returns the comments of an already loaded post, oldest first.
func (s *CommentService) ListComments(ctx context.Context, post *models.Post) ([]*models.Comment, error) {
	if post == nil {
		return nil, models.NewNotFoundError("Post", 0)
	}
	return s.commentRepo.ListByPost(ctx, post.ID)
}

// DeleteComment removes one owned comment. The comment must belong to the
// given post; a comment under a different post is reported as not found.
func (s *CommentService) DeleteComment(ctx context.Context, actor *models.Identity, in DeleteCommentInput) error {
	if actor == nil {
		return models.ErrLoginRequired
	}

	comment, err := s.commentRepo.GetInPost(ctx, in.PostID, in.CommentID)
	if err != nil {
		return err
	}
	if !actor.Owns(comment.Username) {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	deleted, err := s.commentRepo.DeleteOwned(ctx, in.PostID, in.CommentID, actor.Username)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("Comment", in.CommentID)
	}
	observability.BoardWritesTotal.WithLabelValues("comment", "delete").Inc()
	return nil
}
