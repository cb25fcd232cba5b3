// Package service holds the board, account and chat workflows. Handlers pass
// the session identity in explicitly; a nil identity means anonymous.
package service

import (
	"context"
	"time"

	"innovalley/internal/models"
	"innovalley/internal/observability"
	"innovalley/internal/repository"
	"innovalley/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

type CreatePostInput struct {
	Title   string
	Content string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo, now: time.Now}
}

// CreatePost stores a post stamped with the actor's username and role.
func (s *PostService) CreatePost(ctx context.Context, actor *models.Identity, in CreatePostInput) (*models.Post, error) {
	if actor == nil {
		return nil, models.ErrLoginRequired
	}
	if err := validation.ValidatePostInput(in.Title, in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		Username:  actor.Username,
		Role:      actor.Role,
		CreatedAt: s.now(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.BoardWritesTotal.WithLabelValues("post", "create").Inc()
	return post, nil
}

// ListPosts returns every post, newest first, with live comment counts.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// DeletePost removes an owned post together with its comments.
func (s *PostService) DeletePost(ctx context.Context, actor *models.Identity, postID uint) error {
	if actor == nil {
		return models.ErrLoginRequired
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !actor.Owns(post.Username) {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	deleted, err := s.postRepo.DeleteOwned(ctx, postID, actor.Username)
	if err != nil {
		return err
	}
	if !deleted {
		// Removed by a concurrent request after the lookup.
		return models.NewNotFoundError("Post", postID)
	}
	observability.BoardWritesTotal.WithLabelValues("post", "delete").Inc()
	return nil
}
