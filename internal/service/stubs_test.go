package service

import (
	"context"
	"errors"
	"testing"

	"innovalley/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = &models.Identity{Username: "alice", Email: "a@x.com", Role: "farmer"}
	bob   = &models.Identity{Username: "bob", Email: "b@x.com", Role: "researcher"}
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.Post) error
	getByIDFn     func(context.Context, uint) (*models.Post, error)
	listFn        func(context.Context) ([]*models.Post, error)
	deleteOwnedFn func(context.Context, uint, string) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]*models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) DeleteOwned(ctx context.Context, id uint, username string) (bool, error) {
	return s.deleteOwnedFn(ctx, id, username)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:      func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:        func(_ context.Context) ([]*models.Post, error) { return nil, nil },
		deleteOwnedFn: func(_ context.Context, _ uint, _ string) (bool, error) { return true, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getInPostFn   func(context.Context, uint, uint) (*models.Comment, error)
	listByPostFn  func(context.Context, uint) ([]*models.Comment, error)
	deleteOwnedFn func(context.Context, uint, uint, string) (bool, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetInPost(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	return s.getInPostFn(ctx, postID, commentID)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) DeleteOwned(ctx context.Context, postID, commentID uint, username string) (bool, error) {
	return s.deleteOwnedFn(ctx, postID, commentID, username)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getInPostFn: func(_ context.Context, postID, commentID uint) (*models.Comment, error) {
			return &models.Comment{ID: commentID, PostID: postID}, nil
		},
		listByPostFn:  func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		deleteOwnedFn: func(_ context.Context, _, _ uint, _ string) (bool, error) { return true, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByEmailFn func(context.Context, string) (*models.User, error)
	existsFn     func(context.Context, string, string) (bool, error)
	createFn     func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	return s.existsFn(ctx, username, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", email)
		},
		existsFn: func(_ context.Context, _, _ string) (bool, error) { return false, nil },
		createFn: func(_ context.Context, _ *models.User) error { return nil },
	}
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}
