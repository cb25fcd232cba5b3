package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"innovalley/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("anonymous is sent to login", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.createFn = func(_ context.Context, _ *models.Post) error {
			t.Fatal("no write for anonymous actor")
			return nil
		}
		_, err := NewPostService(repo).CreatePost(ctx, nil, CreatePostInput{Title: "Hello", Content: "World"})
		assert.ErrorIs(t, err, models.ErrLoginRequired)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo())
		_, err := svc.CreatePost(ctx, alice, CreatePostInput{Content: "World"})
		assertValidationError(t, err)
		_, err = svc.CreatePost(ctx, alice, CreatePostInput{Title: "Hello"})
		assertValidationError(t, err)
	})

	t.Run("stamps author snapshot and time", func(t *testing.T) {
		t.Parallel()
		fixed := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
		var stored *models.Post
		repo := noopPostRepo()
		repo.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 7
			stored = p
			return nil
		}
		svc := NewPostService(repo)
		svc.now = func() time.Time { return fixed }

		post, err := svc.CreatePost(ctx, alice, CreatePostInput{Title: "Hello", Content: "World"})
		require.NoError(t, err)
		assert.Same(t, stored, post)
		assert.Equal(t, "alice", post.Username)
		assert.Equal(t, "farmer", post.Role)
		assert.Equal(t, fixed, post.CreatedAt)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ownedByAlice := func() *postRepoStub {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Username: "alice"}, nil
		}
		return repo
	}

	tests := []struct {
		name      string
		actor     *models.Identity
		repo      func() *postRepoStub
		wantErr   error
		wantCode  string
		wantOwner string
	}{
		{
			name:    "anonymous",
			actor:   nil,
			repo:    ownedByAlice,
			wantErr: models.ErrLoginRequired,
		},
		{
			name:  "missing post",
			actor: alice,
			repo: func() *postRepoStub {
				repo := noopPostRepo()
				repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
					return nil, models.NewNotFoundError("Post", id)
				}
				return repo
			},
			wantCode: models.CodeNotFound,
		},
		{
			name:     "not the owner",
			actor:    bob,
			repo:     ownedByAlice,
			wantCode: models.CodeForbidden,
		},
		{
			name:  "deleted concurrently",
			actor: alice,
			repo: func() *postRepoStub {
				repo := ownedByAlice()
				repo.deleteOwnedFn = func(_ context.Context, _ uint, _ string) (bool, error) { return false, nil }
				return repo
			},
			wantCode: models.CodeNotFound,
		},
		{
			name:      "owner",
			actor:     alice,
			repo:      ownedByAlice,
			wantOwner: "alice",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := tt.repo()
			var deletedBy string
			inner := repo.deleteOwnedFn
			repo.deleteOwnedFn = func(ctx context.Context, id uint, username string) (bool, error) {
				deletedBy = username
				return inner(ctx, id, username)
			}

			err := NewPostService(repo).DeletePost(ctx, tt.actor, 1)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != "":
				assertAppError(t, err, tt.wantCode)
			default:
				require.NoError(t, err)
			}
			if tt.wantCode == models.CodeForbidden || tt.wantErr != nil {
				assert.Empty(t, deletedBy, "no delete attempted")
			}
			if tt.wantOwner != "" {
				assert.Equal(t, tt.wantOwner, deletedBy)
			}
		})
	}
}

func TestPostService_DeletePost_RepoError(t *testing.T) {
	t.Parallel()
	repoErr := models.NewInternalError(errors.New("db down"))
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, Username: "alice"}, nil
	}
	repo.deleteOwnedFn = func(_ context.Context, _ uint, _ string) (bool, error) { return false, repoErr }

	err := NewPostService(repo).DeletePost(context.Background(), alice, 1)
	assert.ErrorIs(t, err, repoErr)
}
