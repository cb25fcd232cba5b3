package service

import (
	"context"
	"errors"
	"testing"

	"innovalley/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// plainHasher keeps tests fast; bcrypt is covered separately.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Verify(hash, password string) bool    { return hash == "hashed:"+password }

func TestBcryptHasher(t *testing.T) {
	t.Parallel()
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("pw1")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", hash)
	assert.True(t, h.Verify(hash, "pw1"))
	assert.False(t, h.Verify(hash, "pw2"))
	assert.False(t, h.Verify("not-a-hash", "pw1"))
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	valid := RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw1", Role: "farmer"}

	t.Run("stores hashed password", func(t *testing.T) {
		t.Parallel()
		var stored *models.User
		repo := noopUserRepo()
		repo.createFn = func(_ context.Context, u *models.User) error {
			stored = u
			return nil
		}

		user, err := NewAuthService(repo, plainHasher{}).Register(ctx, valid)
		require.NoError(t, err)
		assert.Same(t, stored, user)
		assert.Equal(t, "hashed:pw1", user.Password)
		assert.Equal(t, "farmer", user.Role)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(noopUserRepo(), plainHasher{})
		for _, in := range []RegisterInput{
			{Email: "a@x.com", Password: "pw1", Role: "farmer"},
			{Username: "alice", Email: "not-an-email", Password: "pw1", Role: "farmer"},
			{Username: "alice", Email: "a@x.com", Role: "farmer"},
			{Username: "alice", Email: "a@x.com", Password: "pw1"},
		} {
			_, err := svc.Register(ctx, in)
			assertValidationError(t, err)
		}
	})

	t.Run("taken username or email", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.existsFn = func(_ context.Context, _, _ string) (bool, error) { return true, nil }
		repo.createFn = func(_ context.Context, _ *models.User) error {
			t.Fatal("no insert after conflict")
			return nil
		}
		_, err := NewAuthService(repo, plainHasher{}).Register(ctx, valid)
		assertAppError(t, err, models.CodeConflict)
	})

	t.Run("unique index race", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.createFn = func(_ context.Context, _ *models.User) error {
			return models.NewConflictError("Username or email already registered")
		}
		_, err := NewAuthService(repo, plainHasher{}).Register(ctx, valid)
		assertAppError(t, err, models.CodeConflict)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		if email != "a@x.com" {
			return nil, models.NewNotFoundError("User", email)
		}
		return &models.User{Username: "alice", Email: email, Password: "hashed:pw1", Role: "farmer"}, nil
	}
	svc := NewAuthService(repo, plainHasher{})

	id, err := svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, &models.Identity{Username: "alice", Email: "a@x.com", Role: "farmer"}, id)

	_, wrongPassword := svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "nope"})
	_, unknownEmail := svc.Login(ctx, LoginInput{Email: "z@x.com", Password: "pw1"})
	_, empty := svc.Login(ctx, LoginInput{})

	for _, err := range []error{wrongPassword, unknownEmail, empty} {
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error(), "failures are indistinguishable")
}

func TestAuthService_Login_StoreError(t *testing.T) {
	t.Parallel()
	dbErr := models.NewInternalError(errors.New("db down"))
	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) { return nil, dbErr }

	_, err := NewAuthService(repo, plainHasher{}).Login(context.Background(), LoginInput{Email: "a@x.com", Password: "pw1"})
	assert.ErrorIs(t, err, dbErr)
}
