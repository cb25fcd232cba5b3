package repository

import (
	"context"
	"errors"

	"innovalley/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	DeleteOwned(ctx context.Context, id uint, username string) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// errNotOwned rolls back a delete transaction whose owner-keyed delete matched nothing.
var errNotOwned = errors.New("no owned row matched")

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := applyCommentCount(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// List returns every post, newest first, with live comment counts.
func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := applyCommentCount(r.db.WithContext(ctx)).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// DeleteOwned removes post id and all of its comments in one transaction,
// but only while the post still belongs to username. It reports false when
// no such post exists at delete time.
func (r *postRepository) DeleteOwned(ctx context.Context, id uint, username string) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Post{}).Select("id").Where("id = ? AND username = ?", id, username)
		if err := tx.Where("post_id = ? AND post_id IN (?)", id, owned).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND username = ?", id, username).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotOwned
		}
		return nil
	})
	if errors.Is(err, errNotOwned) {
		return false, nil
	}
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}

// applyCommentCount selects the live number of comments alongside each post.
func applyCommentCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count")
}
