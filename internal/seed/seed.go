// Package seed fills a database with demo users, posts and comments for
// development and testing.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"innovalley/internal/middleware"
	"innovalley/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

var roles = []string{"farmer", "researcher", "startup", "resident", "trainee"}

// Options configuration for the seeder
type Options struct {
	NumUsers           int
	NumPosts           int
	MaxCommentsPerPost int
	MaxDays            int
	ShouldClean        bool
}

// Seeder writes demo data through GORM.
type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	rng   *rand.Rand
	now   func() time.Time
}

// NewSeeder returns a Seeder. A non-zero seed makes the generated content
// reproducible.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{
		db:    db,
		faker: gofakeit.New(seed),
		rng:   rand.New(rand.NewSource(seed)),
		now:   time.Now,
	}
}

// ClearAll deletes every comment, post and user.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&models.Comment{}, &models.Post{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}
		return nil
	})
}

// Run seeds users, then posts authored by them, then comments.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return err
		}
	}

	users, err := s.SeedUsers(ctx, opts.NumUsers)
	if err != nil {
		return err
	}
	posts, err := s.SeedPosts(ctx, users, opts.NumPosts, opts.MaxDays)
	if err != nil {
		return err
	}
	comments, err := s.SeedComments(ctx, users, posts, opts.MaxCommentsPerPost)
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		"users", len(users),
		"posts", len(posts),
		"comments", comments,
	)
	return nil
}

// BuildUser returns an unsaved user with a unique username and email.
func (s *Seeder) BuildUser(passwordHash string) *models.User {
	suffix := uuid.NewString()[:8]
	return &models.User{
		Username: fmt.Sprintf("%s_%s", s.faker.Username(), suffix),
		Email:    fmt.Sprintf("%s.%s@example.com", s.faker.FirstName(), suffix),
		Password: passwordHash,
		Role:     roles[s.rng.Intn(len(roles))],
	}
}

// SeedUsers creates n users sharing DemoPassword.
func (s *Seeder) SeedUsers(ctx context.Context, n int) ([]*models.User, error) {
	if n <= 0 {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, s.BuildUser(string(hash)))
	}
	if err := s.db.WithContext(ctx).CreateInBatches(users, 100).Error; err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return users, nil
}

// BuildPost returns an unsaved post by author with a creation time spread
// over the last maxDays days.
func (s *Seeder) BuildPost(author *models.User, maxDays int) *models.Post {
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(s.rng.Intn(maxDays*24*60)) * time.Minute
	return &models.Post{
		Title:     s.faker.Sentence(5),
		Content:   s.faker.Paragraph(1, 3, 8, "\n"),
		Username:  author.Username,
		Role:      author.Role,
		CreatedAt: s.now().Add(-back),
	}
}

// SeedPosts creates n posts by random users.
func (s *Seeder) SeedPosts(ctx context.Context, users []*models.User, n, maxDays int) ([]*models.Post, error) {
	if n <= 0 || len(users) == 0 {
		return nil, nil
	}
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, s.BuildPost(users[s.rng.Intn(len(users))], maxDays))
	}
	if err := s.db.WithContext(ctx).CreateInBatches(posts, 100).Error; err != nil {
		return nil, fmt.Errorf("seed posts: %w", err)
	}
	return posts, nil
}

// SeedComments adds up to maxPerPost comments to each post, each dated
// after its post.
func (s *Seeder) SeedComments(ctx context.Context, users []*models.User, posts []*models.Post, maxPerPost int) (int, error) {
	if maxPerPost <= 0 || len(users) == 0 {
		return 0, nil
	}
	var comments []*models.Comment
	for _, p := range posts {
		for i := s.rng.Intn(maxPerPost + 1); i > 0; i-- {
			author := users[s.rng.Intn(len(users))]
			comments = append(comments, &models.Comment{
				PostID:    p.ID,
				Username:  author.Username,
				Role:      author.Role,
				Content:   s.faker.Sentence(s.rng.Intn(12) + 3),
				CreatedAt: p.CreatedAt.Add(time.Duration(s.rng.Intn(72*60)+1) * time.Minute),
			})
		}
	}
	if len(comments) == 0 {
		return 0, nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(comments, 100).Error; err != nil {
		return 0, fmt.Errorf("seed comments: %w", err)
	}
	return len(comments), nil
}
