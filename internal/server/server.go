// Package server contains the HTTP and WebSocket handlers of the community site.
package server

import (
	"context"
	"fmt"
	"time"

	"innovalley/internal/cache"
	"innovalley/internal/config"
	"innovalley/internal/database"
	"innovalley/internal/middleware"
	"innovalley/internal/news"
	"innovalley/internal/observability"
	"innovalley/internal/repository"
	"innovalley/internal/service"
	"innovalley/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *session.Store
	limiter        *middleware.Limiter
	feed           *news.Feed
	authService    *service.AuthService
	postService    *service.PostService
	commentService *service.CommentService
	chatService    *service.ChatService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional; without it rate limiting fails open.
	redisClient := cache.InitRedis(context.Background(), cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient, nil)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil newsSource fetches the configured listing page over HTTP.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, newsSource news.Fetcher) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if newsSource == nil {
		newsSource = news.NewClient(cfg.NewsURL, cfg.NewsUserAgent, cfg.NewsTimeout())
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
		sessions:       session.NewStore(cfg.SessionSecret, cfg.SessionTTL(), cfg.IsProduction()),
		limiter:        middleware.NewLimiter(redisClient, cfg.Env),
		feed:           news.NewFeed(newsSource, cfg.NewsBaseURL),
		authService:    service.NewAuthService(userRepo, service.BcryptHasher{Cost: bcrypt.DefaultCost}),
		postService:    service.NewPostService(postRepo),
		commentService: service.NewCommentService(commentRepo),
		chatService:    service.NewChatService(),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Session identity, read once per request
	app.Use(middleware.SessionLoader(s.sessions))

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate request ID, username and trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8000,http://127.0.0.1:8000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// News
	app.Get("/", s.Home)
	app.Get("/news", s.News)

	// Accounts
	app.Get("/register", s.RegisterForm)
	app.Post("/register", s.limiter.Handler(
		"register", 5, 10*time.Minute, middleware.FailOpen), s.Register)
	app.Get("/login", s.LoginForm)
	app.Post("/login", s.limiter.Handler(
		"login", 10, 5*time.Minute, middleware.FailOpen), s.Login)
	app.Get("/logout", s.Logout)

	// Board
	app.Get("/write", middleware.LoginRequired, s.WriteForm)
	app.Post("/write", middleware.LoginRequired, s.CreatePost)
	app.Get("/sns", s.ListPosts)
	app.Get("/post/:post_id", s.GetPost)
	app.Post("/comment/:post_id", middleware.LoginRequired, s.CreateComment)

	// Deletes stay reachable by GET for the existing links.
	app.Get("/delete/post/:post_id", s.DeletePost)
	app.Post("/delete/post/:post_id", s.DeletePost)
	app.Get("/delete/comment/:post_id/:comment_id", s.DeleteComment)
	app.Post("/delete/comment/:post_id/:comment_id", s.DeleteComment)

	// Chat
	app.Post("/ask", s.limiter.Handler(
		"chat", 30, time.Minute, middleware.FailOpen), s.Ask)
	app.Use("/ws", s.WebSocketUpgrade)
	app.Get("/ws/ask", s.WebSocketChatHandler())

	// Contact
	app.Get("/contact", s.ContactForm)
	app.Post("/contact", s.SubmitContact)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis only degrades the
// report; the site still serves without it.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := s.checkDatabase(ctx)
	redisStatus := s.checkRedis(ctx)

	status, overall := fiber.StatusOK, statusHealthy
	switch {
	case dbStatus != statusHealthy:
		status, overall = fiber.StatusServiceUnavailable, statusUnhealthy
	case redisStatus != statusHealthy:
		overall = statusDegraded
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

const (
	statusHealthy     = "healthy"
	statusUnhealthy   = "unhealthy"
	statusDegraded    = "degraded"
	statusUnavailable = "unavailable"
)

func (s *Server) checkDatabase(ctx context.Context) string {
	sqlDB, err := s.db.DB()
	if err != nil {
		return statusUnhealthy
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		middleware.Logger.WarnContext(ctx, "database ping failed", "error", err)
		return statusUnhealthy
	}
	return statusHealthy
}

func (s *Server) checkRedis(ctx context.Context) string {
	if s.redis == nil {
		return statusUnavailable
	}
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return statusUnhealthy
	}
	return statusHealthy
}

// Shutdown gracefully shuts down the server and its resources
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing database", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	return ctx.Err()
}
