// Command seed fills the configured database with demo users, posts and comments.
package main

import (
	"context"
	"flag"
	"log"

	"innovalley/internal/config"
	"innovalley/internal/database"
	"innovalley/internal/middleware"
	"innovalley/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 60, "Number of posts to create")
	maxComments := flag.Int("comments", 5, "Maximum comments per post")
	maxDays := flag.Int("days", 90, "Spread post dates over this many days")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Printf("Target: %d users, %d posts, up to %d comments per post, clean=%v",
		*numUsers, *numPosts, *maxComments, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	middleware.SetupLogger(cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	s := seed.NewSeeder(db, *randSeed)
	if err := s.Run(context.Background(), seed.Options{
		NumUsers:           *numUsers,
		NumPosts:           *numPosts,
		MaxCommentsPerPost: *maxComments,
		MaxDays:            *maxDays,
		ShouldClean:        *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("All done. Every seeded user has the password: %s", seed.DemoPassword)
}
