// Command seed populates the database with generated demo data.
package main

import (
	"flag"
	"log"

	"parley/internal/config"
	"parley/internal/database"
	"parley/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numDiscussions := flag.Int("discussions", 100, "Number of discussions to create")
	maxComments := flag.Int("max-comments", 5, "Maximum comments per discussion")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig("seed")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.Users(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	follows, err := s.Follows(users)
	if err != nil {
		log.Fatalf("Follow seeding failed: %v", err)
	}
	discussions, err := s.Discussions(users, *numDiscussions)
	if err != nil {
		log.Fatalf("Discussion seeding failed: %v", err)
	}
	comments, err := s.Comments(users, discussions, *maxComments)
	if err != nil {
		log.Fatalf("Comment seeding failed: %v", err)
	}
	likes, err := s.Likes(users, discussions)
	if err != nil {
		log.Fatalf("Like seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d follows, %d discussions, %d comments, %d likes",
		len(users), follows, len(discussions), comments, likes)
	log.Printf("All seeded users share the password %q", seed.Password)
}
