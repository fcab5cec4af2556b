// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"smakosz/internal/config"
	"smakosz/internal/database"
	"smakosz/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 30, "Number of review posts to create")
	numProducts := flag.Int("products", 40, "Number of products to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixtures := flag.String("fixtures", "", "Optional YAML product fixture file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if err := s.Run(seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		NumProducts: *numProducts,
		ShouldClean: *shouldClean,
		FixturePath: *fixtures,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done. Seeded users log in with password: password123")
}
