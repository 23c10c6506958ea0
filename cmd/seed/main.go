package main

import (
	"fmt"
	"log"
	"os"

	"github.com/SaurabhKarki-25/Music-Platform/internal/catalog"
	"github.com/SaurabhKarki-25/Music-Platform/internal/database"
	"github.com/SaurabhKarki-25/Music-Platform/internal/logger"
	"github.com/SaurabhKarki-25/Music-Platform/internal/metrics"
	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"github.com/SaurabhKarki-25/Music-Platform/internal/recommendations"
	"github.com/SaurabhKarki-25/Music-Platform/internal/repository"
	"github.com/SaurabhKarki-25/Music-Platform/internal/seed"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	if err := logger.Initialize("info", "seed.log"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()
	metrics.Initialize()

	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "dev":
		runSeed(func(s *seed.Seeder) error { return s.SeedDev() })
	case "test":
		runSeed(func(s *seed.Seeder) error { return s.SeedTest() })
	case "clean":
		runSeed(func(s *seed.Seeder) error { return s.Clean() })
	default:
		fmt.Println("Usage: seed [dev|test|clean]")
		fmt.Println("  dev   - Seed development database with realistic data")
		fmt.Println("  test  - Seed test database with minimal data")
		fmt.Println("  clean - Remove all seed data (use with caution)")
		os.Exit(1)
	}
}

func runSeed(fn func(*seed.Seeder) error) {
	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	classifier := mood.NewClassifier(mood.DefaultProfiles())
	planner := mood.NewPlanner(classifier.Profiles())
	recs := recommendations.NewService(
		repository.NewTemplateRepository(database.DB),
		repository.NewUserRepository(database.DB),
		catalog.NewGormStore(database.DB),
		classifier,
		planner,
	)

	seeder := seed.NewSeeder(database.DB, recs)
	if err := fn(seeder); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Done")
}
