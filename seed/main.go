package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vzorr/musta-website/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, categories, locations")
		dbPath   = flag.String("db", "", "SQLite database path (overrides DB_DATABASE env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	db, err := openDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	seeder := seeders.NewLookupSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Seeding all lookup tables...")
		err = seeder.SeedAll()
	case "categories":
		log.Println("Seeding service categories...")
		err = seeder.SeedCategories()
	case "locations":
		log.Println("Seeding locations...")
		err = seeder.SeedLocations()
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'categories' or 'locations'", *seedType)
	}

	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding operation completed successfully!")
}

func openDatabase(dbPath string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	if os.Getenv("DB_DRIVER") == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		log.Println("Connecting to postgres")
		return gorm.Open(postgres.Open(dsn), config)
	}

	if dbPath == "" {
		dbPath = os.Getenv("DB_DATABASE")
		if dbPath == "" {
			dbPath = "musta.db"
		}
	}

	log.Printf("Connecting to sqlite database: %s", dbPath)
	return gorm.Open(sqlite.Open(dbPath), config)
}

func showHelp() {
	log.Println(`
Lookup Table Seeding Tool

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, categories, locations
  -db string
        SQLite database path (overrides DB_DATABASE environment variable)
  -help
        Show this help message

Examples:
  # Seed everything
  go run seed/main.go

  # Seed only service categories
  go run seed/main.go -type=categories

  # Seed with custom database path
  go run seed/main.go -db=./custom.db

Environment Variables:
  DB_DRIVER    - "postgres" to seed a postgres database (default: sqlite)
  DATABASE_URL - Postgres connection string when DB_DRIVER=postgres
  DB_DATABASE  - Default SQLite database path (default: musta.db)`)
}
