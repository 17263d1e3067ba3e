package main

import (
	"log"

	"dupfinder/adapters/postgres"
	"dupfinder/internal/config"
	"dupfinder/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The run-audit store is optional; without DATABASE_URL nothing is
	// recorded and comparisons stay entirely in memory.
	var runs *postgres.RunRepository
	if appConfig.Database.URL != "" {
		db, err := sqlx.Connect("postgres", appConfig.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to audit database: %v", err)
		}
		defer db.Close()

		runs, err = postgres.NewRunRepository(db)
		if err != nil {
			log.Fatalf("Failed to initialize run repository: %v", err)
		}
		log.Printf("Run auditing enabled")
	} else {
		log.Printf("No DATABASE_URL configured, run auditing disabled")
	}

	app, err := ui.NewApp(appConfig, runs)
	if err != nil {
		log.Fatalf("Failed to initialize UI application: %v", err)
	}

	log.Printf("Starting Duplicate Finder on port %s", appConfig.Server.Port)
	log.Fatal(app.Start(":" + appConfig.Server.Port))
}
