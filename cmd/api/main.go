package main

import (
	"log"

	"dupfinder/adapters/api"
	"dupfinder/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	service := api.NewService(appConfig)
	log.Fatal(service.Run(":" + appConfig.Server.APIPort))
}
