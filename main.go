package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lottolab/internal/config"
	"lottolab/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	// Initialize database and services
	if err := appContainer.InitWithDatabase(ctx); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// Pick up whatever the history file holds before the first request
	if _, err := os.Stat(appConfig.Data.HistoryFile); err == nil {
		if _, err := appContainer.Refresher().RunOnce(ctx); err != nil {
			log.Printf("Initial import failed: %v", err)
		}
	}

	log.Printf("Starting lottolab on port %s (API on %s)", appConfig.Server.Port, appConfig.Server.APIPort)
	if err := appContainer.Serve(ctx); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
