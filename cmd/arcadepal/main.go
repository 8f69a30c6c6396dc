package main

import (
	"log"

	"arcadepal/internal/bot"
	"arcadepal/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real env vars still win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Create and start bot
	arcadeBot, err := bot.New(cfg)
	if err != nil {
		log.Fatal("Failed to create bot:", err)
	}

	if err := arcadeBot.Start(); err != nil {
		log.Fatal("Failed to start bot:", err)
	}
}
