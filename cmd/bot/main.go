package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/m3rciful/kinobot/app"
)

func main() {
	// Missing .env is fine; real deployments pass env directly.
	_ = godotenv.Load()

	if err := app.Run(); err != nil {
		log.Fatalf("bot stopped: %v", err)
	}
}
