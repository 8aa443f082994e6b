package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"crm-service/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[MAIN] No .env file found, relying on system env vars")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := app.NewServer()
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
