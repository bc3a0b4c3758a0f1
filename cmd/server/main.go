package main

// cmd/server is the bare API binary for container images. The catalog CLI
// in cmd/catalog offers the same server plus operational commands.

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shashiranjanraj/catalog/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
