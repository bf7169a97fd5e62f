package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/thednalab/catalog-sync/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM,
	)
	defer cancel()

	a, err := app.New(ctx)
	if err != nil {
		log.Printf("failed to init app: %v\n", err)
		return
	}

	if err := a.Run(ctx); err != nil {
		log.Printf("app stopped with error: %v\n", err)
	}
}
