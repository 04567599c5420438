package main

import (
	"context"
	"log"

	"github.com/employcd/employcd/internal/host"
	"github.com/employcd/employcd/internal/host/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := host.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
