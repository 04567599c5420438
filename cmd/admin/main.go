package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/employcd/employcd/internal/admin"
	"github.com/employcd/employcd/internal/admin/cli"
	"github.com/employcd/employcd/internal/admin/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(func(ctx context.Context, cfg *config.Config) (cli.Service, error) {
		app, err := admin.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return app, nil
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrReported) {
			fmt.Fprintf(os.Stderr, "Fehler: %v\n", err)
		}
		os.Exit(1)
	}
}
