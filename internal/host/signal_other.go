//go:build !unix

package host

import (
	"context"
	"os"
	"os/signal"
)

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-ctx.Done():
		case <-sigs:
			cancelFunc()
		}
	}()
}
