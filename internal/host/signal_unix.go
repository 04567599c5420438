//go:build unix

package host

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// initSignalHandler cancels on SIGINT/SIGTERM/SIGQUIT and re-activates the
// window on SIGUSR1.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGUSR1)

	go func() {
		defer signal.Stop(sigs)
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-sigs:
				if s == syscall.SIGUSR1 {
					if err := app.host.Activate(ctx); err != nil {
						app.logger.Warn(ctx, "activate", "error", err)
					}
					continue
				}
				cancelFunc()
				return
			}
		}
	}()
}
