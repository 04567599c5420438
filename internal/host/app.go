// Package host wires the shell process: the Credential Store, the bridge
// serving it, and the window lifecycle.
package host

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/employcd/employcd/internal/bridge"
	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/host/config"
	"github.com/employcd/employcd/internal/host/securestore"
	"github.com/employcd/employcd/internal/host/shell"
	"github.com/employcd/employcd/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
	bridge *bridge.Server
	host   *shell.Host
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.LogLevel, logging.FormatJSON)

	store, err := securestore.Open(c.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}

	launcher := &shell.ProcessLauncher{
		Binary: c.ClientBinary,
		Env: []string{
			common.BridgeSocketEnv + "=" + c.SocketPath,
			common.DataDirEnv + "=" + c.DataDir,
		},
	}

	return newApp(c, logger, store, launcher), nil
}

func newApp(c *config.Config, logger logging.Logger, store bridge.Store, l shell.Launcher) *App {
	return &App{
		config: c,
		logger: logger,
		bridge: bridge.NewServer(c.SocketPath, store, logger, c.ShutdownTimeout),
		host:   shell.NewHost(l, logger),
	}
}

// Run serves the bridge, opens the window and blocks until the host quits,
// a termination signal arrives, or ctx is cancelled. The bridge socket is
// bound before the window is launched.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting shell...", "data_dir", app.config.DataDir)

	lis, err := app.bridge.Listen()
	if err != nil {
		return fmt.Errorf("bridge: %w", err)
	}
	defer os.Remove(app.config.SocketPath)

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg       sync.WaitGroup
		serveErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.bridge.Serve(ctx, lis); err != nil {
			app.logger.Error(ctx, "bridge stopped", "error", err)
			serveErr = err
			cancelFunc()
		}
	}()

	if err := app.host.Ready(ctx); err != nil {
		cancelFunc()
		wg.Wait()
		return fmt.Errorf("open window: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-app.host.Done():
	}

	app.host.Quit()
	cancelFunc()
	wg.Wait()

	app.logger.Info(ctx, "Shell stopped")
	return serveErr
}
