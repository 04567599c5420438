// Package shell owns the lifecycle of the UI window hosted by the shell
// process.
//
// The window is created when the host becomes ready and dropped when it
// closes. Closing the last window quits the host everywhere except darwin,
// where the host stays up until Activate recreates the window or Quit is
// called explicitly.
package shell

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/employcd/employcd/internal/logging"
)

var ErrQuit = errors.New("host has quit")

// Window is one running UI instance.
type Window interface {
	// Wait blocks until the window is gone.
	Wait() error
	Focus() error
	Close() error
}

// Launcher creates windows.
type Launcher interface {
	Launch(ctx context.Context) (Window, error)
}

type Option func(*Host)

// WithGOOS overrides the platform used for the quit-on-last-close rule.
func WithGOOS(goos string) Option {
	return func(h *Host) { h.goos = goos }
}

// Host is the explicitly owned lifecycle handle of the shell.
type Host struct {
	launcher Launcher
	logger   logging.Logger
	goos     string

	mu     sync.Mutex
	window Window
	quit   bool
	done   chan struct{}
}

func NewHost(l Launcher, logger logging.Logger, opts ...Option) *Host {
	h := &Host{
		launcher: l,
		logger:   logger.With("module", "shell"),
		goos:     runtime.GOOS,
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Done is closed once the host has quit.
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// HasWindow reports whether a window is currently open.
func (h *Host) HasWindow() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.window != nil
}

// Ready creates the initial window.
func (h *Host) Ready(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.openLocked(ctx)
}

// Activate focuses the open window, or recreates it when none is open.
func (h *Host) Activate(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.quit {
		return ErrQuit
	}
	if h.window != nil {
		return h.window.Focus()
	}
	return h.openLocked(ctx)
}

// Quit closes the window, if any, and releases Done. Safe to call repeatedly.
func (h *Host) Quit() {
	h.mu.Lock()
	if h.quit {
		h.mu.Unlock()
		return
	}
	h.quit = true
	w := h.window
	h.window = nil
	close(h.done)
	h.mu.Unlock()

	if w != nil {
		_ = w.Close()
	}
}

func (h *Host) openLocked(ctx context.Context) error {
	if h.quit {
		return ErrQuit
	}
	if h.window != nil {
		return nil
	}

	w, err := h.launcher.Launch(ctx)
	if err != nil {
		h.logger.Error(ctx, "launch window", "error", err)
		return err
	}
	h.window = w
	h.logger.Info(ctx, "window created")

	go func() {
		if err := w.Wait(); err != nil {
			h.logger.Warn(ctx, "window exited", "error", err)
		}
		h.closed(ctx, w)
	}()
	return nil
}

// closed handles w going away. A stale window (already replaced or dropped)
// is ignored.
func (h *Host) closed(ctx context.Context, w Window) {
	h.mu.Lock()
	if h.window != w {
		h.mu.Unlock()
		return
	}
	h.window = nil
	keepAlive := h.goos == "darwin"
	h.mu.Unlock()

	h.logger.Info(ctx, "window closed")
	if !keepAlive {
		h.Quit()
	}
}
