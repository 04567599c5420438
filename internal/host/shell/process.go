package shell

import (
	"context"
	"os"
	"os/exec"
	"sync"
)

// ProcessLauncher starts the UI client as a child process attached to the
// shell's terminal. Each launch receives Env on top of the shell environment.
type ProcessLauncher struct {
	Binary string
	Args   []string
	Env    []string
}

func (l *ProcessLauncher) Launch(ctx context.Context) (Window, error) {
	cmd := exec.Command(l.Binary, l.Args...)
	cmd.Env = append(os.Environ(), l.Env...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	p := &processWindow{cmd: cmd, exited: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		close(p.exited)
	}()
	return p, nil
}

type processWindow struct {
	cmd    *exec.Cmd
	exited chan struct{}
	err    error

	closeOnce sync.Once
}

func (p *processWindow) Wait() error {
	<-p.exited
	return p.err
}

// Focus is a no-op: a terminal window has no stacking order to change.
func (p *processWindow) Focus() error { return nil }

func (p *processWindow) Close() error {
	var err error
	p.closeOnce.Do(func() {
		select {
		case <-p.exited:
			return
		default:
		}
		err = p.cmd.Process.Kill()
	})
	return err
}
