// Package pklaunch starts the embedded Python interpreter of a pkvenv bundle,
// waits for it to terminate and reports how it ended.
//
// A run is strictly linear:
//
//	resolve path -> spawn child -> await termination -> report
//
// The launcher never reads or relays the child's output, never retries and
// supervises exactly one child at a time.
package pklaunch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
)

// Launcher runs a single child process to completion.
type Launcher struct {
	cfg     Config
	running atomic.Bool
}

// New creates a Launcher. Zero values in cfg are replaced by defaults.
func New(cfg Config) (*Launcher, error) {
	cfg, err := cfg.WithDefaults()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Launcher{cfg: cfg}, nil
}

// Config returns the launcher's effective configuration.
func (l *Launcher) Config() Config {
	return l.cfg
}

// Resolve returns the interpreter path for the configured mode.
func (l *Launcher) Resolve() string {
	return filepath.Join(l.cfg.BaseDir, ExecutablePath(l.cfg.Mode))
}

// Run spawns the child, blocks until it terminates and reports its status.
//
// A failure to create the process is returned as *SpawnError without waiting
// on anything. Any termination of a started child, including a non-zero exit
// or a signal, is a Status and not an error.
//
// There is no timeout. Cancelling ctx interrupts the child and kills it after
// WaitDelay; the resulting status is reported like any other.
func (l *Launcher) Run(ctx context.Context) (Status, error) {
	status, err := l.Wait(ctx)
	if err != nil {
		return Status{}, err
	}
	l.Report(status)
	return status, nil
}

// Wait spawns the child and blocks until it terminates, without reporting.
func (l *Launcher) Wait(ctx context.Context) (Status, error) {
	if !l.running.CompareAndSwap(false, true) {
		return Status{}, ErrAlreadyRunning
	}
	defer l.running.Store(false)

	path := l.Resolve()
	cmd := command(ctx, l.cfg, path)

	streams, err := attachStreams(cmd, l.cfg.Streams, l.cfg.Output)
	if err != nil {
		return Status{}, &SpawnError{Path: path, Err: err}
	}

	if err := cmd.Start(); err != nil {
		streams.afterStart(false)
		return Status{}, &SpawnError{Path: path, Err: err}
	}
	streams.afterStart(true)

	release, err := bindToLauncher(cmd)
	if err != nil {
		// The child runs regardless; it just won't be cleaned up with us.
		_, _ = l.cfg.Output.Errorf("%v", err)
		release = func() {}
	}
	defer release()

	// The returned error only restates a non-zero exit or signal, which
	// ProcessState already carries, or a WaitDelay expiry.
	_ = cmd.Wait()
	if err := streams.finish(); err != nil {
		_, _ = l.cfg.Output.Errorf("reading child output: %v", err)
	}
	if cmd.ProcessState == nil {
		return Status{}, fmt.Errorf("waiting for %s: no process state", path)
	}
	return statusFromState(cmd.ProcessState), nil
}

// Report writes the status line to the configured stdout. Write errors are
// ignored; the launcher is about to exit either way.
func (l *Launcher) Report(s Status) {
	out := l.cfg.Output
	_, _ = out.Printf("process exited with: %s\n", out.paintStatus(s))
}
