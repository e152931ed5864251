package pklaunch

import (
	"context"
	"os/exec"
	"time"
)

// WaitDelay is the grace period given to the child to handle an interrupt
// before it is force-killed.
const WaitDelay = 5 * time.Second

// command creates the exec.Cmd for the child. The child shares cfg.Stdin;
// output is configured separately by attachStreams.
//
// When ctx is cancelled the child (and, on unix, its process group) receives
// an interrupt first, then is killed after WaitDelay if still running.
func command(ctx context.Context, cfg Config, path string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, path, cfg.Args...)
	cmd.Dir = cfg.BaseDir
	cmd.Stdin = cfg.Stdin
	setProcAttr(cmd, cfg.Mode, isTerminal(cfg.Stdin))
	setGracefulShutdown(cmd)
	return cmd
}

// setGracefulShutdown configures a command for graceful shutdown.
func setGracefulShutdown(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		return interrupt(cmd)
	}
	cmd.WaitDelay = WaitDelay
}
