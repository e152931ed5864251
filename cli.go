package pklaunch

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Main is the launcher entry point. It runs the child described by cfg,
// reports its status and exits the process with the code chosen by
// cfg.Exit. It never returns.
func Main(cfg Config) {
	os.Exit(run(cfg))
}

// run starts the launcher under a signal-aware context and returns the exit
// code. SIGINT and SIGTERM received by the launcher are forwarded to the child
// through context cancellation.
func run(cfg Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runContext(ctx, cfg)
}

func runContext(ctx context.Context, cfg Config) int {
	out := cfg.Output
	if out == nil {
		out = StdOutput()
		cfg.Output = out
	}

	l, err := New(cfg)
	if err != nil {
		_, _ = out.Errorf("%v", err)
		return SpawnFailureExitCode
	}

	status, err := l.Run(ctx)
	if err != nil {
		// Nothing was started, so there is nothing to report or wait for.
		_, _ = out.Errorf("%v", err)
		return SpawnFailureExitCode
	}
	return l.cfg.Exit.Code(status)
}
