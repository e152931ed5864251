// Command pklaunch is the native entry point of a pkvenv bundle. It starts
// the bundled interpreter (Python/python.exe or Python/pythonw.exe, relative
// to the working directory), waits for it and prints its exit status.
//
// It takes no arguments. Its behavior is fixed when it is built:
//
//	go build -ldflags "-X main.mode=windowed -H=windowsgui" ./cmd/pklaunch
//
// See internal/build for the tasks that produce both variants.
package main

import (
	"fmt"
	"os"

	"github.com/fredrikaverpil/pklaunch"
)

// Set at build time with -ldflags "-X main.<name>=<value>".
var (
	mode        = "console"
	exitPolicy  = "zero"
	streams     = "drain"
	entryModule = pklaunch.DefaultEntryModule
)

func main() {
	cfg, err := config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(pklaunch.SpawnFailureExitCode)
	}
	pklaunch.Main(cfg)
}

// config builds the launcher configuration from the build-time variables.
func config() (pklaunch.Config, error) {
	m, err := pklaunch.ParseMode(mode)
	if err != nil {
		return pklaunch.Config{}, err
	}
	exit, err := pklaunch.ParseExitPolicy(exitPolicy)
	if err != nil {
		return pklaunch.Config{}, err
	}
	s, err := pklaunch.ParseStreamPolicy(streams)
	if err != nil {
		return pklaunch.Config{}, err
	}
	return pklaunch.Config{
		Mode:    m,
		Args:    []string{"-m", entryModule},
		Streams: s,
		Exit:    exit,
	}, nil
}
