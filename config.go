package pklaunch

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// DefaultEntryModule is the Python module run by the interpreter.
const DefaultEntryModule = "pkvenv_main"

// DefaultArgs returns the interpreter arguments used when Config.Args is empty.
func DefaultArgs() []string {
	return []string{"-m", DefaultEntryModule}
}

// Config defines how the launcher starts its child.
type Config struct {
	// BaseDir is the bundle root that ExecutablePath is resolved against.
	// It is also the child's working directory. Relative paths are made
	// absolute.
	// Default: the working directory at start-up.
	BaseDir string

	// Mode selects the interpreter executable.
	Mode Mode

	// Args are passed to the interpreter.
	// Default: DefaultArgs().
	Args []string

	// Streams controls what happens to the child's stdout and stderr pipes.
	// Default: StreamsDrain.
	Streams StreamPolicy

	// Exit controls the launcher's own exit code.
	// Default: ExitZero.
	Exit ExitPolicy

	// Stdin is passed to the child as its standard input.
	// Default: os.Stdin, shared with the launcher.
	Stdin *os.File

	// Output receives the status report.
	// Default: StdOutput().
	Output *Output
}

// WithDefaults returns a copy of the config with zero values replaced by
// their defaults.
func (c Config) WithDefaults() (Config, error) {
	if c.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return c, fmt.Errorf("resolving working directory: %w", err)
		}
		c.BaseDir = wd
	}
	// The child runs with BaseDir as its working directory, so a relative
	// BaseDir would otherwise be applied twice.
	abs, err := filepath.Abs(c.BaseDir)
	if err != nil {
		return c, fmt.Errorf("resolving base directory: %w", err)
	}
	c.BaseDir = abs
	if len(c.Args) == 0 {
		c.Args = DefaultArgs()
	} else {
		c.Args = slices.Clone(c.Args)
	}
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	if c.Output == nil {
		c.Output = StdOutput()
	}
	return c, nil
}

// Validate checks that all enumerated settings hold known values.
func (c Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownMode, c.Mode)
	}
	if !c.Streams.Valid() {
		return fmt.Errorf("unknown stream policy: %s", c.Streams)
	}
	if !c.Exit.Valid() {
		return fmt.Errorf("unknown exit policy: %s", c.Exit)
	}
	return nil
}
