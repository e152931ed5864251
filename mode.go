package pklaunch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// PythonDir is the directory, relative to the bundle root, that holds the
// embedded interpreter.
const PythonDir = "Python"

// Interpreter executable names inside PythonDir.
const (
	ConsoleExecutable  = "python.exe"
	WindowedExecutable = "pythonw.exe"
)

// ErrUnknownMode is returned when a presentation mode cannot be parsed.
var ErrUnknownMode = errors.New("unknown presentation mode")

// Mode is the presentation mode of a launcher build. It selects which
// interpreter executable is started and, on Windows, whether the child may
// show a console window.
type Mode int

const (
	// ModeConsole runs the console interpreter (python.exe).
	ModeConsole Mode = iota
	// ModeWindowed runs the windowless interpreter (pythonw.exe).
	ModeWindowed
)

// String returns the canonical name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeConsole:
		return "console"
	case ModeWindowed:
		return "windowed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeConsole || m == ModeWindowed
}

// ParseMode parses a presentation mode name.
//
//	""         -> ModeConsole
//	"console"  -> ModeConsole
//	"windowed" -> ModeWindowed
//	"gui"      -> ModeWindowed
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console":
		return ModeConsole, nil
	case "windowed", "gui":
		return ModeWindowed, nil
	default:
		return ModeConsole, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// executableName returns the interpreter file name for the mode.
func (m Mode) executableName() string {
	if m == ModeWindowed {
		return WindowedExecutable
	}
	return ConsoleExecutable
}

// ExecutablePath returns the interpreter path for the mode, relative to the
// bundle root.
//
//	ModeConsole  -> Python/python.exe
//	ModeWindowed -> Python/pythonw.exe
func ExecutablePath(m Mode) string {
	return filepath.Join(PythonDir, m.executableName())
}
