package pklaunch

import (
	"fmt"
	"os"
)

// Status describes how the child process terminated.
type Status struct {
	// Pid is the process ID the child ran under.
	Pid int

	// Exited is true when the child exited normally and Code is valid.
	Exited bool

	// Code is the child's exit code. Only meaningful when Exited is true.
	Code int

	// Signal is the name of the signal that terminated the child, if any.
	// Always empty on platforms without signals.
	Signal string

	// signo is the numeric value of Signal.
	signo int
}

// statusFromState converts a finished process state into a Status.
func statusFromState(state *os.ProcessState) Status {
	s := Status{Pid: state.Pid()}
	if state.Exited() {
		s.Exited = true
		s.Code = state.ExitCode()
		return s
	}
	s.Signal, s.signo = terminatingSignal(state)
	return s
}

// Success reports whether the child exited normally with code 0.
func (s Status) Success() bool {
	return s.Exited && s.Code == 0
}

// String renders the status for humans.
//
//	exit status: 0
//	signal: killed
func (s Status) String() string {
	switch {
	case s.Exited:
		return fmt.Sprintf("exit status: %d", s.Code)
	case s.Signal != "":
		return "signal: " + s.Signal
	default:
		return "terminated abnormally (no exit code)"
	}
}
