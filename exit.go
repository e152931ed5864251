package pklaunch

import "fmt"

// SpawnFailureExitCode is the launcher's exit code when the child could not
// be started.
const SpawnFailureExitCode = 101

// ExitPolicy decides the launcher's own exit code once the child is done.
type ExitPolicy int

const (
	// ExitZero exits 0 regardless of how the child ended.
	ExitZero ExitPolicy = iota

	// ExitPropagate exits with the child's exit code. A child killed by a
	// signal maps to 128+signal number, or 1 where signals don't exist.
	ExitPropagate
)

// String returns the canonical name of the policy.
func (p ExitPolicy) String() string {
	switch p {
	case ExitZero:
		return "zero"
	case ExitPropagate:
		return "propagate"
	default:
		return fmt.Sprintf("ExitPolicy(%d)", int(p))
	}
}

// Valid reports whether p is one of the known policies.
func (p ExitPolicy) Valid() bool {
	return p == ExitZero || p == ExitPropagate
}

// ParseExitPolicy parses an exit policy name. The empty string is ExitZero.
func ParseExitPolicy(s string) (ExitPolicy, error) {
	switch s {
	case "", "zero":
		return ExitZero, nil
	case "propagate":
		return ExitPropagate, nil
	default:
		return ExitZero, fmt.Errorf("unknown exit policy %q", s)
	}
}

// Code returns the launcher exit code for the child's status.
func (p ExitPolicy) Code(s Status) int {
	if p != ExitPropagate {
		return 0
	}
	switch {
	case s.Exited:
		return s.Code
	case s.signo > 0:
		return 128 + s.signo
	default:
		return 1
	}
}
