package pklaunch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// StreamPolicy controls how the child's stdout and stderr are handled.
//
// With StreamsDrain and StreamsHold each stream is redirected into its own
// pipe owned by the launcher; the two are never merged and never attached to
// the launcher's console. Bytes written by the child are never delivered to
// the launcher's output.
type StreamPolicy int

const (
	// StreamsDrain reads both pipes concurrently and discards the data.
	StreamsDrain StreamPolicy = iota

	// StreamsHold keeps both pipes open without reading them.
	// A child that writes more than the OS pipe buffer holds will block on
	// its next write until the launcher exits.
	StreamsHold

	// StreamsInherit connects the child to the launcher's own output writers.
	StreamsInherit
)

// String returns the canonical name of the policy.
func (p StreamPolicy) String() string {
	switch p {
	case StreamsDrain:
		return "drain"
	case StreamsHold:
		return "hold"
	case StreamsInherit:
		return "inherit"
	default:
		return fmt.Sprintf("StreamPolicy(%d)", int(p))
	}
}

// Valid reports whether p is one of the known policies.
func (p StreamPolicy) Valid() bool {
	return p >= StreamsDrain && p <= StreamsInherit
}

// ParseStreamPolicy parses a stream policy name. The empty string is
// StreamsDrain.
func ParseStreamPolicy(s string) (StreamPolicy, error) {
	switch s {
	case "", "drain":
		return StreamsDrain, nil
	case "hold":
		return StreamsHold, nil
	case "inherit":
		return StreamsInherit, nil
	default:
		return StreamsDrain, fmt.Errorf("unknown stream policy %q", s)
	}
}

// childStreams owns the launcher's ends of the child's stdout/stderr pipes.
type childStreams struct {
	policy StreamPolicy

	// Read ends, kept by the launcher.
	stdoutR, stderrR *os.File
	// Write ends, handed to the child and closed in the launcher after start.
	stdoutW, stderrW *os.File

	drain *errgroup.Group
}

// attachStreams configures cmd's stdout and stderr according to policy.
// The caller must call afterStart once the process started (or failed to),
// and finish once it has been waited for.
func attachStreams(cmd *exec.Cmd, policy StreamPolicy, out *Output) (*childStreams, error) {
	s := &childStreams{policy: policy}
	if policy == StreamsInherit {
		cmd.Stdout = out.Stdout
		cmd.Stderr = out.Stderr
		return s, nil
	}

	var err error
	s.stdoutR, s.stdoutW, err = os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}
	s.stderrR, s.stderrW, err = os.Pipe()
	if err != nil {
		s.closeAll()
		return nil, fmt.Errorf("creating stderr pipe: %w", err)
	}

	// *os.File values are passed to the child as-is; no copying goroutine is
	// started by os/exec.
	cmd.Stdout = s.stdoutW
	cmd.Stderr = s.stderrW
	return s, nil
}

// afterStart releases the launcher's copies of the write ends. When started
// is false the read ends are closed as well. With StreamsDrain it starts one
// reader per pipe.
func (s *childStreams) afterStart(started bool) {
	if s.policy == StreamsInherit {
		return
	}
	closeFile(&s.stdoutW)
	closeFile(&s.stderrW)
	if !started {
		s.closeAll()
		return
	}
	if s.policy == StreamsDrain {
		s.drain = new(errgroup.Group)
		stdout, stderr := s.stdoutR, s.stderrR
		s.drain.Go(func() error { return discard(stdout) })
		s.drain.Go(func() error { return discard(stderr) })
	}
}

// finish closes the read ends and waits for any readers to return.
// Pipes may still be held open by processes the child left behind, so the
// read ends are closed before waiting.
func (s *childStreams) finish() error {
	if s.policy == StreamsInherit {
		return nil
	}
	s.closeAll()
	if s.drain == nil {
		return nil
	}
	return s.drain.Wait()
}

func (s *childStreams) closeAll() {
	closeFile(&s.stdoutW)
	closeFile(&s.stderrW)
	closeFile(&s.stdoutR)
	closeFile(&s.stderrR)
}

func closeFile(f **os.File) {
	if *f != nil {
		_ = (*f).Close()
		*f = nil
	}
}

// discard reads r until EOF or until it is closed.
func discard(r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
