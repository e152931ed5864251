package pklaunch

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning is returned when a Launcher is asked to start a second
// child while the first is still running.
var ErrAlreadyRunning = errors.New("launcher already has a running child")

// SpawnError reports that the operating system could not create the child
// process. It is the launcher's only fatal error.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to execute process %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
