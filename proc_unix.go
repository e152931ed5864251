//go:build unix

package pklaunch

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcAttr puts the child in its own process group so the whole tree can
// be signalled at once. When stdin is a terminal the child stays in the
// launcher's foreground group instead; a background group would be stopped
// with SIGTTIN on its first read. The terminal then delivers Ctrl+C to the
// child directly.
func setProcAttr(cmd *exec.Cmd, _ Mode, stdinIsTTY bool) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = !stdinIsTTY
	setParentDeathSignal(cmd.SysProcAttr)
}

// interrupt sends SIGINT to the child's process group, falling back to the
// child alone when it shares the launcher's group.
func interrupt(cmd *exec.Cmd) error {
	if cmd.SysProcAttr != nil && cmd.SysProcAttr.Setpgid {
		if err := unix.Kill(-cmd.Process.Pid, unix.SIGINT); err == nil {
			return nil
		}
	}
	return cmd.Process.Signal(unix.SIGINT)
}

// bindToLauncher is a no-op on unix; the process group and parent death
// signal set in setProcAttr cover it.
func bindToLauncher(_ *exec.Cmd) (release func(), err error) {
	return func() {}, nil
}
