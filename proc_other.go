//go:build !unix && !windows

package pklaunch

import "os/exec"

func setProcAttr(_ *exec.Cmd, _ Mode, _ bool) {}

func interrupt(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}

func bindToLauncher(_ *exec.Cmd) (release func(), err error) {
	return func() {}, nil
}
