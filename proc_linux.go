//go:build linux

package pklaunch

import "syscall"

// setParentDeathSignal makes the kernel kill the child when the launcher
// dies. Pdeathsig follows the forking OS thread; nothing here calls
// runtime.LockOSThread, so that thread is never retired while the child runs.
func setParentDeathSignal(attr *syscall.SysProcAttr) {
	attr.Pdeathsig = syscall.SIGKILL
}
