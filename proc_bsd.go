//go:build unix && !linux

package pklaunch

import "syscall"

// setParentDeathSignal is a no-op; only Linux has a parent death signal.
func setParentDeathSignal(_ *syscall.SysProcAttr) {}
