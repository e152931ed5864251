//go:build unix

package pklaunch

import (
	"os"
	"syscall"
)

// terminatingSignal returns the signal that killed the process, if any.
func terminatingSignal(state *os.ProcessState) (string, int) {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return "", 0
	}
	sig := ws.Signal()
	return sig.String(), int(sig)
}
