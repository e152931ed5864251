//go:build !unix

package pklaunch

import "os"

// terminatingSignal always reports no signal; processes on this platform
// only end with an exit code.
func terminatingSignal(_ *os.ProcessState) (string, int) {
	return "", 0
}
