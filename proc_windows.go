//go:build windows

package pklaunch

import (
	"fmt"
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// setProcAttr hides the child's console window in windowed mode.
func setProcAttr(cmd *exec.Cmd, mode Mode, _ bool) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	if mode == ModeWindowed {
		cmd.SysProcAttr.CreationFlags |= windows.CREATE_NO_WINDOW
		cmd.SysProcAttr.HideWindow = true
	}
}

// interrupt kills the child. Windows has no SIGINT for arbitrary processes.
func interrupt(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}

// bindToLauncher assigns the started child to a job object that kills it
// when the last handle closes, which happens at the latest when the launcher
// exits. release closes the handle.
func bindToLauncher(cmd *exec.Cmd) (release func(), err error) {
	job, err := windows.CreateJobObject(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("creating job object: %w", err)
	}
	info := windows.JOBOBJECT_EXTENDED_LIMIT_INFORMATION{
		BasicLimitInformation: windows.JOBOBJECT_BASIC_LIMIT_INFORMATION{
			LimitFlags: windows.JOB_OBJECT_LIMIT_KILL_ON_JOB_CLOSE,
		},
	}
	if _, err := windows.SetInformationJobObject(
		job,
		windows.JobObjectExtendedLimitInformation,
		uintptr(unsafe.Pointer(&info)),
		uint32(unsafe.Sizeof(info)),
	); err != nil {
		_ = windows.CloseHandle(job)
		return nil, fmt.Errorf("configuring job object: %w", err)
	}

	proc, err := windows.OpenProcess(windows.PROCESS_SET_QUOTA|windows.PROCESS_TERMINATE, false, uint32(cmd.Process.Pid))
	if err != nil {
		_ = windows.CloseHandle(job)
		return nil, fmt.Errorf("opening child process: %w", err)
	}
	defer func() { _ = windows.CloseHandle(proc) }()

	if err := windows.AssignProcessToJobObject(job, proc); err != nil {
		_ = windows.CloseHandle(job)
		return nil, fmt.Errorf("assigning child to job object: %w", err)
	}
	return func() { _ = windows.CloseHandle(job) }, nil
}
