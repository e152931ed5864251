//go:build unix

package pklaunch

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeInterpreter installs a shell script as the interpreter for mode under
// base and returns its path.
func writeInterpreter(t *testing.T, base string, mode Mode, body string) string {
	t.Helper()
	path := filepath.Join(base, ExecutablePath(mode))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// waitForFile polls until path exists or the timeout expires.
func waitForFile(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", path)
}

func TestLauncherRunsModeExecutable(t *testing.T) {
	t.Parallel()

	for _, mode := range []Mode{ModeConsole, ModeWindowed} {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()
			base := t.TempDir()
			writeInterpreter(t, base, ModeConsole, "touch console.ran")
			writeInterpreter(t, base, ModeWindowed, "touch windowed.ran")

			out, _, _ := testOutput()
			l, err := New(Config{BaseDir: base, Mode: mode, Output: out})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if _, err := l.Run(context.Background()); err != nil {
				t.Fatalf("Run: %v", err)
			}

			for _, m := range []Mode{ModeConsole, ModeWindowed} {
				_, err := os.Stat(filepath.Join(base, m.String()+".ran"))
				ran := err == nil
				if ran != (m == mode) {
					t.Errorf("%s interpreter ran = %v in %s mode", m, ran, mode)
				}
			}
		})
	}
}

func TestLauncherOnlyOtherModePresent(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeInterpreter(t, base, ModeConsole, "exit 0")

	out, _, _ := testOutput()
	l, err := New(Config{BaseDir: base, Mode: ModeWindowed, Output: out})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = l.Run(context.Background())
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("expected *SpawnError when only the console interpreter exists, got %v", err)
	}
}

func TestLauncherExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		script     string
		wantStatus Status
		wantLine   string
	}{
		{
			name:       "success",
			script:     "exit 0",
			wantStatus: Status{Exited: true, Code: 0},
			wantLine:   "process exited with: exit status: 0\n",
		},
		{
			name:       "failure",
			script:     "exit 3",
			wantStatus: Status{Exited: true, Code: 3},
			wantLine:   "process exited with: exit status: 3\n",
		},
		{
			name:       "killed",
			script:     "kill -9 $$",
			wantStatus: Status{Signal: "killed", signo: 9},
			wantLine:   "process exited with: signal: killed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			base := t.TempDir()
			writeInterpreter(t, base, ModeConsole, tt.script)

			out, stdout, _ := testOutput()
			l, err := New(Config{BaseDir: base, Output: out})
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			got, err := l.Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got.Pid <= 0 {
				t.Errorf("Pid = %d, want > 0", got.Pid)
			}
			got.Pid = 0
			if got != tt.wantStatus {
				t.Errorf("status = %+v, want %+v", got, tt.wantStatus)
			}
			if stdout.String() != tt.wantLine {
				t.Errorf("report = %q, want %q", stdout.String(), tt.wantLine)
			}
		})
	}
}

func TestLauncherInvocation(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	// Runs from the bundle root and records its arguments.
	writeInterpreter(t, base, ModeConsole, `test -x Python/python.exe || exit 7
echo "$@" > args.txt`)

	out, _, _ := testOutput()
	l, err := New(Config{BaseDir: base, Output: out})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	status, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !status.Success() {
		t.Fatalf("child did not run from the base directory: %s", status)
	}

	data, err := os.ReadFile(filepath.Join(base, "args.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "-m pkvenv_main" {
		t.Errorf("args = %q, want %q", got, "-m pkvenv_main")
	}
}

func TestLauncherRelativeBaseDir(t *testing.T) {
	base := t.TempDir()
	writeInterpreter(t, base, ModeConsole, "exit 4")
	t.Chdir(filepath.Dir(base))

	out, _, _ := testOutput()
	l, err := New(Config{BaseDir: filepath.Base(base), Output: out})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	status, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status.Code != 4 {
		t.Errorf("status = %s, want exit status 4", status)
	}
}

func TestLauncherDefaultBaseDirIsWorkingDir(t *testing.T) {
	base := t.TempDir()
	writeInterpreter(t, base, ModeConsole, "exit 6")
	t.Chdir(base)

	out, _, _ := testOutput()
	l, err := New(Config{Output: out})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	status, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status.Code != 6 {
		t.Errorf("status = %s, want exit status 6", status)
	}
}

func TestLauncherStreams(t *testing.T) {
	t.Parallel()

	const script = `echo child-stdout
echo child-stderr >&2`

	tests := []struct {
		policy     StreamPolicy
		wantRelay  bool
		wantOutput string
	}{
		{policy: StreamsDrain},
		{policy: StreamsHold},
		{policy: StreamsInherit, wantRelay: true},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			t.Parallel()
			base := t.TempDir()
			writeInterpreter(t, base, ModeConsole, script)

			out, stdout, stderr := testOutput()
			l, err := New(Config{BaseDir: base, Streams: tt.policy, Output: out})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if _, err := l.Run(context.Background()); err != nil {
				t.Fatalf("Run: %v", err)
			}

			relayed := strings.Contains(stdout.String(), "child-stdout") ||
				strings.Contains(stderr.String(), "child-stderr")
			if relayed != tt.wantRelay {
				t.Errorf("child output relayed = %v, want %v (stdout %q, stderr %q)",
					relayed, tt.wantRelay, stdout.String(), stderr.String())
			}
			if !tt.wantRelay && stdout.String() != "process exited with: exit status: 0\n" {
				t.Errorf("stdout should only hold the status line, got %q", stdout.String())
			}
		})
	}
}

func TestLauncherDrainsLargeOutput(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	// Far more than a pipe buffer on both streams.
	writeInterpreter(t, base, ModeConsole, `head -c 4194304 /dev/zero
head -c 4194304 /dev/zero >&2`)

	out, stdout, _ := testOutput()
	l, err := New(Config{BaseDir: base, Streams: StreamsDrain, Output: out})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	status, err := l.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !status.Success() {
		t.Errorf("status = %s, want success", status)
	}
	if stdout.Len() > 100 {
		t.Errorf("child output leaked into launcher stdout (%d bytes)", stdout.Len())
	}
}

func TestLauncherCancelInterruptsChild(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeInterpreter(t, base, ModeConsole, `trap 'exit 42' INT
touch ready
while :; do sleep 1; done`)

	out, _, _ := testOutput()
	l, err := New(Config{BaseDir: base, Output: out})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type result struct {
		status Status
		err    error
	}
	done := make(chan result, 1)
	go func() {
		s, err := l.Run(ctx)
		done <- result{s, err}
	}()

	waitForFile(t, filepath.Join(base, "ready"))
	cancel()

	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("Run: %v", r.err)
		}
		if !r.status.Exited || r.status.Code != 42 {
			t.Errorf("status = %s, want exit status 42 from the INT trap", r.status)
		}
	case <-time.After(WaitDelay + 10*time.Second):
		t.Fatal("launcher did not return after cancellation")
	}
}

func TestLauncherSingleChild(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeInterpreter(t, base, ModeConsole, `touch ready
while [ ! -f release ]; do sleep 1; done`)

	out, _, _ := testOutput()
	l, err := New(Config{BaseDir: base, Output: out})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := l.Run(context.Background())
		done <- err
	}()
	waitForFile(t, filepath.Join(base, "ready"))

	if _, err := l.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run error = %v, want ErrAlreadyRunning", err)
	}

	if err := os.WriteFile(filepath.Join(base, "release"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("first Run: %v", err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("first Run did not finish")
	}

	// Once the first child is gone the launcher can be reused.
	if err := os.Remove(filepath.Join(base, "ready")); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Run(context.Background()); err != nil {
		t.Errorf("Run after completion: %v", err)
	}
}

func TestRunContextExitPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		policy ExitPolicy
		script string
		want   int
	}{
		{name: "zero", policy: ExitZero, script: "exit 9", want: 0},
		{name: "propagate", policy: ExitPropagate, script: "exit 9", want: 9},
		{name: "propagate signal", policy: ExitPropagate, script: "kill -9 $$", want: 137},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			base := t.TempDir()
			writeInterpreter(t, base, ModeConsole, tt.script)

			out, stdout, _ := testOutput()
			code := runContext(context.Background(), Config{BaseDir: base, Exit: tt.policy, Output: out})
			if code != tt.want {
				t.Errorf("exit code = %d, want %d", code, tt.want)
			}
			if !strings.HasPrefix(stdout.String(), "process exited with: ") {
				t.Errorf("expected status line, got %q", stdout.String())
			}
		})
	}
}

func TestLauncherSharesStdin(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeInterpreter(t, base, ModeConsole, "cat > stdin.txt")

	input := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(input, []byte("hello from the launcher\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(input)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	out, _, _ := testOutput()
	l, err := New(Config{BaseDir: base, Stdin: f, Output: out})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(base, "stdin.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello from the launcher\n" {
		t.Errorf("child read %q from stdin", got)
	}
}

func TestLauncherInheritsLauncherStdin(t *testing.T) {
	t.Parallel()
	if runtime.GOOS != "linux" {
		t.Skip("needs /proc")
	}

	want, err := os.Readlink("/proc/self/fd/0")
	if err != nil {
		t.Skipf("launcher has no readable stdin: %v", err)
	}

	base := t.TempDir()
	writeInterpreter(t, base, ModeConsole, "readlink /proc/self/fd/0 > stdin.txt")

	out, _, _ := testOutput()
	l, err := New(Config{BaseDir: base, Output: out})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(base, "stdin.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != want {
		t.Errorf("child stdin = %q, want launcher stdin %q", got, want)
	}
}

func TestSetProcAttr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		stdinIsTTY  bool
		wantSetpgid bool
	}{
		{name: "own group without terminal", stdinIsTTY: false, wantSetpgid: true},
		{name: "foreground group with terminal", stdinIsTTY: true, wantSetpgid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cmd := exec.Command("true")
			setProcAttr(cmd, ModeConsole, tt.stdinIsTTY)
			if cmd.SysProcAttr == nil {
				t.Fatal("SysProcAttr not set")
			}
			if cmd.SysProcAttr.Setpgid != tt.wantSetpgid {
				t.Errorf("Setpgid = %v, want %v", cmd.SysProcAttr.Setpgid, tt.wantSetpgid)
			}
		})
	}
}
