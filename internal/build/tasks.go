package build

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fredrikaverpil/pklaunch"
	"github.com/fredrikaverpil/pklaunch/internal/shim"
	"github.com/goyek/goyek/v3"
)

// Tasks holds the goyek tasks for building the launcher.
type Tasks struct {
	config Config

	// All runs test, build and launch-scripts.
	All *goyek.DefinedTask

	// Build builds every variant.
	Build *goyek.DefinedTask

	// Variants holds one build task per variant, keyed by mode.
	Variants map[pklaunch.Mode]*goyek.DefinedTask

	// Test runs the unit tests.
	Test *goyek.DefinedTask

	// LaunchScripts writes the fallback .bat/.sh scripts next to the binaries.
	LaunchScripts *goyek.DefinedTask
}

// NewTasks defines the build tasks for the given config.
func NewTasks(cfg Config) *Tasks {
	cfg = cfg.WithDefaults()
	t := &Tasks{
		config:   cfg,
		Variants: make(map[pklaunch.Mode]*goyek.DefinedTask),
	}

	var builds goyek.Deps
	for _, v := range Variants() {
		task := goyek.Define(goyek.Task{
			Name:  "build-" + v.Mode.String(),
			Usage: "build the " + v.Mode.String() + " launcher",
			Action: func(a *goyek.A) {
				a.Logf("building %s for %s/%s", v, cfg.GOOS, cfg.GOARCH)
				if err := goCommand(a.Context(), a.Output(), cfg, Env(cfg), BuildArgs(cfg, v)...); err != nil {
					a.Fatal(err)
				}
			},
		})
		t.Variants[v.Mode] = task
		builds = append(builds, task)
	}

	t.Build = goyek.Define(goyek.Task{
		Name:  "build",
		Usage: "build all launcher variants",
		Deps:  builds,
	})

	t.Test = goyek.Define(goyek.Task{
		Name:  "test",
		Usage: "run Go tests",
		Action: func(a *goyek.A) {
			if err := goCommand(a.Context(), a.Output(), cfg, nil, "test", "./..."); err != nil {
				a.Fatal(err)
			}
		},
	})

	t.LaunchScripts = goyek.Define(goyek.Task{
		Name:  "launch-scripts",
		Usage: "generate fallback launch scripts",
		Action: func(a *goyek.A) {
			name, mode, args, err := launchScript(cfg)
			if err != nil {
				a.Fatal(err)
			}
			dir := filepath.Join(cfg.Root, cfg.OutDir)
			paths, err := shim.Generate(dir, name, mode, args)
			if err != nil {
				a.Fatal(err)
			}
			for _, p := range paths {
				a.Logf("wrote %s", p)
			}
		},
	})

	t.All = goyek.Define(goyek.Task{
		Name:  "all",
		Usage: "test, build and generate launch scripts",
		Deps:  goyek.Deps{t.Test, t.Build, t.LaunchScripts},
	})

	return t
}

// DefinedTasks returns every task defined by NewTasks.
func (t *Tasks) DefinedTasks() []*goyek.DefinedTask {
	tasks := []*goyek.DefinedTask{t.All, t.Build, t.Test, t.LaunchScripts}
	for _, v := range Variants() {
		tasks = append(tasks, t.Variants[v.Mode])
	}
	return tasks
}

// goCommand runs the go tool in cfg.Root with output sent to out.
func goCommand(ctx context.Context, out io.Writer, cfg Config, env []string, args ...string) error {
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = cfg.Root
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = pklaunch.WaitDelay
	return cmd.Run()
}
