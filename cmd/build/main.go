// Command build builds the launcher variants and bundle scripts.
//
// Usage:
//
//	go run ./cmd/build            # test, build, launch-scripts
//	go run ./cmd/build build      # both launcher variants
//	go run ./cmd/build -v build-windowed
package main

import (
	"os"

	"github.com/fredrikaverpil/pklaunch/internal/build"
	"github.com/goyek/goyek/v3"
	"github.com/goyek/x/boot"
)

// Target platform and exit policy come from PKLAUNCH_* environment variables;
// GOOS/GOARCH would also affect "go run" itself.
var t = build.NewTasks(build.Config{
	Root:       moduleRoot(),
	GOOS:       os.Getenv("PKLAUNCH_GOOS"),
	GOARCH:     os.Getenv("PKLAUNCH_GOARCH"),
	ExitPolicy: os.Getenv("PKLAUNCH_EXIT_POLICY"),
})

// moduleRoot lets the tasks run from any directory inside the module.
func moduleRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	root, err := build.FindModuleRoot(wd)
	if err != nil {
		return "."
	}
	return root
}

func main() {
	goyek.SetDefault(t.All)
	boot.Main()
}
