// Package build provides the goyek tasks that produce the launcher binaries.
//
// The presentation mode of a launcher is fixed when it is built: each
// Variant bakes its mode into cmd/pklaunch through -ldflags, and windowed
// builds for Windows are linked for the GUI subsystem so no console window
// is shown.
package build

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fredrikaverpil/pklaunch"
)

// MainPackage is the import path built for every variant.
const MainPackage = "./cmd/pklaunch"

// Config defines where and for which platform the launcher is built.
type Config struct {
	// Root is the module root the go commands run in.
	// Default: "."
	Root string

	// OutDir is where binaries and launch scripts are written, relative to Root.
	// Default: "dist"
	OutDir string

	// GOOS is the target operating system.
	// Default: runtime.GOOS
	GOOS string

	// GOARCH is the target architecture.
	// Default: runtime.GOARCH
	GOARCH string

	// ScriptName is the base name of the generated fallback launch scripts.
	// Overridden by "name" in pkvenv.json.
	// Default: "launch"
	ScriptName string

	// ScriptMode selects the interpreter the launch scripts run.
	ScriptMode pklaunch.Mode

	// ScriptArgs are the interpreter arguments of the launch scripts.
	// Overridden by "args" in pkvenv.json.
	// Default: pklaunch.DefaultArgs()
	ScriptArgs []string

	// ExitPolicy is baked into every variant. Empty keeps the launcher default.
	ExitPolicy string
}

// WithDefaults returns a copy of the config with defaults applied.
func (c Config) WithDefaults() Config {
	if c.Root == "" {
		c.Root = "."
	}
	if c.OutDir == "" {
		c.OutDir = "dist"
	}
	if c.GOOS == "" {
		c.GOOS = runtime.GOOS
	}
	if c.GOARCH == "" {
		c.GOARCH = runtime.GOARCH
	}
	if c.ScriptName == "" {
		c.ScriptName = "launch"
	}
	return c
}

// Variant is one launcher build.
type Variant struct {
	Mode pklaunch.Mode
	// Name is the binary base name.
	Name string
}

// Variants returns the console and windowed builds.
func Variants() []Variant {
	return []Variant{
		{Mode: pklaunch.ModeConsole, Name: "pklaunch"},
		{Mode: pklaunch.ModeWindowed, Name: "pklaunchw"},
	}
}

// BinaryName returns the binary file name with the extension used on goos.
func (v Variant) BinaryName(goos string) string {
	if goos == "windows" {
		return v.Name + ".exe"
	}
	return v.Name
}

// LDFlags returns the linker flags for the variant.
//
//	console              -> -s -w -X main.mode=console
//	windowed, windows    -> -s -w -X main.mode=windowed -H=windowsgui
func LDFlags(v Variant, goos, exitPolicy string) string {
	flags := []string{"-s", "-w", "-X", "main.mode=" + v.Mode.String()}
	if exitPolicy != "" {
		flags = append(flags, "-X", "main.exitPolicy="+exitPolicy)
	}
	if v.Mode == pklaunch.ModeWindowed && goos == "windows" {
		flags = append(flags, "-H=windowsgui")
	}
	return strings.Join(flags, " ")
}

// BuildArgs returns the go command arguments that build the variant.
func BuildArgs(cfg Config, v Variant) []string {
	cfg = cfg.WithDefaults()
	out := filepath.Join(cfg.OutDir, v.BinaryName(cfg.GOOS))
	return []string{
		"build",
		"-trimpath",
		"-ldflags", LDFlags(v, cfg.GOOS, cfg.ExitPolicy),
		"-o", out,
		MainPackage,
	}
}

// Env returns the extra environment for cross-compiling to cfg's target.
func Env(cfg Config) []string {
	cfg = cfg.WithDefaults()
	return []string{
		"GOOS=" + cfg.GOOS,
		"GOARCH=" + cfg.GOARCH,
		"CGO_ENABLED=0",
	}
}

// String describes the variant for logs.
func (v Variant) String() string {
	return fmt.Sprintf("%s (%s)", v.Name, v.Mode)
}
