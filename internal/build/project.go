package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fredrikaverpil/pklaunch"
)

// ProjectFileName is the pkvenv project file read from the module root.
const ProjectFileName = "pkvenv.json"

// Project holds the launch settings of a pkvenv project file.
// Only the fields that affect launching are read.
type Project struct {
	// Name is the base name of the launch scripts.
	Name string `json:"name"`
	// Args is the interpreter command line, e.g. "-m app_main".
	Args string `json:"args"`
}

// LoadProject reads the project file at path.
func LoadProject(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// launchScript returns the name, mode and arguments of the launch scripts.
// Values from a project file in cfg.Root take precedence over cfg; a missing
// project file is not an error.
func launchScript(cfg Config) (name string, mode pklaunch.Mode, args []string, err error) {
	cfg = cfg.WithDefaults()
	name, mode, args = cfg.ScriptName, cfg.ScriptMode, cfg.ScriptArgs

	p, err := LoadProject(filepath.Join(cfg.Root, ProjectFileName))
	if errors.Is(err, os.ErrNotExist) {
		return name, mode, args, nil
	}
	if err != nil {
		return "", mode, nil, err
	}
	if p.Name != "" {
		name = p.Name
	}
	if fields := strings.Fields(p.Args); len(fields) > 0 {
		args = fields
	}
	return name, mode, args, nil
}
