// Package shim generates fallback launch scripts for a pkvenv bundle.
// The scripts start the bundled interpreter directly, for platforms or
// situations where the native launcher cannot be used.
package shim

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/fredrikaverpil/pklaunch"
)

//go:embed launch.bat.tmpl
var batTemplate string

//go:embed launch.sh.tmpl
var shTemplate string

// shimData holds the template data for generating a launch script.
type shimData struct {
	Python string
	Args   string
}

// script describes one generated launch script.
type script struct {
	ext      string
	tmpl     string
	perm     os.FileMode
	sep      string
	quoteArg func(string) string
}

var scripts = []script{
	{ext: ".bat", tmpl: batTemplate, perm: 0o644, sep: `\`, quoteArg: quoteBat},
	{ext: ".sh", tmpl: shTemplate, perm: 0o755, sep: "/", quoteArg: quoteSh},
}

// Generate writes <name>.bat and <name>.sh into dir. The scripts run the
// interpreter selected by mode with args (pklaunch.DefaultArgs() when empty).
// It returns the paths of the written files.
func Generate(dir, name string, mode pklaunch.Mode, args []string) ([]string, error) {
	if name == "" {
		return nil, fmt.Errorf("launch script name is empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("launch script name %q must not contain path separators", name)
	}
	if len(args) == 0 {
		args = pklaunch.DefaultArgs()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	var written []string
	for _, s := range scripts {
		path := filepath.Join(dir, name+s.ext)
		if err := generateScript(s, path, mode, args); err != nil {
			return written, fmt.Errorf("generating %s: %w", filepath.Base(path), err)
		}
		written = append(written, path)
	}
	return written, nil
}

func generateScript(s script, path string, mode pklaunch.Mode, args []string) error {
	tmpl, err := template.New(filepath.Base(path)).Parse(s.tmpl)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = s.quoteArg(a)
	}
	data := shimData{
		Python: interpreterPath(mode, s.sep),
		Args:   strings.Join(quoted, " "),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), s.perm); err != nil {
		return fmt.Errorf("writing script: %w", err)
	}
	return nil
}

// interpreterPath returns the interpreter path for mode using sep as the
// separator, independent of the host platform.
//
//	ModeConsole, `\` -> Python\python.exe
//	ModeWindowed, "/" -> Python/pythonw.exe
func interpreterPath(mode pklaunch.Mode, sep string) string {
	return strings.ReplaceAll(filepath.ToSlash(pklaunch.ExecutablePath(mode)), "/", sep)
}

// quoteSh single-quotes an argument for POSIX sh when needed.
func quoteSh(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\n'\"\\$`*?[]{}()<>|&;#~!") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// quoteBat double-quotes an argument for cmd.exe when needed. Percent signs
// are doubled in every case; quoting does not stop variable expansion in a
// batch file.
func quoteBat(arg string) string {
	escaped := strings.ReplaceAll(arg, "%", "%%")
	if arg != "" && !strings.ContainsAny(arg, " \t&|<>^\"") {
		return escaped
	}
	return `"` + strings.ReplaceAll(escaped, `"`, `""`) + `"`
}
