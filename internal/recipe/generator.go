// Package recipe wraps the grayskull recipe generator and the small amount
// of meta.yaml surgery the pipelines need around it.
package recipe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/condatools/feedstocks/internal/common/run"
)

var (
	// ErrGenerate indicates the generator ran but produced no usable recipe
	ErrGenerate = errors.New("recipe generation failed")
)

// Generator produces conda recipes from PyPI releases by shelling out to
// grayskull. Generation always happens in a scratch directory; the result is
// copied into the destination only once it is complete, so a failed run never
// leaves half a recipe behind.
type Generator struct {
	Bin    string   // grayskull executable, default "grayskull"
	Prefix string   // optional prefix applied to recipe names
	Known  []string // package names eligible for requirement prefixing

	tools run.Runner

	versionOnce sync.Once
	version     string
}

// New builds a Generator that invokes bin through the given runner.
func New(bin, prefix string, known []string, tools run.Runner) *Generator {
	if bin == "" {
		bin = "grayskull"
	}
	return &Generator{Bin: bin, Prefix: prefix, Known: known, tools: tools}
}

// Version reports the generator's own version for commit messages, probing
// the tool once per Generator. Best effort: an empty string means it could
// not be determined.
func (g *Generator) Version() string {
	g.versionOnce.Do(func() {
		stdout, _, err := g.tools.Run(g.Bin, []string{"--version"}, "")
		if err != nil {
			return
		}
		line, _, _ := strings.Cut(strings.TrimSpace(stdout), "\n")
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return
		}
		g.version = strings.TrimPrefix(fields[len(fields)-1], "v")
	})
	return g.version
}

// OutputName is the directory name a generated recipe gets: the package name
// with the configured prefix applied.
func (g *Generator) OutputName(pkg string) string {
	return g.Prefix + pkg
}

// GenerateInto generates the recipe for pkg at the given version and copies
// it into dest, creating dest if needed. Existing files in dest are
// overwritten, which is what recipe regeneration wants.
func (g *Generator) GenerateInto(pkg, version, dest string) error {
	scratch, err := os.MkdirTemp("", "feedstocks-recipe-")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	spec := fmt.Sprintf("%s==%s", pkg, version)
	if _, _, err := g.tools.Run(g.Bin, []string{"pypi", spec, "-o", scratch}, ""); err != nil {
		return err
	}

	src, err := findGenerated(scratch, pkg)
	if err != nil {
		return err
	}

	if g.Prefix != "" {
		metaPath := filepath.Join(src, "meta.yaml")
		raw, err := os.ReadFile(metaPath)
		if err != nil {
			return errors.Join(ErrGenerate, fmt.Errorf("read generated meta.yaml: %w", err))
		}
		rewritten := ApplyPrefix(string(raw), g.Prefix, g.Known)
		if err := os.WriteFile(metaPath, []byte(rewritten), 0o644); err != nil {
			return errors.Join(ErrGenerate, fmt.Errorf("rewrite generated meta.yaml: %w", err))
		}
	}

	return copyTree(src, dest)
}

// findGenerated locates the recipe directory grayskull wrote. The directory
// is normally named after the package, but grayskull normalizes names, so a
// lone subdirectory is accepted too.
func findGenerated(scratch, pkg string) (string, error) {
	direct := filepath.Join(scratch, pkg)
	if info, err := os.Stat(direct); err == nil && info.IsDir() {
		return direct, nil
	}

	entries, err := os.ReadDir(scratch)
	if err != nil {
		return "", errors.Join(ErrGenerate, err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	if len(dirs) == 1 {
		return filepath.Join(scratch, dirs[0]), nil
	}
	return "", errors.Join(ErrGenerate, fmt.Errorf("no recipe output for %s (found %d directories)", pkg, len(dirs)))
}

// copyTree copies the contents of src into dst, creating dst if needed and
// overwriting files that already exist.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
