package feedstock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/condatools/feedstocks/internal/common/output"
	"github.com/condatools/feedstocks/internal/common/run"
	"github.com/condatools/feedstocks/internal/recipe"
)

const buildSubdir = "build"

var (
	// ErrDependencyCycle indicates recipes require each other in a loop
	ErrDependencyCycle = errors.New("recipes depend on each other in a cycle")
)

// ScanRecipes renders the meta.yaml of every immediate subdirectory of dir
// (skipping the build output directory) and returns recipe name to
// requirement tokens. Subdirectories without a meta.yaml are ignored.
func ScanRecipes(dir string) (map[string][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	deps := make(map[string][]string)
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == buildSubdir {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name(), "meta.yaml"))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		meta, err := recipe.ParseMeta(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		deps[entry.Name()] = meta.RequirementNames()
	}
	return deps, nil
}

// BuildOrder sorts recipe directories so dependencies build first. Only
// requirements naming another scanned recipe form edges; ties break
// alphabetically so runs are reproducible. A cycle is an error naming its
// members.
func BuildOrder(deps map[string][]string) ([]string, error) {
	indegree := make(map[string]int, len(deps))
	dependents := make(map[string][]string, len(deps))
	for name := range deps {
		indegree[name] = 0
	}
	for name, reqs := range deps {
		for _, req := range reqs {
			if req == name {
				continue
			}
			if _, ok := deps[req]; !ok {
				continue
			}
			dependents[req] = append(dependents[req], name)
			indegree[name]++
		}
	}

	var ready []string
	for name, degree := range indegree {
		if degree == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(deps))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				at := sort.SearchStrings(ready, dependent)
				ready = append(ready, "")
				copy(ready[at+1:], ready[at:])
				ready[at] = dependent
			}
		}
	}

	if len(order) < len(deps) {
		var cyclic []string
		for name, degree := range indegree {
			if degree > 0 {
				cyclic = append(cyclic, name)
			}
		}
		sort.Strings(cyclic)
		return nil, fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(cyclic, ", "))
	}
	return order, nil
}

// Build renders, orders, and builds every recipe under dir, collecting
// artifacts in <dir>/build. The first tool failure aborts the remaining
// builds, since later recipes may need the failed artifact. Returns the
// recipes built so far.
func Build(tools run.Runner, condaBin, dir string, channels []string, noTest bool) ([]string, error) {
	deps, err := ScanRecipes(dir)
	if err != nil {
		return nil, err
	}
	order, err := BuildOrder(deps)
	if err != nil {
		return nil, err
	}

	outputDir := filepath.Join(dir, buildSubdir)
	extra := make([]string, 0, 2*len(channels)+1)
	for _, channel := range channels {
		extra = append(extra, "-c", channel)
	}
	if noTest {
		extra = append(extra, "--no-test")
	}

	var built []string
	for _, name := range order {
		output.PrintInfo("Building %s", name)
		args := append([]string{"build", filepath.Join(dir, name), "--output-folder", outputDir}, extra...)
		if _, _, err := tools.Run(condaBin, args, ""); err != nil {
			return built, fmt.Errorf("building %s: %w", name, err)
		}
		built = append(built, name)
	}
	return built, nil
}
