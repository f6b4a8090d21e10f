package feedstock

import (
	"os"
	"path/filepath"

	"github.com/condatools/feedstocks/internal/common/config"
	"github.com/condatools/feedstocks/internal/common/output"
	"github.com/condatools/feedstocks/internal/recipe"
)

// Generate writes recipes for the named packages into dir without touching
// Git or GitHub. StageRegenerated is the terminal success stage for this
// front-end; failures are per-package, like the other pipelines.
func Generate(cfg *config.Config, gen *recipe.Generator, dir string, names []string) []Result {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return failAll(names, StagePending, err)
	}

	results := make([]Result, 0, len(names))
	for _, name := range names {
		res := Result{Package: name, Stage: StagePending}

		version, err := cfg.ExpectedVersion(name)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		output.PrintInfo("Generating %s %s", name, version)
		dest := filepath.Join(dir, gen.OutputName(name))
		if err := gen.GenerateInto(name, version, dest); err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		res.Stage = StageRegenerated
		results = append(results, res)
	}
	return results
}
