package feedstock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/condatools/feedstocks/internal/common/logger"
	"github.com/condatools/feedstocks/internal/common/output"
)

var (
	// ErrAlreadyPublished rejects staging a recipe whose feedstock exists
	ErrAlreadyPublished = errors.New("feedstock already published; use 'feedstocks update'")
)

// Create stages new recipes in the operator's staged-recipes fork, one
// branch per package. Already-published packages are rejected before any
// Git or GitHub work happens; a shared-setup failure fails every surviving
// package at the stage it reached, and per-package failures never block the
// rest.
func (p *Pipeline) Create(names []string) []Result {
	user, err := p.Config.RequireGitHubUser()
	if err != nil {
		return failAll(names, StagePending, err)
	}

	type job struct {
		idx     int
		version string
	}

	results := make([]Result, len(names))
	var jobs []job
	for i, name := range names {
		results[i] = Result{Package: name, Stage: StagePending}

		version, err := p.Config.ExpectedVersion(name)
		if err != nil {
			results[i].Err = err
			continue
		}

		_, err = p.Meta.FetchMeta(name)
		switch {
		case err == nil:
			results[i].Err = fmt.Errorf("%w: %s", ErrAlreadyPublished, name)
			continue
		case !errors.Is(err, ErrNotFound):
			results[i].Err = err
			continue
		}

		jobs = append(jobs, job{idx: i, version: version})
	}
	if len(jobs) == 0 {
		return results
	}

	if err := p.ensureFork(user, stagedRecipes); err != nil {
		for _, j := range jobs {
			results[j.idx].Err = err
		}
		return results
	}
	for _, j := range jobs {
		results[j.idx].Stage = StageForkReady
	}

	upstreamURL := fmt.Sprintf("https://github.com/%s/%s.git", upstreamOwner, stagedRecipes)
	ws := p.workspaceFor(user, stagedRecipes, upstreamURL)
	if err := ws.EnsureSynced(); err != nil {
		for _, j := range jobs {
			results[j.idx].Err = err
		}
		return results
	}
	for _, j := range jobs {
		results[j.idx].Stage = StageSynced
	}

	for _, j := range jobs {
		p.createOne(ws, &results[j.idx], j.version)
	}
	return results
}

func (p *Pipeline) createOne(ws *Workspace, res *Result, version string) {
	name := res.Package
	output.Printf(output.Header, "Staging %s %s\n", output.FormatPackage(name), version)

	branch := p.branchName("add-" + name)
	if err := ws.CheckoutBranch(branch); err != nil {
		res.Err = err
		return
	}
	res.Stage = StageBranched

	dest := filepath.Join(ws.Repo.WorkDir(), "recipes", p.Generator.OutputName(name))
	if err := p.Generator.GenerateInto(name, version, dest); err != nil {
		res.Err = err
		return
	}
	res.Stage = StageRegenerated

	committed, err := commitTree(ws.Repo, "recipes", "Add "+name)
	if err != nil {
		res.Err = err
		return
	}
	if !committed {
		logger.Info("%s: recipe unchanged, nothing to commit", name)
	}
	res.Stage = StageCommitted

	if err := pushCurrent(ws.Repo, name, branch); err != nil {
		res.Err = err
		return
	}
	res.Stage = StagePushed
}
