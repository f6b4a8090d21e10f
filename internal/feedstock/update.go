package feedstock

import (
	"fmt"
	"path/filepath"

	"github.com/condatools/feedstocks/internal/common/logger"
	"github.com/condatools/feedstocks/internal/common/output"
)

// Update runs the upgrade pipeline for every named package. Packages are
// fail-isolated: one failure is recorded in its Result and the remaining
// packages still run.
func (p *Pipeline) Update(names []string) []Result {
	user, err := p.Config.RequireGitHubUser()
	if err != nil {
		return failAll(names, StagePending, err)
	}

	results := make([]Result, 0, len(names))
	for _, name := range names {
		results = append(results, p.updateOne(user, name))
	}
	return results
}

func (p *Pipeline) updateOne(user, name string) Result {
	res := Result{Package: name, Stage: StagePending}

	version, err := p.Config.ExpectedVersion(name)
	if err != nil {
		res.Err = err
		return res
	}

	output.Printf(output.Header, "Upgrading %s to %s\n", output.FormatPackage(name), version)

	repoName := name + "-feedstock"
	if err := p.ensureFork(user, repoName); err != nil {
		res.Err = err
		return res
	}
	res.Stage = StageForkReady

	upstreamURL := fmt.Sprintf("https://github.com/%s/%s", upstreamOwner, repoName)
	ws := p.workspaceFor(user, repoName, upstreamURL)
	if err := ws.EnsureSynced(); err != nil {
		res.Err = err
		return res
	}
	res.Stage = StageSynced

	branch := p.branchName(fmt.Sprintf("upgrade-%s-to-%s", name, version))
	if err := ws.CheckoutBranch(branch); err != nil {
		res.Err = err
		return res
	}
	res.Stage = StageBranched

	recipeDir := filepath.Join(ws.Repo.WorkDir(), "recipe")
	if err := p.Generator.GenerateInto(name, version, recipeDir); err != nil {
		res.Err = err
		return res
	}
	output.PrintInfo("Rerendering CI files for %s", name)
	if _, _, err := p.Tools.Run(p.Config.CondaBin(), []string{"smithy", "rerender"}, ws.Repo.WorkDir()); err != nil {
		res.Err = err
		return res
	}
	res.Stage = StageRegenerated

	committed, err := commitTree(ws.Repo, "recipe", p.commitMessage(name, version))
	if err != nil {
		res.Err = err
		return res
	}
	if !committed {
		logger.Info("%s: recipe unchanged, nothing to commit", name)
	}
	res.Stage = StageCommitted

	if err := pushCurrent(ws.Repo, name, branch); err != nil {
		res.Err = err
		return res
	}
	res.Stage = StagePushed
	return res
}
