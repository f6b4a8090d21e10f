package feedstock

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/condatools/feedstocks/internal/common/config"
	"github.com/condatools/feedstocks/internal/common/forge"
	"github.com/condatools/feedstocks/internal/common/git"
	"github.com/condatools/feedstocks/internal/common/output"
	"github.com/condatools/feedstocks/internal/common/run"
	"github.com/condatools/feedstocks/internal/recipe"
)

const (
	upstreamOwner  = "conda-forge"
	stagedRecipes  = "staged-recipes"
	defaultDataDir = "data"
)

// Pipeline carries the collaborators the update and create workflows share.
// Every field is swappable, so tests can run the full state machine against
// fakes without touching the network or spawning tools.
type Pipeline struct {
	Config    *config.Config
	Meta      MetaSource
	Forge     forge.Forge
	Tools     run.Runner
	Generator *recipe.Generator
	DataDir   string
	Branch    string // branch-name override; empty means deterministic names
	NewGit    func(workDir string) git.Executor
}

// NewPipeline wires the production collaborators. The prefix is applied to
// generated recipe names and to requirements naming configured packages.
func NewPipeline(cfg *config.Config, f forge.Forge, prefix string) *Pipeline {
	tools := &run.ExecRunner{}
	return &Pipeline{
		Config:    cfg,
		Meta:      NewMetaSource(),
		Forge:     f,
		Tools:     tools,
		Generator: recipe.New(cfg.Grayskull(), prefix, cfg.Names(), tools),
		DataDir:   defaultDataDir,
		NewGit: func(workDir string) git.Executor {
			return git.NewRunner(tools, workDir)
		},
	}
}

func (p *Pipeline) dataDir() string {
	if p.DataDir == "" {
		return defaultDataDir
	}
	return p.DataDir
}

// branchName returns the override when one is set, the deterministic name
// otherwise.
func (p *Pipeline) branchName(deterministic string) string {
	if p.Branch != "" {
		return p.Branch
	}
	return deterministic
}

// ensureFork makes sure the operator's fork of a conda-forge repository
// exists, reporting when one was just requested.
func (p *Pipeline) ensureFork(user, repoName string) error {
	created, err := forge.EnsureFork(context.Background(), p.Forge, user, upstreamOwner, repoName)
	if err != nil {
		return err
	}
	if created {
		output.PrintInfo("Forked %s/%s", upstreamOwner, repoName)
	}
	return nil
}

// workspaceFor builds the working-copy handle for a fork of repoName.
func (p *Pipeline) workspaceFor(user, repoName, upstreamURL string) *Workspace {
	return &Workspace{
		Repo:       p.NewGit(filepath.Join(p.dataDir(), repoName)),
		CloneURL:   fmt.Sprintf("git@github.com:%s/%s", user, repoName),
		Upstream:   upstreamURL,
		AfterClone: p.Config.AfterClone,
	}
}

// commitMessage is the upgrade commit line, carrying the generator version
// when the tool reports one.
func (p *Pipeline) commitMessage(name, version string) string {
	if gv := p.Generator.Version(); gv != "" {
		return fmt.Sprintf("%s@%s (grayskull %s)", name, version, gv)
	}
	return fmt.Sprintf("%s@%s", name, version)
}

// pushCurrent force-pushes branch to the fork and reports the no-op case.
func pushCurrent(repo git.Executor, name, branch string) error {
	out, err := repo.PushBranch("origin", branch, true)
	if err != nil {
		return err
	}
	if pushedUpToDate(out) {
		output.PrintSuccess("%s: branch %s already up to date", name, branch)
	} else {
		output.PrintSuccess("%s: pushed branch %s", name, branch)
	}
	return nil
}
