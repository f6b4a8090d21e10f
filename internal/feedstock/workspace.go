package feedstock

import (
	"os"

	"github.com/condatools/feedstocks/internal/common/git"
	"github.com/condatools/feedstocks/internal/common/logger"
)

// Workspace is a local working copy of a fork under the data directory.
// It is created on first use and deliberately left on disk afterward so the
// operator can inspect what was pushed.
type Workspace struct {
	Repo       git.Executor
	CloneURL   string
	Upstream   string
	AfterClone string
}

// EnsureSynced clones the fork if the working copy is missing (registering
// the upstream remote and running the after_clone hook), then fetches
// upstream so branch points are fresh.
func (w *Workspace) EnsureSynced() error {
	if _, err := os.Stat(w.Repo.WorkDir()); os.IsNotExist(err) {
		logger.Info("cloning %s into %s", w.CloneURL, w.Repo.WorkDir())
		if err := w.Repo.Clone(w.CloneURL); err != nil {
			return err
		}
		if err := w.Repo.AddRemote("upstream", w.Upstream); err != nil {
			return err
		}
		if w.AfterClone != "" {
			logger.Debug("running after_clone hook")
			if err := w.Repo.RunShell(w.AfterClone); err != nil {
				return err
			}
		}
	}
	return w.Repo.Fetch("upstream")
}

// CheckoutBranch makes branch current. A missing branch starts at
// upstream/master with a hard reset; an existing one is checked out and
// reset to its own tip, so a rerun finds the previous run's work in place
// instead of recreating it.
func (w *Workspace) CheckoutBranch(branch string) error {
	exists, err := w.Repo.BranchExists(branch)
	if err != nil {
		return err
	}
	if !exists {
		if err := w.Repo.CreateBranch(branch, "upstream/master"); err != nil {
			return err
		}
		return w.Repo.ResetHard("upstream/master")
	}
	if err := w.Repo.Checkout(branch); err != nil {
		return err
	}
	return w.Repo.ResetHard("")
}
