package feedstock

import (
	"strings"

	"github.com/condatools/feedstocks/internal/common/git"
	"github.com/condatools/feedstocks/internal/common/output"
)

// Stage marks how far a package advanced through a pipeline run
type Stage int

const (
	// StagePending means nothing has happened for the package yet
	StagePending Stage = iota
	// StageForkReady means the fork exists under the operator's account
	StageForkReady
	// StageSynced means the working copy exists and upstream is fetched
	StageSynced
	// StageBranched means the work branch is checked out and reset
	StageBranched
	// StageRegenerated means the recipe (and CI files) were regenerated
	StageRegenerated
	// StageCommitted means the regenerated tree is committed (or was clean)
	StageCommitted
	// StagePushed means the branch is on the fork; terminal success
	StagePushed
)

// String returns a human-readable stage name
func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageForkReady:
		return "fork ready"
	case StageSynced:
		return "synced"
	case StageBranched:
		return "branched"
	case StageRegenerated:
		return "regenerated"
	case StageCommitted:
		return "committed"
	case StagePushed:
		return "pushed"
	default:
		return "unknown"
	}
}

// Result is the terminal outcome of one package's pipeline run. Stage is the
// furthest stage the package completed; Err carries the cause when the next
// stage failed.
type Result struct {
	Package string
	Stage   Stage
	Err     error
}

// Failed reports whether the package's pipeline aborted.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Failures counts the failed results.
func Failures(results []Result) int {
	count := 0
	for _, r := range results {
		if r.Failed() {
			count++
		}
	}
	return count
}

// FormatResults renders the end-of-run summary, one line per package.
func FormatResults(results []Result) string {
	var sb strings.Builder
	for _, r := range results {
		if r.Failed() {
			sb.WriteString(output.Sprintf(output.Error, "✗ %s: failed after %s: %v\n", r.Package, r.Stage, r.Err))
		} else {
			sb.WriteString(output.Sprintf(output.Success, "✓ %s: %s\n", r.Package, r.Stage))
		}
	}
	return sb.String()
}

// failAll marks every package failed at the same stage with a shared cause.
func failAll(names []string, stage Stage, err error) []Result {
	results := make([]Result, len(names))
	for i, name := range names {
		results[i] = Result{Package: name, Stage: stage, Err: err}
	}
	return results
}

// commitTree stages path and commits with message, skipping the commit when
// the worktree is already clean. Reports whether a commit was created.
func commitTree(repo git.Executor, path, message string) (bool, error) {
	if err := repo.Add(path); err != nil {
		return false, err
	}
	entries, err := repo.Status()
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, nil
	}
	if err := repo.Commit(message, "", ""); err != nil {
		return false, err
	}
	return true, nil
}

// pushedUpToDate recognizes git's report that the remote already had
// everything the push carried.
func pushedUpToDate(pushOutput string) bool {
	return strings.Contains(pushOutput, "Everything up-to-date") ||
		strings.Contains(pushOutput, "up to date")
}
