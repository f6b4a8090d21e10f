package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/condatools/feedstocks/internal/common/run"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrPathOutsideRepo = errors.New("path is outside the repository")
	ErrInvalidPath     = errors.New("invalid path")
	ErrGitCommand      = errors.New("git command failed")
)

// Runner executes git commands in a specific working directory through a
// run.Runner, so the same code drives real git and the test fake.
type Runner struct {
	tools   run.Runner
	workDir string
}

// NewRunner creates a Runner for the specified working directory
func NewRunner(tools run.Runner, workDir string) *Runner {
	return &Runner{
		tools:   tools,
		workDir: workDir,
	}
}

// WorkDir returns the working directory of the Runner
func (g *Runner) WorkDir() string {
	return g.workDir
}

// git executes a git command in the working directory
func (g *Runner) git(args ...string) (stdout, stderr string, err error) {
	stdout, stderr, err = g.tools.Run("git", args, g.workDir)
	if err != nil {
		err = errors.Join(ErrGitCommand, err)
	}
	return stdout, stderr, err
}

// Clone clones url into the working directory. The clone itself runs from
// the process directory because the target does not exist yet.
func (g *Runner) Clone(url string) error {
	_, _, err := g.tools.Run("git", []string{"clone", url, g.workDir}, "")
	if err != nil {
		return errors.Join(ErrGitCommand, err)
	}
	return nil
}

// AddRemote registers an additional remote
func (g *Runner) AddRemote(name, url string) error {
	_, _, err := g.git("remote", "add", name, url)
	return err
}

// Fetch fetches changes from a remote repository
func (g *Runner) Fetch(remote string) error {
	_, _, err := g.git("fetch", remote)
	return err
}

// BranchExists reports whether a local branch exists
func (g *Runner) BranchExists(branch string) (bool, error) {
	stdout, _, err := g.git("branch", "--list", branch)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(stdout) != "", nil
}

// CreateBranch creates and checks out a branch starting at ref
func (g *Runner) CreateBranch(branch, ref string) error {
	args := []string{"checkout", "-b", branch}
	if ref != "" {
		args = append(args, ref)
	}
	_, _, err := g.git(args...)
	return err
}

// Checkout checks out an existing branch
func (g *Runner) Checkout(branch string) error {
	_, _, err := g.git("checkout", branch)
	return err
}

// ResetHard resets the worktree hard to ref (HEAD when ref is empty)
func (g *Runner) ResetHard(ref string) error {
	args := []string{"reset", "--hard"}
	if ref != "" {
		args = append(args, ref)
	}
	_, _, err := g.git(args...)
	return err
}

// StatusEntry represents a single entry from git status --porcelain
type StatusEntry struct {
	Status   string // A, M, D, R, ??
	FilePath string
}

// Status returns the current git status as a list of StatusEntry
func (g *Runner) Status() ([]StatusEntry, error) {
	stdout, _, err := g.git("status", "--porcelain")
	if err != nil {
		return nil, err
	}

	return ParseStatusOutput(stdout), nil
}

// ParseStatusOutput parses `git status --porcelain` output. Each line is
// "XY path" where X is the index status and Y the worktree status.
func ParseStatusOutput(output string) []StatusEntry {
	var entries []StatusEntry
	for _, line := range strings.Split(output, "\n") {
		if entry, ok := parseStatusLine(line); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func parseStatusLine(line string) (StatusEntry, bool) {
	if len(line) < 3 {
		return StatusEntry{}, false
	}

	status := strings.TrimSpace(line[:2])
	path := line[3:]

	// A rename reads "R  old -> new"; the new path is the one that exists.
	if strings.HasPrefix(status, "R") {
		if _, renamed, ok := strings.Cut(path, " -> "); ok {
			path = renamed
		}
	}

	return StatusEntry{Status: status, FilePath: path}, true
}

// Add stages paths for commit, validating that each stays inside the
// repository. With no paths it stages everything.
func (g *Runner) Add(paths ...string) error {
	if len(paths) == 0 {
		_, _, err := g.git("add", ".")
		return err
	}

	for _, path := range paths {
		if err := g.stagePath(path); err != nil {
			return err
		}
	}
	return nil
}

// stagePath adds one path after checking it resolves inside workDir and
// exists. Escape attempts are rejected before the existence check.
func (g *Runner) stagePath(path string) error {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(g.workDir, abs)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(filepath.Clean(g.workDir), abs)
	if err != nil {
		return errors.Join(ErrInvalidPath, err)
	}
	if strings.HasPrefix(rel, "..") {
		return ErrPathOutsideRepo
	}
	if _, err := os.Stat(abs); err != nil {
		return ErrFileNotFound
	}

	_, _, err = g.git("add", path)
	return err
}

// Commit records staged changes, optionally under an explicit author.
func (g *Runner) Commit(message, user, email string) error {
	args := []string{"commit", "-m", message}
	if user != "" && email != "" {
		args = append(args, "--author", fmt.Sprintf("%s <%s>", user, email))
	}

	_, _, err := g.git(args...)
	return err
}

// CurrentBranch returns the checked-out branch name
func (g *Runner) CurrentBranch() (string, error) {
	stdout, _, err := g.git("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}

// PushBranch pushes branch to remote as itself. Git reports the interesting
// outcomes of a push on stderr even on success, so both streams are returned
// to the caller for inspection.
func (g *Runner) PushBranch(remote, branch string, force bool) (string, error) {
	args := []string{"push"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, remote, branch+":"+branch)

	stdout, stderr, err := g.git(args...)
	output := strings.TrimSpace(stdout + stderr)
	if err != nil {
		return output, err
	}
	return output, nil
}

// RunShell runs a shell snippet inside the working directory. Used for the
// configured after_clone hook.
func (g *Runner) RunShell(snippet string) error {
	_, _, err := g.tools.Run("bash", []string{"-c", snippet}, g.workDir)
	return err
}

// Ensure Runner implements Executor interface
var _ Executor = (*Runner)(nil)
