package git

// Executor defines the interface for git operations.
// This interface allows for mocking git operations in tests.
type Executor interface {
	// Clone clones url into the executor's working directory
	Clone(url string) error

	// AddRemote registers an additional remote
	AddRemote(name, url string) error

	// Fetch fetches changes from a remote repository
	Fetch(remote string) error

	// BranchExists reports whether a local branch exists
	BranchExists(branch string) (bool, error)

	// CreateBranch creates and checks out a branch starting at ref
	CreateBranch(branch, ref string) error

	// Checkout checks out an existing branch
	Checkout(branch string) error

	// ResetHard resets the worktree hard to ref (HEAD when ref is empty)
	ResetHard(ref string) error

	// Status returns the current git status as a list of StatusEntry
	Status() ([]StatusEntry, error)

	// Add stages files for commit
	Add(paths ...string) error

	// Commit creates a git commit with the specified message and author
	Commit(message, user, email string) error

	// CurrentBranch returns the checked-out branch name
	CurrentBranch() (string, error)

	// PushBranch pushes branch to remote and returns git's own report,
	// which callers inspect for the up-to-date no-op case
	PushBranch(remote, branch string, force bool) (string, error)

	// RunShell runs a shell snippet inside the working directory
	RunShell(snippet string) error

	// WorkDir returns the working directory of the git repository
	WorkDir() string
}
