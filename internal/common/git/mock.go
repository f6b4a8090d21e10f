package git

// MockExecutor implements Executor for testing.
// Each method can be configured with a custom function to control behavior.
type MockExecutor struct {
	CloneFunc         func(url string) error
	AddRemoteFunc     func(name, url string) error
	FetchFunc         func(remote string) error
	BranchExistsFunc  func(branch string) (bool, error)
	CreateBranchFunc  func(branch, ref string) error
	CheckoutFunc      func(branch string) error
	ResetHardFunc     func(ref string) error
	StatusFunc        func() ([]StatusEntry, error)
	AddFunc           func(paths ...string) error
	CommitFunc        func(message, user, email string) error
	CurrentBranchFunc func() (string, error)
	PushBranchFunc    func(remote, branch string, force bool) (string, error)
	RunShellFunc      func(snippet string) error
	workDir           string
}

// NewMockExecutor creates a new MockExecutor with the specified working directory
func NewMockExecutor(workDir string) *MockExecutor {
	return &MockExecutor{
		workDir: workDir,
	}
}

// Clone clones url into the working directory
func (m *MockExecutor) Clone(url string) error {
	if m.CloneFunc != nil {
		return m.CloneFunc(url)
	}
	return nil
}

// AddRemote registers an additional remote
func (m *MockExecutor) AddRemote(name, url string) error {
	if m.AddRemoteFunc != nil {
		return m.AddRemoteFunc(name, url)
	}
	return nil
}

// Fetch fetches changes from a remote repository
func (m *MockExecutor) Fetch(remote string) error {
	if m.FetchFunc != nil {
		return m.FetchFunc(remote)
	}
	return nil
}

// BranchExists reports whether a local branch exists
func (m *MockExecutor) BranchExists(branch string) (bool, error) {
	if m.BranchExistsFunc != nil {
		return m.BranchExistsFunc(branch)
	}
	return false, nil
}

// CreateBranch creates and checks out a branch starting at ref
func (m *MockExecutor) CreateBranch(branch, ref string) error {
	if m.CreateBranchFunc != nil {
		return m.CreateBranchFunc(branch, ref)
	}
	return nil
}

// Checkout checks out an existing branch
func (m *MockExecutor) Checkout(branch string) error {
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(branch)
	}
	return nil
}

// ResetHard resets the worktree hard to ref
func (m *MockExecutor) ResetHard(ref string) error {
	if m.ResetHardFunc != nil {
		return m.ResetHardFunc(ref)
	}
	return nil
}

// Status returns the current git status as a list of StatusEntry
func (m *MockExecutor) Status() ([]StatusEntry, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc()
	}
	return nil, nil
}

// Add stages files for commit
func (m *MockExecutor) Add(paths ...string) error {
	if m.AddFunc != nil {
		return m.AddFunc(paths...)
	}
	return nil
}

// Commit creates a git commit with the specified message and author
func (m *MockExecutor) Commit(message, user, email string) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(message, user, email)
	}
	return nil
}

// CurrentBranch returns the checked-out branch name
func (m *MockExecutor) CurrentBranch() (string, error) {
	if m.CurrentBranchFunc != nil {
		return m.CurrentBranchFunc()
	}
	return "main", nil
}

// PushBranch pushes branch to remote
func (m *MockExecutor) PushBranch(remote, branch string, force bool) (string, error) {
	if m.PushBranchFunc != nil {
		return m.PushBranchFunc(remote, branch, force)
	}
	return "", nil
}

// RunShell runs a shell snippet inside the working directory
func (m *MockExecutor) RunShell(snippet string) error {
	if m.RunShellFunc != nil {
		return m.RunShellFunc(snippet)
	}
	return nil
}

// WorkDir returns the working directory of the git repository
func (m *MockExecutor) WorkDir() string {
	return m.workDir
}

// Ensure MockExecutor implements Executor interface
var _ Executor = (*MockExecutor)(nil)
