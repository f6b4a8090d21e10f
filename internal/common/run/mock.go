package run

// Call records one invocation handed to a MockRunner.
type Call struct {
	Name string
	Args []string
	Dir  string
}

// MockRunner implements Runner for testing. It records every call so tests
// can assert which tools ran (or that none did), and RunFunc controls the
// simulated outcome.
type MockRunner struct {
	RunFunc func(name string, args []string, dir string) (stdout, stderr string, err error)
	Calls   []Call
}

// NewMockRunner creates a MockRunner whose commands all succeed with empty
// output until RunFunc is set.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// Run records the call and delegates to RunFunc when configured.
func (m *MockRunner) Run(name string, args []string, dir string) (stdout, stderr string, err error) {
	m.Calls = append(m.Calls, Call{Name: name, Args: args, Dir: dir})
	if m.RunFunc != nil {
		return m.RunFunc(name, args, dir)
	}
	return "", "", nil
}

// CallCount returns how many commands were run.
func (m *MockRunner) CallCount() int {
	return len(m.Calls)
}

// Ensure MockRunner implements Runner interface
var _ Runner = (*MockRunner)(nil)
