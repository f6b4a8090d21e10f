package git

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestMockExecutorImplementsInterface checks the mock against the Executor
// contract for arbitrary inputs.
func TestMockExecutorImplementsInterface(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	// Property: MockExecutor satisfies Executor interface for any workDir
	properties.Property("MockExecutor satisfies Executor for any workDir", prop.ForAll(
		func(workDir string) bool {
			mock := NewMockExecutor(workDir)
			var executor Executor = mock
			return executor != nil && executor.WorkDir() == workDir
		},
		gen.AnyString(),
	))

	// Property: Status returns configured function result
	properties.Property("Status returns configured function result", prop.ForAll(
		func(workDir string, statusCount int) bool {
			mock := NewMockExecutor(workDir)
			expectedEntries := make([]StatusEntry, statusCount)
			for i := 0; i < statusCount; i++ {
				expectedEntries[i] = StatusEntry{Status: "A", FilePath: "recipe/meta.yaml"}
			}
			mock.StatusFunc = func() ([]StatusEntry, error) {
				return expectedEntries, nil
			}
			entries, err := mock.Status()
			return err == nil && len(entries) == statusCount
		},
		gen.AnyString(),
		gen.IntRange(0, 10),
	))

	// Property: Add calls configured function with correct paths
	properties.Property("Add calls configured function with correct paths", prop.ForAll(
		func(workDir string, paths []string) bool {
			mock := NewMockExecutor(workDir)
			var receivedPaths []string
			mock.AddFunc = func(p ...string) error {
				receivedPaths = p
				return nil
			}
			err := mock.Add(paths...)
			if err != nil {
				return false
			}
			if len(receivedPaths) != len(paths) {
				return false
			}
			for i, p := range paths {
				if receivedPaths[i] != p {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
		gen.SliceOf(gen.AnyString()),
	))

	// Property: Commit calls configured function with correct parameters
	properties.Property("Commit calls configured function with correct parameters", prop.ForAll(
		func(workDir, message, user, email string) bool {
			mock := NewMockExecutor(workDir)
			var receivedMsg, receivedUser, receivedEmail string
			mock.CommitFunc = func(m, u, e string) error {
				receivedMsg, receivedUser, receivedEmail = m, u, e
				return nil
			}
			err := mock.Commit(message, user, email)
			return err == nil && receivedMsg == message && receivedUser == user && receivedEmail == email
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
	))

	// Property: Error propagation works correctly
	properties.Property("Error propagation works correctly", prop.ForAll(
		func(workDir, errMsg string) bool {
			mock := NewMockExecutor(workDir)
			expectedErr := errors.New(errMsg)
			mock.StatusFunc = func() ([]StatusEntry, error) {
				return nil, expectedErr
			}
			_, err := mock.Status()
			return errors.Is(err, expectedErr)
		},
		gen.AnyString(),
		gen.AnyString().SuchThat(func(s string) bool { return len(s) > 0 }),
	))

	// Property: CreateBranch calls configured function with branch and ref
	properties.Property("CreateBranch calls configured function with branch and ref", prop.ForAll(
		func(workDir, branch, ref string) bool {
			mock := NewMockExecutor(workDir)
			var receivedBranch, receivedRef string
			mock.CreateBranchFunc = func(b, r string) error {
				receivedBranch, receivedRef = b, r
				return nil
			}
			err := mock.CreateBranch(branch, ref)
			return err == nil && receivedBranch == branch && receivedRef == ref
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
	))

	// Property: PushBranch calls configured function with all parameters
	properties.Property("PushBranch calls configured function with all parameters", prop.ForAll(
		func(workDir, remote, branch string, force bool) bool {
			mock := NewMockExecutor(workDir)
			var receivedRemote, receivedBranch string
			var receivedForce bool
			mock.PushBranchFunc = func(r, b string, f bool) (string, error) {
				receivedRemote, receivedBranch, receivedForce = r, b, f
				return "", nil
			}
			_, err := mock.PushBranch(remote, branch, force)
			return err == nil && receivedRemote == remote && receivedBranch == branch && receivedForce == force
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// TestMockExecutorDefaultBehavior verifies default behavior when no functions are configured
func TestMockExecutorDefaultBehavior(t *testing.T) {
	mock := NewMockExecutor("/test/dir")

	t.Run("Status returns nil without error", func(t *testing.T) {
		entries, err := mock.Status()
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if entries != nil {
			t.Errorf("expected nil entries, got %v", entries)
		}
	})

	t.Run("Clone returns nil without error", func(t *testing.T) {
		if err := mock.Clone("git@github.com:user/repo"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("BranchExists reports false", func(t *testing.T) {
		exists, err := mock.BranchExists("upgrade-foo-to-1.2.0")
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if exists {
			t.Error("expected false for unconfigured mock")
		}
	})

	t.Run("Add returns nil without error", func(t *testing.T) {
		if err := mock.Add("recipe"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("Commit returns nil without error", func(t *testing.T) {
		if err := mock.Commit("msg", "user", "email"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("PushBranch returns empty report without error", func(t *testing.T) {
		report, err := mock.PushBranch("origin", "add-foo", true)
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if report != "" {
			t.Errorf("expected empty report, got %q", report)
		}
	})

	t.Run("Fetch returns nil without error", func(t *testing.T) {
		if err := mock.Fetch("upstream"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("CurrentBranch returns a branch name", func(t *testing.T) {
		branch, err := mock.CurrentBranch()
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if branch == "" {
			t.Error("expected a default branch name")
		}
	})

	t.Run("RunShell returns nil without error", func(t *testing.T) {
		if err := mock.RunShell("true"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("WorkDir returns configured directory", func(t *testing.T) {
		if mock.WorkDir() != "/test/dir" {
			t.Errorf("expected /test/dir, got %q", mock.WorkDir())
		}
	})
}
