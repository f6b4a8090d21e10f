package git

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/condatools/feedstocks/internal/common/run"
)

func TestParseStatusOutput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []StatusEntry
	}{
		{
			name:     "empty output",
			input:    "",
			expected: nil,
		},
		{
			name:  "single added file",
			input: "A  recipe/meta.yaml\n",
			expected: []StatusEntry{
				{Status: "A", FilePath: "recipe/meta.yaml"},
			},
		},
		{
			name:  "single modified file",
			input: "M  recipe/meta.yaml\n",
			expected: []StatusEntry{
				{Status: "M", FilePath: "recipe/meta.yaml"},
			},
		},
		{
			name:  "single deleted file",
			input: "D  recipe/build.sh\n",
			expected: []StatusEntry{
				{Status: "D", FilePath: "recipe/build.sh"},
			},
		},
		{
			name:  "untracked file",
			input: "?? recipes/newpkg/meta.yaml\n",
			expected: []StatusEntry{
				{Status: "??", FilePath: "recipes/newpkg/meta.yaml"},
			},
		},
		{
			name:  "renamed file",
			input: "R  old-name.txt -> new-name.txt\n",
			expected: []StatusEntry{
				{Status: "R", FilePath: "new-name.txt"},
			},
		},
		{
			name: "multiple files",
			input: `A  recipes/foo/meta.yaml
M  .azure-pipelines/azure-pipelines-linux.yml
D  recipe/old-patch.diff
?? new-file.txt
`,
			expected: []StatusEntry{
				{Status: "A", FilePath: "recipes/foo/meta.yaml"},
				{Status: "M", FilePath: ".azure-pipelines/azure-pipelines-linux.yml"},
				{Status: "D", FilePath: "recipe/old-patch.diff"},
				{Status: "??", FilePath: "new-file.txt"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseStatusOutput(tt.input)

			if len(result) != len(tt.expected) {
				t.Errorf("expected %d entries, got %d", len(tt.expected), len(result))
				return
			}

			for i, entry := range result {
				if entry.Status != tt.expected[i].Status {
					t.Errorf("entry %d: expected status %q, got %q", i, tt.expected[i].Status, entry.Status)
				}
				if entry.FilePath != tt.expected[i].FilePath {
					t.Errorf("entry %d: expected path %q, got %q", i, tt.expected[i].FilePath, entry.FilePath)
				}
			}
		})
	}
}

func TestNewRunner(t *testing.T) {
	workDir := "/tmp/test-repo"
	runner := NewRunner(run.NewExecRunner(), workDir)

	if runner.WorkDir() != workDir {
		t.Errorf("expected workDir %q, got %q", workDir, runner.WorkDir())
	}
}

// initTestRepo creates a git repository with a committed file and returns a
// Runner for it.
func initTestRepo(t *testing.T) *Runner {
	t.Helper()

	tmpDir := t.TempDir()
	runner := NewRunner(run.NewExecRunner(), tmpDir)

	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test User"},
	} {
		if _, _, err := runner.git(args...); err != nil {
			t.Fatalf("git %v failed: %v", args, err)
		}
	}

	seed := filepath.Join(tmpDir, "seed.txt")
	if err := os.WriteFile(seed, []byte("seed"), 0644); err != nil {
		t.Fatalf("failed to create seed file: %v", err)
	}
	if err := runner.Add("seed.txt"); err != nil {
		t.Fatalf("failed to add seed file: %v", err)
	}
	if err := runner.Commit("seed", "", ""); err != nil {
		t.Fatalf("failed to commit seed: %v", err)
	}

	return runner
}

func TestAddPathValidation(t *testing.T) {
	runner := initTestRepo(t)
	tmpDir := runner.WorkDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("test content"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	t.Run("add existing file succeeds", func(t *testing.T) {
		if err := runner.Add("test.txt"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("add non-existent file returns file not found error", func(t *testing.T) {
		err := runner.Add("nonexistent.txt")
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound, got %v", err)
		}
	})

	t.Run("add path outside repository returns error", func(t *testing.T) {
		err := runner.Add("../outside.txt")
		if !errors.Is(err, ErrPathOutsideRepo) {
			t.Errorf("expected ErrPathOutsideRepo, got %v", err)
		}
	})

	t.Run("add with absolute path outside repository returns error", func(t *testing.T) {
		err := runner.Add("/etc/passwd")
		if !errors.Is(err, ErrPathOutsideRepo) {
			t.Errorf("expected ErrPathOutsideRepo, got %v", err)
		}
	})

	t.Run("add with no paths adds all", func(t *testing.T) {
		anotherFile := filepath.Join(tmpDir, "another.txt")
		if err := os.WriteFile(anotherFile, []byte("another"), 0644); err != nil {
			t.Fatalf("failed to create another file: %v", err)
		}

		if err := runner.Add(); err != nil {
			t.Errorf("expected no error for Add(), got %v", err)
		}
	})
}

func TestBranchLifecycle(t *testing.T) {
	runner := initTestRepo(t)

	t.Run("BranchExists is false before creation", func(t *testing.T) {
		exists, err := runner.BranchExists("upgrade-foo-to-1.2.0")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if exists {
			t.Error("branch should not exist yet")
		}
	})

	t.Run("CreateBranch then BranchExists and CurrentBranch agree", func(t *testing.T) {
		if err := runner.CreateBranch("upgrade-foo-to-1.2.0", ""); err != nil {
			t.Fatalf("failed to create branch: %v", err)
		}

		exists, err := runner.BranchExists("upgrade-foo-to-1.2.0")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !exists {
			t.Error("branch should exist after creation")
		}

		current, err := runner.CurrentBranch()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if current != "upgrade-foo-to-1.2.0" {
			t.Errorf("expected branch upgrade-foo-to-1.2.0, got %q", current)
		}
	})

	t.Run("ResetHard cleans worktree changes", func(t *testing.T) {
		dirty := filepath.Join(runner.WorkDir(), "seed.txt")
		if err := os.WriteFile(dirty, []byte("dirty"), 0644); err != nil {
			t.Fatalf("failed to dirty file: %v", err)
		}

		if err := runner.ResetHard(""); err != nil {
			t.Fatalf("reset failed: %v", err)
		}

		entries, err := runner.Status()
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected clean worktree after reset, got %v", entries)
		}
	})
}

func TestRunShell(t *testing.T) {
	runner := initTestRepo(t)

	if err := runner.RunShell("echo marker > hook.txt"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	data, err := os.ReadFile(filepath.Join(runner.WorkDir(), "hook.txt"))
	if err != nil {
		t.Fatalf("hook output missing: %v", err)
	}
	if strings.TrimSpace(string(data)) != "marker" {
		t.Errorf("expected marker, got %q", string(data))
	}
}

// TestGitArgumentAssembly drives the Runner with a recording fake and checks
// the exact git invocations, without needing a real repository.
func TestGitArgumentAssembly(t *testing.T) {
	tests := []struct {
		name     string
		invoke   func(r *Runner) error
		wantArgs []string
	}{
		{
			name:     "fetch upstream",
			invoke:   func(r *Runner) error { return r.Fetch("upstream") },
			wantArgs: []string{"fetch", "upstream"},
		},
		{
			name:     "create branch from ref",
			invoke:   func(r *Runner) error { return r.CreateBranch("add-foo", "upstream/master") },
			wantArgs: []string{"checkout", "-b", "add-foo", "upstream/master"},
		},
		{
			name:     "reset hard to ref",
			invoke:   func(r *Runner) error { return r.ResetHard("upstream/master") },
			wantArgs: []string{"reset", "--hard", "upstream/master"},
		},
		{
			name: "forced push uses explicit refspec",
			invoke: func(r *Runner) error {
				_, err := r.PushBranch("origin", "add-foo", true)
				return err
			},
			wantArgs: []string{"push", "--force", "origin", "add-foo:add-foo"},
		},
		{
			name: "plain push omits force",
			invoke: func(r *Runner) error {
				_, err := r.PushBranch("origin", "add-foo", false)
				return err
			},
			wantArgs: []string{"push", "origin", "add-foo:add-foo"},
		},
		{
			name:     "add remote",
			invoke:   func(r *Runner) error { return r.AddRemote("upstream", "https://github.com/conda-forge/staged-recipes.git") },
			wantArgs: []string{"remote", "add", "upstream", "https://github.com/conda-forge/staged-recipes.git"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := run.NewMockRunner()
			runner := NewRunner(mock, "/work")

			if err := tt.invoke(runner); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if mock.CallCount() != 1 {
				t.Fatalf("expected 1 call, got %d", mock.CallCount())
			}
			call := mock.Calls[0]
			if call.Name != "git" {
				t.Errorf("expected git, got %q", call.Name)
			}
			if strings.Join(call.Args, " ") != strings.Join(tt.wantArgs, " ") {
				t.Errorf("expected args %v, got %v", tt.wantArgs, call.Args)
			}
			if call.Dir != "/work" {
				t.Errorf("expected dir /work, got %q", call.Dir)
			}
		})
	}
}

func TestCloneRunsOutsideWorkDir(t *testing.T) {
	mock := run.NewMockRunner()
	runner := NewRunner(mock, "data/staged-recipes")

	if err := runner.Clone("git@github.com:user/staged-recipes"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	call := mock.Calls[0]
	if call.Dir != "" {
		t.Errorf("clone must run from the process directory, got %q", call.Dir)
	}
	want := []string{"clone", "git@github.com:user/staged-recipes", "data/staged-recipes"}
	if strings.Join(call.Args, " ") != strings.Join(want, " ") {
		t.Errorf("expected args %v, got %v", want, call.Args)
	}
}

func TestGitErrorsCarrySentinel(t *testing.T) {
	mock := run.NewMockRunner()
	mock.RunFunc = func(name string, args []string, dir string) (string, string, error) {
		return "", "fatal: not a git repository", errors.Join(run.ErrToolInvocation, errors.New("git: fatal: not a git repository"))
	}
	runner := NewRunner(mock, "/work")

	_, err := runner.Status()
	if !errors.Is(err, ErrGitCommand) {
		t.Errorf("expected ErrGitCommand, got %v", err)
	}
	if !errors.Is(err, run.ErrToolInvocation) {
		t.Errorf("expected ErrToolInvocation to be preserved, got %v", err)
	}
}
