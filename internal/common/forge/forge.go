// Package forge talks to the repository host. Forking and account identity
// are the only operations the pipelines need; everything else about GitHub
// stays behind the git remotes.
package forge

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrForge        = errors.New("github api request failed")
	ErrUserMismatch = errors.New("authenticated user does not match github_user in feedstocks.yml")
)

// Forge abstracts the hosted-repository API so pipelines can run against a
// fake in tests.
type Forge interface {
	// CurrentUser returns the login of the authenticated account
	CurrentUser(ctx context.Context) (string, error)

	// RepoExists reports whether owner/repo exists
	RepoExists(ctx context.Context, owner, repo string) (bool, error)

	// CreateFork forks owner/repo into the authenticated account. The fork
	// may still be populating when this returns.
	CreateFork(ctx context.Context, owner, repo string) error
}

// EnsureFork makes sure a fork of owner/repo exists under the configured
// user. It verifies the token actually belongs to that user first, so a
// stale token cannot fork into the wrong account. Returns true when a new
// fork was requested.
func EnsureFork(ctx context.Context, f Forge, user, owner, repo string) (created bool, err error) {
	login, err := f.CurrentUser(ctx)
	if err != nil {
		return false, err
	}
	if login != user {
		return false, fmt.Errorf("%w: token belongs to %s, configuration names %s", ErrUserMismatch, login, user)
	}

	exists, err := f.RepoExists(ctx, login, repo)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := f.CreateFork(ctx, owner, repo); err != nil {
		return false, err
	}
	return true, nil
}
