package forge

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v68/github"
)

// GitHub implements Forge on top of the REST API v3 client.
type GitHub struct {
	client *github.Client
}

// NewGitHub builds an authenticated client. The token is required: every
// operation here either identifies the account or mutates it.
func NewGitHub(token string) *GitHub {
	return &GitHub{client: github.NewClient(nil).WithAuthToken(token)}
}

func (g *GitHub) CurrentUser(ctx context.Context) (string, error) {
	user, _, err := g.client.Users.Get(ctx, "")
	if err != nil {
		return "", errors.Join(ErrForge, fmt.Errorf("get authenticated user: %w", err))
	}
	return user.GetLogin(), nil
}

func (g *GitHub) RepoExists(ctx context.Context, owner, repo string) (bool, error) {
	_, resp, err := g.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, errors.Join(ErrForge, fmt.Errorf("get %s/%s: %w", owner, repo, err))
	}
	return true, nil
}

func (g *GitHub) CreateFork(ctx context.Context, owner, repo string) error {
	_, _, err := g.client.Repositories.CreateFork(ctx, owner, repo, nil)
	if err != nil {
		// GitHub queues fork creation and answers 202, which the client
		// surfaces as an AcceptedError even though the fork will appear.
		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			return nil
		}
		return errors.Join(ErrForge, fmt.Errorf("fork %s/%s: %w", owner, repo, err))
	}
	return nil
}

var _ Forge = (*GitHub)(nil)
