package forge

import "context"

// Mock implements Forge with injectable behavior for tests.
type Mock struct {
	CurrentUserFunc func(ctx context.Context) (string, error)
	RepoExistsFunc  func(ctx context.Context, owner, repo string) (bool, error)
	CreateForkFunc  func(ctx context.Context, owner, repo string) error

	ForkCalls []string
}

func (m *Mock) CurrentUser(ctx context.Context) (string, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return "", nil
}

func (m *Mock) RepoExists(ctx context.Context, owner, repo string) (bool, error) {
	if m.RepoExistsFunc != nil {
		return m.RepoExistsFunc(ctx, owner, repo)
	}
	return false, nil
}

func (m *Mock) CreateFork(ctx context.Context, owner, repo string) error {
	m.ForkCalls = append(m.ForkCalls, owner+"/"+repo)
	if m.CreateForkFunc != nil {
		return m.CreateForkFunc(ctx, owner, repo)
	}
	return nil
}

var _ Forge = (*Mock)(nil)
