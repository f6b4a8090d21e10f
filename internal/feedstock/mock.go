package feedstock

import "fmt"

// MockMetaSource serves recipes from a map for tests. Packages absent from
// Metas answer ErrNotFound, mirroring an unpublished feedstock.
type MockMetaSource struct {
	Metas map[string]string // package name -> raw meta.yaml
	Errs  map[string]error  // package name -> forced failure

	Fetches []string
}

func (m *MockMetaSource) FetchMeta(name string) (string, error) {
	m.Fetches = append(m.Fetches, name)
	if err, ok := m.Errs[name]; ok {
		return "", err
	}
	meta, ok := m.Metas[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return meta, nil
}

var _ MetaSource = (*MockMetaSource)(nil)

// MetaWithVersion renders a minimal recipe pinned to the given version, the
// shape tests need most often.
func MetaWithVersion(version string) string {
	return fmt.Sprintf("{%% set version = %q %%}\n\npackage:\n  name: something\n  version: {{ version }}\n", version)
}
