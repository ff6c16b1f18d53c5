package fleetfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesGroupsAndConnections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fleet.yaml")
	contents := `
compute:
  url: https://compute.example.com
  token: secret
executor:
  user: deploy
groups:
  web:
    count: 2
    image: ubuntu-22.04
    roles: [web]
  db:
    count: 1
    roles: [db]
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://compute.example.com", cfg.Compute.URL)
	assert.Equal(t, "deploy", cfg.Executor.User)
	assert.Len(t, cfg.Groups, 2)

	var web bool
	for _, g := range cfg.Groups {
		if g.GroupName == "web" {
			web = true
			require.NotNil(t, g.Count)
			assert.Equal(t, 2, *g.Count)
			assert.Equal(t, "ubuntu-22.04", g.NodeSpec.Image)
		}
	}
	assert.True(t, web)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
