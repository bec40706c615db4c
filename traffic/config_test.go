package traffic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routetiles/graphtile/tileprovider"
)

func TestLoadProviderConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "traffic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("archive_path: /traffic.tar\nmutability: readonly\n"), 0o644))

	cfg, err := LoadProviderConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/traffic.tar", cfg.ArchivePath)
	assert.Equal(t, tileprovider.ReadOnly, cfg.Mutability)
}
