package tileprovider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDirectoryProviderConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "directory.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_directory: /tiles\ncache_capacity: 128\n"), 0o644))

	cfg, err := LoadDirectoryProviderConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tiles", cfg.BaseDirectory)
	assert.Equal(t, 128, cfg.CacheCapacity)
}

func TestLoadTarballProviderConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tarball.yaml")
	require.NoError(t, os.WriteFile(path, []byte("archive_path: /tiles.tar\nmutability: mutable\n"), 0o644))

	cfg, err := LoadTarballProviderConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tiles.tar", cfg.ArchivePath)
	assert.Equal(t, Mutable, cfg.Mutability)
}

func TestLoadTarballProviderConfigMissingFile(t *testing.T) {
	_, err := LoadTarballProviderConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
