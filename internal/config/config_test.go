package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_MissingFile verifies defaults apply when no config file exists.
func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, cfg.Search.Limit)
	assert.Equal(t, string(DefaultSort), cfg.Search.Sort)
	assert.Equal(t, filepath.Join(dir, DefaultStoragePath), cfg.Storage.Path)
	assert.Equal(t, DefaultListenAddr, cfg.Serve.Addr)
}

// TestLoad_File verifies YAML values override defaults.
func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	content := `
search:
  subreddits: [cuny, collegequestions]
  keywords: [help, confused]
  limit: 25
  sort: new
  min_score: 10
storage:
  path: /tmp/custom.db
serve:
  addr: ":9000"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"cuny", "collegequestions"}, cfg.Search.Subreddits)
	assert.Equal(t, []string{"help", "confused"}, cfg.Search.Keywords)
	assert.Equal(t, 25, cfg.Search.Limit)
	assert.Equal(t, "new", cfg.Search.Sort)
	assert.Equal(t, 10, cfg.Search.MinScore)
	assert.Equal(t, "/tmp/custom.db", cfg.Storage.Path)
	assert.Equal(t, ":9000", cfg.Serve.Addr)
}

// TestLoad_BadSort verifies unknown sorts are rejected at load time.
func TestLoad_BadSort(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile),
		[]byte("search:\n  sort: controversial\n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sort")
}

// TestDir_EnvOverride verifies REDSIFT_CONFIG_DIR wins over the home dir.
func TestDir_EnvOverride(t *testing.T) {
	t.Setenv("REDSIFT_CONFIG_DIR", "/custom/dir")

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/dir", dir)
}
