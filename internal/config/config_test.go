package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
	assert.Equal(t, int64(10), cfg.MaxFetch)
	assert.Contains(t, cfg.DBPath, "mailsift.db")
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
rules_path = "/etc/mailsift/rules.json"
max_fetch = 50
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/etc/mailsift/rules.json", cfg.RulesPath)
	assert.Equal(t, int64(50), cfg.MaxFetch)

	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def.DBPath, cfg.DBPath)
	assert.Equal(t, def.LogLevel, cfg.LogLevel)
}

func TestLoadRejectsNonPositiveMaxFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_fetch = -1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_fetch = [oops\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
