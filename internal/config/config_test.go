package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{EnvDB, EnvDBDriver, EnvCatalog, EnvAddr, EnvLogLevel, EnvLogFormat, EnvRequiredCorrect} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Zero(t, cfg.RequiredCorrect)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvDB, "postgres://localhost/jstopia")
	t.Setenv(EnvDBDriver, "postgres")
	t.Setenv(EnvCatalog, "/etc/jstopia/catalog.yaml")
	t.Setenv(EnvAddr, "127.0.0.1:9000")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvRequiredCorrect, "4")

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/jstopia", cfg.Database.DSN)
	assert.Equal(t, "/etc/jstopia/catalog.yaml", cfg.CatalogPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 4, cfg.RequiredCorrect)
}

func TestFromEnv_BadRequiredCorrect(t *testing.T) {
	for _, v := range []string{"zero", "0", "-2"} {
		t.Setenv(EnvRequiredCorrect, v)
		_, err := fromEnv()
		assert.Error(t, err, v)
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JSTOPIA_ADDR=:7070\n"), 0o644))
	t.Chdir(dir)
	t.Setenv(EnvAddr, "")
	os.Unsetenv(EnvAddr)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}
