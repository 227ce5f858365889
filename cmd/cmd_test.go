package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x7ian/jstopia/internal/config"
	"github.com/x7ian/jstopia/internal/store"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestCatalogCheck_BuiltIn(t *testing.T) {
	out := run(t, "catalog", "check")
	assert.Contains(t, out, "catalog ok: built-in")
	assert.Contains(t, out, "books:     2")
	assert.Contains(t, out, "ranks:     8")
}

func TestSessionThenStats(t *testing.T) {
	db := filepath.Join(t.TempDir(), "jstopia.db")

	token := strings.TrimSpace(run(t, "session", "--db", db, "--log-level", "error"))
	require.NotEmpty(t, token)

	out := run(t, "stats", "--db", db, "--log-level", "error", "--session", token, "--json")
	assert.Contains(t, out, `"totalXp": 0`)

	out = run(t, "journey", "--db", db, "--log-level", "error", "--session", token, "--json")
	assert.Contains(t, out, `"slug": "javascriptopia-vanillaland-foundations"`)
}

func TestResolveDSN(t *testing.T) {
	_, err := resolveDSN(config.DatabaseConfig{Driver: store.DriverPostgres})
	assert.Error(t, err)

	dsn, err := resolveDSN(config.DatabaseConfig{Driver: store.DriverPostgres, DSN: "postgres://x"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://x", dsn)

	path := filepath.Join(t.TempDir(), "nested", "j.db")
	dsn, err = resolveDSN(config.DatabaseConfig{Driver: store.DriverSQLite, DSN: path})
	require.NoError(t, err)
	assert.Equal(t, path, dsn)
	assert.DirExists(t, filepath.Dir(path))
}
