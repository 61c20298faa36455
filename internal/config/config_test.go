package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9000"
read_timeout = "3s"

[store]
driver = "memory"
seed = "content.yaml"
watch = true

[palette]
timeout = "2s"
cache = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.Watch)
	assert.Equal(t, 2*time.Second, cfg.Palette.Timeout)
	assert.False(t, cfg.Palette.Cache)
	assert.Equal(t, 6, cfg.Palette.Concurrency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7000")
	t.Setenv("PORTFOLIO_DB", "/tmp/x.db")
	t.Setenv("PORTFOLIO_SEED", "seed.yaml")
	t.Setenv("PORTFOLIO_VERBOSE", "true")

	cfg, err := Load(writeConfig(t, "[server]\naddr = \":9000\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "/tmp/x.db", cfg.Store.Path)
	assert.Equal(t, "seed.yaml", cfg.Store.Seed)
	assert.True(t, cfg.Logging.Verbose)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"syntax":        "[server\n",
		"driver":        "[store]\ndriver = \"postgres\"\n",
		"watch no seed": "[store]\nseed = \"\"\nwatch = true\n",
		"sqlite path":   "[store]\npath = \"\"\n",
		"negative":      "[palette]\nconcurrency = -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
