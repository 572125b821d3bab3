package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// isolate points HOME and the working directory at fresh temp dirs.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadEmbeddedDefault(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.TickRate)
	assert.InDelta(t, 0.1, cfg.SpawnFourProbability, 1e-9)
	assert.Equal(t, 3, cfg.SwipeThreshold)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(home, ".t2048", "save.yaml"), cfg.SaveFile)
	assert.Equal(t, filepath.Join(home, ".t2048", "host_key"), cfg.SSH.HostKey)
	assert.Equal(t, 30*time.Minute, cfg.SSH.IdleTimeout)
	assert.Equal(t, uint8(196), cfg.Theme.Tiles[2048])
	assert.Len(t, cfg.Theme.Tiles, 12)
}

func TestLoadCustomPath(t *testing.T) {
	_, work := isolate(t)
	path := filepath.Join(work, "custom.yaml")
	writeFile(t, path, "tick_rate: 30\nstorage:\n  backend: SQLite\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.TickRate)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	// Keys absent from the file fall back to their defaults.
	assert.Equal(t, 3, cfg.SwipeThreshold)
	assert.Equal(t, ":8080", cfg.Web.Address)
}

func TestLoadSearchOrder(t *testing.T) {
	home, work := isolate(t)

	writeFile(t, filepath.Join(work, "configs", "t2048.yaml"), "tick_rate: 20\n")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.TickRate)

	writeFile(t, filepath.Join(home, ".t2048", "config.yaml"), "tick_rate: 40\n")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.TickRate)
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("T2048_TICK_RATE", "120")
	t.Setenv("T2048_STORAGE_BACKEND", "redis")
	t.Setenv("T2048_REDIS_ADDR", "cache:6380")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.TickRate)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
}

func TestLoadDotEnv(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, ".env"), "T2048_WEB_ADDRESS=:9999\n")
	t.Cleanup(func() { os.Unsetenv("T2048_WEB_ADDRESS") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Web.Address)
}

func TestLoadErrors(t *testing.T) {
	_, work := isolate(t)

	_, err := Load(filepath.Join(work, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(work, "bad.yaml")
	writeFile(t, bad, "tick_rate: [\n")
	_, err = Load(bad)
	require.Error(t, err)

	invalid := filepath.Join(work, "invalid.yaml")
	writeFile(t, invalid, "spawn_four_probability: 1.5\n")
	_, err = Load(invalid)
	require.ErrorContains(t, err, "spawn_four_probability")
}

func TestValidate(t *testing.T) {
	valid := Config{
		TickRate:             60,
		SpawnFourProbability: 0.1,
		SwipeThreshold:       3,
		Storage:              Storage{Backend: BackendFile},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative probability", func(c *Config) { c.SpawnFourProbability = -0.1 }},
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }},
		{"zero threshold", func(c *Config) { c.SwipeThreshold = 0 }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "s3" }},
		{"bad theme key", func(c *Config) { c.Theme.Tiles = map[int]uint8{3: 1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestTileTheme(t *testing.T) {
	th := Theme{Tiles: map[int]uint8{2: 100}, Overflow: 200}.TileTheme()

	assert.Equal(t, core.ANSI(100), th.TileColor(2))
	assert.Equal(t, core.ANSI(200), th.TileColor(8192))
	// Values the config leaves out keep their built-in color.
	assert.Equal(t, core.ANSI(196), th.TileColor(2048))
}

func TestExpandHome(t *testing.T) {
	home, _ := isolate(t)

	assert.Equal(t, filepath.Join(home, "x", "y"), ExpandHome("~/x/y"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "", ExpandHome(""))
}
