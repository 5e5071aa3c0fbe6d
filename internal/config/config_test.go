package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		ConfigPathEnv, "APP_SERVER_PORT", "CACHE_BACKEND", "CACHE_DIR",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_TLS",
		"SOURCE_TIMEOUT", "TIMEZONE", "BROWSER_SOURCES", "STATIC_DIR",
		"MAPS_API_KEY", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestUnit_Load_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, DefaultCacheDir(), cfg.Cache.Dir)
	assert.Equal(t, 15*time.Second, cfg.SourceTimeout)
	assert.Equal(t, "Europe/Stockholm", cfg.Location().String())
	assert.Empty(t, cfg.BrowserSources)
	assert.Equal(t, ":8080", cfg.Addr())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestUnit_Load_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "lunchmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
cache:
  backend: file
  dir: /var/cache/lunchmap
source_timeout: 5s
browser_sources: [variation]
maps_api_key: from-file
`), 0o644))

	t.Setenv("MAPS_API_KEY", "from-env")
	t.Setenv("BROWSER_SOURCES", "p2, namdo,")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendFile, cfg.Cache.Backend)
	assert.Equal(t, "/var/cache/lunchmap", cfg.Cache.Dir)
	assert.Equal(t, 5*time.Second, cfg.SourceTimeout)
	assert.Equal(t, "from-env", cfg.MapsAPIKey)
	assert.Equal(t, []string{"p2", "namdo"}, cfg.BrowserSources)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestUnit_Load_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "lunchmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"3000\"\n"), 0o644))
	t.Setenv(ConfigPathEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
}

func TestUnit_Load_Redis(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, RedisConfig{Addr: "localhost:6379", DB: 2, TLS: true}, cfg.Cache.Redis)
}

func TestUnit_Load_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad port", env: map[string]string{"APP_SERVER_PORT": "eighty"}},
		{name: "port out of range", env: map[string]string{"APP_SERVER_PORT": "70000"}},
		{name: "unknown backend", env: map[string]string{"CACHE_BACKEND": "memcached"}},
		{name: "redis without addr", env: map[string]string{"CACHE_BACKEND": "redis"}},
		{name: "bad redis db", env: map[string]string{"REDIS_DB": "zero"}},
		{name: "bad timeout", env: map[string]string{"SOURCE_TIMEOUT": "soon"}},
		{name: "non-positive timeout", env: map[string]string{"SOURCE_TIMEOUT": "0s"}},
		{name: "unknown zone", env: map[string]string{"TIMEZONE": "Europe/Lund"}},
		{name: "bad level", env: map[string]string{"LOG_LEVEL": "chatty"}},
		{name: "bad format", env: map[string]string{"LOG_FORMAT": "xml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestUnit_Load_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
