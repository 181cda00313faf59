package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("META_DB_PATH", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DISCOVERY_WORKERS", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "metacat.sqlite", cfg.MetaDBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.DiscoveryWorkers)
	assert.Equal(t, int64(1<<20), cfg.MaxSampleBytes)
	assert.Equal(t, 100.0, cfg.RateLimitRPS)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.DiscoverySchedule)
}

func TestLoadFromEnv_AllVarsSet(t *testing.T) {
	t.Setenv("META_DB_PATH", "/tmp/test.sqlite")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DISCOVERY_SCHEDULE", "@every 15m")
	t.Setenv("DISCOVERY_WORKERS", "8")
	t.Setenv("MAX_SAMPLE_BYTES", "4096")
	t.Setenv("RATE_LIMIT_RPS", "10")
	t.Setenv("RATE_LIMIT_BURST", "20")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.sqlite", cfg.MetaDBPath)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "@every 15m", cfg.DiscoverySchedule)
	assert.Equal(t, 8, cfg.DiscoveryWorkers)
	assert.Equal(t, int64(4096), cfg.MaxSampleBytes)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_BadWorkerCountWarns(t *testing.T) {
	t.Setenv("DISCOVERY_WORKERS", "lots")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.DiscoveryWorkers)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "DISCOVERY_WORKERS")
}

func TestLoadFromEnv_ProductionRejectsCORSWildcard(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS")
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "# comment\nMETACAT_TEST_A=hello\nMETACAT_TEST_B=\"quoted\"\n\nnot a pair\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	t.Setenv("METACAT_TEST_A", "")
	t.Setenv("METACAT_TEST_B", "")
	require.NoError(t, LoadDotEnv(envFile))

	assert.Equal(t, "hello", os.Getenv("METACAT_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("METACAT_TEST_B"))
}

func TestLoadDotEnv_DoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("METACAT_TEST_C=file\n"), 0o600))

	t.Setenv("METACAT_TEST_C", "env")
	require.NoError(t, LoadDotEnv(envFile))
	assert.Equal(t, "env", os.Getenv("METACAT_TEST_C"))
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}
