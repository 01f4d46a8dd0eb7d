package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateDirs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolateDirs(t)

	cfg, v, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500", cfg.TMDB.ImageBaseURL)
	assert.Equal(t, "en-US", cfg.TMDB.Language)
	assert.Equal(t, 15*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, filepath.Join(dir, "state", "reel", "reel.log"), cfg.Logging.File)
	assert.Equal(t, filepath.Join(dir, "data", "reel", "reel.db"), cfg.Database.Path)
	assert.Equal(t, 3, cfg.UI.ScrollThreshold)
}

func TestLoad_File(t *testing.T) {
	dir := isolateDirs(t)

	path := filepath.Join(dir, "custom.yaml")
	content := `
tmdb:
  api_key: abc123
  language: de-DE
  timeout: 5s
cache:
  ttl: 30s
ui:
  remember_genres: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, _, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.TMDB.APIKey)
	assert.Equal(t, "de-DE", cfg.TMDB.Language)
	assert.Equal(t, 5*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.False(t, cfg.UI.RememberGenres)
	// untouched keys keep their defaults
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
}

func TestLoad_EnvOverride(t *testing.T) {
	isolateDirs(t)
	t.Setenv("REEL_TMDB_API_KEY", "from-env")
	t.Setenv("REEL_LOGGING_LEVEL", "debug")

	cfg, _, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.TMDB.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	dir := isolateDirs(t)

	t.Run("bad log level", func(t *testing.T) {
		path := filepath.Join(dir, "bad-level.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: verbose\n"), 0644))

		_, _, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Level")
	})

	t.Run("bad base url", func(t *testing.T) {
		path := filepath.Join(dir, "bad-url.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tmdb:\n  base_url: not a url\n"), 0644))

		_, _, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BaseURL")
	})

	t.Run("unreadable file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tmdb: [unclosed"), 0644))

		_, _, err := Load(path)
		assert.Error(t, err)
	})
}

func TestRequireCredentials(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorIs(t, cfg.RequireCredentials(), ErrMissingCredentials)

	cfg.TMDB.AccessToken = "token"
	assert.NoError(t, cfg.RequireCredentials())

	cfg.TMDB.AccessToken = ""
	cfg.TMDB.APIKey = "key"
	assert.NoError(t, cfg.RequireCredentials())
}

func TestSaveDefaultConfig_RoundTrip(t *testing.T) {
	dir := isolateDirs(t)
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, SaveDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# reel configuration"))

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().TMDB.BaseURL, cfg.TMDB.BaseURL)
	assert.Equal(t, DefaultConfig().Cache.TTL, cfg.Cache.TTL)
}

func TestInitializeDirs(t *testing.T) {
	dir := isolateDirs(t)

	require.NoError(t, InitializeDirs())

	for _, p := range []string{
		filepath.Join(dir, "config", "reel"),
		filepath.Join(dir, "data", "reel"),
		filepath.Join(dir, "state", "reel"),
	} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.True(t, info.IsDir())
	}
}

func TestInitLogger_File(t *testing.T) {
	dir := t.TempDir()
	cfg := &LoggingConfig{
		Level:   "warn",
		Format:  "json",
		File:    filepath.Join(dir, "logs", "reel.log"),
		MaxSize: 1,
	}

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger, err := InitLogger(cfg)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "page", 2)

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"msg":"shown"`)
	assert.Contains(t, string(data), `"page":2`)

	ApplyLogLevel("info")
	logger.Info("now visible")
	data, err = os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "now visible")
}

func TestColoredTextHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewColoredTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(h).With("session", "abc")

	logger.Error("boom")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\033[31m"))
	assert.Contains(t, out, "msg=boom")
	assert.Contains(t, out, "session=abc")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
}
