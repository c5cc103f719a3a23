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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadPath_Defaults(t *testing.T) {
	path := writeConfig(t, `
env: local
session:
  secret: "0123456789abcdef"
admin:
  email: kim@example.com
  password: secret
`)

	cfg, err := LoadPath(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "64M", cfg.HTTP.BodyLimit)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "./data/events.json", cfg.Storage.EventsFile)
	assert.Equal(t, "/gallery-images", cfg.FileStorage.BaseURL)
	assert.Equal(t, 1600, cfg.Image.FullWidth)
	assert.Equal(t, 600, cfg.Image.ThumbWidth)
	assert.Equal(t, 80, cfg.Image.Quality)
	assert.Equal(t, DedupCookie, cfg.Stats.DedupBackend)
	assert.Equal(t, 30*24*time.Hour, cfg.Stats.DedupCookieTTL)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
}

func TestLoadPath_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
env: prod
session:
  secret: "0123456789abcdef"
http:
  port: "9000"
`)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("STATS_DEDUP_BACKEND", "redis")

	cfg, err := LoadPath(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.HTTP.Port)
	assert.Equal(t, DedupRedis, cfg.Stats.DedupBackend)
}

func TestLoadPath_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short session secret", "session:\n  secret: short\n"},
		{"unknown driver", "session:\n  secret: \"0123456789abcdef\"\nstorage:\n  driver: mongo\n"},
		{"postgres without dsn", "session:\n  secret: \"0123456789abcdef\"\nstorage:\n  driver: postgres\n"},
		{"unknown dedup backend", "session:\n  secret: \"0123456789abcdef\"\nstats:\n  dedup_backend: sql\n"},
		{"quality out of range", "session:\n  secret: \"0123456789abcdef\"\nimage:\n  quality: 101\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPath(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadPath_MissingFile(t *testing.T) {
	_, err := LoadPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	assert.Panics(t, func() { MustLoadPath(filepath.Join(t.TempDir(), "nope.yaml")) })
}
