package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env file
	for _, key := range []string{"ALLOC_DB", "ALLOC_PORT", "ALLOC_LOG_LEVEL", "ALLOC_LOG_PRETTY", "ALLOC_SESSION_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "alloc.db", cfg.DatabasePath)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, 1000, cfg.CacheLimit)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ALLOC_DB", "/tmp/plans.db")
	t.Setenv("ALLOC_PORT", "9090")
	t.Setenv("ALLOC_LOG_LEVEL", "debug")
	t.Setenv("ALLOC_LOG_PRETTY", "true")
	t.Setenv("ALLOC_SESSION_LIMIT", "not a number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/plans.db", cfg.DatabasePath)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, 1000, cfg.CacheLimit, "invalid values fall back to the default")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ALLOC_PORT", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ALLOC_PORT=7070\n"), 0644))
	// godotenv sets variables that are absent from the environment.
	require.NoError(t, os.Unsetenv("ALLOC_PORT"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	os.Unsetenv("ALLOC_PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{DatabasePath: "a.db", Port: 80}, false},
		{"missing database", Config{Port: 80}, true},
		{"bad port", Config{DatabasePath: "a.db", Port: 70000}, true},
		{"negative limit", Config{DatabasePath: "a.db", Port: 80, CacheLimit: -1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
