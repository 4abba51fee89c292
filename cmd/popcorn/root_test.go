package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogIsClosedWhenCommandFails(t *testing.T) {
	home := t.TempDir()
	logPath := filepath.Join(home, "popcorn.log")
	t.Setenv("HOME", home)
	t.Setenv("POPCORN_TMDB_TOKEN", "")
	t.Setenv("POPCORN_CACHE_DIR", filepath.Join(home, "cache"))
	t.Setenv("POPCORN_LOGGING_FILE", logPath)

	rootCmd.SetArgs([]string{"cache", "warm"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no TMDB access token configured")
	assert.Nil(t, logCloser)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "starting popcorn")
}
