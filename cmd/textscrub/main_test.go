package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/textscrub/internal/config"
)

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestResolveInputKeepsConfiguredPath(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.png")
	touch(t, old, time.Now().Add(-time.Hour))
	touch(t, filepath.Join(dir, "new.png"), time.Now())

	// An explicit file wins over a newer sibling.
	got, err := resolveInput(old)
	require.NoError(t, err)
	assert.Equal(t, old, got)

	// A directory is passed through for batch processing.
	got, err = resolveInput(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestResolveInputPicksNewestByDefault(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := resolveInput("")
	require.Error(t, err)
	assert.DirExists(t, config.DefaultInputDir)

	now := time.Now()
	touch(t, filepath.Join(config.DefaultInputDir, "a.png"), now.Add(-2*time.Hour))
	touch(t, filepath.Join(config.DefaultInputDir, "b.pdf"), now.Add(-time.Hour))
	touch(t, filepath.Join(config.DefaultInputDir, "c.txt"), now)

	got, err := resolveInput("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(config.DefaultInputDir, "b.pdf"), got)
}
