package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(args ...string) error {
	return newApp().Run(append([]string{"anglestoconfig"}, args...))
}

func TestSynth(t *testing.T) {
	require.NoError(t, run("synth"))
	require.NoError(t, run("synth", "--long-lat", "--offset-x", "0.2", "--cols", "7", "--rows", "3"))
	require.NoError(t, run("--workers", "2", "synth", "--verify", "--inject-at", "12"))
}

func TestSynthRejectsBadArgs(t *testing.T) {
	assert.ErrorContains(t, run("synth", "--inject-at", "25"), "out of range")
	assert.ErrorContains(t, run("synth", "--cols", "1"), "2 x 2 grid")
	assert.ErrorContains(t, run("synth", "--overlap", "150"), "overlap_percent")
}

func TestCheckConfig(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("depth: 1.5\nverify_angles: true\n"), 0o644))
	assert.NoError(t, run("--config", good, "check-config"))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("depth: -1\ncompute_screen_bounds: false\n"), 0o644))
	err := run("--config", bad, "check-config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depth")
	assert.Contains(t, err.Error(), "screen_bounds")

	assert.Error(t, run("--config", filepath.Join(dir, "missing.yaml"), "check-config"))
}

func TestSynthToMetersOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: 200\nto_meters: -1\n"), 0o644))

	assert.ErrorContains(t, run("--config", path, "synth"), "to_meters")
	assert.NoError(t, run("--config", path, "synth", "--to-meters", "0.01", "--verify"))
}
