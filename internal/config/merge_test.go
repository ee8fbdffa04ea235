package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeOverlayWins(t *testing.T) {
	base := &Config{Version: 1, PatchesDir: "base-patches", TreeDir: "base-src", LogLevel: "warn"}
	overlay := &Config{TreeDir: "overlay-src", LogLevel: "debug"}

	got, err := Merge(base, overlay)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, "base-patches", got.PatchesDir)
	assert.Equal(t, "overlay-src", got.TreeDir)
	assert.Equal(t, "debug", got.LogLevel)
}

func TestMergeVersionMismatch(t *testing.T) {
	_, err := Merge(&Config{Version: 1}, &Config{Version: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version mismatch")
}

func TestMergeNil(t *testing.T) {
	c := &Config{Version: 1}
	got, err := Merge(nil, c)
	require.NoError(t, err)
	assert.Same(t, c, got)

	got, err = Merge(c, nil)
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestMergeAllEmpty(t *testing.T) {
	_, err := MergeAll(nil)
	assert.Error(t, err)
}

func TestLoadLayeredMergesLayers(t *testing.T) {
	dir := t.TempDir()
	sysPath := writeConfig(t, filepath.Join(dir, "system"), "version: 1\ntree_dir: /opt/src\nlog_level: error\n")
	userPath := writeConfig(t, filepath.Join(dir, "user"), "log_level: info\n")
	projPath := writeConfig(t, filepath.Join(dir, "project"), "version: 1\npatches_dir: my-patches\n")

	res, err := LoadLayered(DiscoverOptions{
		ProjectPath:      projPath,
		SystemConfigPath: sysPath,
		UserConfigPath:   userPath,
	})
	require.NoError(t, err)

	assert.Equal(t, "/opt/src", res.Config.TreeDir)
	assert.Equal(t, "my-patches", res.Config.PatchesDir)
	assert.Equal(t, "info", res.Config.LogLevel)
	assert.Equal(t, DefaultTreeHint, res.Config.TreeHint)

	require.Len(t, res.Layers, 3)
	for _, l := range res.Layers {
		assert.True(t, l.Loaded, l.Path)
	}
}

func TestLoadLayeredNoFilesUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	res, err := LoadLayered(DiscoverOptions{
		ProjectPath:      filepath.Join(dir, "patch-sync.yaml"),
		SystemConfigPath: filepath.Join(dir, "none-system.yaml"),
		UserConfigPath:   filepath.Join(dir, "none-user.yaml"),
	})
	require.NoError(t, err)
	assert.Equal(t, Default(), res.Config)
	for _, l := range res.Layers {
		assert.False(t, l.Loaded)
	}
}

func TestLoadLayeredNoInherit(t *testing.T) {
	dir := t.TempDir()
	sysPath := writeConfig(t, filepath.Join(dir, "system"), "version: 1\ntree_dir: /opt/src\n")
	projPath := writeConfig(t, filepath.Join(dir, "project"), "version: 1\n")

	res, err := LoadLayered(DiscoverOptions{
		ProjectPath:      projPath,
		SystemConfigPath: sysPath,
		NoInherit:        true,
	})
	require.NoError(t, err)
	require.Len(t, res.Layers, 1)
	assert.Equal(t, LevelProject, res.Layers[0].Level)
	assert.Equal(t, DefaultTreeDir, res.Config.TreeDir)
}

func TestLoadLayeredParseError(t *testing.T) {
	dir := t.TempDir()
	projPath := writeConfig(t, dir, "version: [\n")

	_, err := LoadLayered(DiscoverOptions{ProjectPath: projPath, NoInherit: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project config")
}

func TestLoadLayeredVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	sysPath := writeConfig(t, filepath.Join(dir, "system"), "version: 1\n")
	projPath := writeConfig(t, filepath.Join(dir, "project"), "version: 2\n")

	_, err := LoadLayered(DiscoverOptions{
		ProjectPath:      projPath,
		SystemConfigPath: sysPath,
		UserConfigPath:   filepath.Join(dir, "absent.yaml"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version mismatch")
}

func TestDiscoverPathsDeduplication(t *testing.T) {
	dir := t.TempDir()
	same := filepath.Join(dir, "patch-sync.yaml")

	layers := DiscoverPaths(DiscoverOptions{
		ProjectPath:      same,
		SystemConfigPath: same,
		UserConfigPath:   same,
	})
	require.Len(t, layers, 1)
	assert.Equal(t, LevelSystem, layers[0].Level)
}

func TestDefaultSystemConfigPath(t *testing.T) {
	assert.Contains(t, defaultSystemConfigPath(), filepath.Join(configDirName, configFileName))
}

func TestLoadLayeredLeavesValidationToCaller(t *testing.T) {
	dir := t.TempDir()
	projPath := writeConfig(t, dir, "version: 1\nlog_level: loud\n")

	res, err := LoadLayered(DiscoverOptions{ProjectPath: projPath, NoInherit: true})
	require.NoError(t, err)
	assert.Equal(t, "loud", res.Config.LogLevel)
	assert.NotEmpty(t, Validate(res.Config))
}
