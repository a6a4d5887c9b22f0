package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigParsing(t *testing.T) {
	content := `# storage
data-dir /tmp/declutter-test
backend sqlite

theme neon
log.level debug
log.file /tmp/declutter.log
recent.limit 3
colour blue`

	c, err := LoadFromReader(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/declutter-test", c.DataDir)
	assert.Equal(t, "sqlite", c.Backend)
	assert.Equal(t, "neon", c.Theme)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
	assert.Equal(t, "/tmp/declutter.log", c.LogFile)
	assert.Equal(t, 3, c.RecentLimit)
	require.Len(t, c.Warnings, 1)
	assert.Contains(t, c.Warnings[0], "colour")
}

func TestEmptyConfigIsDefaults(t *testing.T) {
	c, err := LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)
	d := Defaults()
	assert.Equal(t, d.Backend, c.Backend)
	assert.Equal(t, "json", c.Backend)
	assert.Equal(t, slog.LevelInfo, c.LogLevel)
	assert.Equal(t, 10, c.RecentLimit)
	assert.Empty(t, c.Warnings)
}

func TestInvalidValues(t *testing.T) {
	for _, line := range []string{"backend redis", "log.level loud", "recent.limit -1", "recent.limit many"} {
		_, err := LoadFromReader(strings.NewReader(line))
		assert.Error(t, err, line)
	}
}

func TestMissingFileGivesDefaults(t *testing.T) {
	c, err := LoadFromPath(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, "json", c.Backend)
}

func TestLoadFromPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(p, []byte("backend memory\n"), 0o644))
	c, err := LoadFromPath(p)
	require.NoError(t, err)
	assert.Equal(t, "memory", c.Backend)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DECLUTTER_HOME":      "/srv/declutter",
		"DECLUTTER_BACKEND":   "SQLite",
		"DECLUTTER_LOG_LEVEL": "warn",
	}
	c := Defaults()
	require.NoError(t, c.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, "/srv/declutter", c.DataDir)
	assert.Equal(t, "sqlite", c.Backend)
	assert.Equal(t, slog.LevelWarn, c.LogLevel)

	env["DECLUTTER_BACKEND"] = "floppy"
	assert.Error(t, Defaults().ApplyEnv(func(k string) string { return env[k] }))
}

func TestSet(t *testing.T) {
	c := Defaults()
	require.NoError(t, c.Set("theme", "MONO"))
	assert.Equal(t, "mono", c.Theme)
	assert.Error(t, c.Set("nope", "x"))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	c := Defaults()
	require.NoError(t, c.Set("data-dir", "~/stuff"))
	assert.Equal(t, filepath.Join(home, "stuff"), c.DataDir)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "": slog.LevelInfo,
		"warn": slog.LevelWarn, "warning": slog.LevelWarn, "error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}
