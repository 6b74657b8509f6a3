package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/roguestats/internal/report"
	"github.com/lawnchairsociety/roguestats/internal/spawnlog"
)

type testEnv struct {
	dir        string
	configPath string
}

func newTestEnv(t *testing.T, configYAML string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ROGUESTATS_CACHE_DIR", filepath.Join(dir, "cache"))
	t.Setenv("ROGUESTATS_HISTORY_DSN", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FILE_ENABLED", "")

	env := &testEnv{dir: dir, configPath: filepath.Join(dir, "roguestats.yaml")}
	if configYAML != "" {
		require.NoError(t, os.WriteFile(env.configPath, []byte(configYAML), 0o644))
	}
	return env
}

func (e *testEnv) writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, "monsters.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath, "--env-file", filepath.Join(e.dir, ".env"), "-q"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyze_Stdin(t *testing.T) {
	env := newTestEnv(t, "")

	out, _, err := env.run(t, "AA\nB\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Main data: Monsters per Level, normalized as percentage of level")
	assert.Contains(t, out, ` "1": [ 66.7, 33.3,`)
}

func TestAnalyze_FileJSON(t *testing.T) {
	env := newTestEnv(t, "")
	path := env.writeLog(t, "AA\nB\n")

	out, _, err := env.run(t, "", "-f", "json", "-l", "-1", "-w", "0", path)
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 1, r.Weights.Level)
	assert.Equal(t, 0, r.Weights.Wander)
	assert.InDelta(t, 100.0, r.Levels[1][0], 1e-9)
	assert.Equal(t, "A", r.Present[1])
}

func TestAnalyze_ConfigDefaults(t *testing.T) {
	env := newTestEnv(t, "weights:\n  level: 0\n  wander: 1\noutput:\n  format: yaml\n")
	path := env.writeLog(t, "AA\nB\n")

	out, _, err := env.run(t, "", path)
	require.NoError(t, err)
	assert.Contains(t, out, "level_ranking:")
	assert.Contains(t, out, "wander: 1")
}

func TestAnalyze_InvalidInputFails(t *testing.T) {
	env := newTestEnv(t, "")

	_, _, err := env.run(t, "AA\nB\nC\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, spawnlog.ErrInvalidInput)

	_, _, err = env.run(t, "")
	assert.ErrorIs(t, err, spawnlog.ErrInvalidInput)
}

func TestAnalyze_BadFormat(t *testing.T) {
	env := newTestEnv(t, "")
	_, _, err := env.run(t, "A\nB\n", "-f", "xml")
	assert.Error(t, err)
}

func TestAnalyze_TooManyArgs(t *testing.T) {
	env := newTestEnv(t, "")
	_, _, err := env.run(t, "", "a.txt", "b.txt")
	assert.Error(t, err)
}

func TestCacheListAndClear(t *testing.T) {
	env := newTestEnv(t, "")
	path := env.writeLog(t, "AA\nB\n")

	out, _, err := env.run(t, "", "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No cache entries")

	_, _, err = env.run(t, "", path)
	require.NoError(t, err)

	out, _, err = env.run(t, "", "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, _, err = env.run(t, "", "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 cache entries")
}

func TestNoCacheWritesNothing(t *testing.T) {
	env := newTestEnv(t, "")
	path := env.writeLog(t, "AA\nB\n")

	_, _, err := env.run(t, "", "--no-cache", path)
	require.NoError(t, err)

	out, _, err := env.run(t, "", "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No cache entries")
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t, "")
	_, _, err := env.run(t, "", "history")
	assert.Error(t, err, "history is disabled by default")

	dbPath := filepath.Join(t.TempDir(), "history.db")
	env = newTestEnv(t, "history:\n  enabled: true\n  driver: sqlite\n  sqlite_path: "+dbPath+"\n")
	path := env.writeLog(t, "AA\nB\n")

	_, _, err = env.run(t, "", path)
	require.NoError(t, err)

	out, _, err := env.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, path)
}

func TestXPLevels(t *testing.T) {
	env := newTestEnv(t, "")

	out, _, err := env.run(t, "", "xplevels")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "XP level  2:         10\n"))
	assert.Equal(t, 19, strings.Count(out, "\n"))

	out, _, err = env.run(t, "", "xplevels", "--xp", "25")
	require.NoError(t, err)
	assert.Equal(t, "25 XP is level 3\n", out)

	out, _, err = env.run(t, "", "xplevels", "--xp", "25", "--from-level", "1")
	require.NoError(t, err)
	assert.Equal(t, "25 XP is level 3\ngained 2 levels since level 1\nlevel 4 needs 40 XP\n", out)

	out, _, err = env.run(t, "", "xplevels", "--xp", "5", "--from-level", "3")
	require.NoError(t, err)
	assert.Equal(t, "5 XP is level 1\nlost 2 levels since level 3\nlevel 2 needs 10 XP\n", out)

	_, _, err = env.run(t, "", "xplevels", "--from-level", "2")
	assert.Error(t, err)
	_, _, err = env.run(t, "", "xplevels", "--xp", "10", "--from-level", "0")
	assert.Error(t, err)
}

func TestServe_RequiresFile(t *testing.T) {
	env := newTestEnv(t, "")
	_, _, err := env.run(t, "", "serve")
	assert.Error(t, err)
}

func TestInvalidConfigFallsBackToDefaults(t *testing.T) {
	env := newTestEnv(t, "output: [broken")

	out, _, err := env.run(t, "A\nB\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Main data")
}
