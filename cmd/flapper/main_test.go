package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/plus3/flapper/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "flapper.yaml")
	body := `backend: headless
audio:
  enabled: false
scores:
  driver: file
  path: ` + filepath.Join(dir, "scores.yaml") + `
  player: tester
log:
  level: error
  format: text
` + extra
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.RunContext(context.Background(), append([]string{"flapper", "--config", cfg}, args...))
	return out.String(), err
}

func TestLevelsList(t *testing.T) {
	out, err := run(t, writeConfig(t, ""), "levels", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "01_meadow")
	assert.Contains(t, out, "02_canyon")
	assert.Contains(t, out, level.EndlessName)
}

func TestLevelsValidateEmbedded(t *testing.T) {
	out, err := run(t, writeConfig(t, ""), "levels", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "all levels valid")
}

func TestLevelsNewAndValidate(t *testing.T) {
	cfg := writeConfig(t, "")
	dir := t.TempDir()
	file := filepath.Join(dir, "short.json")

	_, err := run(t, cfg, "levels", "new", "--pipes", "3", "--seed", "9", "--out", file, "Short")
	require.NoError(t, err)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	parsed, err := level.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "Short", parsed.Name)
	assert.Len(t, parsed.Pipes(), 3)

	out, err := run(t, cfg, "levels", "validate", file)
	require.NoError(t, err)
	assert.Contains(t, out, file+": ok")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = run(t, cfg, "levels", "validate", file, bad)
	assert.ErrorContains(t, err, "1 of 2 levels invalid")
}

func TestLevelsNewToStdout(t *testing.T) {
	out, err := run(t, writeConfig(t, ""), "levels", "new", "--pipes", "2", "--out", "-", "Tiny")
	require.NoError(t, err)
	cfg, err := level.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "Tiny", cfg.Name)
}

func TestLevelsNewNeedsName(t *testing.T) {
	_, err := run(t, writeConfig(t, ""), "levels", "new")
	assert.ErrorContains(t, err, "level name required")
}

func TestHeadlessPlayRecordsScore(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "levels:\n  dir: "+dir+"\n")
	_, err := run(t, cfg, "levels", "new", "--pipes", "3", "--out", filepath.Join(dir, "a.json"), "A")
	require.NoError(t, err)

	out, err := run(t, cfg, "play", "--level", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "died on A", "without autopilot the bird falls")

	out, err = run(t, cfg, "play", "--level", "a", "--flap-every", "22")
	require.NoError(t, err)
	assert.Regexp(t, `(won|died) on A`, out)

	out, err = run(t, cfg, "scores", "--level", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "tester")
}

func TestPlayUnknownLevel(t *testing.T) {
	_, err := run(t, writeConfig(t, ""), "play", "--level", "nope")
	assert.ErrorIs(t, err, level.ErrNoSuchLevel)
}

func TestInvalidConfig(t *testing.T) {
	_, err := run(t, writeConfig(t, "backend: vr\n"), "levels", "list")
	assert.ErrorContains(t, err, "backend")
}

func TestTypes(t *testing.T) {
	out, err := run(t, writeConfig(t, ""), "types")
	require.NoError(t, err)
	assert.Contains(t, out, "  PhysicsComponent -> component.Physics")
	assert.Contains(t, out, "MenuScene -> scene.Menu")

	raw, err := run(t, writeConfig(t, ""), "types", "--raw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "var hierarchy ="))
}

func TestBench(t *testing.T) {
	out, err := run(t, writeConfig(t, ""), "bench", "--duration", "200ms")
	require.NoError(t, err)
	assert.Contains(t, out, "# Flapper Bench Report")
	assert.Contains(t, out, "PhysicsSystem")
	assert.Contains(t, out, "**Level:** endless")
}

func TestStatsFinalize(t *testing.T) {
	s := Stats{}
	s.Finalize()
	assert.Zero(t, s.Avg)

	for i := 1; i <= 100; i++ {
		s.Samples = append(s.Samples, time.Duration(i)*time.Millisecond)
	}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 100*time.Millisecond, s.Max)
	assert.Equal(t, 50500*time.Microsecond, s.Avg)
	assert.Equal(t, 99*time.Millisecond, s.P99)
}

func TestReportGenerate(t *testing.T) {
	r := &Report{
		Duration:  time.Second,
		Level:     "a",
		Runs:      3,
		Wins:      1,
		Deaths:    2,
		Frames:    600,
		TotalTime: 2 * time.Second,
		Systems:   []SystemTime{{Name: "ScoreSystem", Calls: 4, Total: 8 * time.Millisecond}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))
	out := buf.String()
	assert.Contains(t, out, "**Runs:** 3 (1 won, 2 died)")
	assert.Contains(t, out, "**Simulated FPS:** 300")
	assert.Contains(t, out, "| ScoreSystem | 4 | 2ms |")
}
