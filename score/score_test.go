package score_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/flapper/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func exerciseStore(t *testing.T, s score.Store) {
	t.Helper()
	ctx := context.Background()

	b, err := s.Best(ctx, "meadow")
	require.NoError(t, err)
	assert.Zero(t, b)

	submits := []struct {
		entry   score.Entry
		newBest bool
	}{
		{score.Entry{Level: "meadow", Player: "ana", Score: 3, At: t0}, true},
		{score.Entry{Level: "meadow", Player: "bo", Score: 3, At: t0.Add(time.Minute)}, false},
		{score.Entry{Level: "meadow", Player: "cy", Score: 7, At: t0.Add(2 * time.Minute)}, true},
		{score.Entry{Level: "canyon", Player: "ana", Score: 1, At: t0}, true},
		{score.Entry{Level: "meadow", Player: "di", Score: 5, At: t0.Add(3 * time.Minute)}, false},
	}
	for _, sub := range submits {
		got, err := s.Submit(ctx, sub.entry)
		require.NoError(t, err)
		assert.Equal(t, sub.newBest, got, "%+v", sub.entry)
	}

	b, err = s.Best(ctx, "meadow")
	require.NoError(t, err)
	assert.Equal(t, 7, b)

	topThree, err := s.Top(ctx, "meadow", 3)
	require.NoError(t, err)
	require.Len(t, topThree, 3)
	assert.Equal(t, "cy", topThree[0].Player)
	assert.Equal(t, "di", topThree[1].Player)
	assert.Equal(t, "ana", topThree[2].Player)

	all, err := s.Top(ctx, "canyon", 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemory(t *testing.T) {
	exerciseStore(t, score.NewMemory())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scores.yaml")

	s, err := score.OpenFile(path)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Close())

	reopened, err := score.OpenFile(path)
	require.NoError(t, err)
	b, err := reopened.Best(context.Background(), "meadow")
	require.NoError(t, err)
	assert.Equal(t, 7, b)

	top, err := reopened.Top(context.Background(), "meadow", 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.True(t, top[0].At.Equal(t0.Add(2*time.Minute)))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFileStoreStampsEntries(t *testing.T) {
	s, err := score.OpenFile(filepath.Join(t.TempDir(), "scores.yaml"))
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), score.Entry{Level: "x", Score: 1})
	require.NoError(t, err)

	top, err := s.Top(context.Background(), "x", 1)
	require.NoError(t, err)
	assert.False(t, top[0].At.IsZero())
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scores: [oops"), 0o644))

	_, err := score.OpenFile(path)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := score.Open(ctx, score.Config{Driver: score.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &score.Memory{}, s)

	s, err = score.Open(ctx, score.Config{Path: filepath.Join(t.TempDir(), "s.yaml")})
	require.NoError(t, err)
	assert.IsType(t, &score.FileStore{}, s)

	_, err = score.Open(ctx, score.Config{Driver: "redis"})
	assert.True(t, errors.Is(err, score.ErrUnknownDriver))

	_, err = score.Open(ctx, score.Config{Driver: score.DriverPostgres})
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("FLAPPER_TEST_DSN")
	if dsn == "" {
		t.Skip("FLAPPER_TEST_DSN not set")
	}
	ctx := context.Background()

	s, err := score.OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	level := "test-" + time.Now().Format("150405.000000")
	_, err = s.Submit(ctx, score.Entry{Level: level, Player: "a", Score: 2})
	require.NoError(t, err)
	newBest, err := s.Submit(ctx, score.Entry{Level: level, Player: "b", Score: 5})
	require.NoError(t, err)
	assert.True(t, newBest)

	b, err := s.Best(ctx, level)
	require.NoError(t, err)
	assert.Equal(t, 5, b)

	top, err := s.Top(ctx, level, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].Player)
}
