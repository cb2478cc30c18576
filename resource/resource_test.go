package resource_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/plus3/flapper/audio"
	"github.com/plus3/flapper/level"
	"github.com/plus3/flapper/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestEmbeddedLevels(t *testing.T) {
	m := resource.New(resource.Embedded())

	names, err := m.Levels()
	require.NoError(t, err)
	assert.Equal(t, []string{"01_meadow", "02_canyon"}, names)

	require.NoError(t, m.Preload(context.Background()))

	for _, name := range names {
		cfg, err := m.Level(name)
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.Pipes(), name)
	}

	canyon, err := m.Level("02_canyon")
	require.NoError(t, err)
	assert.Len(t, canyon.PowerUps(), 3)
}

func TestLevelIsCached(t *testing.T) {
	m := resource.New(resource.Embedded())

	a, err := m.Level("01_meadow")
	require.NoError(t, err)
	b, err := m.Level("01_meadow")
	require.NoError(t, err)
	assert.Same(t, a, b)

	m.Invalidate()
	c, err := m.Level("01_meadow")
	require.NoError(t, err)
	assert.NotSame(t, a, c)
}

func TestMissingLevel(t *testing.T) {
	m := resource.New(resource.Embedded())
	_, err := m.Level("99_nowhere")
	assert.True(t, errors.Is(err, level.ErrNoSuchLevel))
}

func TestPreloadReportsBrokenLevel(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json": {Data: []byte(`{"name":"a"}`)},
		"b.json": {Data: []byte(`{"name":"b","width":-4}`)},
		"c.json": {Data: []byte(`not json`)},
		"d.txt":  {Data: []byte(`ignored`)},
	}
	m := resource.New(fsys)

	names, err := m.Levels()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	err = m.Preload(context.Background())
	require.Error(t, err)
}

func TestSoundCache(t *testing.T) {
	m := resource.New(resource.Embedded())

	a, err := m.Sound(audio.Flap)
	require.NoError(t, err)
	b, err := m.Sound(audio.Flap)
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = m.Sound("kazoo")
	assert.True(t, errors.Is(err, audio.ErrUnknownSound))
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	cfg := level.NewBuilder("Local").AddPipe(400, 300).Build()
	data, err := level.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.json"), data, 0o644))

	m, err := resource.Open(dir)
	require.NoError(t, err)

	loaded, err := m.Level("local")
	require.NoError(t, err)
	assert.Equal(t, "Local", loaded.Name)

	_, err = resource.Open(filepath.Join(dir, "local.json"))
	assert.Error(t, err)
}

func TestFetchLocalPack(t *testing.T) {
	src := t.TempDir()
	data, err := level.Marshal(level.NewBuilder("Fetched").AddPipe(400, 300).Build())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(src, "fetched.json"), data, 0o644))

	dst := filepath.Join(t.TempDir(), "pack")
	require.NoError(t, resource.Fetch(context.Background(), src, dst))

	m, err := resource.Open(dst)
	require.NoError(t, err)
	names, err := m.Levels()
	require.NoError(t, err)
	assert.Equal(t, []string{"fetched"}, names)
}

func TestFetchEmptyPack(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "readme.txt"), []byte("hi"), 0o644))

	err := resource.Fetch(context.Background(), src, filepath.Join(t.TempDir(), "pack"))
	assert.Error(t, err)
}
