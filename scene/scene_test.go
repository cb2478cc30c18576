package scene_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/plus3/flapper/audio"
	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/game"
	"github.com/plus3/flapper/input"
	"github.com/plus3/flapper/level"
	"github.com/plus3/flapper/logging"
	"github.com/plus3/flapper/render"
	"github.com/plus3/flapper/scene"
	"github.com/plus3/flapper/score"
	"github.com/plus3/flapper/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

const frame = 1.0 / 60

type fakeSource struct {
	names []string
	cfgs  map[string]*level.Config
}

func (f *fakeSource) Levels() ([]string, error) {
	return f.names, nil
}

func (f *fakeSource) Level(name string) (*level.Config, error) {
	cfg, ok := f.cfgs[name]
	if !ok {
		return nil, level.ErrNoSuchLevel
	}
	return cfg, nil
}

func straightLevels() *fakeSource {
	return &fakeSource{
		names: []string{"a", "b"},
		cfgs: map[string]*level.Config{
			"a": level.NewBuilder("a").AddPipe(400, 300).AddPipe(650, 300).Build(),
			"b": level.NewBuilder("b").AddPipe(400, 280).AddPipe(650, 320).Build(),
		},
	}
}

type fixture struct {
	ctx    context.Context
	svc    *scene.Services
	mgr    *scene.Manager
	scores *score.Memory
	audio  *audio.Recorder
}

func newFixture(t *testing.T, src level.Source, autopilot bool) *fixture {
	t.Helper()
	levels, err := level.NewManager(src, 1)
	require.NoError(t, err)

	f := &fixture{
		ctx:    context.Background(),
		scores: score.NewMemory(),
		audio:  &audio.Recorder{},
	}
	f.svc = &scene.Services{
		Levels:    levels,
		Scores:    f.scores,
		Input:     input.NewManager(nil),
		Audio:     f.audio,
		Scripts:   script.Builtin(),
		Settings:  game.DefaultSettings(),
		Player:    "tester",
		Seed:      1,
		Autopilot: autopilot,
	}
	f.mgr = scene.New(f.svc)
	return f
}

func (f *fixture) tap(t *testing.T, key string) {
	t.Helper()
	f.svc.Input.Tap(key)
	f.update(t)
}

func (f *fixture) update(t *testing.T) {
	t.Helper()
	require.NoError(t, f.mgr.Update(f.ctx, frame))
	f.svc.Input.EndFrame()
}

func (f *fixture) runUntil(t *testing.T, limit int, id scene.SceneID) {
	t.Helper()
	for range limit {
		if f.mgr.Current().ID() == id {
			return
		}
		f.update(t)
	}
	require.Equal(t, id, f.mgr.Current().ID(), "scene not reached in %d frames", limit)
}

func TestManagerUnknownScene(t *testing.T) {
	m := scene.NewManager()
	err := m.Start(context.Background(), scene.SceneMenu)
	assert.True(t, errors.Is(err, scene.ErrUnknownScene))
	assert.Nil(t, m.Current())
}

type stubScene struct {
	id       scene.SceneID
	enterErr error
	entered  int
	exited   int
}

func (s *stubScene) ID() scene.SceneID { return s.id }

func (s *stubScene) Enter(ctx context.Context, _ scene.Transition) error {
	s.entered++
	slog.InfoContext(ctx, "entered")
	return s.enterErr
}

func (s *stubScene) Update(ctx context.Context, _ float64) (scene.Transition, error) {
	slog.InfoContext(ctx, "updated")
	return scene.Transition{}, nil
}

func (s *stubScene) Draw(render.Renderer) {}
func (s *stubScene) Exit()                { s.exited++ }

func TestManagerKeepsSceneWhenEnterFails(t *testing.T) {
	boom := errors.Base("boom")
	menu := &stubScene{id: scene.SceneMenu}
	play := &stubScene{id: scene.ScenePlay, enterErr: boom}
	m := scene.NewManager(menu, play)
	ctx := context.Background()

	require.NoError(t, m.Start(ctx, scene.SceneMenu))
	err := m.Enter(ctx, scene.Transition{To: scene.ScenePlay})
	assert.True(t, errors.Is(err, boom))

	assert.Equal(t, scene.SceneMenu, m.Current().ID())
	assert.Equal(t, 0, menu.exited)
	assert.Equal(t, 1, play.entered)

	play.enterErr = nil
	require.NoError(t, m.Enter(ctx, scene.Transition{To: scene.ScenePlay}))
	assert.Equal(t, scene.ScenePlay, m.Current().ID())
	assert.Equal(t, 1, menu.exited)
}

func TestManagerLogsWithSceneAttr(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	ctx, err := logging.Setup(context.Background(), &buf, "info", "json", false)
	require.NoError(t, err)

	m := scene.NewManager(&stubScene{id: scene.SceneMenu})
	require.NoError(t, m.Start(ctx, scene.SceneMenu))
	require.NoError(t, m.Update(ctx, frame))

	scenes := map[string]any{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec))
		scenes[rec["msg"].(string)] = rec["scene"]
	}
	assert.Equal(t, "menu", scenes["entered"])
	assert.Equal(t, "menu", scenes["updated"])
}

func TestMenuNavigation(t *testing.T) {
	f := newFixture(t, straightLevels(), false)
	require.NoError(t, f.mgr.Start(f.ctx, scene.SceneMenu))
	menu := f.mgr.Current().(*scene.Menu)

	f.tap(t, "down")
	assert.Equal(t, 1, menu.Cursor())
	f.tap(t, "up")
	f.tap(t, "up")
	assert.Equal(t, 2, menu.Cursor(), "cursor wraps to endless")
	f.tap(t, "s")
	assert.Equal(t, 0, menu.Cursor())

	f.tap(t, "enter")
	assert.Equal(t, scene.ScenePlay, f.mgr.Current().ID())
}

func TestMenuShowsBest(t *testing.T) {
	f := newFixture(t, straightLevels(), false)
	_, err := f.scores.Submit(f.ctx, score.Entry{Level: "a", Score: 5})
	require.NoError(t, err)
	_, err = f.scores.Submit(f.ctx, score.Entry{Level: level.EndlessName, Score: 9})
	require.NoError(t, err)

	require.NoError(t, f.mgr.Start(f.ctx, scene.SceneMenu))
	menu := f.mgr.Current().(*scene.Menu)
	assert.Equal(t, 5, menu.Best())

	f.tap(t, "down")
	assert.Zero(t, menu.Best())
	f.tap(t, "down")
	assert.Equal(t, 9, menu.Best())

	rec := render.NewRecorder()
	f.mgr.Draw(rec)
	assert.True(t, rec.HasText("> Endless"))
	assert.True(t, rec.HasText("Best: 9"))
	assert.Equal(t, 1, rec.Frames)
}

func TestMenuQuit(t *testing.T) {
	f := newFixture(t, straightLevels(), false)
	require.NoError(t, f.mgr.Start(f.ctx, scene.SceneMenu))

	f.tap(t, "esc")
	assert.True(t, f.mgr.Done())
	assert.Nil(t, f.mgr.Current())

	// updates after quitting are ignored
	f.update(t)
}

func TestPlayThroughAllLevels(t *testing.T) {
	f := newFixture(t, straightLevels(), true)
	require.NoError(t, f.mgr.Start(f.ctx, scene.SceneMenu))
	f.tap(t, "enter")

	play := f.mgr.Current().(*scene.Play)
	require.NotNil(t, play.World())
	assert.Equal(t, "a", play.World().State().Level)

	f.runUntil(t, 3000, scene.SceneGameOver)

	over := f.mgr.Current().(*scene.GameOver)
	res := over.Result()
	assert.True(t, res.Won, "died of %s", res.Cause)
	assert.Equal(t, "a", res.Level)
	assert.Equal(t, "b", res.Reached)
	assert.Equal(t, 4, res.Score)
	assert.True(t, res.NewBest)
	assert.Equal(t, 4, res.Best)
	assert.Equal(t, 4, f.audio.Count(audio.Score))

	rec := render.NewRecorder()
	f.mgr.Draw(rec)
	assert.True(t, rec.HasText("YOU WIN!"))
	assert.True(t, rec.HasText("New best!"))
	assert.True(t, rec.HasText("tester"))

	f.tap(t, "enter")
	require.Equal(t, scene.ScenePlay, f.mgr.Current().ID())
	assert.Equal(t, "a", play.World().State().Level)
	assert.Zero(t, play.World().State().Score)
}

func TestPlayDeathEndsRun(t *testing.T) {
	src := &fakeSource{
		names: []string{"open"},
		cfgs:  map[string]*level.Config{"open": level.NewBuilder("open").Build()},
	}
	f := newFixture(t, src, false)
	require.NoError(t, f.mgr.Start(f.ctx, scene.SceneMenu))
	f.tap(t, "enter")

	f.runUntil(t, 600, scene.SceneGameOver)
	res := f.mgr.Current().(*scene.GameOver).Result()
	assert.False(t, res.Won)
	assert.Equal(t, component.TagGround, res.Cause)
	assert.Zero(t, res.Score)

	top, err := f.scores.Top(f.ctx, "open", 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "tester", top[0].Player)

	rec := render.NewRecorder()
	f.mgr.Draw(rec)
	assert.True(t, rec.HasText("GAME OVER"))

	f.tap(t, "esc")
	assert.Equal(t, scene.SceneMenu, f.mgr.Current().ID())
}

func TestPause(t *testing.T) {
	f := newFixture(t, straightLevels(), false)
	require.NoError(t, f.mgr.Start(f.ctx, scene.SceneMenu))
	f.tap(t, "enter")
	play := f.mgr.Current().(*scene.Play)

	f.tap(t, "p")
	require.True(t, play.Paused())
	y := play.World().Transform().Y
	for range 30 {
		f.update(t)
	}
	assert.Equal(t, y, play.World().Transform().Y)

	rec := render.NewRecorder()
	f.mgr.Draw(rec)
	assert.True(t, rec.HasText("PAUSED"))

	f.tap(t, "p")
	assert.False(t, play.Paused())
	assert.NotEqual(t, y, play.World().Transform().Y)
}

func TestEndlessCarriesOn(t *testing.T) {
	f := newFixture(t, &fakeSource{}, true)
	require.NoError(t, f.mgr.Start(f.ctx, scene.SceneMenu))
	f.tap(t, "enter")

	play := f.mgr.Current().(*scene.Play)
	assert.Equal(t, level.EndlessName, play.World().State().Level)
	assert.True(t, f.svc.Levels.Endless())
}
