// Package resource loads and caches level files and sounds (ResourceManager).
package resource

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/gopxl/beep"
	getter "github.com/hashicorp/go-getter"
	"github.com/plus3/flapper/audio"
	"github.com/plus3/flapper/level"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

//go:embed levels/*.json
var embedded embed.FS

// Embedded returns the level set shipped with the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "levels")
	if err != nil {
		panic(err)
	}
	return sub
}

const levelExt = ".json"

// Manager caches parsed levels and synthesised sounds. It is safe for
// concurrent use.
type Manager struct {
	fsys fs.FS

	mu     sync.RWMutex
	levels map[string]*level.Config
	sounds map[string]*beep.Buffer
}

func New(fsys fs.FS) *Manager {
	return &Manager{
		fsys:   fsys,
		levels: make(map[string]*level.Config),
		sounds: make(map[string]*beep.Buffer),
	}
}

// Open serves levels from dir, or the embedded set when dir is empty.
func Open(dir string) (*Manager, error) {
	if dir == "" {
		return New(Embedded()), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Errorf("opening level directory: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("opening level directory: %s is not a directory", dir)
	}
	return New(os.DirFS(dir)), nil
}

// Levels lists level names (file names without .json) in sorted order.
func (m *Manager) Levels() ([]string, error) {
	matches, err := fs.Glob(m.fsys, "*"+levelExt)
	if err != nil {
		return nil, errors.Errorf("listing levels: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, strings.TrimSuffix(path.Base(match), levelExt))
	}
	slices.Sort(names)
	return names, nil
}

// Level returns the parsed and validated level called name. Repeated calls
// return the same *level.Config.
func (m *Manager) Level(name string) (*level.Config, error) {
	m.mu.RLock()
	cfg, ok := m.levels[name]
	m.mu.RUnlock()
	if ok {
		return cfg, nil
	}

	cfg, err := m.parse(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// another goroutine may have won the race
	if existing, ok := m.levels[name]; ok {
		return existing, nil
	}
	m.levels[name] = cfg
	return cfg, nil
}

func (m *Manager) parse(name string) (*level.Config, error) {
	data, err := fs.ReadFile(m.fsys, name+levelExt)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Errorf("%w: %q", level.ErrNoSuchLevel, name)
	}
	if err != nil {
		return nil, errors.Errorf("reading level %q: %w", name, err)
	}

	cfg, err := level.Parse(data)
	if err != nil {
		return nil, errors.Errorf("level %q: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("level %q: %w", name, err)
	}
	return cfg, nil
}

// Preload parses every level concurrently. The first failure is returned.
func (m *Manager) Preload(ctx context.Context) error {
	names, err := m.Levels()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := m.Level(name)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "levels preloaded", "count", len(names))
	return nil
}

// Sound returns the named effect, synthesising it on first use.
func (m *Manager) Sound(name string) (*beep.Buffer, error) {
	m.mu.RLock()
	buf, ok := m.sounds[name]
	m.mu.RUnlock()
	if ok {
		return buf, nil
	}

	buf, err := audio.Synth(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sounds[name]; ok {
		return existing, nil
	}
	m.sounds[name] = buf
	return buf, nil
}

// Invalidate drops every cached level and sound.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.levels)
	clear(m.sounds)
}

// Fetch downloads a level pack from src into dst. src is anything go-getter
// understands: a local path, an http(s) archive, or a git:: URL with an
// optional //subdir.
func Fetch(ctx context.Context, src, dst string) error {
	pwd, err := os.Getwd()
	if err != nil {
		return errors.Errorf("fetching %s: %w", src, err)
	}

	slog.InfoContext(ctx, "fetching level pack", "src", src, "dst", dst)
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeAny,
	}
	if err := client.Get(); err != nil {
		return errors.Errorf("fetching %s: %w", src, err)
	}

	m := New(os.DirFS(dst))
	names, err := m.Levels()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return errors.Errorf("fetching %s: no %s files in pack", src, levelExt)
	}
	slog.InfoContext(ctx, "level pack fetched", "dst", dst, "levels", len(names))
	return nil
}
