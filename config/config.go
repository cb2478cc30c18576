// Package config loads flapper's YAML configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/plus3/flapper/input"
	"github.com/plus3/flapper/score"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "FLAPPER_CONFIG"

var ErrInvalid = errors.Base("invalid config")

const (
	BackendEbiten   = "ebiten"
	BackendTerminal = "terminal"
	BackendHeadless = "headless"
)

type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Backend string        `yaml:"backend"`
	Levels  LevelsConfig  `yaml:"levels"`
	Physics PhysicsConfig `yaml:"physics"`
	Input   InputConfig   `yaml:"input"`
	Audio   AudioConfig   `yaml:"audio"`
	Effects EffectsConfig `yaml:"effects"`
	Scores  ScoresConfig  `yaml:"scores"`
	Log     LogConfig     `yaml:"log"`
	Debug   bool          `yaml:"debug"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	FPS    int    `yaml:"fps"`
}

type LevelsConfig struct {
	// Dir holds *.json level files. Empty uses the embedded levels.
	Dir         string `yaml:"dir"`
	PackURL     string `yaml:"pack_url"`
	EndlessSeed uint64 `yaml:"endless_seed"`
}

type PhysicsConfig struct {
	FlapVelocity float64 `yaml:"flap_velocity"`
	ScrollSpeed  float64 `yaml:"scroll_speed"`
	MaxFall      float64 `yaml:"max_fall"`
}

type InputConfig struct {
	// Bindings maps key names to action names and is layered over the
	// default bindings.
	Bindings map[string][]string `yaml:"bindings"`
}

type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

type EffectsConfig struct {
	Shake     bool `yaml:"shake"`
	SlowMo    bool `yaml:"slowmo"`
	Particles bool `yaml:"particles"`
}

type ScoresConfig struct {
	score.Config `yaml:",inline"`
	Player       string `yaml:"player"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "Flapper",
			FPS:    60,
		},
		Backend: BackendEbiten,
		Levels: LevelsConfig{
			EndlessSeed: 1,
		},
		Physics: PhysicsConfig{
			FlapVelocity: -300,
			ScrollSpeed:  150,
			MaxFall:      600,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.8,
		},
		Effects: EffectsConfig{
			Shake:     true,
			SlowMo:    true,
			Particles: true,
		},
		Scores: ScoresConfig{
			Config: score.Config{
				Driver: score.DriverFile,
				Path:   defaultScorePath(),
			},
			Player: defaultPlayer(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "tint",
		},
	}
}

func defaultScorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "flapper-scores.yaml"
	}
	return filepath.Join(dir, "flapper", "scores.yaml")
}

func defaultPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}

// Path returns the config file to load: $FLAPPER_CONFIG when set,
// otherwise fallback.
func Path(fallback string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return fallback
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, errors.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enums and ranges.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendEbiten, BackendTerminal, BackendHeadless:
	default:
		return errors.Errorf("%w: backend %q", ErrInvalid, c.Backend)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.FPS <= 0 || c.Window.FPS > 240 {
		return errors.Errorf("%w: fps %d", ErrInvalid, c.Window.FPS)
	}
	if c.Physics.FlapVelocity >= 0 {
		return errors.Errorf("%w: flap_velocity must be negative", ErrInvalid)
	}
	if c.Physics.ScrollSpeed <= 0 || c.Physics.MaxFall <= 0 {
		return errors.Errorf("%w: scroll_speed and max_fall must be positive", ErrInvalid)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return errors.Errorf("%w: volume %v outside [0, 1]", ErrInvalid, c.Audio.Volume)
	}
	switch c.Scores.Driver {
	case score.DriverFile, score.DriverPostgres, score.DriverMemory:
	default:
		return errors.Errorf("%w: scores driver %q", ErrInvalid, c.Scores.Driver)
	}
	switch c.Log.Format {
	case "tint", "json", "text":
	default:
		return errors.Errorf("%w: log format %q", ErrInvalid, c.Log.Format)
	}
	if _, err := input.ParseBindings(c.Input.Bindings); err != nil {
		return errors.Errorf("%w: %s", ErrInvalid, err.Error())
	}
	return nil
}

// Bindings returns the effective key bindings.
func (c *Config) Bindings() (input.Bindings, error) {
	return input.ParseBindings(c.Input.Bindings)
}
