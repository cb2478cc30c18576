// Package level reads, writes, builds and sequences level files.
//
// The file format is the one produced by the level editor: a Level object
// holding GameObjects, each carrying a list of components tagged by "type".
package level

import (
	"bytes"
	"encoding/json"
	"io"

	"gitlab.com/tozd/go/errors"
)

const (
	DefaultWidth   = 800
	DefaultHeight  = 600
	DefaultGravity = 800.0

	// GroundHeight is the strip at the bottom of every level.
	GroundHeight = 50

	// Sprite size used when a Sprite component omits it.
	DefaultSpriteWidth  = 60
	DefaultSpriteHeight = 100
)

var (
	DefaultBackground = [3]int{135, 206, 235}

	ErrInvalidLevel       = errors.Base("invalid level")
	ErrUnknownComponent   = errors.Base("unknown component type")
	ErrDuplicateComponent = errors.Base("duplicate component")
)

// Config is one level file (LevelConfig).
type Config struct {
	Type    string   `json:"type"`
	Name    string   `json:"name"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Gravity float64  `json:"gravity"`
	BgR     int      `json:"bgR"`
	BgG     int      `json:"bgG"`
	BgB     int      `json:"bgB"`
	Objects []Object `json:"gameObjects"`
}

type Object struct {
	Name       string
	Active     bool
	Components []Component
}

// Component is one entry of an object's component list. The concrete types
// are Transform, Sprite, Collider, Script and Physics.
type Component interface {
	Kind() string
}

type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
}

type Sprite struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	R      int `json:"r"`
	G      int `json:"g"`
	B      int `json:"b"`
}

type Collider struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	IsTrigger bool    `json:"isTrigger"`
	Tag       string  `json:"tag"`
}

type Script struct {
	Name   string             `json:"name"`
	Params map[string]float64 `json:"params,omitempty"`
}

type Physics struct {
	VX           float64 `json:"vx"`
	VY           float64 `json:"vy"`
	GravityScale float64 `json:"gravityScale"`
}

func (Transform) Kind() string { return "Transform" }
func (Sprite) Kind() string    { return "Sprite" }
func (Collider) Kind() string  { return "Collider" }
func (Script) Kind() string    { return "Script" }
func (Physics) Kind() string   { return "Physics" }

// Get returns the object's first component of type T.
func Get[T Component](o *Object) (T, bool) {
	for _, c := range o.Components {
		if v, ok := c.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Object returns the object named name, or nil.
func (c *Config) Object(name string) *Object {
	for i := range c.Objects {
		if c.Objects[i].Name == name {
			return &c.Objects[i]
		}
	}
	return nil
}

// Background is the level's clear colour.
func (c *Config) Background() (r, g, b uint8) {
	return clampByte(c.BgR), clampByte(c.BgG), clampByte(c.BgB)
}

// GroundY is the top edge of the ground strip.
func (c *Config) GroundY() float64 {
	return float64(c.Height - GroundHeight)
}

func clampByte(v int) uint8 {
	return uint8(max(0, min(255, v)))
}

// Validate checks the level is playable.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("%w: size %dx%d", ErrInvalidLevel, c.Width, c.Height)
	}
	if c.Height <= GroundHeight {
		return errors.Errorf("%w: height %d leaves no room above the ground", ErrInvalidLevel, c.Height)
	}
	if c.Gravity < 0 {
		return errors.Errorf("%w: negative gravity %v", ErrInvalidLevel, c.Gravity)
	}

	names := make(map[string]bool, len(c.Objects))
	for _, obj := range c.Objects {
		if obj.Name == "" {
			return errors.Errorf("%w: object without a name", ErrInvalidLevel)
		}
		if names[obj.Name] {
			return errors.Errorf("%w: object %q defined twice", ErrInvalidLevel, obj.Name)
		}
		names[obj.Name] = true

		kinds := make(map[string]bool, len(obj.Components))
		for _, comp := range obj.Components {
			if kinds[comp.Kind()] {
				return errors.Errorf("%w: %s on object %q", ErrDuplicateComponent, comp.Kind(), obj.Name)
			}
			kinds[comp.Kind()] = true
		}

		if sprite, ok := Get[Sprite](&obj); ok && (sprite.Width < 0 || sprite.Height < 0) {
			return errors.Errorf("%w: object %q has negative sprite size", ErrInvalidLevel, obj.Name)
		}
	}
	return nil
}

// Parse decodes a level file and fills in defaults for missing fields.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Errorf("decoding level: %w", err)
	}
	return &cfg, nil
}

// Decode reads a level file from r.
func Decode(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Errorf("reading level: %w", err)
	}
	return Parse(data)
}

// Encode writes cfg as indented JSON the way the editor saves it.
func Encode(w io.Writer, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Errorf("encoding level %q: %w", cfg.Name, err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return errors.Errorf("writing level %q: %w", cfg.Name, err)
	}
	return nil
}

// Marshal is Encode into a byte slice.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
