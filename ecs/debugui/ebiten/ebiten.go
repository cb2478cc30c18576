// Package ebiten runs the debug overlay on the Ebiten Dear ImGui backend.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/flapper/ecs"
	"github.com/plus3/flapper/ecs/debugui"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Overlay draws the debug windows over the game. It is hidden until toggled
// and does no ImGui work while hidden.
type Overlay struct {
	backend   ImguiBackend
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	target    func() debugui.Target
	current   *ecs.Singleton[debugui.Target]
	input     *ecs.Singleton[debugui.ImguiInputState]
	visible   bool
	inFrame   bool
}

// NewOverlay creates the ImGui context. target is called every frame to find
// the world to inspect.
func NewOverlay(title string, width, height int, target func() debugui.Target) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	storage, scheduler := debugui.NewStorage(120)
	return &Overlay{
		backend:   ImguiBackend{EbitenBackend: backend},
		storage:   storage,
		scheduler: scheduler,
		target:    target,
		current:   ecs.NewSingleton[debugui.Target](storage),
		input:     ecs.NewSingleton[debugui.ImguiInputState](storage),
	}
}

func (o *Overlay) Toggle() {
	o.visible = !o.visible
	if !o.visible {
		*o.input.Get() = debugui.ImguiInputState{}
	}
}

func (o *Overlay) Visible() bool {
	return o.visible
}

func (o *Overlay) BeginFrame() {
	if !o.visible {
		return
	}
	o.backend.BeginFrame()
	o.inFrame = true
}

// Update points the windows at the current world and runs them.
func (o *Overlay) Update(dt float64) {
	if !o.inFrame {
		return
	}
	o.current.Set(o.target())
	o.scheduler.Once(dt)
}

func (o *Overlay) EndFrame() {
	if !o.inFrame {
		return
	}
	o.backend.EndFrame()
	o.inFrame = false
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.visible {
		o.backend.Draw(screen)
	}
}

func (o *Overlay) Layout(w, h int) {
	o.backend.Layout(w, h)
}

// WantsKeyboard reports whether ImGui has keyboard focus, in which case the
// game should not see key presses.
func (o *Overlay) WantsKeyboard() bool {
	return o.visible && o.input.Get().WantCaptureKeyboard
}
