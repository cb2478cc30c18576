// Package debugui is a Dear ImGui overlay for inspecting a running ECS world.
// The overlay keeps its own storage: every window is an entity with an
// ImguiItem, and the world being inspected is the Target singleton.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flapper/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
type ImguiItem struct {
	Render func()
}

// ImguiInputState records whether ImGui wants the mouse or keyboard this
// frame. Game input should be ignored while it does.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Target is the world under inspection. It may change between frames, for
// example when a new level starts.
type Target struct {
	Label     string
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler
}

// Valid reports whether there is a world to inspect.
func (t *Target) Valid() bool {
	return t != nil && t.Storage != nil
}

// ImguiSystem defers every ImguiItem's render function to the end of the
// frame and refreshes ImguiInputState.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Iter() {
		frame.Commands.Defer(item.Render)
	}
}

// FrameSystem records the frame time of every overlay update.
type FrameSystem struct {
	History ecs.Singleton[FrameHistory]
}

func (f *FrameSystem) Execute(frame *ecs.UpdateFrame) {
	if h := f.History.Get(); h != nil {
		h.Push(frame.DeltaTime)
	}
}

// Register adds the overlay's component types to registry.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
	ecs.RegisterComponent[Target](registry)
	ecs.RegisterComponent[FrameHistory](registry)
	ecs.RegisterComponent[Selection](registry)
}

// NewStorage builds the overlay's storage with its singletons and windows,
// and a scheduler that runs them.
func NewStorage(historyFrames int) (*ecs.Storage, *ecs.Scheduler) {
	registry := ecs.NewComponentRegistry()
	Register(registry)
	storage := ecs.NewStorage(registry)

	ecs.NewSingleton(storage, ImguiInputState{})
	ecs.NewSingleton(storage, Target{})
	ecs.NewSingleton(storage, NewFrameHistory(historyFrames))
	ecs.NewSingleton(storage, Selection{})
	SpawnWindows(storage)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&FrameSystem{})
	scheduler.Register(&ImguiSystem{})
	return storage, scheduler
}
