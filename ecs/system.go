package ecs

// System is a unit of per-frame behaviour. Exported Query and Singleton fields
// are bound to the scheduler's storage on registration; any other fields are
// the system's own state and persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}
