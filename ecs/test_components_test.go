package ecs_test

import "github.com/plus3/flapper/ecs"

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Name struct {
	Value string
}

type Lives struct {
	Current int
	Max     int
}

type Player struct{}

type Score int32
type Tag string

type Feather struct {
	Owner *ecs.EntityRef
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Lives](registry)
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Tag](registry)
	ecs.RegisterComponent[Feather](registry)
	return registry
}
