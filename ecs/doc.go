// Package ecs runs fractal trees inside a [Donburi] world.
//
// Each tree is an entity with a [Transform] and a [Tree] component. [Tick]
// advances every tree from its entity transform and publishes a [FrameEvent]
// per tree on [FrameEventType]; [Draw] submits the stored render packages.
//
// Usage:
//
//	world := donburi.NewWorld()
//	entity, err := ecs.NewTreeEntity(world, fractal.DefaultConfig(), ecs.NewTransform(mgl32.Vec3{}))
//	...
//	ecs.Tick(world, dt)
//	ecs.FrameEventType.ProcessEvents(world)
//	ecs.Draw(world, renderer)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
