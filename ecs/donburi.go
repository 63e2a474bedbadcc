package ecs

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"

	"github.com/phanxgames/fractal"
)

// TransformData places a tree in the world. A zero Rotation is treated as
// the identity, so a component added with its zero value is still valid.
type TransformData struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    float32
}

// NewTransform returns an unrotated transform at position with scale 1.
func NewTransform(position mgl32.Vec3) TransformData {
	return TransformData{Position: position, Rotation: mgl32.QuatIdent(), Scale: 1}
}

// Root converts the transform to the root transform of a tree.
func (t TransformData) Root() fractal.RootTransform {
	rot := t.Rotation
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}
	return fractal.RootTransform{Position: t.Position, Rotation: rot, Scale: t.Scale}
}

// TreeData holds an entity's fractal and the package from its last tick.
type TreeData struct {
	Fractal *fractal.Fractal
	Package *fractal.RenderPackage
}

// Components.
var (
	Transform = donburi.NewComponentType[TransformData]()
	Tree      = donburi.NewComponentType[TreeData]()
)

// FrameEvent is published for every tree after it has been ticked.
type FrameEvent struct {
	Entity  donburi.Entity
	Package *fractal.RenderPackage
}

// FrameEventType is the Donburi event type for ticked trees. Subscribe to it
// to consume packages without querying the world.
var FrameEventType = events.NewEventType[FrameEvent]()

var treeQuery = donburi.NewQuery(filter.Contains(Transform, Tree))

// NewTreeEntity builds an enabled fractal from cfg and attaches it to a new
// entity placed at transform.
func NewTreeEntity(world donburi.World, cfg fractal.Config, transform TransformData, opts ...fractal.Option) (donburi.Entity, error) {
	f, err := fractal.New(cfg, opts...)
	if err != nil {
		return 0, err
	}
	if err := f.Enable(); err != nil {
		return 0, err
	}
	entity := world.Create(Transform, Tree)
	entry := world.Entry(entity)
	Transform.SetValue(entry, transform)
	Tree.SetValue(entry, TreeData{Fractal: f})
	return entity, nil
}

// RemoveTreeEntity releases the entity's fractal and removes the entity.
func RemoveTreeEntity(world donburi.World, entity donburi.Entity) {
	if !world.Valid(entity) {
		return
	}
	entry := world.Entry(entity)
	if entry.HasComponent(Tree) {
		if td := Tree.Get(entry); td.Fractal != nil {
			td.Fractal.Disable()
		}
	}
	world.Remove(entity)
}

// Tick advances every enabled tree by dt and publishes a FrameEvent for
// each. Events are queued; call FrameEventType.ProcessEvents to deliver.
func Tick(world donburi.World, dt float32) {
	treeQuery.Each(world, func(entry *donburi.Entry) {
		td := Tree.Get(entry)
		if td.Fractal == nil || !td.Fractal.Enabled() {
			td.Package = nil
			return
		}
		td.Package = td.Fractal.Tick(dt, Transform.Get(entry).Root())
		FrameEventType.Publish(world, FrameEvent{Entity: entry.Entity(), Package: td.Package})
	})
}

// Draw submits the package of every tree ticked by the last Tick.
func Draw(world donburi.World, r fractal.Renderer) {
	treeQuery.Each(world, func(entry *donburi.Entry) {
		if td := Tree.Get(entry); td.Package != nil {
			td.Package.Submit(r)
		}
	})
}
