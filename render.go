package fractal

import "github.com/go-gl/mathgl/mgl32"

// Renderer is the rendering collaborator. It receives one LevelDraw per
// level per frame, in level order, and draws Count instances of the
// selected mesh. The LevelDraw and its Matrices are only valid for the
// duration of the call.
type Renderer interface {
	DrawLevel(draw *LevelDraw)
}

// LevelDraw carries everything needed for one instanced draw call.
type LevelDraw struct {
	Index int
	Mesh  MeshID
	Leaf  bool

	ColorA, ColorB Color

	// Sequence is the level's fixed pseudo-random seed vector, drawn once at
	// build time.
	Sequence [4]float32

	Bounds Bounds

	// Matrices aliases the tree arena: valid until the next tick.
	Matrices []Matrix3x4
}

// Count returns the number of instances.
func (d *LevelDraw) Count() int { return len(d.Matrices) }

// RenderPackage is the per-tick output of a Fractal. It is reused across
// ticks; copy anything that must outlive the next tick.
type RenderPackage struct {
	Bounds Bounds
	Levels []LevelDraw
}

// Submit hands every level to r in level order.
func (p *RenderPackage) Submit(r Renderer) {
	for i := range p.Levels {
		r.DrawLevel(&p.Levels[i])
	}
}

// InstanceCount returns the total number of instances across levels.
func (p *RenderPackage) InstanceCount() int {
	n := 0
	for i := range p.Levels {
		n += len(p.Levels[i].Matrices)
	}
	return n
}

// treeBounds is a cube of edge 3*scale centered on the root. Child offsets
// halve per level, so their sum stays below 1.5*scale.
func treeBounds(center mgl32.Vec3, scale float32) Bounds {
	e := 1.5 * scale
	return Bounds{Center: center, Extents: mgl32.Vec3{e, e, e}}
}

// gradientTime returns where branch level l samples the gradients. Branch
// levels are 0..depth-2, so t runs from 0 on the root to 1 on the last
// branch level.
func gradientTime(l, depth int) float32 {
	return float32(l) / (float32(depth) - 2)
}

// pack fills p from the settled tree. Only the slices are refreshed each
// tick; the per-level constants were set by resetPackage.
func pack(p *RenderPackage, t *Tree, bounds Bounds) {
	p.Bounds = bounds
	for l := range p.Levels {
		d := &p.Levels[l]
		d.Bounds = bounds
		d.Matrices = t.level(l).Matrices
	}
}

// resetPackage sizes p for a freshly built tree and fills the per-level
// constants: mesh, colors and sequence numbers.
func resetPackage(p *RenderPackage, t *Tree, cfg *Config) {
	if cap(p.Levels) < t.depth {
		p.Levels = make([]LevelDraw, t.depth)
	}
	p.Levels = p.Levels[:t.depth]

	leaf := t.depth - 1
	for l := range p.Levels {
		d := &p.Levels[l]
		*d = LevelDraw{Index: l, Sequence: t.sequence[l], Matrices: t.level(l).Matrices}
		if l == leaf {
			d.Leaf = true
			d.Mesh = cfg.LeafMesh
			d.ColorA = cfg.LeafColorA
			d.ColorB = cfg.LeafColorB
			continue
		}
		gt := gradientTime(l, t.depth)
		d.Mesh = cfg.BranchMesh
		d.ColorA = cfg.GradientA.Evaluate(gt)
		d.ColorB = cfg.GradientB.Evaluate(gt)
	}
}

// clearPackage drops all references into a released tree.
func clearPackage(p *RenderPackage) {
	for i := range p.Levels {
		p.Levels[i].Matrices = nil
	}
	p.Levels = p.Levels[:0]
}
