// Package fractal animates a procedurally generated fractal tree of rigid
// parts and produces per-instance transform matrices for instanced rendering.
//
// A tree has a fixed depth of 3 to 8 levels. Level 0 holds the root, and every
// part has five children on the next level, one per canonical orientation
// (straight up, tilted left, right, forward and back). Each tick every part
// spins about its own up axis, sags toward the ground depending on how far it
// leans from vertical, and inherits its parent's world transform.
//
// # Quick start
//
//	f, err := fractal.New(fractal.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := f.Enable(); err != nil {
//		log.Fatal(err)
//	}
//	defer f.Disable()
//
//	// Once per frame, from the host's own loop:
//	pkg := f.Tick(dt, fractal.IdentityRoot())
//	pkg.Submit(renderer)
//
// # Data layout
//
// All parts live in one flat arena, level after level; level l holds 5^l
// parts. Part i on level l has parent i/5 on level l-1, and the children of
// parent p are 5p..5p+4. No pointers are stored: relations are arithmetic.
//
// # Scheduling
//
// Tick updates the root from the external [RootTransform], then each level in
// order. The parts of one level are split into chunks of whole sibling groups
// and updated on a bounded set of goroutines (see [WithWorkers]); the next
// level starts only after every chunk of the previous one has finished.
//
// # Rendering
//
// The core never touches the GPU. After the levels settle, Tick fills a
// [RenderPackage]: for each level the mesh to draw (leaf mesh on the deepest
// level, branch mesh elsewhere), two colors, a per-level seed vector, the
// tree's bounding box and the level's [Matrix3x4] instances. A [Renderer]
// consumes it. The render sub-package provides one on Ebitengine; the ecs
// module drives fractals from a Donburi world.
package fractal
