// Package render draws a fractal tree with Ebitengine.
//
// [Renderer] implements [fractal.Renderer]. It expands every instance of a
// level into the triangles of the level's mesh, shades them with a single
// directional light and paints them back to front with DrawTriangles32. It
// is a CPU reference renderer: good for previewing configurations at the
// lower depths, not a substitute for GPU instancing.
//
// [Game] wraps a [fractal.Fractal] as an ebiten.Game:
//
//	f, _ := fractal.New(fractal.DefaultConfig())
//	_ = f.Enable()
//	game := render.NewGame(f, logger, 1280, 720)
//	err := ebiten.RunGame(game)
package render
