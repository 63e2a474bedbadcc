package render

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/fractal"
)

// maxBatchTriangles bounds the vertices handed to one DrawTriangles32 call.
const maxBatchTriangles = 1 << 15

// triangle is one shaded, projected triangle waiting for the depth sort.
type triangle struct {
	x, y  [3]float32
	depth float32
	color fractal.Color
}

// Renderer draws levels as shaded triangles. Call Begin, submit the package
// (fractal.Fractal.Draw), then End. Not safe for concurrent use.
type Renderer struct {
	Camera *Camera

	// Light is the direction towards the light. Normalized on Begin.
	Light mgl32.Vec3
	// Ambient is the brightness of faces turned away from the light.
	Ambient float32

	meshes map[fractal.MeshID]*Mesh

	target        *ebiten.Image
	vp            mgl32.Mat4
	eye           mgl32.Vec3
	light         mgl32.Vec3
	width, height float32

	tris  []triangle
	verts []ebiten.Vertex
	inds  []uint32

	// Stats for the last frame.
	drawn, culled int
}

// NewRenderer returns a renderer with the default meshes.
func NewRenderer(cam *Camera) *Renderer {
	if cam == nil {
		cam = NewCamera()
	}
	return &Renderer{
		Camera:  cam,
		Light:   mgl32.Vec3{0.4, 1, 0.6},
		Ambient: 0.35,
		meshes:  DefaultMeshes(),
	}
}

// SetMesh registers geometry for id, replacing any previous mesh.
func (r *Renderer) SetMesh(id fractal.MeshID, m *Mesh) {
	r.meshes[id] = m
}

// Mesh returns the geometry registered for id.
func (r *Renderer) Mesh(id fractal.MeshID) (*Mesh, bool) {
	m, ok := r.meshes[id]
	return m, ok
}

// Begin starts a frame drawn onto target.
func (r *Renderer) Begin(target *ebiten.Image) {
	b := target.Bounds()
	r.target = target
	r.begin(float32(b.Dx()), float32(b.Dy()))
}

func (r *Renderer) begin(width, height float32) {
	r.width, r.height = width, height
	aspect := float32(1)
	if height > 0 {
		aspect = width / height
	}
	r.vp = r.Camera.ViewProjection(aspect)
	r.eye = r.Camera.Eye()
	r.light = r.Light.Normalize()
	r.tris = r.tris[:0]
	r.drawn, r.culled = 0, 0
}

// DrawLevel implements fractal.Renderer. Levels whose mesh is unknown are
// skipped.
func (r *Renderer) DrawLevel(d *fractal.LevelDraw) {
	mesh, ok := r.meshes[d.Mesh]
	if !ok {
		return
	}
	for i := range d.Matrices {
		m := &d.Matrices[i]
		c := instanceColor(d, i)
		for t := 0; t < mesh.TriangleCount(); t++ {
			a, b, cc := mesh.Triangle(t)
			r.addTriangle(m.TransformPoint(a), m.TransformPoint(b), m.TransformPoint(cc), c)
		}
	}
}

// addTriangle culls, shades and projects one world-space triangle.
func (r *Renderer) addTriangle(a, b, c mgl32.Vec3, base fractal.Color) {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Dot(r.eye.Sub(a)) <= 0 {
		r.culled++
		return
	}
	var tri triangle
	var depth float32
	for k, p := range [3]mgl32.Vec3{a, b, c} {
		x, y, w, ok := project(r.vp, p, r.width, r.height, r.Camera.Near)
		if !ok {
			r.culled++
			return
		}
		tri.x[k], tri.y[k] = x, y
		depth += w
	}
	tri.depth = depth / 3
	tri.color = shade(base, n, r.light, r.Ambient)
	r.tris = append(r.tris, tri)
}

// End sorts the frame's triangles back to front and draws them.
func (r *Renderer) End() {
	r.sortTriangles()
	r.drawn = len(r.tris)
	if r.target == nil {
		return
	}
	for lo := 0; lo < len(r.tris); lo += maxBatchTriangles {
		hi := min(lo+maxBatchTriangles, len(r.tris))
		r.appendBatch(r.tris[lo:hi])
		r.flush()
	}
}

// Stats returns the number of triangles drawn and culled in the last frame.
func (r *Renderer) Stats() (drawn, culled int) {
	return r.drawn, r.culled
}

func (r *Renderer) sortTriangles() {
	slices.SortStableFunc(r.tris, func(a, b triangle) int {
		return cmp.Compare(b.depth, a.depth)
	})
}

func (r *Renderer) appendBatch(tris []triangle) {
	for i := range tris {
		t := &tris[i]
		base := uint32(len(r.verts))
		cr, cg, cb, ca := premultiplied(t.color)
		for k := 0; k < 3; k++ {
			r.verts = append(r.verts, ebiten.Vertex{
				DstX:   t.x[k],
				DstY:   t.y[k],
				SrcX:   0.5,
				SrcY:   0.5,
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: ca,
			})
		}
		r.inds = append(r.inds, base, base+1, base+2)
	}
}

// flush submits the accumulated vertices as a single DrawTriangles32 call.
func (r *Renderer) flush() {
	if len(r.verts) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	r.target.DrawTriangles32(r.verts, r.inds, ensureWhitePixel(), &op)
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}

// instanceColor picks a per-instance color between the level's two colors.
// The level's sequence numbers scatter neighbouring instances.
func instanceColor(d *fractal.LevelDraw, i int) fractal.Color {
	u := float64(i)*float64(d.Sequence[0]) + float64(d.Sequence[1])
	_, frac := math.Modf(u)
	return d.ColorA.Lerp(d.ColorB, float32(frac))
}

// shade applies a lambert term for face normal n.
func shade(c fractal.Color, n, light mgl32.Vec3, ambient float32) fractal.Color {
	l := n.Len()
	if l == 0 {
		return c
	}
	diffuse := max(n.Dot(light)/l, 0)
	k := ambient + (1-ambient)*diffuse
	return fractal.Color{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A}
}

func premultiplied(c fractal.Color) (r, g, b, a float32) {
	return c.R * c.A, c.G * c.A, c.B * c.A, c.A
}

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}
