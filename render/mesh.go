package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/phanxgames/fractal"
)

// Mesh is indexed triangle geometry in part space. Triangles wind
// counter-clockwise when seen from the side their face normal points to.
type Mesh struct {
	Vertices []mgl32.Vec3
	Indices  []uint32
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Triangle returns the corners of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c mgl32.Vec3) {
	return m.Vertices[m.Indices[i*3]], m.Vertices[m.Indices[i*3+1]], m.Vertices[m.Indices[i*3+2]]
}

// CubeMesh returns a unit cube centered on the origin.
func CubeMesh() *Mesh {
	m := &Mesh{}
	x := mgl32.Vec3{1, 0, 0}
	y := mgl32.Vec3{0, 1, 0}
	z := mgl32.Vec3{0, 0, 1}
	// u x v = n for every face.
	m.addFace(x, y, z)
	m.addFace(x.Mul(-1), z, y)
	m.addFace(y, z, x)
	m.addFace(y.Mul(-1), x, z)
	m.addFace(z, x, y)
	m.addFace(z.Mul(-1), y, x)
	return m
}

// addFace appends the square face of the unit cube with outward normal n.
func (m *Mesh) addFace(n, u, v mgl32.Vec3) {
	base := uint32(len(m.Vertices))
	c := n.Mul(0.5)
	u = u.Mul(0.5)
	v = v.Mul(0.5)
	m.Vertices = append(m.Vertices,
		c.Sub(u).Sub(v),
		c.Add(u).Sub(v),
		c.Add(u).Add(v),
		c.Sub(u).Add(v),
	)
	m.Indices = append(m.Indices,
		base+0, base+1, base+2,
		base+0, base+2, base+3,
	)
}

// LeafMesh returns a flat diamond in the XY plane, one unit tall. Both sides
// are emitted so the leaf never disappears under back-face culling.
func LeafMesh() *Mesh {
	return &Mesh{
		Vertices: []mgl32.Vec3{
			{0, -0.5, 0},
			{0.35, 0, 0},
			{0, 0.5, 0},
			{-0.35, 0, 0},
		},
		Indices: []uint32{
			0, 1, 2, 0, 2, 3, // front (+Z)
			0, 2, 1, 0, 3, 2, // back (-Z)
		},
	}
}

// DefaultMeshes maps the core's default mesh IDs to geometry.
func DefaultMeshes() map[fractal.MeshID]*Mesh {
	return map[fractal.MeshID]*Mesh{
		fractal.MeshCube: CubeMesh(),
		fractal.MeshLeaf: LeafMesh(),
	}
}
