package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCubeMesh_FacesPointOutward(t *testing.T) {
	m := CubeMesh()
	if len(m.Vertices) != 24 || m.TriangleCount() != 12 {
		t.Fatalf("cube has %d vertices, %d triangles; want 24, 12", len(m.Vertices), m.TriangleCount())
	}
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		if n.Dot(centroid) <= 0 {
			t.Errorf("triangle %d winds inward: normal %v, centroid %v", i, n, centroid)
		}
	}
}

func TestCubeMesh_UnitExtents(t *testing.T) {
	for _, v := range CubeMesh().Vertices {
		for k := 0; k < 3; k++ {
			if v[k] != 0.5 && v[k] != -0.5 {
				t.Fatalf("vertex %v not on the unit cube", v)
			}
		}
	}
}

func TestLeafMesh_TwoSided(t *testing.T) {
	m := LeafMesh()
	var front, back int
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		n := b.Sub(a).Cross(c.Sub(a))
		switch {
		case n.Dot(mgl32.Vec3{0, 0, 1}) > 0:
			front++
		case n.Dot(mgl32.Vec3{0, 0, 1}) < 0:
			back++
		}
	}
	if front != 2 || back != 2 {
		t.Errorf("leaf has %d front and %d back triangles, want 2 and 2", front, back)
	}
}
