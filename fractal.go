package fractal

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the color of an empty gradient.
var ColorWhite = Color{1, 1, 1, 1}

// Lerp returns the unclamped linear interpolation between c and other.
func (c Color) Lerp(other Color, t float32) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// RGBA converts the color to a non-premultiplied 8-bit color.
func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{
		R: channel8(c.R),
		G: channel8(c.G),
		B: channel8(c.B),
		A: channel8(c.A),
	}
}

func channel8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Range is a min/max pair. Used for the sag-angle and spin-speed
// randomization ranges.
type Range struct {
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

// Bounds is an axis-aligned box given by its center and half-extents.
type Bounds struct {
	Center  mgl32.Vec3
	Extents mgl32.Vec3
}

// Size returns the full edge lengths of the box.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Extents.Mul(2)
}

// Contains reports whether p lies inside the box. Points on a face count as
// inside.
func (b Bounds) Contains(p mgl32.Vec3) bool {
	d := p.Sub(b.Center)
	for i := 0; i < 3; i++ {
		if d[i] < -b.Extents[i] || d[i] > b.Extents[i] {
			return false
		}
	}
	return true
}

// MeshID names a mesh owned by the rendering collaborator. The core only
// selects between the branch and leaf IDs; it never loads geometry.
type MeshID string

// Default mesh IDs understood by the bundled renderer.
const (
	MeshCube MeshID = "cube"
	MeshLeaf MeshID = "leaf"
)

// Matrix3x4 is the compact per-instance transform handed to the renderer.
//
//	m[0:3]  = column 0 (rotation x axis, pre-scaled)
//	m[3:6]  = column 1 (rotation y axis, pre-scaled)
//	m[6:9]  = column 2 (rotation z axis, pre-scaled)
//	m[9:12] = column 3 (translation)
//
// 12 float32 values, 48 bytes per instance.
type Matrix3x4 [12]float32

// MatrixStride is the size in bytes of one Matrix3x4.
const MatrixStride = 12 * 4

// Column returns column i (0..3) of the matrix.
func (m *Matrix3x4) Column(i int) mgl32.Vec3 {
	return mgl32.Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// Translation returns the translation column.
func (m *Matrix3x4) Translation() mgl32.Vec3 {
	return m.Column(3)
}

// TransformPoint applies the matrix to a point in mesh space.
func (m *Matrix3x4) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		m[0]*p[0] + m[3]*p[1] + m[6]*p[2] + m[9],
		m[1]*p[0] + m[4]*p[1] + m[7]*p[2] + m[10],
		m[2]*p[0] + m[5]*p[1] + m[8]*p[2] + m[11],
	}
}

// TransformVector applies only the rotation-scale block to v.
func (m *Matrix3x4) TransformVector(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		m[0]*v[0] + m[3]*v[1] + m[6]*v[2],
		m[1]*v[0] + m[4]*v[1] + m[7]*v[2],
		m[2]*v[0] + m[5]*v[1] + m[8]*v[2],
	}
}
