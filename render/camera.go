package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// maxPitch keeps the orbit camera off the poles where LookAt degenerates.
const maxPitch = 1.5

// Camera is an orbit camera looking at Target from Distance away.
type Camera struct {
	// Target is the world-space point the camera looks at.
	Target mgl32.Vec3
	// Yaw turns the camera around the world Y axis, radians.
	Yaw float32
	// Pitch raises the camera above the XZ plane, radians.
	Pitch float32
	// Distance from Target to the eye.
	Distance float32
	// FOV is the vertical field of view, radians.
	FOV float32
	// Near and Far clip planes.
	Near, Far float32

	orbit *gween.Tween
}

// NewCamera returns a camera framing a tree of scale 1 standing on the
// origin.
func NewCamera() *Camera {
	return &Camera{
		Target:   mgl32.Vec3{0, 1, 0},
		Pitch:    0.3,
		Distance: 6,
		FOV:      mgl32.DegToRad(45),
		Near:     0.1,
		Far:      100,
	}
}

// OrbitTo animates Yaw to yaw over duration seconds.
func (c *Camera) OrbitTo(yaw, duration float32, easeFn ease.TweenFunc) {
	c.orbit = gween.New(c.Yaw, yaw, duration, easeFn)
}

// Orbiting reports whether an OrbitTo animation is running.
func (c *Camera) Orbiting() bool { return c.orbit != nil }

// SetPitch sets Pitch, clamped away from straight up and down.
func (c *Camera) SetPitch(p float32) {
	c.Pitch = mgl32.Clamp(p, -maxPitch, maxPitch)
}

// Update advances the orbit animation.
func (c *Camera) Update(dt float32) {
	if c.orbit == nil {
		return
	}
	yaw, done := c.orbit.Update(dt)
	c.Yaw = yaw
	if done {
		c.orbit = nil
	}
}

// Eye returns the world-space camera position.
func (c *Camera) Eye() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.Yaw))
	sp, cp := math.Sincos(float64(c.Pitch))
	d := float64(c.Distance)
	return c.Target.Add(mgl32.Vec3{
		float32(d * cp * sy),
		float32(d * sp),
		float32(d * cp * cy),
	})
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
}

// ViewProjection returns the combined world-to-clip matrix for the given
// viewport aspect ratio.
func (c *Camera) ViewProjection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, aspect, c.Near, c.Far).Mul4(c.View())
}

// project maps a world-space point to screen pixels. depth is the clip-space
// w, the distance along the view direction. ok is false for points behind
// the near plane.
func project(vp mgl32.Mat4, p mgl32.Vec3, width, height, near float32) (x, y, depth float32, ok bool) {
	clip := vp.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w < near {
		return 0, 0, 0, false
	}
	nx := clip.X() / w
	ny := clip.Y() / w
	return (nx + 1) * 0.5 * width, (1 - ny) * 0.5 * height, w, true
}
