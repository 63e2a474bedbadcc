package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

func near(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestCamera_EyeDistance(t *testing.T) {
	c := NewCamera()
	for _, yaw := range []float32{0, 1, -2.5} {
		c.Yaw = yaw
		if d := c.Eye().Sub(c.Target).Len(); !near(d, c.Distance, 1e-4) {
			t.Errorf("yaw %v: eye distance %v, want %v", yaw, d, c.Distance)
		}
	}
}

func TestCamera_EyeAtZeroYaw(t *testing.T) {
	c := &Camera{Distance: 5}
	eye := c.Eye()
	if !near(eye[0], 0, 1e-6) || !near(eye[1], 0, 1e-6) || !near(eye[2], 5, 1e-6) {
		t.Errorf("eye = %v, want (0, 0, 5)", eye)
	}
}

func TestCamera_SetPitchClamps(t *testing.T) {
	c := NewCamera()
	c.SetPitch(3)
	if c.Pitch != maxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, maxPitch)
	}
	c.SetPitch(-3)
	if c.Pitch != -maxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, -maxPitch)
	}
}

func TestCamera_OrbitTo(t *testing.T) {
	c := NewCamera()
	c.OrbitTo(1, 0.5, ease.Linear)
	if !c.Orbiting() {
		t.Fatal("expected orbit animation")
	}
	c.Update(0.25)
	if !near(c.Yaw, 0.5, 1e-5) {
		t.Errorf("yaw halfway = %v, want 0.5", c.Yaw)
	}
	c.Update(0.5)
	if !near(c.Yaw, 1, 1e-5) {
		t.Errorf("yaw at end = %v, want 1", c.Yaw)
	}
	if c.Orbiting() {
		t.Error("orbit should finish")
	}
	c.Update(1) // no-op
	if !near(c.Yaw, 1, 1e-5) {
		t.Errorf("yaw moved after orbit finished: %v", c.Yaw)
	}
}

func TestProject_TargetAtScreenCenter(t *testing.T) {
	c := NewCamera()
	c.Yaw = 0.7
	vp := c.ViewProjection(16.0 / 9)
	x, y, depth, ok := project(vp, c.Target, 1600, 900, c.Near)
	if !ok {
		t.Fatal("target projected behind the camera")
	}
	if !near(x, 800, 0.01) || !near(y, 450, 0.01) {
		t.Errorf("target at (%v, %v), want (800, 450)", x, y)
	}
	if !near(depth, c.Distance, 1e-3) {
		t.Errorf("depth = %v, want %v", depth, c.Distance)
	}
}

func TestProject_UpIsUpOnScreen(t *testing.T) {
	c := NewCamera()
	c.Pitch = 0
	vp := c.ViewProjection(1)
	_, yTarget, _, _ := project(vp, c.Target, 100, 100, c.Near)
	_, yAbove, _, _ := project(vp, c.Target.Add(mgl32.Vec3{0, 1, 0}), 100, 100, c.Near)
	if yAbove >= yTarget {
		t.Errorf("point above target at y=%v, target at y=%v; screen y grows downward", yAbove, yTarget)
	}
}

func TestProject_BehindCamera(t *testing.T) {
	c := NewCamera()
	vp := c.ViewProjection(1)
	behind := c.Eye().Add(c.Eye().Sub(c.Target))
	if _, _, _, ok := project(vp, behind, 100, 100, c.Near); ok {
		t.Error("point behind the camera should not project")
	}
}
