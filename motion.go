package fractal

import "github.com/go-gl/mathgl/mgl32"

var (
	localUp = mgl32.Vec3{0, 1, 0}
	localX  = mgl32.Vec3{1, 0, 0}
	localZ  = mgl32.Vec3{0, 0, 1}
)

// partOffset is the distance between a part and its parent, in units of the
// child's level scale.
const partOffset = 1.5

// SpinStep returns the spin angle after dt seconds.
func SpinStep(angle, velocity, dt float32) float32 {
	return angle + velocity*dt
}

// SagRotation returns the parent rotation bent downward by how far the
// composed up axis has tilted from vertical:
//
//	up   = (parent * local) · Y
//	axis = Y × up
//	base = axisAngle(normalize(axis), maxSag*|axis|) * parent
//
// When the axis has zero length (up is parallel to Y) parent is returned
// unchanged.
func SagRotation(parent, local mgl32.Quat, maxSag float32) mgl32.Quat {
	up := parent.Mul(local).Rotate(localUp)
	axis := localUp.Cross(up)
	mag := axis.Len()
	if mag > 0 {
		sag := mgl32.QuatRotate(maxSag*mag, axis.Mul(1/mag))
		return sag.Mul(parent)
	}
	return parent
}

// spinRotation is a rotation about the local Y axis.
func spinRotation(angle float32) mgl32.Quat {
	return mgl32.QuatRotate(angle, localUp)
}

// CompactMatrix builds the 3x4 instance matrix for a rotation, position and
// uniform scale. Rotation columns are pre-scaled.
func CompactMatrix(rotation mgl32.Quat, position mgl32.Vec3, scale float32) Matrix3x4 {
	c0 := rotation.Rotate(localX).Mul(scale)
	c1 := rotation.Rotate(localUp).Mul(scale)
	c2 := rotation.Rotate(localZ).Mul(scale)
	return Matrix3x4{
		c0[0], c0[1], c0[2],
		c1[0], c1[1], c1[2],
		c2[0], c2[1], c2[2],
		position[0], position[1], position[2],
	}
}

// Advance steps one part by dt given its parent's freshly computed world
// transform. scale is the part's level scale. The returned part carries the
// new spin angle and world transform; the returned matrix is the part's
// instance transform.
//
// Quaternion order matters: world = sag(parent) * rotation * spin.
func Advance(part Part, parentRotation mgl32.Quat, parentPosition mgl32.Vec3, scale, dt float32) (Part, Matrix3x4) {
	var m Matrix3x4
	advance(&part, parentRotation, parentPosition, scale, dt, &m)
	return part, m
}

// advance is the in-place form used by the level scheduler.
func advance(p *Part, parentRotation mgl32.Quat, parentPosition mgl32.Vec3, scale, dt float32, out *Matrix3x4) {
	p.SpinAngle = SpinStep(p.SpinAngle, p.SpinVelocity, dt)

	base := SagRotation(parentRotation, p.Rotation, p.MaxSagAngle)
	p.WorldRotation = base.Mul(p.Rotation.Mul(spinRotation(p.SpinAngle)))
	p.WorldPosition = parentPosition.Add(p.WorldRotation.Rotate(mgl32.Vec3{0, partOffset * scale, 0}))

	*out = CompactMatrix(p.WorldRotation, p.WorldPosition, scale)
}

// advanceRoot steps the root part. The root has no parent in the tree; it
// hangs off the external transform instead.
func advanceRoot(p *Part, root RootTransform, dt float32, out *Matrix3x4) {
	p.SpinAngle = SpinStep(p.SpinAngle, p.SpinVelocity, dt)
	p.WorldRotation = root.Rotation.Mul(p.Rotation.Mul(spinRotation(p.SpinAngle)))
	p.WorldPosition = root.Position
	*out = CompactMatrix(p.WorldRotation, p.WorldPosition, root.Scale)
}
