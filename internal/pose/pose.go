package pose

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a rigid transform: a position and a unit orientation in some parent frame
// (world space unless stated otherwise).
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

var (
	worldUp      = mgl64.Vec3{0, 1, 0}
	localForward = mgl64.Vec3{0, 0, -1}
	localRight   = mgl64.Vec3{1, 0, 0}
)

// WorldUp returns the world vertical axis (+Y).
func WorldUp() mgl64.Vec3 { return worldUp }

// Identity returns the pose at the origin with no rotation.
func Identity() Pose {
	return Pose{Orientation: mgl64.QuatIdent()}
}

// New returns a pose with the given position and orientation. The orientation is normalized.
func New(position mgl64.Vec3, orientation mgl64.Quat) Pose {
	return Pose{Position: position, Orientation: orientation.Normalize()}
}

// FromEuler builds a pose from a position and XYZ Euler angles in radians.
// The rotation matrix is Rx·Ry·Rz, matching the usual "XYZ" order of scene editors.
func FromEuler(position, rotation mgl64.Vec3) Pose {
	q := mgl64.QuatRotate(rotation.X(), mgl64.Vec3{1, 0, 0}).
		Mul(mgl64.QuatRotate(rotation.Y(), mgl64.Vec3{0, 1, 0})).
		Mul(mgl64.QuatRotate(rotation.Z(), mgl64.Vec3{0, 0, 1}))
	return Pose{Position: position, Orientation: q.Normalize()}
}

// Compose returns p ∘ q: q is expressed in p's frame and the result is in p's parent frame.
func (p Pose) Compose(q Pose) Pose {
	return Pose{
		Position:    p.Orientation.Rotate(q.Position).Add(p.Position),
		Orientation: p.Orientation.Mul(q.Orientation).Normalize(),
	}
}

// Inverse returns the pose that undoes p.
func (p Pose) Inverse() Pose {
	inv := p.Orientation.Inverse()
	return Pose{
		Position:    inv.Rotate(p.Position.Mul(-1)),
		Orientation: inv,
	}
}

// ToLocal re-expresses the world pose p in frame's local coordinates.
func ToLocal(p, frame Pose) Pose {
	return frame.Inverse().Compose(p)
}

// ToWorld re-expresses p, given in frame's local coordinates, in world coordinates.
func ToWorld(p, frame Pose) Pose {
	return frame.Compose(p)
}

// Forward is the direction the pose looks at (-Z in local space).
func (p Pose) Forward() mgl64.Vec3 { return p.Orientation.Rotate(localForward) }

// Up is the local +Y axis in the parent frame.
func (p Pose) Up() mgl64.Vec3 { return p.Orientation.Rotate(worldUp) }

// Right is the local +X axis in the parent frame.
func (p Pose) Right() mgl64.Vec3 { return p.Orientation.Rotate(localRight) }

// Near reports whether a and b are at most eps apart.
func Near(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}

// ApproxEqual reports whether positions are within eps of each other and orientations
// describe the same rotation within eps. q and -q match.
func ApproxEqual(a, b Pose, eps float64) bool {
	return Near(a.Position, b.Position, eps) && SameRotation(a.Orientation, b.Orientation, eps)
}

// SameRotation reports whether two unit quaternions describe the same rotation, each
// component within eps once the signs agree.
func SameRotation(a, b mgl64.Quat, eps float64) bool {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	d := a.Sub(b)
	return math.Abs(d.W) <= eps && math.Abs(d.V[0]) <= eps && math.Abs(d.V[1]) <= eps && math.Abs(d.V[2]) <= eps
}

// LookRotation returns the orientation whose forward axis is forward and whose up axis
// lies in the plane spanned by forward and up. ok is false when forward is degenerate
// or parallel to up.
func LookRotation(forward, up mgl64.Vec3) (q mgl64.Quat, ok bool) {
	if forward.Len() < 1e-9 {
		return mgl64.QuatIdent(), false
	}
	f := forward.Normalize()
	right := f.Cross(up)
	if right.Len() < 1e-9 {
		return mgl64.QuatIdent(), false
	}
	right = right.Normalize()
	u := right.Cross(f)
	return quatFromBasis(right, u, f.Mul(-1)), true
}

// Upright keeps p's forward direction and, if its up axis points below the horizon,
// rebuilds the orientation around world +Y. Poses that are already upright are returned untouched.
func Upright(p Pose) Pose {
	if p.Up().Dot(worldUp) >= 0 {
		return p
	}
	q, ok := LookRotation(p.Forward(), worldUp)
	if !ok {
		// looking straight along the vertical: roll half a turn about forward instead
		q = mgl64.QuatRotate(math.Pi, p.Forward()).Mul(p.Orientation)
	}
	p.Orientation = q.Normalize()
	return p
}

// YawPitch extracts heading and elevation (radians) of the forward axis.
// Yaw is measured around +Y from -Z; pitch is positive looking up.
func YawPitch(q mgl64.Quat) (yaw, pitch float64) {
	f := q.Rotate(localForward)
	yaw = math.Atan2(-f.X(), -f.Z())
	pitch = math.Asin(mgl64.Clamp(f.Y(), -1, 1))
	return yaw, pitch
}

// FromYawPitch is the inverse of YawPitch for a roll-free orientation.
func FromYawPitch(yaw, pitch float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, worldUp).Mul(mgl64.QuatRotate(pitch, localRight)).Normalize()
}

// quatFromBasis converts an orthonormal basis (the columns of a rotation matrix) to a quaternion.
func quatFromBasis(x, y, z mgl64.Vec3) mgl64.Quat {
	m00, m10, m20 := x[0], x[1], x[2]
	m01, m11, m21 := y[0], y[1], y[2]
	m02, m12, m22 := z[0], z[1], z[2]

	var q mgl64.Quat
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = mgl64.Quat{W: 0.25 / s, V: mgl64.Vec3{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s}}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = mgl64.Quat{W: (m21 - m12) / s, V: mgl64.Vec3{0.25 * s, (m01 + m10) / s, (m02 + m20) / s}}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = mgl64.Quat{W: (m02 - m20) / s, V: mgl64.Vec3{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s}}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = mgl64.Quat{W: (m10 - m01) / s, V: mgl64.Vec3{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s}}
	}
	return q.Normalize()
}
