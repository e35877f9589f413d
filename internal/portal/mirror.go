package portal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"portal-engine/internal/pose"
)

// flip maps src's native frame onto dst's native frame with a half turn about the
// portal's vertical axis. The vertical component of a local position is kept, the normal
// and horizontal tangent components are negated, and facing is reversed.
func flip(src, dst Shape) pose.Pose {
	half := mgl64.QuatRotate(math.Pi, pose.WorldUp())
	q := dst.RestOffset().Inverse().Mul(half).Mul(src.RestOffset())
	return pose.Pose{Orientation: q.Normalize()}
}

// Mirror maps a world pose seen from src to the equivalent world pose at dst:
//
//	dst.Frame() ∘ Flip ∘ src.Frame()⁻¹ ∘ p
//
// It places both the teleported observer and the virtual camera, so the rendered view
// through src and the view after crossing it are the same image. The result never
// points its up axis below the horizon.
func Mirror(src, dst *Surface, p pose.Pose) pose.Pose {
	local := pose.ToLocal(p, src.Frame())
	mapped := pose.ToWorld(flip(src.Shape, dst.Shape).Compose(local), dst.Frame())
	return pose.Upright(mapped)
}

// MirrorPoint maps a world-space point from src to dst, e.g. a velocity endpoint.
func MirrorPoint(src, dst *Surface, point mgl64.Vec3) mgl64.Vec3 {
	p := pose.Pose{Position: point, Orientation: mgl64.QuatIdent()}
	local := pose.ToLocal(p, src.Frame())
	return pose.ToWorld(flip(src.Shape, dst.Shape).Compose(local), dst.Frame()).Position
}

// MirrorDirection maps a world-space direction (no translation) from src to dst.
func MirrorDirection(src, dst *Surface, dir mgl64.Vec3) mgl64.Vec3 {
	q := dst.Frame().Orientation.
		Mul(flip(src.Shape, dst.Shape).Orientation).
		Mul(src.Frame().Orientation.Inverse())
	return q.Rotate(dir)
}
