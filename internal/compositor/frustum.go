package compositor

import (
	"github.com/go-gl/mathgl/mgl64"
	"portal-engine/internal/portal"
)

// Plane is Normal·p + D = 0 with a unit normal pointing into the frustum.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// Distance is the signed distance from p to the plane.
func (p Plane) Distance(point mgl64.Vec3) float64 { return p.Normal.Dot(point) + p.D }

// Frustum holds the left, right, bottom, top, near and far planes in that order.
type Frustum [6]Plane

// NewFrustum extracts the planes of a view-projection matrix (Gribb/Hartmann).
func NewFrustum(m mgl64.Mat4) Frustum {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	rows := [6]mgl64.Vec4{
		r3.Add(r0),
		r3.Sub(r0),
		r3.Add(r1),
		r3.Sub(r1),
		r3.Add(r2),
		r3.Sub(r2),
	}
	var f Frustum
	for i, r := range rows {
		n := r.Vec3()
		l := n.Len()
		if l == 0 {
			continue
		}
		f[i] = Plane{Normal: n.Mul(1 / l), D: r.W() / l}
	}
	return f
}

// ContainsPoint reports whether point is inside or on the frustum.
func (f Frustum) ContainsPoint(point mgl64.Vec3) bool {
	return f.IntersectsSphere(point, 0)
}

// IntersectsSphere reports whether a sphere touches the frustum. It is conservative
// near the corners, where a sphere outside may still pass.
func (f Frustum) IntersectsSphere(center mgl64.Vec3, radius float64) bool {
	for _, p := range f {
		if p.Distance(center) < -radius {
			return false
		}
	}
	return true
}

// InFrustum is the default visibility test for a portal screen: its bounding sphere
// against cam's frustum.
func InFrustum(g portal.ScreenGeometry, cam Camera) bool {
	return cam.Frustum().IntersectsSphere(g.Center, g.Radius)
}
