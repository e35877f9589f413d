package compositor

import (
	"github.com/go-gl/mathgl/mgl64"
	"portal-engine/internal/pose"
)

const (
	DefaultFovy = 75.0
	DefaultNear = 0.1
	// DefaultFar matches rlgl's default far clip distance, so nothing is composed that the
	// window would clip away.
	DefaultFar    = 1000.0
	DefaultAspect = 16.0 / 9.0
)

// Camera is a perspective view. Fovy is the vertical field of view in degrees.
//
// A virtual camera is a Camera derived per frame for one visible portal. It always has
// HidePortalScreens set so a portal view never contains another portal view.
type Camera struct {
	Pose              pose.Pose
	Fovy              float64
	Near              float64
	Far               float64
	Aspect            float64
	HidePortalScreens bool
}

// NewCamera returns a camera at p with the default lens.
func NewCamera(p pose.Pose) Camera {
	return Camera{Pose: p, Fovy: DefaultFovy, Near: DefaultNear, Far: DefaultFar, Aspect: DefaultAspect}
}

// Virtual returns a copy of c moved to p with portal screens hidden. The lens is shared
// with the main camera so the portal view lines up with the screen it is mapped onto.
func (c Camera) Virtual(p pose.Pose) Camera {
	v := c
	v.Pose = p
	v.HidePortalScreens = true
	return v
}

// Target is the point the camera looks at, one unit along its forward axis.
func (c Camera) Target() mgl64.Vec3 { return c.Pose.Position.Add(c.Pose.Forward()) }

// View is the world-to-view matrix.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Pose.Position, c.Target(), c.Pose.Up())
}

// Projection is the perspective matrix. Zero lens fields fall back to the defaults.
func (c Camera) Projection() mgl64.Mat4 {
	fovy, near, far, aspect := c.Fovy, c.Near, c.Far, c.Aspect
	if fovy <= 0 {
		fovy = DefaultFovy
	}
	if near <= 0 {
		near = DefaultNear
	}
	if far <= near {
		far = DefaultFar
	}
	if aspect <= 0 {
		aspect = DefaultAspect
	}
	return mgl64.Perspective(mgl64.DegToRad(fovy), aspect, near, far)
}

// ViewProjection is Projection * View.
func (c Camera) ViewProjection() mgl64.Mat4 { return c.Projection().Mul4(c.View()) }

// Frustum returns the world-space view volume.
func (c Camera) Frustum() Frustum { return NewFrustum(c.ViewProjection()) }
