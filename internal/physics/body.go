package physics

import "github.com/go-gl/mathgl/mgl32"

// Body is a 3D rigid body with position, velocity, and AABB (from scale).
// Used for dynamic or static objects; static bodies do not move and are not affected by gravity.
type Body struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Scale    mgl32.Vec3
	Mass     float32
	Static   bool
}

// NewBody returns a body with the given position and scale. Velocity is zero.
// mass is used for collision response; values <= 0 become 1. Static bodies ignore gravity and velocity.
func NewBody(position, scale mgl32.Vec3, mass float32, static bool) *Body {
	if mass <= 0 {
		mass = 1
	}
	return &Body{
		Position: position,
		Scale:    scale,
		Mass:     mass,
		Static:   static,
	}
}

// Half returns the half extents of the body's box. A zero scale axis counts as 1.
func (b *Body) Half() mgl32.Vec3 {
	h := b.Scale
	for i := range h {
		if h[i] == 0 {
			h[i] = 1
		}
	}
	return h.Mul(0.5)
}

// Bounds returns the world-space AABB as (min, max).
func (b *Body) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	h := b.Half()
	return b.Position.Sub(h), b.Position.Add(h)
}
