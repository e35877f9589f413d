package portal

import "portal-engine/internal/pose"

// Crossing is the outcome of one detection step for one portal.
type Crossing struct {
	Side      Side
	Distance  float64 // signed distance to the plane
	InRange   bool
	SameScene bool
	Fired     bool
}

// Detect runs the per-frame side-of-plane test of s against obs and advances s's state.
//
// A trigger fires only when the observer was on the positive side last frame and is now
// on the other one, close enough to the screen and in the portal's scene. A portal is
// therefore only entered through its front face. An exact zero distance counts as
// positive.
func Detect(s *Surface, obs Observer) Crossing {
	p := obs.Pose()
	return detect(s, p, obs.Scene())
}

func detect(s *Surface, p pose.Pose, scene SceneID) Crossing {
	d := s.Shape.SignedDistance(s.Frame(), p.Position)
	side := SideNegative
	if d >= 0 {
		side = SidePositive
	}
	c := Crossing{
		Side:      side,
		Distance:  d,
		InRange:   p.Position.Sub(s.Position()).Len() < s.Size,
		SameScene: scene == s.Scene,
	}
	c.Fired = s.previousSide == SidePositive && side != s.previousSide && c.InRange && c.SameScene
	s.previousSide = side
	return c
}
