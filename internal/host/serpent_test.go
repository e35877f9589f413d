package host

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"portal-engine/internal/pose"
)

func TestSerpent_StraightLine(t *testing.T) {
	s := NewSerpent("s", mgl64.Vec3{0, 5, 0}, 10, 0, 0, 0)
	assert.True(t, pose.Near(s.Node.World().Forward(), mgl64.Vec3{0, 0, 1}, 1e-9))

	s.Update(time.Second)
	assert.True(t, pose.Near(s.Node.World().Position, mgl64.Vec3{0, 5, 10}, 1e-9))
	assert.True(t, pose.Near(s.Heading(), mgl64.Vec3{0, 0, 1}, 1e-9))

	s.Update(0)
	assert.True(t, pose.Near(s.Node.World().Position, mgl64.Vec3{0, 5, 10}, 1e-9))
}

func TestSerpent_MountFollowsHead(t *testing.T) {
	s := NewSerpent("s", mgl64.Vec3{0, 0, 0}, 20, 0.5, 0.2, 0)
	mouth := s.Mount(pose.Pose{Position: mgl64.Vec3{0, 0, -20}, Orientation: mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 1, 0})})

	for i := 0; i < 100; i++ {
		s.Update(16 * time.Millisecond)
		head := s.Node.World()
		got := mouth.World()
		assert.True(t, pose.Near(got.Position, head.Position.Add(s.Heading().Mul(20)), 1e-6))
		// the mounted screen faces the direction of travel
		assert.True(t, pose.Near(got.Orientation.Rotate(mgl64.Vec3{0, 0, 1}), s.Heading(), 1e-6))
	}
}

func TestSerpent_StaysNearBounds(t *testing.T) {
	const bounds = 100.0
	s := NewSerpent("s", mgl64.Vec3{0, 30, 0}, 40, 0, 0, bounds)
	radius := 40 / (math.Pi / 2)
	for i := 0; i < 60*60; i++ {
		s.Update(16 * time.Millisecond)
		p := s.Node.World().Position
		assert.InDelta(t, 30, p.Y(), 1e-9)
		assert.Less(t, math.Hypot(p.X(), p.Z()), bounds+2*radius+1)
	}
}
