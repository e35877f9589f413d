package pose

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestFromEuler_YawOnly(t *testing.T) {
	p := FromEuler(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, math.Pi / 2, 0})

	// -Z rotated a quarter turn about +Y looks down -X
	assert.True(t, Near(p.Forward(), mgl64.Vec3{-1, 0, 0}, eps), "forward %v", p.Forward())
	assert.True(t, Near(p.Up(), mgl64.Vec3{0, 1, 0}, eps))
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, p.Position)
}

func TestFromEuler_Order(t *testing.T) {
	rot := mgl64.Vec3{0.3, -1.1, 0.7}
	p := FromEuler(mgl64.Vec3{}, rot)
	want := mgl64.QuatRotate(0.3, mgl64.Vec3{1, 0, 0}).
		Mul(mgl64.QuatRotate(-1.1, mgl64.Vec3{0, 1, 0})).
		Mul(mgl64.QuatRotate(0.7, mgl64.Vec3{0, 0, 1}))
	assert.True(t, SameRotation(want, p.Orientation, eps))
}

func TestComposeInverse(t *testing.T) {
	tests := []Pose{
		Identity(),
		FromEuler(mgl64.Vec3{10, -4, 2}, mgl64.Vec3{0.2, 1.3, -0.4}),
		FromEuler(mgl64.Vec3{-1000, 0, 55}, mgl64.Vec3{math.Pi / 2, 0, math.Pi}),
	}
	for _, p := range tests {
		got := p.Compose(p.Inverse())
		assert.True(t, ApproxEqual(got, Identity(), 1e-9), "p∘p⁻¹ = %v", got)
		got = p.Inverse().Compose(p)
		assert.True(t, ApproxEqual(got, Identity(), 1e-9), "p⁻¹∘p = %v", got)
	}
}

func TestToLocalToWorldRoundTrip(t *testing.T) {
	frame := FromEuler(mgl64.Vec3{5, 6, 7}, mgl64.Vec3{0.4, -0.9, 0.1})
	p := FromEuler(mgl64.Vec3{-3, 12, 40}, mgl64.Vec3{-0.2, 2.5, 0})

	local := ToLocal(p, frame)
	back := ToWorld(local, frame)
	assert.True(t, ApproxEqual(p, back, 1e-9))
}

func TestToLocal_Translation(t *testing.T) {
	frame := Pose{Position: mgl64.Vec3{1000, 0, 0}, Orientation: mgl64.QuatIdent()}
	p := Pose{Position: mgl64.Vec3{1000, 0, 60}, Orientation: mgl64.QuatIdent()}

	local := ToLocal(p, frame)
	assert.True(t, Near(local.Position, mgl64.Vec3{0, 0, 60}, eps))
}

func TestSameRotation_SignInsensitive(t *testing.T) {
	q := mgl64.QuatRotate(0.8, mgl64.Vec3{0, 1, 0})
	assert.True(t, SameRotation(q, q.Scale(-1), eps))
	assert.False(t, SameRotation(q, mgl64.QuatIdent(), 1e-3))
}

func TestApproxEqual_AbsoluteTolerance(t *testing.T) {
	far := New(mgl64.Vec3{1000, 0, 0}, mgl64.QuatIdent())
	assert.False(t, ApproxEqual(far, New(mgl64.Vec3{1000.15, 0, 0}, mgl64.QuatIdent()), 1e-4))
	assert.True(t, ApproxEqual(far, New(mgl64.Vec3{1000.00005, 0, 0}, mgl64.QuatIdent()), 1e-4))

	zero := New(mgl64.Vec3{0, 0, 5}, mgl64.QuatIdent())
	noisy := New(mgl64.Vec3{0, 1e-15, 5}, mgl64.Quat{W: 1, V: mgl64.Vec3{1e-16, 0, 0}})
	assert.True(t, ApproxEqual(zero, noisy, 1e-9))
	assert.True(t, Near(mgl64.Vec3{}, mgl64.Vec3{-8.9e-16, 0, 0}, 1e-9))
	assert.False(t, Near(mgl64.Vec3{}, mgl64.Vec3{0, 2e-9, 0}, 1e-9))
}

func TestLookRotation(t *testing.T) {
	q, ok := LookRotation(mgl64.Vec3{1, 0, 0}, WorldUp())
	require.True(t, ok)
	p := Pose{Orientation: q}
	assert.True(t, Near(p.Forward(), mgl64.Vec3{1, 0, 0}, eps))
	assert.True(t, Near(p.Up(), mgl64.Vec3{0, 1, 0}, eps))

	_, ok = LookRotation(mgl64.Vec3{0, 1, 0}, WorldUp())
	assert.False(t, ok)
}

func TestUpright(t *testing.T) {
	// upside down, looking along +X
	upsideDown := Pose{Orientation: mgl64.QuatRotate(math.Pi, mgl64.Vec3{1, 0, 0}).
		Mul(mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{0, 1, 0}))}
	require.Less(t, upsideDown.Up().Y(), 0.0)

	fixed := Upright(upsideDown)
	assert.True(t, Near(fixed.Forward(), upsideDown.Forward(), 1e-9))
	assert.Greater(t, fixed.Up().Y(), 0.0)

	level := FromEuler(mgl64.Vec3{}, mgl64.Vec3{0.3, 1, 0})
	assert.Equal(t, level, Upright(level))
}

func TestYawPitchRoundTrip(t *testing.T) {
	tests := []struct{ yaw, pitch float64 }{
		{0, 0},
		{math.Pi / 2, 0},
		{-2.5, 0.6},
		{1.1, -1.2},
	}
	for _, c := range tests {
		q := FromYawPitch(c.yaw, c.pitch)
		yaw, pitch := YawPitch(q)
		assert.InDelta(t, c.yaw, yaw, 1e-9)
		assert.InDelta(t, c.pitch, pitch, 1e-9)
	}
}
