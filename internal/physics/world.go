package physics

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxStep is the longest interval a single Step simulates. Longer frames (a stall, a
// dragged window) are clamped so bodies do not tunnel through each other.
const MaxStep = 100 * time.Millisecond

// Ground returns the terrain height under (x, z). ok is false outside the terrain.
type Ground func(x, z float32) (height float32, ok bool)

// World holds a set of bodies and runs a simple 3D physics step: gravity, integration, AABB collision.
type World struct {
	Gravity mgl32.Vec3
	Bodies  []*Body
	Ground  Ground
}

// NewWorld returns a new physics world with gravity pulling towards -Y.
func NewWorld(gravity mgl32.Vec3) *World {
	return &World{Gravity: gravity}
}

// AddBody appends a body to the world. Order is preserved for syncing with scene objects.
func (w *World) AddBody(b *Body) {
	w.Bodies = append(w.Bodies, b)
}

// penetration returns the overlap depth and axis index (0=X, 1=Y, 2=Z) of minimum penetration.
// If the boxes do not overlap, returns (0, -1).
func penetration(aMin, aMax, bMin, bMax mgl32.Vec3) (depth float32, axis int) {
	axis = -1
	for i := 0; i < 3; i++ {
		o := min(aMax[i], bMax[i]) - max(aMin[i], bMin[i])
		if o <= 0 {
			return 0, -1
		}
		if axis < 0 || o < depth {
			depth, axis = o, i
		}
	}
	return depth, axis
}

// Step advances the simulation by dt (clamped to MaxStep): gravity, integration, ground, then AABB collisions.
func (w *World) Step(dt time.Duration) {
	if dt > MaxStep {
		dt = MaxStep
	}
	secs := float32(dt.Seconds())
	if secs <= 0 {
		return
	}

	for _, b := range w.Bodies {
		if b.Static {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Mul(secs))
		b.Position = b.Position.Add(b.Velocity.Mul(secs))
		w.rest(b)
	}

	for i := 0; i < len(w.Bodies); i++ {
		bi := w.Bodies[i]
		for j := i + 1; j < len(w.Bodies); j++ {
			bj := w.Bodies[j]
			if bi.Static && bj.Static {
				continue
			}
			iMin, iMax := bi.Bounds()
			jMin, jMax := bj.Bounds()
			depth, axis := penetration(iMin, iMax, jMin, jMax)
			if axis < 0 {
				continue
			}
			// push apart along the axis, away from each other's centres
			sign := float32(1)
			if bj.Position[axis] < bi.Position[axis] {
				sign = -1
			}
			var moveI, moveJ float32
			switch {
			case bi.Static:
				moveJ = depth
			case bj.Static:
				moveI = -depth
			default:
				total := bi.Mass + bj.Mass
				moveI = -depth * (bj.Mass / total)
				moveJ = depth * (bi.Mass / total)
			}
			bi.Position[axis] += sign * moveI
			bj.Position[axis] += sign * moveJ
			if !bi.Static {
				bi.Velocity[axis] = 0
			}
			if !bj.Static {
				bj.Velocity[axis] = 0
			}
		}
	}
}

// rest keeps a dynamic body on top of the ground.
func (w *World) rest(b *Body) {
	if w.Ground == nil {
		return
	}
	h, ok := w.Ground(b.Position.X(), b.Position.Z())
	if !ok {
		return
	}
	if bottom := b.Position.Y() - b.Half().Y(); bottom < h {
		b.Position[1] += h - bottom
		if b.Velocity.Y() < 0 {
			b.Velocity[1] = 0
		}
	}
}
