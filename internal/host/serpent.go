package host

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"portal-engine/internal/pose"
)

// wobbleFreq is the angular frequency of the side-to-side weave, in radians per second.
const wobbleFreq = 0.6

// Serpent is a host that swims on a winding horizontal path at constant height. Things
// mounted on it are children of its Node and keep their offset from the head.
type Serpent struct {
	ID     string
	Node   *pose.Node
	Speed  float64
	Turn   float64
	Wobble float64
	Bounds float64

	origin  mgl64.Vec3
	heading mgl64.Vec3
	elapsed float64
}

// NewSerpent places a serpent at position heading along +Z.
func NewSerpent(id string, position mgl64.Vec3, speed, turn, wobble, bounds float64) *Serpent {
	s := &Serpent{
		ID:      id,
		Node:    pose.NewNode(pose.Identity()),
		Speed:   speed,
		Turn:    turn,
		Wobble:  wobble,
		Bounds:  bounds,
		origin:  position,
		heading: mgl64.Vec3{0, 0, 1},
	}
	s.place(position)
	return s
}

// Heading is the unit direction of travel.
func (s *Serpent) Heading() mgl64.Vec3 { return s.heading }

// Mount attaches a child at offset in the head's frame and returns it.
func (s *Serpent) Mount(offset pose.Pose) *pose.Node {
	n := pose.NewNode(s.Node.World().Compose(offset))
	_ = s.Node.Attach(n) // a fresh node cannot form a cycle
	return n
}

// Update advances the serpent by dt. It steers by a constant turn plus a weave and, when
// Bounds is set and it is outside them heading away from its origin, by an extra quarter
// turn per second until it points back.
func (s *Serpent) Update(dt time.Duration) {
	secs := dt.Seconds()
	if secs <= 0 {
		return
	}
	s.elapsed += secs
	rate := s.Turn + math.Cos(s.elapsed*wobbleFreq)*s.Wobble
	pos := s.Node.World().Position
	if s.Bounds > 0 {
		away := pos.Sub(s.origin)
		away[1] = 0
		if away.Len() > s.Bounds && away.Dot(s.heading) > 0 {
			rate += math.Pi / 2
		}
	}
	s.heading = mgl64.QuatRotate(rate*secs, pose.WorldUp()).Rotate(s.heading).Normalize()
	s.place(pos.Add(s.heading.Mul(s.Speed * secs)))
}

func (s *Serpent) place(position mgl64.Vec3) {
	q, ok := pose.LookRotation(s.heading, pose.WorldUp())
	if !ok {
		q = mgl64.QuatIdent()
	}
	s.Node.Local = pose.Pose{Position: position, Orientation: q}
}
