package observer

import (
	"math"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"
	"portal-engine/internal/portal"
	"portal-engine/internal/pose"
)

const (
	// DefaultSpeed is the free-fly speed in world units per second.
	DefaultSpeed = 30
	// DefaultSensitivity is the look rate in radians per mouse pixel.
	DefaultSensitivity = 0.003
	// LevelRate is how fast a rolled view returns to level, in radians per second.
	LevelRate = 0.3

	maxPitch = math.Pi/2 - 0.01
)

// Intent is one frame of controller input.
type Intent struct {
	// Move is in view axes: x right, y up (world vertical), z forward. Each axis is in [-1, 1].
	Move [3]float32
	// Look is the pointer delta in pixels: x to the right, y downward.
	Look [2]float32
}

// Player is the free-flying observer the portal system teleports. It carries a pose and
// the scene it is currently in.
type Player struct {
	Speed       float32
	Sensitivity float32

	pose     pose.Pose
	scene    portal.SceneID
	velocity mgl64.Vec3
}

// New returns a player at p in scene with default speed and sensitivity.
func New(p pose.Pose, scene portal.SceneID) *Player {
	return &Player{
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
		pose:        p,
		scene:       scene,
	}
}

func (pl *Player) Pose() pose.Pose { return pl.pose }
func (pl *Player) SetPose(p pose.Pose) { pl.pose = p }
func (pl *Player) Scene() portal.SceneID { return pl.scene }
func (pl *Player) SetScene(scene portal.SceneID) { pl.scene = scene }

// Velocity is the displacement per second produced by the last Update.
func (pl *Player) Velocity() mgl64.Vec3 { return pl.velocity }

// Update applies one frame of input: mouse look, then movement along the new view axes.
// Any roll left over from a teleport through a tilted portal is eased back to level.
func (pl *Player) Update(in Intent, dt time.Duration) {
	secs := float32(dt.Seconds())
	if secs <= 0 {
		pl.velocity = mgl64.Vec3{}
		return
	}

	yaw, pitch, roll := angles(pl.pose.Orientation)
	yaw -= float64(in.Look[0] * pl.Sensitivity)
	pitch = mgl64.Clamp(pitch-float64(in.Look[1]*pl.Sensitivity), -maxPitch, maxPitch)
	roll = level(roll, LevelRate*secs)
	pl.pose.Orientation = pose.FromYawPitch(yaw, pitch).
		Mul(mgl64.QuatRotate(float64(roll), mgl64.Vec3{0, 0, 1})).
		Normalize()

	mx, my, mz := in.Move[0], in.Move[1], in.Move[2]
	if n := math32.Sqrt(mx*mx + my*my + mz*mz); n > 1 {
		mx, my, mz = mx/n, my/n, mz/n
	}
	dir := pl.pose.Right().Mul(float64(mx)).
		Add(pose.WorldUp().Mul(float64(my))).
		Add(pl.pose.Forward().Mul(float64(mz)))
	pl.velocity = dir.Mul(float64(pl.Speed))
	pl.pose.Position = pl.pose.Position.Add(pl.velocity.Mul(float64(secs)))
}

// angles splits q into yaw and pitch of the forward axis plus the roll about it.
func angles(q mgl64.Quat) (yaw, pitch float64, roll float32) {
	yaw, pitch = pose.YawPitch(q)
	r := pose.FromYawPitch(yaw, pitch).Inverse().Mul(q)
	if r.W < 0 {
		r = r.Scale(-1)
	}
	return yaw, pitch, float32(2 * math.Atan2(r.V.Z(), r.W))
}

// level moves roll towards zero by at most step.
func level(roll, step float32) float32 {
	if math32.Abs(roll) <= step {
		return 0
	}
	return roll - math32.Copysign(step, roll)
}
