package portal

import (
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"portal-engine/internal/pose"
)

// SceneID identifies the scene a portal or observer lives in. uuid.Nil means "no scene".
type SceneID = uuid.UUID

// Side is which half-space of a portal plane a point lies in.
type Side int8

const (
	SideUnknown Side = iota
	SidePositive
	SideNegative
)

func (s Side) String() string {
	switch s {
	case SidePositive:
		return "positive"
	case SideNegative:
		return "negative"
	default:
		return "unknown"
	}
}

// Config is the construction-time description of one portal.
// Rotation holds XYZ Euler angles in radians.
type Config struct {
	ID       string
	Shape    Kind
	Size     float64
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Color    color.RGBA
}

// Surface is one side of a portal pair. Surfaces are owned by a Registry and refer to
// their partner by id only.
//
// PreviousSide, TeleportEnabled and Visible change every frame through the crossing
// detector and the Teleporter; there is no other mutation path.
type Surface struct {
	ID    string
	Shape Shape
	Size  float64
	Scene SceneID

	// Color tints the frame.
	Color color.RGBA

	// FrameVisible controls the decorative frame around the screen. Portals mounted on
	// moving hosts usually hide it.
	FrameVisible bool

	pose            pose.Pose
	partner         string
	previousSide    Side
	teleportEnabled bool
	visible         bool
	cooldown        time.Duration
}

func newSurface(cfg Config, shape Shape, scene SceneID) *Surface {
	return &Surface{
		ID:              cfg.ID,
		Shape:           shape,
		Size:            cfg.Size,
		Scene:           scene,
		Color:           cfg.Color,
		FrameVisible:    true,
		pose:            pose.FromEuler(cfg.Position, cfg.Rotation),
		teleportEnabled: true,
		visible:         true,
	}
}

// Pose is the configured world pose (without the shape's rest offset).
func (s *Surface) Pose() pose.Pose { return s.pose }

// SetPose moves the portal, e.g. when it is mounted on a moving host.
func (s *Surface) SetPose(p pose.Pose) { s.pose = p }

// Position is the world-space centre of the screen.
func (s *Surface) Position() mgl64.Vec3 { return s.pose.Position }

// Frame is the world pose of the shape's native frame: the configured pose with the
// shape's fixed rest offset folded in.
func (s *Surface) Frame() pose.Pose {
	return s.pose.Compose(pose.Pose{Orientation: s.Shape.RestOffset()})
}

// Normal is the outward screen direction in world space.
func (s *Surface) Normal() mgl64.Vec3 { return s.Shape.Normal(s.Frame()) }

// Geometry returns the screen footprint in world space.
func (s *Surface) Geometry() ScreenGeometry { return s.Shape.Geometry(s.Frame(), s.Size) }

// Partner returns the partner id, or "" when unpaired.
func (s *Surface) Partner() string { return s.partner }

// HasPartner reports whether the surface is linked.
func (s *Surface) HasPartner() bool { return s.partner != "" }

// PreviousSide is the side the observer was on at the last detection.
func (s *Surface) PreviousSide() Side { return s.previousSide }

// ResetSide seeds the crossing state, typically at world-build time.
func (s *Surface) ResetSide(side Side) { s.previousSide = side }

// TeleportEnabled is false while the surface is inside a cooldown window.
func (s *Surface) TeleportEnabled() bool { return s.teleportEnabled }

// Visible controls whether the screen interior is drawn.
func (s *Surface) Visible() bool { return s.visible }

// Cooldown is the remaining lock time, zero when idle.
func (s *Surface) Cooldown() time.Duration { return s.cooldown }

// Hide suppresses the screen interior. Only the Teleporter calls it.
func (s *Surface) Hide() { s.visible = false }

// Show restores the screen interior. Only the Teleporter calls it.
func (s *Surface) Show() { s.visible = true }
