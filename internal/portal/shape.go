package portal

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"portal-engine/internal/pose"
)

// Kind names a portal shape in configuration files.
type Kind string

const (
	KindDisc   Kind = "disc"
	KindSquare Kind = "square"
)

// discSegments is the outline resolution of a disc screen.
const discSegments = 32

// ScreenGeometry is the world-space footprint of a portal screen, used for frustum tests
// and for building the screen mesh.
type ScreenGeometry struct {
	Center  mgl64.Vec3
	Normal  mgl64.Vec3
	Radius  float64 // bounding sphere radius
	Outline []mgl64.Vec3
}

// Shape is the per-variant capability of a portal surface. Everything else in the
// package is written once against it.
type Shape interface {
	Kind() Kind
	// RestOffset is the fixed rotation from the portal's configured orientation to the
	// shape's native frame.
	RestOffset() mgl64.Quat
	// NativeNormal is the outward normal in the shape's native frame.
	NativeNormal() mgl64.Vec3
	// Normal is the outward normal in world space for the given native frame.
	Normal(frame pose.Pose) mgl64.Vec3
	// SignedDistance is the plane-crossing test: positive in front of the surface.
	SignedDistance(frame pose.Pose, point mgl64.Vec3) float64
	// Geometry returns the screen footprint for the given native frame and size.
	Geometry(frame pose.Pose, size float64) ScreenGeometry
}

// ParseKind converts a config string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDisc, KindSquare:
		return k, nil
	default:
		return "", fmt.Errorf("portal: %q: %w", s, ErrUnknownShape)
	}
}

// ShapeOf returns the shape implementation for k.
func ShapeOf(k Kind) (Shape, error) {
	switch k {
	case KindDisc:
		return Disc{}, nil
	case KindSquare:
		return Square{}, nil
	default:
		return nil, fmt.Errorf("portal: %q: %w", k, ErrUnknownShape)
	}
}

// Disc is a round portal. Its native frame is that of an upright cylinder (axis +Y),
// laid down by a quarter turn about X so the screen faces the configured +Z.
type Disc struct{}

var discRest = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0})

func (Disc) Kind() Kind { return KindDisc }
func (Disc) RestOffset() mgl64.Quat { return discRest }
func (Disc) NativeNormal() mgl64.Vec3 { return mgl64.Vec3{0, 1, 0} }
func (d Disc) Normal(frame pose.Pose) mgl64.Vec3 {
	return frame.Orientation.Rotate(d.NativeNormal())
}

func (d Disc) SignedDistance(frame pose.Pose, point mgl64.Vec3) float64 {
	return signedDistance(d.Normal(frame), frame.Position, point)
}

func (d Disc) Geometry(frame pose.Pose, size float64) ScreenGeometry {
	outline := make([]mgl64.Vec3, discSegments)
	for i := range outline {
		a := 2 * math.Pi * float64(i) / discSegments
		local := mgl64.Vec3{size * math.Cos(a), 0, size * math.Sin(a)}
		outline[i] = frame.Orientation.Rotate(local).Add(frame.Position)
	}
	return ScreenGeometry{
		Center:  frame.Position,
		Normal:  d.Normal(frame),
		Radius:  size,
		Outline: outline,
	}
}

// Square is a flat square portal facing native +Z; size is its half-extent.
type Square struct{}

func (Square) Kind() Kind { return KindSquare }
func (Square) RestOffset() mgl64.Quat { return mgl64.QuatIdent() }
func (Square) NativeNormal() mgl64.Vec3 { return mgl64.Vec3{0, 0, 1} }
func (s Square) Normal(frame pose.Pose) mgl64.Vec3 {
	return frame.Orientation.Rotate(s.NativeNormal())
}

func (s Square) SignedDistance(frame pose.Pose, point mgl64.Vec3) float64 {
	return signedDistance(s.Normal(frame), frame.Position, point)
}

func (s Square) Geometry(frame pose.Pose, size float64) ScreenGeometry {
	corners := [4]mgl64.Vec3{{-size, -size, 0}, {size, -size, 0}, {size, size, 0}, {-size, size, 0}}
	outline := make([]mgl64.Vec3, len(corners))
	for i, c := range corners {
		outline[i] = frame.Orientation.Rotate(c).Add(frame.Position)
	}
	return ScreenGeometry{
		Center:  frame.Position,
		Normal:  s.Normal(frame),
		Radius:  size * math.Sqrt2,
		Outline: outline,
	}
}

func signedDistance(normal, origin, point mgl64.Vec3) float64 {
	return normal.Dot(point.Sub(origin))
}
