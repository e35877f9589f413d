package scene

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"portal-engine/internal/compositor"
	"portal-engine/internal/mapgen"
	"portal-engine/internal/portal"
	"portal-engine/internal/pose"
	"portal-engine/internal/primitives"
	"portal-engine/internal/world"
)

// frameThickness is the width of a square portal's frame bars.
const frameThickness = 1.5

var terrainTint = rl.NewColor(112, 138, 96, 255)

// Screens supplies the image drawn inside each portal screen this frame.
type Screens interface {
	Screen(portalID string) (rl.Texture2D, bool)
}

// Scene draws one simulated scene: background, skybox, grid, terrain, props and the
// portals that live in it.
type Scene struct {
	Sim         *world.Scene
	GridVisible bool

	portals *portal.Registry
	prims   *primitives.Registry
	sky     *Skybox

	terrain        rl.Model
	terrainPending bool
	terrainLoaded  bool
}

// New returns the render side of sim. prims and sky are shared between scenes; sky may be nil.
func New(sim *world.Scene, portals *portal.Registry, prims *primitives.Registry, sky *Skybox) *Scene {
	return &Scene{
		Sim:            sim,
		GridVisible:    true,
		portals:        portals,
		prims:          prims,
		sky:            sky,
		terrainPending: sim.Terrain != nil,
	}
}

// SetGridVisible sets whether the editor grid is drawn.
func (s *Scene) SetGridVisible(visible bool) {
	s.GridVisible = visible
}

// Draw clears the current target to the scene background and renders the scene from cam.
// When cam.HidePortalScreens is set only portal frames are drawn; screens is not consulted.
func (s *Scene) Draw(cam compositor.Camera, screens Screens) {
	s.ensureTerrain()
	rl.ClearBackground(rgba(s.Sim.Background))

	rc := Camera3D(cam)
	light := [3]float32{0.5, 1, 0.5}
	s.prims.SetView([3]float32{rc.Position.X, rc.Position.Y, rc.Position.Z}, light)

	rl.BeginMode3D(rc)
	if s.Sim.Skybox && s.sky != nil {
		s.sky.Draw(rc.Position)
	}
	if s.GridVisible {
		drawGrid()
	}
	if s.terrainLoaded {
		ex, ez := s.Sim.Terrain.Extent()
		rl.DrawModel(s.terrain, rl.NewVector3(-ex/2, 0, -ez/2), 1, terrainTint)
	}
	for _, p := range s.Sim.Props {
		model := mgl32.Translate3D(p.Body.Position.Elem()).Mul4(mgl32.Scale3D(p.Body.Scale.Elem()))
		s.prims.Draw(p.Type, model, p.Color)
	}
	for _, sf := range s.portals.InScene(s.Sim.ID) {
		s.drawPortal(sf, cam.HidePortalScreens, screens)
	}
	rl.EndMode3D()
}

func (s *Scene) drawPortal(sf *portal.Surface, hideScreen bool, screens Screens) {
	size := float32(sf.Size) * 2
	base := poseMatrix(sf.Pose())

	if sf.FrameVisible {
		switch sf.Shape.Kind() {
		case portal.KindDisc:
			s.prims.Draw(primitives.Torus, base.Mul4(mgl32.Scale3D(size, size, size)), sf.Color)
		case portal.KindSquare:
			half := size / 2
			bars := [4][2]mgl32.Vec3{
				{{0, half, 0}, {size + 2*frameThickness, frameThickness, frameThickness}},
				{{0, -half, 0}, {size + 2*frameThickness, frameThickness, frameThickness}},
				{{half, 0, 0}, {frameThickness, size, frameThickness}},
				{{-half, 0, 0}, {frameThickness, size, frameThickness}},
			}
			for _, b := range bars {
				s.prims.Draw(primitives.Cube, base.Mul4(mgl32.Translate3D(b[0].Elem())).Mul4(mgl32.Scale3D(b[1].Elem())), sf.Color)
			}
		}
	}

	if hideScreen || !sf.Visible() || !sf.HasPartner() {
		return
	}
	kind := primitives.Quad
	if sf.Shape.Kind() == portal.KindDisc {
		kind = primitives.Disc
	}
	model := base.Mul4(mgl32.Scale3D(size, size, 1))
	var tex rl.Texture2D
	if screens != nil {
		tex, _ = screens.Screen(sf.ID)
	}
	s.prims.DrawScreen(kind, model, tex, sf.Color)
}

// ensureTerrain builds the terrain model the first time the scene is drawn, once the GL
// context exists.
func (s *Scene) ensureTerrain() {
	if !s.terrainPending {
		return
	}
	s.terrainPending = false
	mesh, ok := heightmapMesh(s.Sim.Terrain)
	if !ok {
		return
	}
	s.terrain = rl.LoadModelFromMesh(mesh)
	s.terrainLoaded = true
}

// heightmapMesh turns hf into a raylib heightmap mesh spanning its extent, origin at the
// (-X, -Z) corner.
func heightmapMesh(hf *mapgen.HeightField) (rl.Mesh, bool) {
	if hf == nil || len(hf.Samples) == 0 {
		return rl.Mesh{}, false
	}
	img := rl.GenImageColor(hf.Width, hf.Depth, rl.Black)
	defer rl.UnloadImage(img)
	for z := 0; z < hf.Depth; z++ {
		for x := 0; x < hf.Width; x++ {
			v := uint8(hf.Samples[z*hf.Width+x] * 255)
			rl.ImageDrawPixel(img, int32(x), int32(z), rl.NewColor(v, v, v, 255))
		}
	}
	ex, ez := hf.Extent()
	mesh := rl.GenMeshHeightmap(*img, rl.NewVector3(ex, hf.HeightScale, ez))
	return mesh, mesh.VertexCount > 0
}

// Unload releases the scene's GPU resources.
func (s *Scene) Unload() {
	if s.terrainLoaded {
		rl.UnloadModel(s.terrain)
		s.terrainLoaded = false
	}
}

// Camera3D converts a compositor camera to raylib's.
func Camera3D(c compositor.Camera) rl.Camera3D {
	fovy := c.Fovy
	if fovy <= 0 {
		fovy = compositor.DefaultFovy
	}
	pos, target, up := c.Pose.Position, c.Target(), c.Pose.Up()
	return rl.Camera3D{
		Position:   rl.NewVector3(float32(pos.X()), float32(pos.Y()), float32(pos.Z())),
		Target:     rl.NewVector3(float32(target.X()), float32(target.Y()), float32(target.Z())),
		Up:         rl.NewVector3(float32(up.X()), float32(up.Y()), float32(up.Z())),
		Fovy:       float32(fovy),
		Projection: rl.CameraPerspective,
	}
}

// poseMatrix is the model matrix of p.
func poseMatrix(p pose.Pose) mgl32.Mat4 {
	q := mgl32.Quat{W: float32(p.Orientation.W), V: mgl32.Vec3{float32(p.Orientation.V[0]), float32(p.Orientation.V[1]), float32(p.Orientation.V[2])}}
	return mgl32.Translate3D(float32(p.Position[0]), float32(p.Position[1]), float32(p.Position[2])).Mul4(q.Mat4())
}

func rgba(c color.RGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }
