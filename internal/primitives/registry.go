package primitives

import (
	"image/color"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// cached holds a mesh and its material. base maps the generated mesh onto the unit shape
// described in types.go.
type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
	base mgl32.Mat4
}

// Registry maps primitive kinds to mesh+material. Meshes are created on first use
// so that GPU resources are allocated after the window/OpenGL context exists.
type Registry struct {
	cache    map[string]cached
	viewPos  [3]float32 // camera position, set each frame for lighting
	lightDir [3]float32 // direction to light (normalized), set each frame

	lit       rl.Shader
	litLoaded bool

	screen        rl.Material
	screenSizeLoc int32
	screenLoaded  bool
}

// NewRegistry returns a registry with no primitives.
func NewRegistry() *Registry {
	return &Registry{
		cache:    make(map[string]cached),
		lightDir: [3]float32{0.5, 1, 0.5}, // default: from above-right
	}
}

// SetView sets camera position and direction-to-light for this frame. Call once per view
// before drawing objects so lit primitives get correct shading.
func (r *Registry) SetView(viewPos, lightDir [3]float32) {
	r.viewPos = viewPos
	r.lightDir = lightDir
}

const (
	sphereRings    = 16
	sphereSlices   = 16
	cylinderSlices = 16
	discSides      = 48
	torusSides     = 12
	torusSegments  = 48
	// torusTube is the tube radius relative to the ring radius.
	torusTube = 0.06
)

// generate builds the mesh for kind and the base transform that centres it and turns it to face +Z.
func generate(kind string) (rl.Mesh, mgl32.Mat4, bool) {
	faceZ := mgl32.HomogRotate3DX(math32.Pi / 2)
	switch kind {
	case Cube:
		return rl.GenMeshCube(1, 1, 1), mgl32.Ident4(), true
	case Sphere:
		// Radius 0.5 so diameter = 1, matching cube side length (1) for same default size.
		return rl.GenMeshSphere(0.5, sphereRings, sphereSlices), mgl32.Ident4(), true
	case Cylinder:
		// Raylib cylinder: base Y=0, top Y=height.
		return rl.GenMeshCylinder(0.5, 1, cylinderSlices), mgl32.Translate3D(0, -0.5, 0), true
	case Plane:
		return rl.GenMeshPlane(1, 1, 1, 1), mgl32.Ident4(), true
	case Torus:
		return rl.GenMeshTorus(torusTube, 1, torusSides, torusSegments), mgl32.Ident4(), true
	case Disc:
		return rl.GenMeshPoly(discSides, 0.5), faceZ, true
	case Quad:
		return rl.GenMeshPlane(1, 1, 1, 1), faceZ, true
	}
	return rl.Mesh{}, mgl32.Mat4{}, false
}

// ensure returns the cached mesh for kind, creating it with the lit material on first use.
func (r *Registry) ensure(kind string) (cached, bool) {
	if c, ok := r.cache[kind]; ok {
		return c, true
	}
	mesh, base, ok := generate(kind)
	if !ok {
		return cached{}, false
	}
	mtl := rl.LoadMaterialDefault()
	if shader := r.litShader(); rl.IsShaderValid(shader) {
		mtl.Shader = shader
	}
	c := cached{mesh: mesh, mtl: mtl, base: base}
	r.cache[kind] = c
	return c, true
}

func (r *Registry) litShader() rl.Shader {
	if !r.litLoaded {
		r.lit = rl.LoadShaderFromMemory(litVS, litFS)
		r.litLoaded = true
	}
	return r.lit
}

// Draw draws one instance of kind with the model transform and tint.
// Must be called between BeginMode3D and EndMode3D, after SetView. Unknown kinds are skipped.
func (r *Registry) Draw(kind string, model mgl32.Mat4, tint color.RGBA) {
	c, ok := r.ensure(kind)
	if !ok {
		return
	}
	r.setLitShaderUniforms(c.mtl.Shader)
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.NewColor(tint.R, tint.G, tint.B, tint.A)
	}
	rl.DrawMesh(c.mesh, c.mtl, toMatrix(model.Mul4(c.base)))
}

// DrawScreen draws a portal screen of kind (Disc or Quad) showing tex. The texture is
// sampled at the fragment's screen position, so tex must be the size of the current target.
// Both faces are drawn. An invalid texture falls back to a flat tint.
func (r *Registry) DrawScreen(kind string, model mgl32.Mat4, tex rl.Texture2D, fallback color.RGBA) {
	if !rl.IsTextureValid(tex) || !r.ensureScreen() {
		r.Draw(kind, model, fallback)
		return
	}
	c, ok := r.ensure(kind)
	if !ok {
		return
	}
	size := [2]float32{float32(tex.Width), float32(tex.Height)}
	if r.screenSizeLoc >= 0 {
		rl.SetShaderValue(r.screen.Shader, r.screenSizeLoc, size[:], rl.ShaderUniformVec2)
	}
	rl.SetMaterialTexture(&r.screen, rl.MapAlbedo, tex)
	rl.DisableBackfaceCulling()
	rl.DrawMesh(c.mesh, r.screen, toMatrix(model.Mul4(c.base)))
	rl.EnableBackfaceCulling()
}

func (r *Registry) ensureScreen() bool {
	if r.screenLoaded {
		return true
	}
	shader := rl.LoadShaderFromMemory(screenVS, screenFS)
	if !rl.IsShaderValid(shader) {
		return false
	}
	r.screen = rl.LoadMaterialDefault()
	r.screen.Shader = shader
	r.screenSizeLoc = rl.GetShaderLocation(shader, "screenSize")
	r.screenLoaded = true
	return true
}

// Unload releases every mesh and shader. The registry can be reused afterwards.
func (r *Registry) Unload() {
	for kind, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		delete(r.cache, kind)
	}
	if r.litLoaded {
		rl.UnloadShader(r.lit)
		r.litLoaded = false
	}
	if r.screenLoaded {
		rl.UnloadShader(r.screen.Shader)
		r.screenLoaded = false
	}
}

// toMatrix converts a column-major mathgl matrix to raylib's layout.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}
