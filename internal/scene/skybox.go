package scene

import (
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const skyboxScale = 1000

// skyboxPaths are tried in order so the skybox is found whether run from repo root or cmd/game.
var skyboxPaths = []string{
	"assets/skybox/skybox.png",
	"assets/skybox/skybox.jpg",
	"../../assets/skybox/skybox.png",
	"../../assets/skybox/skybox.jpg",
}

// equirectAspectMin/Max: width/height ratio for equirectangular panorama (typically 2:1).
const (
	equirectAspectMin = 1.8
	equirectAspectMax = 2.2
)

// Skybox is a cubemap or equirectangular panorama drawn around the camera. One skybox is
// shared by every scene that asks for it. Without an image on disk it draws nothing.
type Skybox struct {
	path     string // set while the GPU load is pending
	equirect bool   // true = panorama (2D texture + shader), false = cubemap

	tex       rl.Texture2D
	mesh      rl.Mesh
	mtl       rl.Material
	loaded    bool
	camPosLoc int32
	texLoc    int32
}

// NewSkybox finds the skybox file and decides cubemap vs equirect. GPU loading is deferred
// to the first Draw so it runs after the window/OpenGL context exists.
func NewSkybox() *Skybox {
	s := &Skybox{}
	for _, p := range skyboxPaths {
		cleaned := filepath.Clean(p)
		if _, err := os.Stat(cleaned); err == nil {
			s.path = cleaned
			break
		}
	}
	return s
}

func (s *Skybox) ensureLoaded() {
	if s.path == "" {
		return
	}
	path := s.path
	s.path = ""

	img := rl.LoadImage(path)
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return
	}
	aspect := float32(img.Width) / float32(img.Height)
	s.equirect = aspect >= equirectAspectMin && aspect <= equirectAspectMax
	defer rl.UnloadImage(img)

	if !s.equirect {
		s.tex = rl.LoadTextureCubemap(img, rl.CubemapLayoutAutoDetect)
		if !rl.IsTextureValid(s.tex) {
			return
		}
		s.mesh = rl.GenMeshCube(1, 1, 1)
		s.mtl = rl.LoadMaterialDefault()
		rl.SetMaterialTexture(&s.mtl, rl.MapCubemap, s.tex)
		s.loaded = true
		return
	}

	s.tex = rl.LoadTextureFromImage(img)
	if !rl.IsTextureValid(s.tex) {
		return
	}
	shader := rl.LoadShaderFromMemory(equirectVS, equirectFS)
	if !rl.IsShaderValid(shader) {
		rl.UnloadTexture(s.tex)
		return
	}
	s.mesh = rl.GenMeshCube(1, 1, 1)
	s.mtl = rl.LoadMaterialDefault()
	s.mtl.Shader = shader
	s.camPosLoc = rl.GetShaderLocation(shader, "cameraPosition")
	s.texLoc = rl.GetShaderLocation(shader, "skybox")
	s.loaded = true
}

// Equirectangular skybox shader: samples a 2D panorama by view direction.
const (
	equirectVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragWorldPos;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragWorldPos = worldPos.xyz;
  gl_Position = matProjection * matView * worldPos;
}
`
	equirectFS = `#version 330
in vec3 fragWorldPos;
out vec4 finalColor;
uniform sampler2D skybox;
uniform vec3 cameraPosition;
void main() {
  vec3 dir = normalize(fragWorldPos - cameraPosition);
  float lon = atan(dir.z, dir.x);
  float lat = asin(clamp(dir.y, -1.0, 1.0));
  float u = lon / 6.28318530718 + 0.5;
  float v = 0.5 - lat / 3.14159265359;
  finalColor = texture(skybox, vec2(u, v));
}
`
)

// Draw renders the skybox as a large cube centred on pos. Call inside BeginMode3D, first.
func (s *Skybox) Draw(pos rl.Vector3) {
	s.ensureLoaded()
	if !s.loaded {
		return
	}
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	transform := rl.MatrixMultiply(rl.MatrixScale(skyboxScale, skyboxScale, skyboxScale), rl.MatrixTranslate(pos.X, pos.Y, pos.Z))
	if s.equirect {
		if s.camPosLoc >= 0 {
			camPos := []float32{pos.X, pos.Y, pos.Z}
			rl.SetShaderValueV(s.mtl.Shader, s.camPosLoc, camPos, rl.ShaderUniformVec3, 1)
		}
		if s.texLoc >= 0 {
			rl.SetShaderValueTexture(s.mtl.Shader, s.texLoc, s.tex)
		}
	}
	rl.DrawMesh(s.mesh, s.mtl, transform)
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
}
