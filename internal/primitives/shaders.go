package primitives

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float NdotH = max(dot(N, H), 0.0);
  float spec = pow(NdotH, specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
	// The screen shader samples the portal's target at the fragment's own window position.
	screenVS = `#version 330
in vec3 vertexPosition;
uniform mat4 mvp;
void main() {
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	screenFS = `#version 330
uniform sampler2D texture0;
uniform vec2 screenSize;
out vec4 finalColor;
void main() {
  finalColor = vec4(texture(texture0, gl_FragCoord.xy / screenSize).rgb, 1.0);
}
`
)

// defaultAmbient is the ambient term (dim so shadowed areas aren't pure black).
var defaultAmbient = [4]float32{0.2, 0.22, 0.26, 1.0}

// defaultLightColor is a soft warm-white for the directional light.
var defaultLightColor = [3]float32{1.0, 0.98, 0.95}

const (
	defaultLightIntensity   = float32(0.75)
	defaultSpecularPower    = float32(48.0)
	defaultSpecularStrength = float32(0.35)
)

// setLitShaderUniforms sets viewPos, lightDir, ambient, light color/intensity, and specular on the given shader (cgo-safe: local arrays).
func (r *Registry) setLitShaderUniforms(shader rl.Shader) {
	if !rl.IsShaderValid(shader) {
		return
	}
	viewPos := r.viewPos
	lightDir := r.lightDir
	amb := defaultAmbient
	lightColor := defaultLightColor
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightColor"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightColor[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultLightIntensity}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularPower"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultSpecularPower}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultSpecularStrength}, rl.ShaderUniformFloat)
	}
}
