package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
	"portal-engine/internal/compositor"
	"portal-engine/internal/portal"
	"portal-engine/internal/scene"
)

// target is a portal's offscreen image, sized to the window.
type target struct {
	id string
	rt rl.RenderTexture2D
}

func (t *target) Portal() string { return t.id }

// Renderer draws scenes with raylib and owns one render texture per portal. It is the
// compositor's backend and supplies portal screen images to the scenes it draws.
type Renderer struct {
	scenes  map[portal.SceneID]*scene.Scene
	targets map[string]*target
	bound   map[string]rl.Texture2D
	current *target
	renders uint64
	log     *zap.Logger
}

// NewRenderer returns a renderer over scenes. A nil logger discards output.
func NewRenderer(scenes []*scene.Scene, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		scenes:  make(map[portal.SceneID]*scene.Scene, len(scenes)),
		targets: make(map[string]*target),
		bound:   make(map[string]rl.Texture2D),
		log:     log.Named("renderer"),
	}
	for _, s := range scenes {
		r.scenes[s.Sim.ID] = s
	}
	return r
}

// BeginFrame forgets last frame's screen bindings. Call once per frame before composing.
func (r *Renderer) BeginFrame() {
	clear(r.bound)
}

// SetRenderTarget redirects drawing to t, or back to the window when t is nil.
func (r *Renderer) SetRenderTarget(t compositor.Target) {
	if r.current != nil {
		rl.EndTextureMode()
		r.current = nil
	}
	if t == nil {
		return
	}
	tt, ok := t.(*target)
	if !ok {
		return
	}
	rl.BeginTextureMode(tt.rt)
	r.current = tt
}

// Render draws the scene with id from cam into the current target.
func (r *Renderer) Render(id portal.SceneID, cam compositor.Camera) {
	s, ok := r.scenes[id]
	if !ok {
		r.log.Warn("render of unknown scene", zap.Stringer("scene", id))
		return
	}
	s.Draw(cam, r)
	r.renders++
}

// Visible reports whether the screen footprint g intersects cam's view frustum.
func (r *Renderer) Visible(g portal.ScreenGeometry, cam compositor.Camera) bool {
	return compositor.InFrustum(g, cam)
}

// Target returns the render texture of portalID, recreating it when the window was resized.
func (r *Renderer) Target(portalID string) compositor.Target {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	t, ok := r.targets[portalID]
	if ok && t.rt.Texture.Width == w && t.rt.Texture.Height == h {
		return t
	}
	if ok {
		rl.UnloadRenderTexture(t.rt)
	}
	rt := rl.LoadRenderTexture(w, h)
	if !rl.IsRenderTextureValid(rt) {
		delete(r.targets, portalID)
		r.log.Error("render texture allocation failed", zap.String("portal", portalID), zap.Int32("width", w), zap.Int32("height", h))
		return nil
	}
	t = &target{id: portalID, rt: rt}
	r.targets[portalID] = t
	r.log.Debug("render texture allocated", zap.String("portal", portalID), zap.Int32("width", w), zap.Int32("height", h))
	return t
}

// BindScreen shows t on portalID's screen for the rest of the frame.
func (r *Renderer) BindScreen(portalID string, t compositor.Target) {
	if tt, ok := t.(*target); ok {
		r.bound[portalID] = tt.rt.Texture
	}
}

// Screen implements scene.Screens.
func (r *Renderer) Screen(portalID string) (rl.Texture2D, bool) {
	tex, ok := r.bound[portalID]
	return tex, ok
}

// Renders is the number of scene renders issued so far, main view included.
func (r *Renderer) Renders() uint64 { return r.renders }

// Unload releases every render texture.
func (r *Renderer) Unload() {
	for id, t := range r.targets {
		rl.UnloadRenderTexture(t.rt)
		delete(r.targets, id)
	}
	clear(r.bound)
}
