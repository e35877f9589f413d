package compositor

import (
	"go.uber.org/zap"
	"portal-engine/internal/portal"
)

// Target is an offscreen image owned by one portal.
type Target interface {
	Portal() string
}

// Renderer is the drawing backend the compositor drives.
type Renderer interface {
	// SetRenderTarget redirects drawing to t, or back to the screen when t is nil.
	SetRenderTarget(t Target)
	// Render draws scene as seen from cam into the current target, replacing its contents.
	Render(scene portal.SceneID, cam Camera)
	// Visible reports whether a portal screen intersects cam's view.
	Visible(g portal.ScreenGeometry, cam Camera) bool
	// Target returns the offscreen target owned by portalID, creating it on first use.
	Target(portalID string) Target
	// BindScreen uses t as the screen image of portalID for the current frame.
	BindScreen(portalID string, t Target)
}

// Stats summarises one Compose pass.
type Stats struct {
	Portals  int // linked portals in the observer's scene
	Visible  int
	Rendered int
	Culled   int
	Hidden   int // skipped because the screen is hidden during a cooldown
}

// Compositor renders the view through every visible portal into that portal's target.
type Compositor struct {
	reg  *portal.Registry
	r    Renderer
	log  *zap.Logger
	last Stats
}

// New returns a compositor over reg drawing with r. A nil logger discards output.
func New(reg *portal.Registry, r Renderer, log *zap.Logger) *Compositor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Compositor{reg: reg, r: r, log: log.Named("compositor")}
}

// Last returns the stats of the previous Compose.
func (c *Compositor) Last() Stats { return c.last }

// Compose runs before the main render. For each linked portal in the observer's scene
// whose screen main can see, it places a virtual camera at the mirrored observer pose
// behind the partner and renders the partner's scene into the portal's target. Only one
// bounce is drawn: virtual cameras never render portal screens.
func (c *Compositor) Compose(obs portal.Observer, main Camera) Stats {
	var st Stats
	scene := obs.Scene()
	for _, p := range c.reg.All() {
		dst, ok := c.reg.Partner(p)
		if !ok || p.Scene != scene {
			continue
		}
		st.Portals++
		if !p.Visible() {
			st.Hidden++
			continue
		}
		if !c.r.Visible(p.Geometry(), main) {
			st.Culled++
			continue
		}
		st.Visible++

		t := c.r.Target(p.ID)
		if t == nil {
			c.log.Warn("renderer returned no target", zap.String("portal", p.ID))
			continue
		}
		virtual := main.Virtual(portal.Mirror(p, dst, obs.Pose()))
		c.r.SetRenderTarget(t)
		c.r.Render(dst.Scene, virtual)
		c.r.SetRenderTarget(nil)
		c.r.BindScreen(p.ID, t)
		st.Rendered++
	}
	c.last = st
	return st
}
