package debug

import (
	"fmt"
	"runtime"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"portal-engine/internal/compositor"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh overlay text every N frames to reduce allocations.
	updateInterval = 30
)

// PortalStats is what the portal overlay shows.
type PortalStats struct {
	Compose   compositor.Stats
	Scene     string
	Teleports uint64
	Cooldown  time.Duration
	Locked    int // surfaces currently inside a cooldown
}

// Debug holds runtime overlays (FPS, heap, portals). All overlays are off by default.
type Debug struct {
	ShowFPS         bool
	ShowMemAlloc    bool
	ShowPortalStats bool

	font       rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
	frameCount uint32
	fpsText    string
	memText    string
	portalText []string
	memStats   runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetFont sets the font used to draw overlays. Zero texture ID = use raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// Draw renders the enabled overlays at the top-right, one below the other. Text is only
// recomputed every updateInterval frames.
func (d *Debug) Draw(ps PortalStats) {
	d.frameCount++
	update := d.frameCount%updateInterval == 0

	y := int32(padding)
	if d.ShowFPS {
		if update || d.fpsText == "" {
			d.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		d.line(d.fpsText, y, rl.Green)
		y += lineHeight
	}
	if d.ShowMemAlloc {
		if update || d.memText == "" {
			runtime.ReadMemStats(&d.memStats)
			d.memText = fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024))
		}
		d.line(d.memText, y, rl.Green)
		y += lineHeight
	}
	if d.ShowPortalStats {
		if update || d.portalText == nil {
			c := ps.Compose
			d.portalText = []string{
				fmt.Sprintf("Scene: %s", ps.Scene),
				fmt.Sprintf("Portals: %d visible %d culled %d hidden %d", c.Portals, c.Visible, c.Culled, c.Hidden),
				fmt.Sprintf("Views: %d", c.Rendered),
				fmt.Sprintf("Teleports: %d locked %d (%s)", ps.Teleports, ps.Locked, ps.Cooldown),
			}
		}
		for _, s := range d.portalText {
			d.line(s, y, rl.SkyBlue)
			y += lineHeight
		}
	}
}

// line draws text right-aligned at y.
func (d *Debug) line(text string, y int32, c rl.Color) {
	screenW := float32(rl.GetScreenWidth())
	if d.font.Texture.ID != 0 {
		w := rl.MeasureTextEx(d.font, text, fontSize, 1).X
		rl.DrawTextEx(d.font, text, rl.NewVector2(screenW-w-padding, float32(y)), fontSize, 1, c)
		return
	}
	w := rl.MeasureText(text, fontSize)
	rl.DrawText(text, int32(screenW)-w-padding, y, fontSize, c)
}
