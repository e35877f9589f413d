package input

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"portal-engine/internal/observer"
)

// Controller turns keyboard and mouse state into observer intents.
// W/S move forward and back, A/D strafe, Space and Left Ctrl rise and sink, the mouse looks.
type Controller struct {
	enabled  bool
	captured bool
}

// New returns an enabled controller. The cursor is captured on the first Read.
func New() *Controller {
	return &Controller{enabled: true}
}

// SetEnabled turns input on or off, e.g. while the terminal has focus. A disabled
// controller releases the cursor and reports no intent.
func (c *Controller) SetEnabled(enabled bool) {
	c.enabled = enabled
	if !enabled && c.captured {
		rl.EnableCursor()
		c.captured = false
	}
}

// Enabled reports whether input reaches the observer.
func (c *Controller) Enabled() bool { return c.enabled }

// Read samples this frame's input.
func (c *Controller) Read() observer.Intent {
	if !c.enabled {
		return observer.Intent{}
	}
	if !c.captured {
		rl.DisableCursor()
		c.captured = true
		// The first delta after capture is the jump to the window centre.
		_ = rl.GetMouseDelta()
		return observer.Intent{}
	}
	var in observer.Intent
	in.Move[0] = axis(rl.KeyD, rl.KeyA)
	in.Move[1] = axis(rl.KeySpace, rl.KeyLeftControl)
	in.Move[2] = axis(rl.KeyW, rl.KeyS)
	d := rl.GetMouseDelta()
	in.Look = [2]float32{d.X, d.Y}
	return in
}

func axis(pos, neg int32) float32 {
	var v float32
	if rl.IsKeyDown(pos) {
		v++
	}
	if rl.IsKeyDown(neg) {
		v--
	}
	return v
}
