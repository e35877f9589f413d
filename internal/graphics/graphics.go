package graphics

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Options configures the window.
type Options struct {
	Title      string
	TargetFPS  int32
	Fullscreen bool
	// OnClose runs after the last frame while the GL context still exists, to release GPU resources.
	OnClose func()
}

// Run starts the window and main loop. Each frame it calls update with the last frame's
// duration (e.g. input and simulation), then begins drawing and calls draw (portal views,
// the main view, overlays). ESC is left to the terminal; close via the window button.
func Run(opts Options, update func(dt time.Duration), draw func()) {
	if opts.Fullscreen {
		rl.SetConfigFlags(rl.FlagFullscreenMode)
		rl.InitWindow(int32(rl.GetMonitorWidth(0)), int32(rl.GetMonitorHeight(0)), opts.Title)
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
		rl.InitWindow(1280, 720, opts.Title)
	}
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	if opts.TargetFPS > 0 {
		rl.SetTargetFPS(opts.TargetFPS)
	}

	for !rl.WindowShouldClose() {
		update(time.Duration(float64(rl.GetFrameTime()) * float64(time.Second)))

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		draw()
		rl.EndDrawing()
	}
	if opts.OnClose != nil {
		opts.OnClose()
	}
}
