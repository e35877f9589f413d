package terminal

import (
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"
	"portal-engine/internal/commands"
	"portal-engine/internal/logger"
)

const (
	BarHeight = 40
	// When windowed, move bar up by this many pixels so it stays visible (avoids being cut off by taskbar/window bounds).
	WindowedBarOffset = 56
	prompt            = "> "
	fontSize          = 20
	padding           = 8
	// Number of log lines drawn above the input bar when the terminal is open.
	maxLinesOnScreen = 14
	lineHeight       = fontSize + 4
	maxLineLen       = 200
)

var (
	termBarColor    = rl.NewColor(40, 40, 40, 255)
	termLineColor   = rl.NewColor(80, 80, 80, 255)
	termChatBgColor = rl.NewColor(24, 24, 24, 240)
)

// Terminal is the console bar at the bottom of the screen, shown and hidden with ESC.
// While open it takes keyboard focus. Every submitted line is echoed to the log and run
// through the command registry; errors are logged as well.
type Terminal struct {
	log      *logger.Logger
	reg      *commands.Registry
	inputBuf string
	open     bool
	font     rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
}

// New returns a closed terminal that logs to log and runs lines through reg.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg}
}

// IsOpen reports whether the terminal is visible and capturing input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// SetFont sets the font used to draw the terminal. Zero texture ID = use raylib default.
func (t *Terminal) SetFont(font rl.Font) {
	t.font = font
}

// Update handles ESC (toggle open/closed), and when open: typing, paste, backspace, enter.
// Call once per frame.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.open = !t.open
	}
	if !t.open {
		return
	}
	// Paste: Ctrl+V (Windows/Linux) or Cmd+V (macOS)
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		t.inputBuf += rl.GetClipboardText()
	} else {
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			t.inputBuf += string(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(t.inputBuf) > 0 {
		_, size := utf8.DecodeLastRuneInString(t.inputBuf)
		t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
	}
	if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)) && t.inputBuf != "" {
		line := t.inputBuf
		t.inputBuf = ""
		t.Submit(line)
	}
}

// Submit echoes line and executes it as a command.
func (t *Terminal) Submit(line string) {
	t.log.Log(prompt + line)
	args, ok := commands.Parse(line)
	if !ok {
		return
	}
	if err := t.reg.Execute(args); err != nil {
		t.log.Log(err.Error())
	}
}

// Draw draws the terminal bar at the bottom when open, and the recent log lines above it.
// Uses GetScreenWidth/GetScreenHeight so the bar matches the 2D overlay coordinate system (correct in fullscreen).
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	screenW := int32(rl.GetScreenWidth())
	barY := int32(rl.GetScreenHeight()) - BarHeight
	if !rl.IsWindowFullscreen() {
		barY -= WindowedBarOffset
	}

	chatHeight := int32(maxLinesOnScreen * lineHeight)
	chatY := barY - chatHeight
	if chatY < 0 {
		chatHeight = barY
		chatY = 0
	}
	if chatHeight > 0 {
		rl.DrawRectangle(0, chatY, screenW, chatHeight, termChatBgColor)
	}
	lines := t.log.Lines()
	start := max(len(lines)-maxLinesOnScreen, 0)
	for i, line := range lines[start:] {
		if len(line) > maxLineLen {
			line = line[:maxLineLen-3] + "..."
		}
		t.text(line, padding, chatY+int32(i*lineHeight)+padding, rl.LightGray)
	}

	rl.DrawRectangle(0, barY, screenW, BarHeight, termBarColor)
	rl.DrawRectangle(0, barY, screenW, 1, termLineColor)
	t.text(prompt+t.inputBuf+"|", padding, barY+padding, rl.White)
}

func (t *Terminal) text(s string, x, y int32, c rl.Color) {
	if t.font.Texture.ID != 0 {
		rl.DrawTextEx(t.font, s, rl.NewVector2(float32(x), float32(y)), fontSize, 1, c)
		return
	}
	rl.DrawText(s, x, y, fontSize, c)
}
