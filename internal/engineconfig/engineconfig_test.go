package engineconfig

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.World.Validate())
	assert.Equal(t, 150*time.Millisecond, c.Prefs.TeleportCooldown)
	assert.True(t, c.Prefs.GridVisible)
	assert.Equal(t, [][2]string{{"mouth", "gate"}}, c.World.Pairs)
}

func TestLoad_MissingFileGivesDefault(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "engine.yaml")
	c := Default()
	c.Prefs.ShowFPS = true
	c.Prefs.TeleportCooldown = 250 * time.Millisecond
	require.NoError(t, Save(path, c))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "teleport_cooldown: 250ms")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestDecode_OverridesDefaults(t *testing.T) {
	src := `
prefs:
  show_fps: true
  teleport_cooldown: 80ms
world:
  scenes:
    - name: a
      background: "#102030"
    - name: b
      background: "#000000"
  portals:
    - {id: p, scene: a, shape: square, size: 4, position: [1, 2, 3], rotation: [0, 1.5, 0]}
    - {id: q, scene: b, shape: disc, size: 4}
  pairs:
    - [p, q]
  hosts: []
  player:
    scene: a
    position: [0, 1, 10]
`
	c, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.True(t, c.Prefs.ShowFPS)
	assert.True(t, c.Prefs.GridVisible, "untouched prefs keep their defaults")
	assert.Equal(t, 80*time.Millisecond, c.Prefs.TeleportCooldown)
	require.Len(t, c.World.Portals, 2)
	assert.Equal(t, Vec3{1, 2, 3}, c.World.Portals[0].Position)
	assert.Equal(t, [][2]string{{"p", "q"}}, c.World.Pairs)
	assert.Empty(t, c.World.Hosts)
	assert.NoError(t, c.World.Validate())
}

func TestDecode_WorldInheritsNothingFromDemo(t *testing.T) {
	src := `
world:
  scenes:
    - {name: a, background: "#102030"}
    - {name: b, background: "#000000"}
  portals:
    - {id: p, scene: a, shape: square, size: 4}
    - {id: q, scene: b, shape: square, size: 4, position: [50, 0, 0]}
  pairs:
    - [p, q]
  player: {scene: a, position: [0, 0, 10]}
`
	c, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Empty(t, c.World.Hosts)
	assert.Len(t, c.World.Scenes, 2)
	assert.Equal(t, [][2]string{{"p", "q"}}, c.World.Pairs)
	assert.NoError(t, c.World.Validate())
}

func TestDecode_PrefsOnlyKeepsDemoWorld(t *testing.T) {
	c, err := Decode(strings.NewReader("prefs:\n  show_fps: true\n"))
	require.NoError(t, err)
	assert.True(t, c.Prefs.ShowFPS)
	assert.Equal(t, DemoWorld(), c.World)
}

func TestDecode_PartialWorldIsNotReplaced(t *testing.T) {
	c, err := Decode(strings.NewReader("world:\n  portals:\n    - {id: p, scene: a, shape: disc, size: 4}\n"))
	require.NoError(t, err)
	require.Len(t, c.World.Portals, 1)
	assert.Empty(t, c.World.Scenes)
	assert.ErrorIs(t, c.World.Validate(), ErrUnknownScene)
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("prefs:\n  show_fsp: true\n"))
	assert.Error(t, err)
}

func TestLoad_BadFileFallsBackWithError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefs: [not, a, map]\n"), 0644))
	c, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), c)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(w *World)
		want   error
	}{
		{"unknown portal scene", func(w *World) { w.Portals[1].Scene = "moon" }, ErrUnknownScene},
		{"zero size", func(w *World) { w.Portals[1].Size = 0 }, ErrBadValue},
		{"duplicate portal", func(w *World) { w.Portals[1].ID = "mouth" }, ErrDuplicateID},
		{"paired twice", func(w *World) { w.Pairs = append(w.Pairs, [2]string{"gate", "mouth"}) }, ErrDuplicateID},
		{"self pair", func(w *World) { w.Pairs = [][2]string{{"gate", "gate"}} }, ErrBadValue},
		{"missing host", func(w *World) { w.Portals[0].Host = "whale" }, ErrBadValue},
		{"host in other scene", func(w *World) { w.Portals[0].Scene = "snake" }, ErrBadValue},
		{"bad colour", func(w *World) { w.Scenes[1].Background = "red" }, ErrBadValue},
		{"bad body", func(w *World) { w.Scenes[0].Bodies[0].Type = "teapot" }, ErrBadValue},
		{"player nowhere", func(w *World) { w.Player.Scene = "" }, ErrUnknownScene},
	}
	for _, c := range tests {
		t.Run(c.name, func(t *testing.T) {
			w := DemoWorld()
			c.mutate(&w)
			assert.ErrorIs(t, w.Validate(), c.want)
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, c)
	c, err = ParseColor("#10203040")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, c)
	c, err = ParseColor("")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{A: 255}, c)
	_, err = ParseColor("#12345")
	assert.ErrorIs(t, err, ErrBadValue)
	_, err = ParseColor("#zzzzzz")
	assert.ErrorIs(t, err, ErrBadValue)
}

func TestApplyEnv(t *testing.T) {
	vars := map[string]string{
		EnvLogLevel:   "debug",
		EnvFont:       "Inter",
		EnvFullscreen: "false",
	}
	c := Default()
	require.NoError(t, ApplyEnv(&c, func(k string) string { return vars[k] }))
	assert.Equal(t, "debug", c.Prefs.LogLevel)
	assert.Equal(t, "Inter", c.Prefs.Font)
	assert.False(t, c.Prefs.Fullscreen)
	assert.Equal(t, Default().Prefs.LogPath, c.Prefs.LogPath, "unset variables change nothing")

	vars[EnvFullscreen] = "sometimes"
	assert.ErrorIs(t, ApplyEnv(&c, func(k string) string { return vars[k] }), ErrBadValue)
}

func TestLoad_CorridorSample(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config", "corridor.yaml"))
	require.NoError(t, err)
	require.NoError(t, c.World.Validate())
	assert.False(t, c.Prefs.Fullscreen)
	assert.Empty(t, c.World.Hosts)
	assert.Len(t, c.World.Scenes, 2)
	assert.Equal(t, [][2]string{{"door", "exit"}}, c.World.Pairs)
}
