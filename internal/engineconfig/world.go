package engineconfig

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Vec3 is an [x, y, z] triple in YAML flow style.
type Vec3 [3]float64

// World describes the scenes, portals and bodies to build at startup.
type World struct {
	Scenes  []Scene     `yaml:"scenes"`
	Portals []Portal    `yaml:"portals"`
	Pairs   [][2]string `yaml:"pairs"`
	Hosts   []Host      `yaml:"hosts,omitempty"`
	Player  Player      `yaml:"player"`
}

// Scene is one independent world the player can be in.
type Scene struct {
	Name       string   `yaml:"name"`
	Background string   `yaml:"background"` // #rrggbb
	Skybox     bool     `yaml:"skybox,omitempty"`
	Gravity    *Vec3    `yaml:"gravity,omitempty"` // nil disables physics for the scene
	Terrain    *Terrain `yaml:"terrain,omitempty"`
	Bodies     []Body   `yaml:"bodies,omitempty"`
}

// Terrain is a procedural height field centred on the scene origin.
type Terrain struct {
	Width       int     `yaml:"width"`
	Depth       int     `yaml:"depth"`
	TileSize    float64 `yaml:"tile_size"`
	HeightScale float64 `yaml:"height_scale"`
	Seed        int64   `yaml:"seed"`
}

// Body is a primitive with a physics body.
type Body struct {
	Type     string  `yaml:"type"` // cube, sphere, cylinder
	Position Vec3    `yaml:"position,flow"`
	Scale    Vec3    `yaml:"scale,flow"`
	Mass     float64 `yaml:"mass,omitempty"`
	Static   bool    `yaml:"static,omitempty"`
	Color    string  `yaml:"color,omitempty"`
}

// Portal is one portal surface. When Host is set, Position and Rotation are relative to the host.
type Portal struct {
	ID        string  `yaml:"id"`
	Scene     string  `yaml:"scene"`
	Shape     string  `yaml:"shape"`
	Size      float64 `yaml:"size"`
	Position  Vec3    `yaml:"position,flow"`
	Rotation  Vec3    `yaml:"rotation,flow"` // XYZ Euler, radians
	Color     string  `yaml:"color,omitempty"`
	HideFrame bool    `yaml:"hide_frame,omitempty"`
	Host      string  `yaml:"host,omitempty"`
}

// Host is a moving carrier that portals can be mounted on. It wanders on a winding path.
type Host struct {
	ID       string  `yaml:"id"`
	Scene    string  `yaml:"scene"`
	Position Vec3    `yaml:"position,flow"`
	Speed    float64 `yaml:"speed"` // units per second
	Turn     float64 `yaml:"turn"`  // radians per second around +Y
	Wobble   float64 `yaml:"wobble"`
	Bounds   float64 `yaml:"bounds,omitempty"` // horizontal distance at which the host turns back; 0 means unbounded
}

// Player is the starting pose of the observer.
type Player struct {
	Scene    string `yaml:"scene"`
	Position Vec3   `yaml:"position,flow"`
	Rotation Vec3   `yaml:"rotation,flow"`
}

// DemoWorld is the default world: a terrain scene with a wandering serpent carrying a
// portal in its mouth, linked to a gate portal in a red void scene.
func DemoWorld() World {
	return World{
		Scenes: []Scene{
			{
				Name:       "main",
				Background: "#dde0e3",
				Skybox:     true,
				Gravity:    &Vec3{0, -9.82, 0},
				Terrain:    &Terrain{Width: 64, Depth: 64, TileSize: 8, HeightScale: 40, Seed: 8},
				Bodies: []Body{
					{Type: "sphere", Position: Vec3{10, 200, 0}, Scale: Vec3{20, 20, 20}, Mass: 1, Color: "#ff0000"},
					{Type: "cube", Position: Vec3{100, 60, 140}, Scale: Vec3{30, 20, 30}, Static: true, Color: "#8d6e63"},
				},
			},
			{
				Name:       "snake",
				Background: "#ff0000",
			},
		},
		Hosts: []Host{
			{ID: "serpent", Scene: "main", Position: Vec3{0, 90, 0}, Speed: 60, Turn: 0.06, Wobble: 0.3, Bounds: 220},
		},
		Portals: []Portal{
			{ID: "mouth", Scene: "main", Host: "serpent", Shape: "disc", Size: 50, Position: Vec3{0, 0, -20}, Rotation: Vec3{0, math.Pi, 0}, HideFrame: true, Color: "#212121"},
			{ID: "gate", Scene: "snake", Shape: "disc", Size: 50, Color: "#212121"},
		},
		Pairs:  [][2]string{{"mouth", "gate"}},
		Player: Player{Scene: "main", Position: Vec3{0, 60, 250}},
	}
}

// empty reports whether nothing at all was configured.
func (w World) empty() bool {
	return len(w.Scenes) == 0 && len(w.Portals) == 0 && len(w.Pairs) == 0 && len(w.Hosts) == 0 && w.Player == (Player{})
}

var (
	ErrUnknownScene = errors.New("unknown scene")
	ErrDuplicateID  = errors.New("duplicate id")
	ErrBadValue     = errors.New("bad value")
)

// Validate reports every structural problem in w, joined into one error.
func (w World) Validate() error {
	var errs []error
	bad := func(err error, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err))
	}

	scenes := map[string]bool{}
	for i, s := range w.Scenes {
		if s.Name == "" {
			bad(ErrBadValue, "scenes[%d]: empty name", i)
			continue
		}
		if scenes[s.Name] {
			bad(ErrDuplicateID, "scene %q", s.Name)
		}
		scenes[s.Name] = true
		if _, err := ParseColor(s.Background); err != nil {
			bad(err, "scene %q background", s.Name)
		}
		if t := s.Terrain; t != nil && (t.Width < 2 || t.Depth < 2 || t.TileSize <= 0) {
			bad(ErrBadValue, "scene %q terrain %dx%d tile %v", s.Name, t.Width, t.Depth, t.TileSize)
		}
		for j, b := range s.Bodies {
			switch b.Type {
			case "cube", "sphere", "cylinder":
			default:
				bad(ErrBadValue, "scene %q bodies[%d] type %q", s.Name, j, b.Type)
			}
		}
	}

	hosts := map[string]string{}
	for _, h := range w.Hosts {
		if _, ok := hosts[h.ID]; ok || h.ID == "" {
			bad(ErrDuplicateID, "host %q", h.ID)
		}
		hosts[h.ID] = h.Scene
		if !scenes[h.Scene] {
			bad(ErrUnknownScene, "host %q scene %q", h.ID, h.Scene)
		}
	}

	portals := map[string]bool{}
	for _, p := range w.Portals {
		if p.ID == "" || portals[p.ID] {
			bad(ErrDuplicateID, "portal %q", p.ID)
		}
		portals[p.ID] = true
		if !scenes[p.Scene] {
			bad(ErrUnknownScene, "portal %q scene %q", p.ID, p.Scene)
		}
		if !(p.Size > 0) {
			bad(ErrBadValue, "portal %q size %v", p.ID, p.Size)
		}
		if p.Host != "" {
			if hs, ok := hosts[p.Host]; !ok {
				bad(ErrBadValue, "portal %q host %q not found", p.ID, p.Host)
			} else if hs != p.Scene {
				bad(ErrBadValue, "portal %q is in scene %q but its host is in %q", p.ID, p.Scene, hs)
			}
		}
	}

	paired := map[string]bool{}
	for _, pr := range w.Pairs {
		for _, id := range pr {
			if !portals[id] {
				bad(ErrBadValue, "pair %v: portal %q not found", pr, id)
			}
			if paired[id] {
				bad(ErrDuplicateID, "portal %q paired twice", id)
			}
			paired[id] = true
		}
		if pr[0] == pr[1] {
			bad(ErrBadValue, "pair %v: portal paired with itself", pr)
		}
	}

	if !scenes[w.Player.Scene] {
		bad(ErrUnknownScene, "player scene %q", w.Player.Scene)
	}
	return errors.Join(errs...)
}

// ParseColor parses #rrggbb or #rrggbbaa. An empty string is opaque black.
func ParseColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{A: 255}, nil
	}
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, ErrBadValue)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, ErrBadValue)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
