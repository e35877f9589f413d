package world

import (
	"fmt"
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"portal-engine/internal/engineconfig"
	"portal-engine/internal/host"
	"portal-engine/internal/mapgen"
	"portal-engine/internal/observer"
	"portal-engine/internal/physics"
	"portal-engine/internal/portal"
	"portal-engine/internal/pose"
)

// Scene is the simulation side of one scene: identity, look, physics and terrain.
type Scene struct {
	ID         portal.SceneID
	Name       string
	Background color.RGBA
	Skybox     bool
	Physics    *physics.World // nil when the scene has no gravity
	Terrain    *mapgen.HeightField
	Props      []Prop
}

// Prop is a primitive driven by a physics body.
type Prop struct {
	Type  string
	Body  *physics.Body
	Color color.RGBA
}

type mount struct {
	surface *portal.Surface
	node    *pose.Node
}

// World owns everything that is simulated each frame.
type World struct {
	Scenes  []*Scene
	Portals *portal.Registry
	System  *portal.System
	Player  *observer.Player
	Hosts   []*host.Serpent

	byName map[string]*Scene
	byID   map[portal.SceneID]*Scene
	mounts []mount
	log    *zap.Logger
}

// Build creates the world described by cfg. The config is validated first.
func Build(cfg engineconfig.Config, log *zap.Logger) (*World, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.World.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	reg := portal.NewRegistry(log)
	w := &World{
		Portals: reg,
		System:  portal.NewSystem(reg, portal.NewTeleporter(reg, cfg.Prefs.TeleportCooldown, log), log),
		byName:  make(map[string]*Scene),
		byID:    make(map[portal.SceneID]*Scene),
		log:     log.Named("world"),
	}

	for _, sc := range cfg.World.Scenes {
		s, err := buildScene(sc)
		if err != nil {
			return nil, fmt.Errorf("world: scene %q: %w", sc.Name, err)
		}
		w.Scenes = append(w.Scenes, s)
		w.byName[s.Name] = s
		w.byID[s.ID] = s
	}

	hosts := make(map[string]*host.Serpent)
	for _, h := range cfg.World.Hosts {
		sp := host.NewSerpent(h.ID, vec64(h.Position), h.Speed, h.Turn, h.Wobble, h.Bounds)
		hosts[h.ID] = sp
		w.Hosts = append(w.Hosts, sp)
	}

	for _, p := range cfg.World.Portals {
		kind, err := portal.ParseKind(p.Shape)
		if err != nil {
			return nil, fmt.Errorf("world: portal %q: %w", p.ID, err)
		}
		tint, err := engineconfig.ParseColor(p.Color)
		if err != nil {
			return nil, fmt.Errorf("world: portal %q: %w", p.ID, err)
		}
		surf, err := reg.Add(portal.Config{
			ID:       p.ID,
			Shape:    kind,
			Size:     p.Size,
			Position: vec64(p.Position),
			Rotation: vec64(p.Rotation),
			Color:    tint,
		}, w.byName[p.Scene].ID)
		if err != nil {
			return nil, fmt.Errorf("world: %w", err)
		}
		surf.FrameVisible = !p.HideFrame
		if p.Host != "" {
			node := hosts[p.Host].Mount(pose.FromEuler(vec64(p.Position), vec64(p.Rotation)))
			surf.SetPose(node.World())
			w.mounts = append(w.mounts, mount{surface: surf, node: node})
		}
	}

	for _, pr := range cfg.World.Pairs {
		if err := reg.Pair(pr[0], pr[1]); err != nil {
			return nil, fmt.Errorf("world: %w", err)
		}
	}

	start := cfg.World.Player
	w.Player = observer.New(pose.FromEuler(vec64(start.Position), vec64(start.Rotation)), w.byName[start.Scene].ID)

	w.log.Info("world built",
		zap.Int("scenes", len(w.Scenes)),
		zap.Int("portals", reg.Len()),
		zap.Int("hosts", len(w.Hosts)),
		zap.String("player_scene", start.Scene),
	)
	return w, nil
}

func buildScene(sc engineconfig.Scene) (*Scene, error) {
	bg, err := engineconfig.ParseColor(sc.Background)
	if err != nil {
		return nil, err
	}
	s := &Scene{ID: uuid.New(), Name: sc.Name, Background: bg, Skybox: sc.Skybox}
	if t := sc.Terrain; t != nil {
		hf := mapgen.Generate(mapgen.HeightMapOptions{
			Width:       t.Width,
			Depth:       t.Depth,
			TileSize:    float32(t.TileSize),
			HeightScale: float32(t.HeightScale),
			Seed:        t.Seed,
		})
		s.Terrain = &hf
	}
	if sc.Gravity != nil {
		s.Physics = physics.NewWorld(vec32(*sc.Gravity))
		if s.Terrain != nil {
			s.Physics.Ground = s.Terrain.HeightAt
		}
	}
	for _, b := range sc.Bodies {
		tint, err := engineconfig.ParseColor(b.Color)
		if err != nil {
			return nil, err
		}
		body := physics.NewBody(vec32(b.Position), vec32(b.Scale), float32(b.Mass), b.Static || s.Physics == nil)
		if s.Physics != nil {
			s.Physics.AddBody(body)
		}
		s.Props = append(s.Props, Prop{Type: b.Type, Body: body, Color: tint})
	}
	return s, nil
}

// Scene looks a scene up by id.
func (w *World) Scene(id portal.SceneID) (*Scene, bool) {
	s, ok := w.byID[id]
	return s, ok
}

// SceneByName looks a scene up by its config name.
func (w *World) SceneByName(name string) (*Scene, bool) {
	s, ok := w.byName[name]
	return s, ok
}

// Step runs one frame of simulation in the fixed order: player input, moving hosts and
// the portals mounted on them, crossing and teleport, then physics.
func (w *World) Step(in observer.Intent, dt time.Duration) []portal.Event {
	w.Player.Update(in, dt)
	for _, h := range w.Hosts {
		h.Update(dt)
	}
	for _, m := range w.mounts {
		m.surface.SetPose(m.node.World())
	}

	events := w.System.Tick(dt, w.Player)
	for _, ev := range events {
		from, _ := w.Scene(ev.FromScene)
		to, _ := w.Scene(ev.ToScene)
		w.log.Debug("player moved", zap.String("from_scene", from.Name), zap.String("to_scene", to.Name))
	}

	for _, s := range w.Scenes {
		if s.Physics != nil {
			s.Physics.Step(dt)
		}
	}
	return events
}

func vec64(v engineconfig.Vec3) mgl64.Vec3 { return mgl64.Vec3(v) }

func vec32(v engineconfig.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
