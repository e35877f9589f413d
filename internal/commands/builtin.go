package commands

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"portal-engine/internal/engineconfig"
	"portal-engine/internal/pose"
	"portal-engine/internal/world"
)

// Env is the state the built-in console commands act on. Output goes to Log at info
// level, which the terminal shows.
type Env struct {
	Config     *engineconfig.Config
	ConfigPath string
	World      *world.World
	Log        *zap.Logger
}

func (e *Env) printf(format string, args ...any) {
	e.Log.Info(fmt.Sprintf(format, args...))
}

// RegisterBuiltins adds the engine console commands to r.
func RegisterBuiltins(r *Registry, env *Env) {
	if env.Log == nil {
		env.Log = zap.NewNop()
	}
	prefs := &env.Config.Prefs

	r.Register("help", "help: list commands", nil, func([]string) error {
		for _, n := range r.Names() {
			c, _ := r.Lookup(n)
			env.printf("%s", c.Usage)
		}
		return nil
	})

	toggles := []struct {
		name  string
		usage string
		flag  *bool
	}{
		{"grid", "grid [on|off]: editor grid", &prefs.GridVisible},
		{"fps", "fps [on|off]: frame rate overlay", &prefs.ShowFPS},
		{"memalloc", "memalloc [on|off]: heap overlay", &prefs.ShowMemAlloc},
		{"stats", "stats [on|off]: portal overlay", &prefs.ShowPortalStats},
	}
	for _, tg := range toggles {
		r.Register(tg.name, tg.usage, nil, func(args []string) error {
			v, err := toggle(*tg.flag, args)
			if err != nil {
				return fmt.Errorf("%s: %w", tg.name, err)
			}
			*tg.flag = v
			env.printf("%s %s", tg.name, onOff(v))
			return nil
		})
	}

	r.Register("portals", "portals: list portals and their state", nil, func([]string) error {
		for _, s := range env.World.Portals.All() {
			scene := "?"
			if sc, ok := env.World.Scene(s.Scene); ok {
				scene = sc.Name
			}
			partner := s.Partner()
			if partner == "" {
				partner = "-"
			}
			state := "open"
			if !s.TeleportEnabled() {
				state = fmt.Sprintf("locked %s", s.Cooldown())
			}
			env.printf("%s [%s] %s -> %s side=%s %s", s.ID, s.Shape.Kind(), scene, partner, s.PreviousSide(), state)
		}
		return nil
	})

	r.Register("pair", "pair <a> <b>: link two portals", nil, func(args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("pair: want 2 portal ids, got %d", len(args))
		}
		if err := env.World.Portals.Pair(args[0], args[1]); err != nil {
			return err
		}
		env.printf("paired %s <-> %s", args[0], args[1])
		return nil
	})

	r.Register("unpair", "unpair <id>: unlink a portal and its partner", nil, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("unpair: want 1 portal id, got %d", len(args))
		}
		if err := env.World.Portals.Unpair(args[0]); err != nil {
			return err
		}
		env.printf("unpaired %s", args[0])
		return nil
	})

	r.Register("cooldown", "cooldown [duration]: show or set the teleport lock time", nil, func(args []string) error {
		tp := env.World.System.Teleporter()
		if len(args) == 0 {
			env.printf("cooldown %s", tp.Cooldown())
			return nil
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("cooldown: %w", err)
		}
		tp.SetCooldown(d)
		prefs.TeleportCooldown = tp.Cooldown()
		env.printf("cooldown %s", tp.Cooldown())
		return nil
	})

	gotoFS := flag.NewFlagSet("goto", flag.ContinueOnError)
	dist := gotoFS.Float64("dist", 0, "distance in front of the screen; 0 means twice the portal size")
	r.Register("goto", "goto [-dist n] <id>: stand in front of a portal, facing it", gotoFS, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("goto: want 1 portal id, got %d", len(args))
		}
		s, ok := env.World.Portals.Get(args[0])
		if !ok {
			return fmt.Errorf("goto: unknown portal %q", args[0])
		}
		d := *dist
		if d <= 0 {
			d = 2 * s.Size
		}
		pl := env.World.Player
		p := pl.Pose()
		p.Position = s.Position().Add(s.Normal().Mul(d))
		if q, ok := pose.LookRotation(s.Normal().Mul(-1), pose.WorldUp()); ok {
			p.Orientation = q
		}
		pl.SetPose(p)
		pl.SetScene(s.Scene)
		env.printf("at %s", s.ID)
		return nil
	})

	r.Register("where", "where: print the player's scene and position", nil, func([]string) error {
		p := env.World.Player.Pose()
		scene := "?"
		if sc, ok := env.World.Scene(env.World.Player.Scene()); ok {
			scene = sc.Name
		}
		env.printf("%s (%.1f, %.1f, %.1f) teleports=%d", scene, p.Position.X(), p.Position.Y(), p.Position.Z(), env.World.System.Teleports())
		return nil
	})

	r.Register("save", "save: write preferences and portal pairs to the config file", nil, func([]string) error {
		env.Config.World.Pairs = pairs(env.World)
		if err := engineconfig.Save(env.ConfigPath, *env.Config); err != nil {
			return err
		}
		env.printf("saved %s", env.ConfigPath)
		return nil
	})
}

// pairs lists the current links, each once, in registry order.
func pairs(w *world.World) [][2]string {
	var out [][2]string
	seen := make(map[string]bool)
	for _, s := range w.Portals.All() {
		if !s.HasPartner() || seen[s.Partner()] {
			continue
		}
		seen[s.ID] = true
		out = append(out, [2]string{s.ID, s.Partner()})
	}
	return out
}

func toggle(cur bool, args []string) (bool, error) {
	if len(args) == 0 {
		return !cur, nil
	}
	switch strings.ToLower(args[0]) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return cur, fmt.Errorf("want on or off, got %q", args[0])
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
