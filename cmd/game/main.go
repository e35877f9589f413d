package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
	"portal-engine/internal/commands"
	"portal-engine/internal/compositor"
	"portal-engine/internal/debug"
	"portal-engine/internal/engineconfig"
	"portal-engine/internal/env"
	"portal-engine/internal/fonts"
	"portal-engine/internal/graphics"
	"portal-engine/internal/input"
	"portal-engine/internal/logger"
	"portal-engine/internal/primitives"
	"portal-engine/internal/scene"
	"portal-engine/internal/terminal"
	"portal-engine/internal/world"
)

func main() {
	envErr := env.Load(".env")
	cfgPath := engineconfig.EngineConfigPath
	if p := os.Getenv(engineconfig.EnvConfig); p != "" {
		cfgPath = p
	}
	cfg, cfgErr := engineconfig.Load(cfgPath)
	if err := engineconfig.ApplyEnv(&cfg, os.Getenv); err != nil {
		cfgErr = errors.Join(cfgErr, err)
	}
	log, err := logger.New(logger.Options{Path: cfg.Prefs.LogPath, Level: cfg.Prefs.LogLevel})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Close()
	zl := log.Zap()
	if envErr != nil {
		zl.Warn(".env not loaded", zap.Error(envErr))
	}
	if cfgErr != nil {
		zl.Warn("config not fully applied, using defaults", zap.String("path", cfgPath), zap.Error(cfgErr))
	}

	w, err := world.Build(cfg, zl)
	if err != nil {
		zl.Error("world config rejected, falling back to the demo world", zap.Error(err))
		cfg.World = engineconfig.DemoWorld()
		if w, err = world.Build(cfg, zl); err != nil {
			zl.Fatal("demo world", zap.Error(err))
		}
	}

	reg := commands.NewRegistry()
	commands.RegisterBuiltins(reg, &commands.Env{
		Config:     &cfg,
		ConfigPath: cfgPath,
		World:      w,
		Log:        zl.Named("console"),
	})
	term := terminal.New(log, reg)
	ctl := input.New()
	dbg := debug.New()

	prims := primitives.NewRegistry()
	sky := scene.NewSkybox()
	scenes := make([]*scene.Scene, 0, len(w.Scenes))
	for _, s := range w.Scenes {
		scenes = append(scenes, scene.New(s, w.Portals, prims, sky))
	}
	renderer := graphics.NewRenderer(scenes, zl)
	comp := compositor.New(w.Portals, renderer, zl)
	fontPending := cfg.Prefs.Font != ""

	update := func(dt time.Duration) {
		term.Update()
		ctl.SetEnabled(!term.IsOpen())
		w.Step(ctl.Read(), dt)
	}

	draw := func() {
		if fontPending {
			fontPending = false
			loadFont(cfg.Prefs.Font, term, dbg, zl)
		}
		for _, s := range scenes {
			s.SetGridVisible(cfg.Prefs.GridVisible)
		}

		cam := compositor.NewCamera(w.Player.Pose())
		cam.Fovy = cfg.Prefs.Fovy
		if h := rl.GetScreenHeight(); h > 0 {
			cam.Aspect = float64(rl.GetScreenWidth()) / float64(h)
		}
		renderer.BeginFrame()
		stats := comp.Compose(w.Player, cam)
		renderer.Render(w.Player.Scene(), cam)

		dbg.ShowFPS = cfg.Prefs.ShowFPS
		dbg.ShowMemAlloc = cfg.Prefs.ShowMemAlloc
		dbg.ShowPortalStats = cfg.Prefs.ShowPortalStats
		dbg.Draw(portalStats(w, stats))
		term.Draw()
	}

	graphics.Run(graphics.Options{
		Title:      "portal-engine",
		TargetFPS:  int32(cfg.Prefs.TargetFPS),
		Fullscreen: cfg.Prefs.Fullscreen,
		OnClose: func() {
			renderer.Unload()
			for _, s := range scenes {
				s.Unload()
			}
			prims.Unload()
		},
	}, update, draw)
}

func portalStats(w *world.World, st compositor.Stats) debug.PortalStats {
	ps := debug.PortalStats{
		Compose:   st,
		Teleports: w.System.Teleports(),
		Cooldown:  w.System.Teleporter().Cooldown(),
	}
	if s, ok := w.Scene(w.Player.Scene()); ok {
		ps.Scene = s.Name
	}
	for _, s := range w.Portals.All() {
		if !s.TeleportEnabled() {
			ps.Locked++
		}
	}
	return ps
}

// loadFont resolves name under assets/fonts and hands it to the overlays.
func loadFont(name string, term *terminal.Terminal, dbg *debug.Debug, log *zap.Logger) {
	path, err := fonts.Find(name)
	if err != nil {
		log.Warn("font not found, using default", zap.String("font", name), zap.Error(err))
		return
	}
	f := rl.LoadFont(path)
	if f.Texture.ID == 0 {
		log.Warn("font failed to load", zap.String("path", path))
		return
	}
	term.SetFont(f)
	dbg.SetFont(f)
	log.Info("font loaded", zap.String("path", path))
}
