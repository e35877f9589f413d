package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"portal-engine/internal/engineconfig"
	"portal-engine/internal/env"
	"portal-engine/internal/logger"
	"portal-engine/internal/replay"
	"portal-engine/internal/world"
)

func main() {
	if err := env.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defaultCfg := engineconfig.EngineConfigPath
	if p := os.Getenv(engineconfig.EnvConfig); p != "" {
		defaultCfg = p
	}
	cfgPath := flag.String("config", defaultCfg, "engine config file")
	tracePath := flag.String("trace", "", "input trace to replay (yaml)")
	level := flag.String("level", "", "log level, overrides the config")
	flag.Parse()

	if err := run(*cfgPath, *tracePath, *level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgPath, tracePath, level string) error {
	if tracePath == "" {
		return fmt.Errorf("replay: -trace is required")
	}
	cfg, err := engineconfig.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := engineconfig.ApplyEnv(&cfg, os.Getenv); err != nil {
		return err
	}
	if level == "" {
		level = cfg.Prefs.LogLevel
	}
	log, err := logger.New(logger.Options{Path: cfg.Prefs.LogPath, Level: level})
	if err != nil {
		return err
	}
	defer log.Close()

	tr, err := replay.LoadTrace(tracePath)
	if err != nil {
		return err
	}
	w, err := world.Build(cfg, log.Zap())
	if err != nil {
		return err
	}
	res, err := replay.Run(w, tr, cfg.Prefs.Fovy, log.Zap())
	if err != nil {
		return err
	}
	for _, ev := range res.Events {
		log.Zap().Debug("teleport", zap.String("from", ev.From), zap.String("to", ev.To))
	}
	fmt.Printf("%016x %d frames %d teleports %s\n", res.Digest, res.Frames, len(res.Events), res.LastScene)
	return nil
}
