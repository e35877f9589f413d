package engineconfig

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfigPath is the path to the engine config file, relative to the process working directory.
const EngineConfigPath = "config/engine.yaml"

// Config is everything read from engine.yaml: engine preferences and the world to build.
type Config struct {
	Prefs Prefs `yaml:"prefs"`
	World World `yaml:"world"`
}

// Prefs holds engine-only preferences (debug overlays, grid, lens, logging). Persisted across runs.
type Prefs struct {
	Fullscreen       bool          `yaml:"fullscreen"`
	ShowFPS          bool          `yaml:"show_fps"`
	ShowMemAlloc     bool          `yaml:"show_memalloc"`
	ShowPortalStats  bool          `yaml:"show_portal_stats"`
	GridVisible      bool          `yaml:"grid_visible"`
	TargetFPS        int           `yaml:"target_fps"`
	Fovy             float64       `yaml:"fovy"`
	LogLevel         string        `yaml:"log_level"`
	LogPath          string        `yaml:"log_path"`
	Font             string        `yaml:"font,omitempty"` // name or path of a .ttf/.otf; empty uses raylib's default
	TeleportCooldown time.Duration `yaml:"teleport_cooldown"`
}

// Default returns the preferences used when no config file exists, together with the demo world.
func Default() Config {
	return Config{
		Prefs: Prefs{
			Fullscreen:       true,
			GridVisible:      true,
			TargetFPS:        60,
			Fovy:             60,
			LogLevel:         "info",
			LogPath:          "logs/portal.log",
			TeleportCooldown: 150 * time.Millisecond,
		},
		World: DemoWorld(),
	}
}

// Load reads the config at path. A missing file yields Default() and no error. A file that
// does not parse yields Default() and the parse error so the caller can report it.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("engineconfig: %w", err)
	}
	defer f.Close()
	c, err := Decode(f)
	if err != nil {
		return Default(), fmt.Errorf("engineconfig: %s: %w", path, err)
	}
	return c, nil
}

// Decode reads YAML from r. Prefs are read on top of Default().Prefs. The world is read
// as written, with nothing inherited from the demo world; a file without a world
// section gets DemoWorld(). Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	c.World = World{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Default(), err
	}
	if c.World.empty() {
		c.World = DemoWorld()
	}
	return c, nil
}

// Save writes c to path as YAML, creating the config directory if needed.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("engineconfig: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("engineconfig: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Environment variables read by ApplyEnv and the commands.
const (
	EnvConfig     = "PORTAL_CONFIG"
	EnvLogLevel   = "PORTAL_LOG_LEVEL"
	EnvLogPath    = "PORTAL_LOG_PATH"
	EnvFont       = "PORTAL_FONT"
	EnvFullscreen = "PORTAL_FULLSCREEN"
)

// ApplyEnv overrides preferences from the environment. Unset or empty variables leave
// the preference alone.
func ApplyEnv(c *Config, getenv func(string) string) error {
	if v := getenv(EnvLogLevel); v != "" {
		c.Prefs.LogLevel = v
	}
	if v := getenv(EnvLogPath); v != "" {
		c.Prefs.LogPath = v
	}
	if v := getenv(EnvFont); v != "" {
		c.Prefs.Font = v
	}
	if v := getenv(EnvFullscreen); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("engineconfig: %s=%q: %w", EnvFullscreen, v, ErrBadValue)
		}
		c.Prefs.Fullscreen = b
	}
	return nil
}
