// Package appconfig loads the glfwcanvas configuration file.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"glfwcanvas/internal/color"
	"glfwcanvas/internal/graphics"
	"glfwcanvas/internal/logger"
)

// DefaultPath is the config file path, relative to the working directory.
const DefaultPath = "config/glfwcanvas.yaml"

// EnvPrefix prefixes every environment override key.
const EnvPrefix = "GLFWCANVAS_"

// Backend names.
const (
	BackendGLFW     = "glfw"
	BackendRaylib   = "raylib"
	BackendHeadless = "headless"
)

// Idle modes used when no target frame rate is set.
const (
	IdleWait = graphics.IdleWait
	IdlePoll = graphics.IdlePoll
)

// Window is the initial window geometry.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Debug selects the overlay lines.
type Debug struct {
	ShowFPS      bool   `yaml:"show_fps"`
	ShowMemAlloc bool   `yaml:"show_memalloc"`
	ShowInput    bool   `yaml:"show_input"`
	Font         string `yaml:"font,omitempty"` // family or path under assets/fonts; empty = Go Regular
}

// Log configures the process logger.
type Log struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty = stderr only
}

// Config is the whole file.
type Config struct {
	Window     Window `yaml:"window"`
	Backend    string `yaml:"backend"`
	Surface    string `yaml:"surface"`    // auto, resize, recreate
	Background string `yaml:"background"` // 0xRRGGBB[AA], #RRGGBB[AA] or decimal
	TargetFPS  int    `yaml:"target_fps"` // 0 = no cap
	Idle       string `yaml:"idle"`
	Debug      Debug  `yaml:"debug"`
	Log        Log    `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window:     Window{Width: 830, Height: 450, Title: "Test window"},
		Backend:    BackendGLFW,
		Surface:    "auto",
		Background: "0xEAEAEA",
		Idle:       IdleWait,
		Log:        Log{Level: "info", File: logger.DefaultFile},
	}
}

// Load reads path over Default. A missing file returns the defaults and no
// error; a malformed one returns an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BackgroundValue returns the packed background color.
func (c Config) BackgroundValue() (uint64, error) {
	return color.Parse(c.Background)
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	switch c.Backend {
	case BackendGLFW, BackendRaylib, BackendHeadless:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.Surface {
	case "", "auto", "resize", "recreate":
	default:
		return fmt.Errorf("unknown surface strategy %q", c.Surface)
	}
	switch c.Idle {
	case "", IdleWait, IdlePoll:
	default:
		return fmt.Errorf("unknown idle mode %q", c.Idle)
	}
	if c.TargetFPS < 0 {
		return fmt.Errorf("target_fps must not be negative, got %d", c.TargetFPS)
	}
	if _, err := c.BackgroundValue(); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Lookup finds an environment value by key.
type Lookup func(key string) (string, bool)

// EnvLookup checks the process environment first, then dotenv.
func EnvLookup(dotenv map[string]string) Lookup {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

// ApplyEnv overrides cfg fields from GLFWCANVAS_* keys: WIDTH, HEIGHT,
// TITLE, BACKEND, SURFACE, BACKGROUND, TARGET_FPS, IDLE, SHOW_FPS,
// SHOW_MEMALLOC, SHOW_INPUT, FONT, LOG_LEVEL and LOG_FILE.
func ApplyEnv(cfg *Config, lookup Lookup) error {
	strs := map[string]*string{
		"TITLE":      &cfg.Window.Title,
		"BACKEND":    &cfg.Backend,
		"SURFACE":    &cfg.Surface,
		"BACKGROUND": &cfg.Background,
		"IDLE":       &cfg.Idle,
		"FONT":       &cfg.Debug.Font,
		"LOG_LEVEL":  &cfg.Log.Level,
		"LOG_FILE":   &cfg.Log.File,
	}
	for k, p := range strs {
		if v, ok := lookup(EnvPrefix + k); ok {
			*p = strings.TrimSpace(v)
		}
	}

	ints := map[string]*int{
		"WIDTH":      &cfg.Window.Width,
		"HEIGHT":     &cfg.Window.Height,
		"TARGET_FPS": &cfg.TargetFPS,
	}
	for k, p := range ints {
		v, ok := lookup(EnvPrefix + k)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
		}
		*p = n
	}

	bools := map[string]*bool{
		"SHOW_FPS":      &cfg.Debug.ShowFPS,
		"SHOW_MEMALLOC": &cfg.Debug.ShowMemAlloc,
		"SHOW_INPUT":    &cfg.Debug.ShowInput,
	}
	for k, p := range bools {
		v, ok := lookup(EnvPrefix + k)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
		}
		*p = b
	}
	return nil
}
