package appconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"glfwcanvas/internal/color"
	"glfwcanvas/internal/graphics"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Window.Width != 830 || cfg.Window.Height != 450 || cfg.Window.Title != "Test window" {
		t.Errorf("Window = %+v", cfg.Window)
	}
	bg, err := cfg.BackgroundValue()
	if err != nil || bg != 0xEAEAEA {
		t.Errorf("BackgroundValue() = %#x, %v", bg, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glfwcanvas.yaml")
	data := "window:\n  title: demo\nbackend: raylib\ntarget_fps: 60\ndebug:\n  show_fps: true\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Window.Title != "demo" || cfg.Window.Width != 830 {
		t.Errorf("Window = %+v", cfg.Window)
	}
	if cfg.Backend != BackendRaylib || cfg.TargetFPS != 60 || !cfg.Debug.ShowFPS {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Background != "0xEAEAEA" {
		t.Errorf("Background = %q, want default", cfg.Background)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("window: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil for malformed YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "glfwcanvas.yaml")
	want := Default()
	want.Backend = BackendHeadless
	want.Debug.Font = "Inter"

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"unknown backend", func(c *Config) { c.Backend = "sdl" }},
		{"unknown surface", func(c *Config) { c.Surface = "stretch" }},
		{"unknown idle", func(c *Config) { c.Idle = "spin" }},
		{"negative fps", func(c *Config) { c.TargetFPS = -1 }},
		{"background above 32 bits", func(c *Config) { c.Background = "0x1FFFFFFFF" }},
		{"background not a number", func(c *Config) { c.Background = "gray" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil")
			}
		})
	}
}

func TestValidateBackgroundWrapsInvalidColor(t *testing.T) {
	cfg := Default()
	cfg.Background = "0x1FFFFFFFF"
	if err := cfg.Validate(); !errors.Is(err, color.ErrInvalidColor) {
		t.Errorf("Validate() error = %v, want ErrInvalidColor", err)
	}
}

func TestApplyEnv(t *testing.T) {
	vars := map[string]string{
		"GLFWCANVAS_WIDTH":      "640",
		"GLFWCANVAS_TITLE":      " env title ",
		"GLFWCANVAS_BACKEND":    "headless",
		"GLFWCANVAS_TARGET_FPS": "30",
		"GLFWCANVAS_SHOW_INPUT": "true",
		"GLFWCANVAS_LOG_FILE":   "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
	cfg := Default()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.Window.Width != 640 || cfg.Window.Height != 450 || cfg.Window.Title != "env title" {
		t.Errorf("Window = %+v", cfg.Window)
	}
	if cfg.Backend != BackendHeadless || cfg.TargetFPS != 30 || !cfg.Debug.ShowInput {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Log.File != "" {
		t.Errorf("Log.File = %q, want empty override", cfg.Log.File)
	}
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	tests := map[string]string{
		"GLFWCANVAS_HEIGHT":   "tall",
		"GLFWCANVAS_SHOW_FPS": "sometimes",
	}
	for k, v := range tests {
		t.Run(k, func(t *testing.T) {
			cfg := Default()
			lookup := func(key string) (string, bool) {
				if key == k {
					return v, true
				}
				return "", false
			}
			if err := ApplyEnv(&cfg, lookup); err == nil {
				t.Error("ApplyEnv() error = nil")
			}
		})
	}
}

func TestEnvLookupPrefersProcessEnvironment(t *testing.T) {
	t.Setenv("GLFWCANVAS_BACKEND", "raylib")
	lookup := EnvLookup(map[string]string{
		"GLFWCANVAS_BACKEND": "headless",
		"GLFWCANVAS_IDLE":    "poll",
	})
	if v, _ := lookup("GLFWCANVAS_BACKEND"); v != "raylib" {
		t.Errorf("BACKEND = %q, want raylib", v)
	}
	if v, ok := lookup("GLFWCANVAS_IDLE"); !ok || v != "poll" {
		t.Errorf("IDLE = %q, %v", v, ok)
	}
	if _, ok := lookup("GLFWCANVAS_NOPE_UNSET"); ok {
		t.Error("lookup found an unset key")
	}
}

func TestIdleModesMatchLoop(t *testing.T) {
	cfg := Default()
	if cfg.Idle != graphics.IdleWait {
		t.Errorf("Default().Idle = %q, want %q", cfg.Idle, graphics.IdleWait)
	}
	cfg.Idle = graphics.IdlePoll
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with %q error = %v", graphics.IdlePoll, err)
	}
}
