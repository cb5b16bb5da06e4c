package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"glfwcanvas/internal/app"
	"glfwcanvas/internal/appconfig"
	"glfwcanvas/internal/commands"
	"glfwcanvas/internal/debug"
	"glfwcanvas/internal/env"
	"glfwcanvas/internal/fonts"
	"glfwcanvas/internal/graphics"
	"glfwcanvas/internal/input"
	"glfwcanvas/internal/logger"
	"glfwcanvas/internal/window"
	"glfwcanvas/internal/window/glfwwin"
	"glfwcanvas/internal/window/headless"
	"glfwcanvas/internal/window/raylibwin"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes one subcommand and returns the process exit code.
func run(args []string, stderr io.Writer) int {
	reg := commands.NewRegistry("glfwcanvas")

	var configPath, backendName string
	runFlags := flag.NewFlagSet("run", flag.ContinueOnError)
	runFlags.SetOutput(stderr)
	runFlags.StringVar(&configPath, "config", appconfig.DefaultPath, "config file")
	runFlags.StringVar(&backendName, "backend", "", "windowing backend (glfw, raylib, headless)")
	reg.Register("run", "open the window and draw until it is closed", runFlags, func() error {
		return runWindow(configPath, backendName, stderr)
	})

	var snapConfig, snapOut string
	var snapFrames int
	snapFlags := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	snapFlags.SetOutput(stderr)
	snapFlags.StringVar(&snapConfig, "config", appconfig.DefaultPath, "config file")
	snapFlags.StringVar(&snapOut, "o", "glfwcanvas.png", "output PNG")
	snapFlags.IntVar(&snapFrames, "frames", 1, "frames to render before writing")
	reg.Register("snapshot", "render offscreen and write the last frame as PNG", snapFlags, func() error {
		return snapshot(snapConfig, snapOut, snapFrames, stderr)
	})

	var cfgOut string
	cfgFlags := flag.NewFlagSet("config", flag.ContinueOnError)
	cfgFlags.SetOutput(stderr)
	cfgFlags.StringVar(&cfgOut, "o", appconfig.DefaultPath, "where to write the default config")
	reg.Register("config", "write the default config file", cfgFlags, func() error {
		return appconfig.Save(cfgOut, appconfig.Default())
	})

	reg.SetDefault("run")
	err := reg.Execute(args)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, commands.ErrUnknownCommand):
		fmt.Fprintln(stderr, err)
		reg.Usage(stderr)
		return 2
	default:
		fmt.Fprintln(stderr, "glfwcanvas:", err)
		return 1
	}
}

// loadConfig reads the config file, applies GLFWCANVAS_* overrides from the
// environment and .env, then the backend flag.
func loadConfig(path, backend string) (appconfig.Config, error) {
	cfg, err := appconfig.Load(path)
	if err != nil {
		return cfg, err
	}
	dotenv, err := env.Read(".env")
	if err != nil {
		return cfg, err
	}
	if err := appconfig.ApplyEnv(&cfg, appconfig.EnvLookup(dotenv)); err != nil {
		return cfg, err
	}
	if backend != "" {
		cfg.Backend = backend
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg appconfig.Config, stderr io.Writer) (*logger.Logger, error) {
	lvl, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Options{Level: lvl, File: cfg.Log.File, Stderr: stderr})
	if err != nil {
		return nil, err
	}
	gg.SetLogger(log.Logger)
	return log, nil
}

func newBackend(name string, log *slog.Logger) (window.Backend, error) {
	switch name {
	case appconfig.BackendGLFW:
		return glfwwin.New(log), nil
	case appconfig.BackendRaylib:
		return raylibwin.New(log), nil
	case appconfig.BackendHeadless:
		return headless.New(0), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

// open starts the runtime and creates the configured window.
func open(cfg appconfig.Config, b window.Backend, log *slog.Logger) (*app.Runtime, *app.App, error) {
	rt, err := app.NewRuntime(b, log)
	if err != nil {
		return nil, nil, err
	}
	strategy, err := app.ResolveStrategy(cfg.Surface, b)
	if err != nil {
		rt.Terminate()
		return nil, nil, err
	}
	a, err := rt.Create(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, app.WithStrategy(strategy))
	if err != nil {
		rt.Terminate()
		return nil, nil, err
	}
	bg, err := cfg.BackgroundValue()
	if err == nil {
		err = a.SetBackgroundColor(bg)
	}
	if err != nil {
		_ = a.Destroy()
		return nil, nil, err
	}
	return rt, a, nil
}

func newOverlay(cfg appconfig.Config, log *slog.Logger) *debug.Overlay {
	d := cfg.Debug
	var src *text.FontSource
	if d.ShowFPS || d.ShowMemAlloc || d.ShowInput {
		var path string
		var err error
		src, path, err = fonts.Load(d.Font, fonts.BaseDirs())
		if err != nil {
			log.Warn("overlay font unavailable, using Go Regular", "font", d.Font, "err", err)
			src, _ = fonts.Fallback()
		}
		if src != nil {
			log.Debug("overlay font", "path", path, "name", src.Name())
		}
	}
	o := debug.New(src)
	o.SetShowFPS(d.ShowFPS)
	o.SetShowMemAlloc(d.ShowMemAlloc)
	o.SetShowInput(d.ShowInput)
	return o
}

// drawCursor marks the pointer position.
func drawCursor(dc *gg.Context, in input.State) {
	dc.SetRGBA(0.2, 0.2, 0.2, 1)
	dc.SetLineWidth(1)
	dc.DrawCircle(in.CursorX, in.CursorY, 6)
	_ = dc.Stroke()
}

func runWindow(configPath, backendName string, stderr io.Writer) error {
	cfg, err := loadConfig(configPath, backendName)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer log.Close()

	b, err := newBackend(cfg.Backend, log.Logger)
	if err != nil {
		return err
	}
	rt, a, err := open(cfg, b, log.Logger)
	if err != nil {
		log.Error("startup failed", "backend", cfg.Backend, "err", err)
		return err
	}

	opts := graphics.Options{
		TargetFPS: cfg.TargetFPS,
		Idle:      cfg.Idle,
		Overlay:   newOverlay(cfg, log.Logger),
	}
	if cfg.Backend == appconfig.BackendHeadless {
		// Nothing ever closes a headless window.
		opts.MaxFrames = 1
	}
	frames, runErr := graphics.Run(rt, a, drawCursor, opts)
	log.Info("window closed", "frames", frames)
	if err := a.Destroy(); err != nil {
		log.Error("destroy failed", "err", err)
		return errors.Join(runErr, err)
	}
	return runErr
}
