package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"glfwcanvas/internal/appconfig"
	"glfwcanvas/internal/graphics"
	"glfwcanvas/internal/window/headless"
)

// snapshot renders frames on the headless backend and writes the last one
// to out as PNG.
func snapshot(configPath, out string, frames int, stderr io.Writer) error {
	if frames <= 0 {
		return fmt.Errorf("snapshot: frames must be positive, got %d", frames)
	}
	cfg, err := loadConfig(configPath, appconfig.BackendHeadless)
	if err != nil {
		return err
	}
	cfg.Log.File = ""
	log, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer log.Close()

	b := headless.New(0)
	rt, a, err := open(cfg, b, log.Logger)
	if err != nil {
		return err
	}
	defer a.Destroy()

	n, err := graphics.Run(rt, a, drawCursor, graphics.Options{
		Idle:      graphics.IdlePoll,
		Overlay:   newOverlay(cfg, log.Logger),
		MaxFrames: frames,
	})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := a.Context().EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info("snapshot written", "path", out, "frames", n)
	return nil
}
