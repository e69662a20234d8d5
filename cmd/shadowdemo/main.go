// Command shadowdemo renders a small scene lit by a directional, a spot and two point lights,
// all casting shadows through the shadow system.
//
// Controls: W/A/S/D, Space and Q fly; hold the right mouse button to look around; 1-4 toggle
// shadow casting per light; R switches the shadow map resolution; P logs shadow stats;
// L pauses the light animation; Esc quits.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-shadow/engine"
	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/config"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/Carmen-Shannon/oxy-shadow/engine/window"
)

var configPath = flag.String("config", "cmd/shadowdemo/shadowdemo.toml", "settings file (defaults are used when missing)")

func main() {
	flag.Parse()
	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	win, err := window.NewWindow(cfg.WindowOptions()...)
	if err != nil {
		log.Fatalf("failed to open window: %v", err)
	}
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		append(cfg.RendererOptions(), renderer.WithLogger(logger))...)

	// ── Shadows ─────────────────────────────────────────────────────────
	shadows, err := shadow.NewShadowSystem(r, append(cfg.ShadowOptions(), shadow.WithLogger(logger))...)
	if err != nil {
		log.Fatalf("failed to create shadow system: %v", err)
	}

	// ── Camera + Scene ──────────────────────────────────────────────────
	cam := camera.NewCamera(cfg.CameraOptions(float32(win.Width()) / float32(win.Height()))...)
	controller := camera.NewFlyController()

	d := newDemo(cfg, cam, controller, shadows, logger)
	for _, m := range d.meshes {
		if err := r.UploadMesh(m); err != nil {
			log.Fatalf("failed to upload mesh %s: %v", m.Name(), err)
		}
	}

	// ── Input ───────────────────────────────────────────────────────────
	win.SetKeyDownCallback(func(keyCode uint32) {
		controller.KeyDown(keyCode)
		d.keyDown(keyCode)
	})
	win.SetKeyUpCallback(controller.KeyUp)
	win.SetMouseButtonCallback(func(button window.MouseButton, pressed bool, x, y int32) {
		if button != window.MouseButtonRight {
			return
		}
		d.looking = pressed
		win.SetCursorCaptured(pressed)
		if pressed {
			controller.ResetCursor()
		}
	})
	win.SetMouseMoveCallback(func(x, y int32) {
		if d.looking {
			controller.MouseMove(x, y)
		}
	})

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithShadowSystem(shadows),
		engine.WithLogger(logger),
		engine.WithProfiling(cfg.Renderer.Profiling),
		engine.WithRenderFrameLimit(cfg.Renderer.FrameLimit),
		engine.WithFrameCallback(d.frame),
		engine.WithResizeCallback(func(width, height int) {
			cam.SetAspect(float32(width) / float32(height))
		}),
	)

	runErr := eng.Run()

	shadows.Release()
	for _, m := range d.meshes {
		m.Release()
	}
	r.Release()
	if err := win.Close(); err != nil {
		logger.Printf("failed to close window: %v", err)
	}

	if runErr != nil {
		log.Fatalf("shadow demo failed: %v", runErr)
	}
}
