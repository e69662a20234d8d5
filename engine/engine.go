package engine

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-shadow/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/Carmen-Shannon/oxy-shadow/engine/window"
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine: no window")

// FrameFunc advances the application by dt seconds and returns the scene to draw.
// Returning an error stops the engine.
type FrameFunc func(dt float32) (renderer.Scene, error)

// FrameRenderer is the part of renderer.Renderer the engine drives each frame.
type FrameRenderer interface {
	Resize(width, height int)
	DrawScene(scene renderer.Scene) error
	Present()
}

// shadowCaster is implemented by objects that can opt out of casting shadows.
type shadowCaster interface {
	CastsShadow() bool
}

// engine implements the Engine interface.
// Frames run on the window thread: every message loop iteration renders one frame.
type engine struct {
	window   window.Window
	renderer FrameRenderer
	shadows  shadow.ShadowSystem
	logger   *log.Logger
	now      func() time.Time

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback  func(dt float32) (renderer.Scene, error)
	resizeCallback func(width, height int)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time
	err              error
}

// Engine is the main entry point for the engine.
// It owns the frame order: the frame callback builds the scene, the shadow system refreshes
// its slots and depth maps, and the renderer draws and presents the lit scene.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameCallback registers the function called at the start of each frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds and returning the scene to draw
	SetFrameCallback(callback FrameFunc)

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run processes window messages and renders frames until the window closes or a frame fails.
	//
	// Returns:
	//   - error: the first frame error, or nil when the window was closed
	Run() error

	// Quit asks the window to close, which ends Run after the current frame.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, shadows, profiling)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		logger: log.New(os.Stderr, "", log.LstdFlags),
		now:    time.Now,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(e.logger)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if width <= 0 || height <= 0 {
				return
			}
			if e.renderer != nil {
				e.renderer.Resize(width, height)
			}
			if e.resizeCallback != nil {
				e.resizeCallback(width, height)
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback FrameFunc) {
	e.frameCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}

	e.lastFrame = e.now()
	e.err = nil
	e.window.SetUpdateCallback(func() {
		start := e.now()
		dt := float32(start.Sub(e.lastFrame).Seconds())
		e.lastFrame = start

		if err := e.frame(dt); err != nil {
			e.err = err
			e.logger.Printf("[Engine] stopping: %v", err)
			e.Quit()
			return
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	})
	e.window.ProcessMessages()
	return e.err
}

func (e *engine) Quit() {
	if e.window != nil {
		e.window.RequestClose()
	}
}

// frame runs one frame: build the scene, refresh the shadow maps, draw and present.
func (e *engine) frame(dt float32) error {
	if e.frameCallback == nil {
		return nil
	}

	scene, err := e.frameCallback(dt)
	if err != nil {
		return fmt.Errorf("frame callback failed: %w", err)
	}

	var stats shadow.Stats
	if e.shadows != nil {
		if err := e.shadows.Update(scene.Lights); err != nil {
			return fmt.Errorf("failed to update shadow slots: %w", err)
		}

		var viewer shadow.Viewer
		if scene.Camera != nil {
			viewer = scene.Camera
		}
		if err := e.shadows.Render(scene.Lights, shadowCasters(scene.Objects), viewer); err != nil {
			return fmt.Errorf("failed to render shadow maps: %w", err)
		}
		scene.Shadows = e.shadows
		stats = e.shadows.Stats()
	}

	if e.renderer != nil {
		if err := e.renderer.DrawScene(scene); err != nil {
			return fmt.Errorf("failed to draw scene: %w", err)
		}
		e.renderer.Present()
	}

	if e.profilingEnabled {
		e.profiler.Tick(stats)
	}
	return nil
}

// shadowCasters returns the enabled objects that cast shadows.
func shadowCasters(objects []renderer.Drawable) []shadow.Entity {
	casters := make([]shadow.Entity, 0, len(objects))
	for _, o := range objects {
		if !o.Enabled() {
			continue
		}
		if sc, ok := o.(shadowCaster); ok && !sc.CastsShadow() {
			continue
		}
		casters = append(casters, o)
	}
	return casters
}
