package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var errNotCreated = errors.New("window was never created")

// glfwWindow is the GLFW side of an engineWindow.
type glfwWindow struct {
	handle *glfw.Window

	// stopped is set by Escape or RequestClose; destroyed after Close.
	stopped   bool
	destroyed bool
}

func newPlatformWindow(w *engineWindow) error {
	// GLFW calls must stay on the creating thread for the life of the window.
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}

	// The surface is created by WebGPU, not by a GL context.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	handle, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create glfw window: %w", err)
	}
	gw := &glfwWindow{handle: handle}
	w.internalWindow = gw

	handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape {
			if action == glfw.Press {
				platformRequestClose(w)
			}
			return
		}
		if action == glfw.Release {
			if w.onKeyUp != nil {
				w.onKeyUp(uint32(key))
			}
			return
		}
		if w.onKeyDown != nil {
			w.onKeyDown(uint32(key))
		}
	})

	handle.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(float32(yoff))
		}
	})

	handle.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if w.onMouseButton == nil || action == glfw.Repeat {
			return
		}
		mb, ok := mouseButtonFromGLFW(button)
		if !ok {
			return
		}
		x, y := handle.GetCursorPos()
		w.onMouseButton(mb, action == glfw.Press, int32(x), int32(y))
	})

	handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.onMouseMove != nil {
			w.onMouseMove(int32(x), int32(y))
		}
	})

	// Framebuffer size, not window size: they differ on high-DPI screens and the
	// surface is configured in pixels.
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = width, height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	handle.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)
	w.width, w.height = handle.GetFramebufferSize()
	return nil
}

// mouseButtonFromGLFW maps the three reported buttons. Extra buttons are dropped.
func mouseButtonFromGLFW(b glfw.MouseButton) (MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return MouseButtonLeft, true
	case glfw.MouseButtonRight:
		return MouseButtonRight, true
	case glfw.MouseButtonMiddle:
		return MouseButtonMiddle, true
	default:
		return 0, false
	}
}

func glfwOf(w *engineWindow) *glfwWindow {
	gw, _ := w.internalWindow.(*glfwWindow)
	return gw
}

func platformSetTitle(w *engineWindow, title string) {
	if gw := glfwOf(w); gw != nil && !gw.destroyed {
		gw.handle.SetTitle(title)
	}
}

func platformSetCursorCaptured(w *engineWindow, captured bool) {
	gw := glfwOf(w)
	if gw == nil || gw.destroyed {
		return
	}
	mode := glfw.CursorNormal
	if captured {
		mode = glfw.CursorDisabled
	}
	gw.handle.SetInputMode(glfw.CursorMode, mode)
}

// platformGetSurfaceDescriptor uses wgpuglfw, which picks the native handle for
// Windows, X11, Wayland or Cocoa.
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw := glfwOf(w)
	if gw == nil || gw.destroyed {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.handle)
}

func platformIsRunningCheck(w *engineWindow) bool {
	gw := glfwOf(w)
	if gw == nil || gw.stopped || gw.destroyed {
		return false
	}
	return !gw.handle.ShouldClose()
}

func platformRequestClose(w *engineWindow) {
	gw := glfwOf(w)
	if gw == nil {
		return
	}
	gw.stopped = true
	if !gw.destroyed {
		gw.handle.SetShouldClose(true)
	}
}

func platformCloseWindow(w *engineWindow) error {
	gw := glfwOf(w)
	if gw == nil {
		return errNotCreated
	}
	if gw.destroyed {
		return nil
	}
	gw.stopped, gw.destroyed = true, true
	gw.handle.Destroy()
	glfw.Terminate()
	return nil
}

// platformProcessMessages drains pending events without blocking and reports
// whether the loop should go on.
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
