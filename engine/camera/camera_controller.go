package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/common"
)

// CameraController turns raw window input into camera motion. The window's key and
// mouse callbacks feed the controller; Apply is called once per frame to move and turn
// the attached camera.
type CameraController interface {
	// KeyDown records that a key was pressed.
	//
	// Parameters:
	//   - keyCode: the GLFW key code (see common.KeyW and friends)
	KeyDown(keyCode uint32)

	// KeyUp records that a key was released.
	//
	// Parameters:
	//   - keyCode: the GLFW key code
	KeyUp(keyCode uint32)

	// MouseMove records the cursor position. Deltas are accumulated between Apply calls.
	//
	// Parameters:
	//   - x, y: cursor position in window pixels
	MouseMove(x, y int32)

	// ResetCursor forgets the last cursor position so the next MouseMove produces no delta.
	// Call it when mouse look starts.
	ResetCursor()

	// Apply moves and turns the camera using the input gathered since the last call.
	//
	// Parameters:
	//   - cam: the camera to drive
	//   - dt: elapsed time in seconds
	Apply(cam Camera, dt float32)
}

type flyControllerImpl struct {
	mu *sync.Mutex

	pressed map[uint32]bool

	lastX, lastY   int32
	haveCursor     bool
	pendingX       float32
	pendingY       float32
	mouseLookScale float32
}

var _ CameraController = &flyControllerImpl{}

// NewFlyController creates a free-flight controller: W/S move forward and back, A/D strafe,
// Space and Q rise and sink, and mouse motion turns the camera.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the new controller
func NewFlyController(options ...CameraControllerOption) CameraController {
	fc := &flyControllerImpl{
		mu:             &sync.Mutex{},
		pressed:        make(map[uint32]bool),
		mouseLookScale: 1.0,
	}
	for _, opt := range options {
		opt(fc)
	}
	return fc
}

func (fc *flyControllerImpl) KeyDown(keyCode uint32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.pressed[keyCode] = true
}

func (fc *flyControllerImpl) KeyUp(keyCode uint32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	delete(fc.pressed, keyCode)
}

func (fc *flyControllerImpl) MouseMove(x, y int32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.haveCursor {
		fc.pendingX += float32(x - fc.lastX)
		fc.pendingY += float32(y - fc.lastY)
	}
	fc.lastX, fc.lastY = x, y
	fc.haveCursor = true
}

func (fc *flyControllerImpl) ResetCursor() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.haveCursor = false
}

func (fc *flyControllerImpl) Apply(cam Camera, dt float32) {
	fc.mu.Lock()
	forward := fc.axis(common.KeyW, common.KeyS)
	right := fc.axis(common.KeyD, common.KeyA)
	up := fc.axis(common.KeySpace, common.KeyQ)
	dx, dy := fc.pendingX*fc.mouseLookScale, fc.pendingY*fc.mouseLookScale
	fc.pendingX, fc.pendingY = 0, 0
	fc.mu.Unlock()

	if forward != 0 || right != 0 || up != 0 {
		cam.Move(forward, right, up, dt)
	}
	if dx != 0 || dy != 0 {
		cam.Look(dx, dy)
	}
}

// axis returns +1, -1 or 0 for a pair of opposing keys. Caller must hold the mutex.
func (fc *flyControllerImpl) axis(positive, negative uint32) float32 {
	var v float32
	if fc.pressed[positive] {
		v++
	}
	if fc.pressed[negative] {
		v--
	}
	return v
}
