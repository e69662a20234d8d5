package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// pitchLimit keeps the camera from looking exactly straight up or down, where the
// look-to view matrix would lose its up reference.
const pitchLimit = math.Pi/2 - 0.01

type cameraImpl struct {
	mu *sync.Mutex

	transform transform.Transform

	fov    float32
	aspect float32
	near   float32
	far    float32

	moveSpeed float32
	lookSpeed float32
	pitch     float32
	yaw       float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4
}

// Camera defines the interface for the camera system.
// The camera owns a Transform and derives a left-handed view matrix from its position,
// forward and up vectors, plus a perspective projection with WebGPU [0, 1] depth.
// Its world position anchors the directional light cascades.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Transform returns the transform that places and orients the camera.
	//
	// Returns:
	//   - transform.Transform: the camera's transform
	Transform() transform.Transform

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the view matrix computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the projection matrix computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view as computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Move translates the camera along its own axes, scaled by the move speed and dt.
	//
	// Parameters:
	//   - forward: amount along the forward axis
	//   - right: amount along the right axis
	//   - up: amount along the world up axis
	//   - dt: elapsed time in seconds
	Move(forward, right, up, dt float32)

	// Look turns the camera by mouse deltas scaled by the look speed. Pitch is clamped
	// just short of straight up and straight down.
	//
	// Parameters:
	//   - dx: horizontal delta, positive turns right
	//   - dy: vertical delta, positive turns down
	Look(dx, dy float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// Update recomputes the view and projection matrices from the current transform.
	// Should be called once per frame after input has been applied.
	Update()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at the origin looking down +Z with default perspective
// settings.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:        &sync.Mutex{},
		transform: transform.NewTransform(),
		fov:       mgl32.DegToRad(60),
		aspect:    1.0,
		near:      0.1,
		far:       500.0,
		moveSpeed: 10.0,
		lookSpeed: 0.003,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transform.Position()
}

func (c *cameraImpl) Transform() transform.Transform {
	return c.transform
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Move(forward, right, up, dt float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	step := c.moveSpeed * dt
	c.transform.MoveRelative(mgl32.Vec3{right * step, 0, forward * step})
	c.transform.MoveAbsolute(mgl32.Vec3{0, up * step, 0})
}

func (c *cameraImpl) Look(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.yaw += dx * c.lookSpeed
	c.pitch = mgl32.Clamp(c.pitch+dy*c.lookSpeed, -pitchLimit, pitchLimit)
	c.transform.SetPitchYawRoll(c.pitch, c.yaw, 0)
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = common.LookToLH(c.transform.Position(), c.transform.Forward(), c.transform.Up())
	c.projectionMatrix = common.PerspectiveFovLH(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
