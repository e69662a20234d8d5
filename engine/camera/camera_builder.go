package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a function that configures a Camera during construction.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's initial world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.transform.SetPosition(mgl32.Vec3{x, y, z})
	}
}

// WithOrientation sets the camera's initial pitch and yaw in radians.
//
// Parameters:
//   - pitch: rotation about the right axis, positive looks down
//   - yaw: rotation about world up, positive turns right
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's orientation
func WithOrientation(pitch, yaw float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pitch = mgl32.Clamp(pitch, -pitchLimit, pitchLimit)
		c.yaw = yaw
		c.transform.SetPitchYawRoll(c.pitch, c.yaw, 0)
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithClipPlanes sets the camera's near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithMoveSpeed sets how many world units per second Move covers at full input.
//
// Parameters:
//   - speed: movement speed in units per second
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's move speed
func WithMoveSpeed(speed float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.moveSpeed = speed
	}
}

// WithLookSpeed sets the radians turned per unit of mouse delta in Look.
//
// Parameters:
//   - speed: look sensitivity in radians per pixel
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's look speed
func WithLookSpeed(speed float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lookSpeed = speed
	}
}
