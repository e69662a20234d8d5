package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*flyControllerImpl)

// WithMouseLookScale scales accumulated mouse deltas before they reach Camera.Look.
// Negative values invert the axis.
//
// Parameters:
//   - scale: multiplier applied to both mouse axes
//
// Returns:
//   - CameraControllerOption: functional option to set the mouse look scale
func WithMouseLookScale(scale float32) CameraControllerOption {
	return func(fc *flyControllerImpl) {
		fc.mouseLookScale = scale
	}
}
