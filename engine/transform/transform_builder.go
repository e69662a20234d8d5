package transform

import "github.com/go-gl/mathgl/mgl32"

// TransformBuilderOption is a function that configures a Transform instance during construction.
type TransformBuilderOption func(*transformImpl)

// WithPosition sets the initial world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - TransformBuilderOption: a function that applies the position option to a transformImpl
func WithPosition(x, y, z float32) TransformBuilderOption {
	return func(t *transformImpl) {
		t.SetPosition(mgl32.Vec3{x, y, z})
	}
}

// WithScale sets the initial per-axis scale.
//
// Parameters:
//   - x, y, z: scale factors
//
// Returns:
//   - TransformBuilderOption: a function that applies the scale option to a transformImpl
func WithScale(x, y, z float32) TransformBuilderOption {
	return func(t *transformImpl) {
		t.SetScale(mgl32.Vec3{x, y, z})
	}
}

// WithRotation sets the initial orientation.
//
// Parameters:
//   - q: orientation quaternion (normalized before storing)
//
// Returns:
//   - TransformBuilderOption: a function that applies the rotation option to a transformImpl
func WithRotation(q mgl32.Quat) TransformBuilderOption {
	return func(t *transformImpl) {
		t.SetRotation(q)
	}
}
