package game_object

import (
	"github.com/Carmen-Shannon/oxy-shadow/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithCastsShadow sets whether the GameObject is drawn into shadow maps.
//
// Parameters:
//   - casts: true to occlude light
//
// Returns:
//   - GameObjectBuilderOption: functional option to set shadow casting
func WithCastsShadow(casts bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.castsShadow = casts
	}
}

// WithMesh sets the geometry drawn for the GameObject.
//
// Parameters:
//   - m: the mesh
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the mesh
func WithMesh(m mesh.Mesh) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mesh = m
	}
}

// WithPosition sets the initial world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform.SetPosition(mgl32.Vec3{x, y, z})
	}
}

// WithScale sets the initial per-axis scale.
//
// Parameters:
//   - x, y, z: scale factors
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform.SetScale(mgl32.Vec3{x, y, z})
	}
}

// WithRotation sets the initial orientation from pitch, yaw and roll in radians.
//
// Parameters:
//   - pitch, yaw, roll: rotation angles
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(pitch, yaw, roll float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform.SetPitchYawRoll(pitch, yaw, roll)
	}
}

// WithRotationSpeed sets the spin applied each Tick.
//
// Parameters:
//   - rx, ry, rz: radians per second about the local axes
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotationSpeed = mgl32.Vec3{rx, ry, rz}
	}
}

// WithColor sets the object's albedo.
//
// Parameters:
//   - r, g, b: color components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the color
func WithColor(r, g, b float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.color = mgl32.Vec3{r, g, b}
	}
}
