package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-shadow/engine/mesh"
	"github.com/Carmen-Shannon/oxy-shadow/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// nextID hands out object IDs when none is supplied through WithID.
var nextID atomic.Uint64

type gameObject struct {
	id            uint64
	enabled       atomic.Bool
	castsShadow   bool
	mesh          mesh.Mesh
	transform     transform.Transform
	color         mgl32.Vec3
	rotationSpeed mgl32.Vec3 // radians per second about local X, Y, Z
}

// GameObject defines the interface for a drawable scene entity: a mesh placed in the world
// by a Transform. It is what the shadow system draws into depth maps and what the lit pass
// shades.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// CastsShadow returns whether the object is drawn into shadow maps.
	//
	// Returns:
	//   - bool: true if the object occludes light
	CastsShadow() bool

	// Mesh returns the geometry drawn for this object.
	//
	// Returns:
	//   - mesh.Mesh: the mesh, or nil if not set
	Mesh() mesh.Mesh

	// Transform returns the object's transform.
	//
	// Returns:
	//   - transform.Transform: the transform
	Transform() transform.Transform

	// Color returns the object's albedo.
	//
	// Returns:
	//   - mgl32.Vec3: RGB color
	Color() mgl32.Vec3

	// WorldMatrix returns the object's model-to-world matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	// WorldInverseTransposeMatrix returns the matrix used to transform the object's normals.
	//
	// Returns:
	//   - mgl32.Mat4: the inverse transpose of the world matrix
	WorldInverseTransposeMatrix() mgl32.Mat4

	// BoundingSphere returns a world-space sphere enclosing the object's mesh.
	//
	// Returns:
	//   - center: sphere center (the object's position)
	//   - radius: mesh bounding radius scaled by the largest scale component
	BoundingSphere() (center mgl32.Vec3, radius float32)

	// Tick advances the object's spin by dt seconds.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Tick(dt float32)

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetCastsShadow sets whether the object is drawn into shadow maps.
	//
	// Parameters:
	//   - casts: true to occlude light
	SetCastsShadow(casts bool)

	// SetMesh assigns the geometry drawn for this object.
	//
	// Parameters:
	//   - m: the mesh
	SetMesh(m mesh.Mesh)

	// SetRotationSpeed sets the spin applied by Tick.
	//
	// Parameters:
	//   - rx, ry, rz: radians per second about the local axes
	SetRotationSpeed(rx, ry, rz float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new enabled, shadow-casting GameObject at the origin.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the new object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		id:          nextID.Add(1),
		castsShadow: true,
		transform:   transform.NewTransform(),
		color:       mgl32.Vec3{0.8, 0.8, 0.8},
	}
	obj.enabled.Store(true)
	for _, opt := range options {
		opt(obj)
	}
	return obj
}

func (o *gameObject) ID() uint64 {
	return o.id
}

func (o *gameObject) Enabled() bool {
	return o.enabled.Load()
}

func (o *gameObject) CastsShadow() bool {
	return o.castsShadow
}

func (o *gameObject) Mesh() mesh.Mesh {
	return o.mesh
}

func (o *gameObject) Transform() transform.Transform {
	return o.transform
}

func (o *gameObject) Color() mgl32.Vec3 {
	return o.color
}

func (o *gameObject) WorldMatrix() mgl32.Mat4 {
	return o.transform.WorldMatrix()
}

func (o *gameObject) WorldInverseTransposeMatrix() mgl32.Mat4 {
	return o.transform.WorldInverseTransposeMatrix()
}

func (o *gameObject) BoundingSphere() (mgl32.Vec3, float32) {
	if o.mesh == nil {
		return o.transform.Position(), 0
	}
	s := o.transform.Scale()
	scale := max(abs32(s.X()), abs32(s.Y()), abs32(s.Z()))
	return o.transform.Position(), o.mesh.BoundingRadius() * scale
}

func (o *gameObject) Tick(dt float32) {
	if o.rotationSpeed == (mgl32.Vec3{}) {
		return
	}
	r := o.rotationSpeed.Mul(dt)
	o.transform.RotatePitchYawRoll(r.X(), r.Y(), r.Z())
}

func (o *gameObject) SetEnabled(enabled bool) {
	o.enabled.Store(enabled)
}

func (o *gameObject) SetCastsShadow(casts bool) {
	o.castsShadow = casts
}

func (o *gameObject) SetMesh(m mesh.Mesh) {
	o.mesh = m
}

func (o *gameObject) SetRotationSpeed(rx, ry, rz float32) {
	o.rotationSpeed = mgl32.Vec3{rx, ry, rz}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
