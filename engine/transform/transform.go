package transform

import (
	"github.com/go-gl/mathgl/mgl32"
)

// transformImpl is the implementation of the Transform interface.
type transformImpl struct {
	position mgl32.Vec3
	scale    mgl32.Vec3
	rotation mgl32.Quat

	// memoized results, valid while the matching dirty flag is false
	worldMatrix         mgl32.Mat4
	worldInverseTranspo mgl32.Mat4
	right               mgl32.Vec3
	up                  mgl32.Vec3
	forward             mgl32.Vec3
	matrixDirty         bool
	basisDirty          bool
}

// Transform owns the position, scale, and orientation of an object and derives its
// world matrix and orthonormal basis on demand.
//
// Results are memoized: WorldMatrix and the basis vectors are recomputed on the first
// read after a mutation and served from cache otherwise. The local basis is
// left-handed: +X right, +Y up, +Z forward.
type Transform interface {
	// Position returns the world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Scale returns the per-axis scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale factors
	Scale() mgl32.Vec3

	// Rotation returns the orientation quaternion.
	//
	// Returns:
	//   - mgl32.Quat: the unit orientation quaternion
	Rotation() mgl32.Quat

	// SetPosition sets the world-space position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// SetScale sets the per-axis scale.
	//
	// Parameters:
	//   - s: the new scale factors
	SetScale(s mgl32.Vec3)

	// SetRotation sets the orientation. The quaternion is normalized before storing.
	//
	// Parameters:
	//   - q: the new orientation
	SetRotation(q mgl32.Quat)

	// SetRotationAxisAngle sets the orientation to a rotation of radians about axis.
	//
	// Parameters:
	//   - axis: rotation axis (normalized before use)
	//   - radians: rotation angle
	SetRotationAxisAngle(axis mgl32.Vec3, radians float32)

	// SetPitchYawRoll sets the orientation from Euler angles in radians, applied
	// roll, then pitch, then yaw.
	//
	// Parameters:
	//   - pitch: rotation about +X
	//   - yaw: rotation about +Y
	//   - roll: rotation about +Z
	SetPitchYawRoll(pitch, yaw, roll float32)

	// MoveAbsolute offsets the position along world axes.
	//
	// Parameters:
	//   - delta: world-space offset
	MoveAbsolute(delta mgl32.Vec3)

	// MoveRelative offsets the position along the transform's own axes.
	//
	// Parameters:
	//   - delta: offset in local space (x right, y up, z forward)
	MoveRelative(delta mgl32.Vec3)

	// RotatePitchYawRoll applies an additional local rotation in radians.
	//
	// Parameters:
	//   - pitch, yaw, roll: rotation angles about the local X, Y, Z axes
	RotatePitchYawRoll(pitch, yaw, roll float32)

	// Right returns the local +X axis in world space.
	//
	// Returns:
	//   - mgl32.Vec3: unit right vector
	Right() mgl32.Vec3

	// Up returns the local +Y axis in world space.
	//
	// Returns:
	//   - mgl32.Vec3: unit up vector
	Up() mgl32.Vec3

	// Forward returns the local +Z axis in world space.
	//
	// Returns:
	//   - mgl32.Vec3: unit forward vector
	Forward() mgl32.Vec3

	// WorldMatrix returns the model matrix T * R * S.
	//
	// Returns:
	//   - mgl32.Mat4: the column-major world matrix
	WorldMatrix() mgl32.Mat4

	// WorldInverseTransposeMatrix returns the inverse transpose of the world matrix,
	// used to transform normals.
	//
	// Returns:
	//   - mgl32.Mat4: the column-major inverse transpose
	WorldInverseTransposeMatrix() mgl32.Mat4
}

var _ Transform = &transformImpl{}

// NewTransform creates a Transform at the origin with unit scale and identity rotation,
// then applies any provided options.
//
// Parameters:
//   - opts: variadic list of TransformBuilderOption functions
//
// Returns:
//   - Transform: a new Transform instance
func NewTransform(opts ...TransformBuilderOption) Transform {
	t := &transformImpl{
		position:    mgl32.Vec3{0, 0, 0},
		scale:       mgl32.Vec3{1, 1, 1},
		rotation:    mgl32.QuatIdent(),
		matrixDirty: true,
		basisDirty:  true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *transformImpl) Position() mgl32.Vec3 {
	return t.position
}

func (t *transformImpl) Scale() mgl32.Vec3 {
	return t.scale
}

func (t *transformImpl) Rotation() mgl32.Quat {
	return t.rotation
}

func (t *transformImpl) SetPosition(p mgl32.Vec3) {
	t.position = p
	t.matrixDirty = true
}

func (t *transformImpl) SetScale(s mgl32.Vec3) {
	t.scale = s
	t.matrixDirty = true
}

func (t *transformImpl) SetRotation(q mgl32.Quat) {
	t.rotation = q.Normalize()
	t.matrixDirty = true
	t.basisDirty = true
}

func (t *transformImpl) SetRotationAxisAngle(axis mgl32.Vec3, radians float32) {
	if axis.Len() == 0 {
		t.SetRotation(mgl32.QuatIdent())
		return
	}
	t.SetRotation(mgl32.QuatRotate(radians, axis.Normalize()))
}

func (t *transformImpl) SetPitchYawRoll(pitch, yaw, roll float32) {
	t.SetRotation(pitchYawRoll(pitch, yaw, roll))
}

func (t *transformImpl) MoveAbsolute(delta mgl32.Vec3) {
	t.position = t.position.Add(delta)
	t.matrixDirty = true
}

func (t *transformImpl) MoveRelative(delta mgl32.Vec3) {
	t.position = t.position.Add(t.rotation.Rotate(delta))
	t.matrixDirty = true
}

func (t *transformImpl) RotatePitchYawRoll(pitch, yaw, roll float32) {
	t.SetRotation(t.rotation.Mul(pitchYawRoll(pitch, yaw, roll)))
}

func (t *transformImpl) Right() mgl32.Vec3 {
	t.updateBasis()
	return t.right
}

func (t *transformImpl) Up() mgl32.Vec3 {
	t.updateBasis()
	return t.up
}

func (t *transformImpl) Forward() mgl32.Vec3 {
	t.updateBasis()
	return t.forward
}

func (t *transformImpl) WorldMatrix() mgl32.Mat4 {
	t.updateMatrices()
	return t.worldMatrix
}

func (t *transformImpl) WorldInverseTransposeMatrix() mgl32.Mat4 {
	t.updateMatrices()
	return t.worldInverseTranspo
}

// updateBasis recomputes the rotated basis vectors if the rotation changed.
func (t *transformImpl) updateBasis() {
	if !t.basisDirty {
		return
	}
	t.right = t.rotation.Rotate(mgl32.Vec3{1, 0, 0})
	t.up = t.rotation.Rotate(mgl32.Vec3{0, 1, 0})
	t.forward = t.rotation.Rotate(mgl32.Vec3{0, 0, 1})
	t.basisDirty = false
}

// updateMatrices recomputes the world matrix and its inverse transpose if any
// component changed.
func (t *transformImpl) updateMatrices() {
	if !t.matrixDirty {
		return
	}
	translate := mgl32.Translate3D(t.position.X(), t.position.Y(), t.position.Z())
	rotate := t.rotation.Mat4()
	scale := mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z())

	t.worldMatrix = translate.Mul4(rotate).Mul4(scale)
	t.worldInverseTranspo = t.worldMatrix.Inv().Transpose()
	t.matrixDirty = false
}

// pitchYawRoll builds the rotation roll (Z), then pitch (X), then yaw (Y).
func pitchYawRoll(pitch, yaw, roll float32) mgl32.Quat {
	qx := mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(roll, mgl32.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz)
}
